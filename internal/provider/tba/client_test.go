package tba

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestEventTeams(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a TBA API server", t, func() {
		var gotPath, gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("X-TBA-Auth-Key")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"key":"frc5940","team_number":5940,"nickname":"BREAD","city":"San Mateo"},
				{"key":"frc254","team_number":254,"nickname":"The Cheesy Poofs"}
			]`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "secret-key", 600, nil)

		convey.Convey("When fetching an event roster", func() {
			teams, err := client.EventTeams(ctx, "2024txhou")

			convey.Convey("Then the request is authenticated and routed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(gotPath, convey.ShouldEqual, "/event/2024txhou/teams")
				convey.So(gotKey, convey.ShouldEqual, "secret-key")
			})

			convey.Convey("Then the roster decodes", func() {
				convey.So(teams, convey.ShouldHaveLength, 2)
				convey.So(teams[0].TeamNumber, convey.ShouldEqual, 5940)
				convey.So(teams[0].Nickname, convey.ShouldEqual, "BREAD")
				convey.So(teams[1].Key, convey.ShouldEqual, "frc254")
			})
		})
	})

	convey.Convey("Given a server returning an error status", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"Error":"invalid auth key"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "bad-key", 600, nil)

		convey.Convey("Then the status and body surface in the error", func() {
			_, err := client.EventTeams(ctx, "2024txhou")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "401")
			convey.So(err.Error(), convey.ShouldContainSubstring, "invalid auth key")
		})
	})
}

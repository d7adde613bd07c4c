package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/scoutline/scoutline-data/internal/provider/tba"
	"github.com/scoutline/scoutline-data/internal/store"
)

// rosterStore records roster upserts and can reject specific teams.
type rosterStore struct {
	store.Store
	upserted []store.Team
	failFor  int
}

func (s *rosterStore) UpsertTeam(_ context.Context, t store.Team) error {
	if t.TeamNumber == s.failFor {
		return fmt.Errorf("deadlock detected")
	}
	s.upserted = append(s.upserted, t)
	return nil
}

func TestImportEventTeams(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	convey.Convey("Given a TBA roster for an event", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"key":"frc5940","team_number":5940,"nickname":"BREAD"},
				{"key":"frc254","team_number":254,"nickname":"The Cheesy Poofs"},
				{"key":"frc0","team_number":0,"nickname":"broken row"},
				{"key":"frc846","team_number":846,"name":"The Funky Monkeys"}
			]`))
		}))
		defer srv.Close()

		client := tba.NewClient(srv.URL, "key", 600, logger)

		convey.Convey("When importing with a healthy store", func() {
			st := &rosterStore{}
			imp := New(client, st, nil, logger)
			result, err := imp.ImportEventTeams(ctx, "2024txhou")

			convey.Convey("Then valid rows land and bad rows are reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.TeamsFetched, convey.ShouldEqual, 4)
				convey.So(result.TeamsUpserted, convey.ShouldEqual, 3)
				convey.So(result.Errors, convey.ShouldHaveLength, 1)
				convey.So(result.Errors[0], convey.ShouldContainSubstring, "frc0")
			})

			convey.Convey("Then names fall back from nickname to name", func() {
				convey.So(st.upserted[0].Name, convey.ShouldEqual, "BREAD")
				convey.So(st.upserted[2].Name, convey.ShouldEqual, "The Funky Monkeys")
				convey.So(st.upserted[0].EventKey, convey.ShouldEqual, "2024txhou")
			})
		})

		convey.Convey("When one upsert fails", func() {
			st := &rosterStore{failFor: 254}
			imp := New(client, st, nil, logger)
			result, err := imp.ImportEventTeams(ctx, "2024txhou")

			convey.Convey("Then the rest of the roster still lands", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.TeamsUpserted, convey.ShouldEqual, 2)
				convey.So(result.Errors, convey.ShouldHaveLength, 2)
				convey.So(result.Summary(), convey.ShouldContainSubstring, "errors=2")
			})
		})

		convey.Convey("When the event key is empty", func() {
			imp := New(client, &rosterStore{}, nil, logger)
			_, err := imp.ImportEventTeams(ctx, "")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

// stubStore answers a couple of methods; everything else is unreachable in
// these tests.
type stubStore struct {
	Store
	teams    []Team
	teamsErr error
}

func (s *stubStore) ListTeams(_ context.Context, _ string) ([]Team, error) {
	return s.teams, s.teamsErr
}

func (s *stubStore) GetMatch(_ context.Context, _ int64) (*MatchRecord, error) {
	return nil, ErrNotFound
}

func TestWithActivityLog(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a store wrapped with activity logging", t, func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		stub := &stubStore{teams: []Team{{TeamNumber: 5940, EventKey: "2024txhou"}}}
		wrapped := WithActivityLog(stub, logger)

		convey.Convey("When a call succeeds", func() {
			teams, err := wrapped.ListTeams(ctx, "2024txhou")
			convey.So(err, convey.ShouldBeNil)
			convey.So(teams, convey.ShouldHaveLength, 1)

			convey.Convey("Then it is logged at debug with its keys", func() {
				convey.So(buf.String(), convey.ShouldContainSubstring, "store list_teams")
				convey.So(buf.String(), convey.ShouldContainSubstring, "event=2024txhou")
				convey.So(buf.String(), convey.ShouldContainSubstring, "count=1")
				convey.So(buf.String(), convey.ShouldContainSubstring, "level=DEBUG")
			})
		})

		convey.Convey("When a call fails", func() {
			stub.teamsErr = fmt.Errorf("connection refused")
			_, err := wrapped.ListTeams(ctx, "2024txhou")
			convey.So(err, convey.ShouldNotBeNil)

			convey.Convey("Then it is logged at warn with the error", func() {
				convey.So(buf.String(), convey.ShouldContainSubstring, "level=WARN")
				convey.So(buf.String(), convey.ShouldContainSubstring, "connection refused")
			})
		})

		convey.Convey("When a lookup misses", func() {
			_, err := wrapped.GetMatch(ctx, 42)

			convey.Convey("Then the sentinel passes through unchanged", func() {
				convey.So(err, convey.ShouldEqual, ErrNotFound)
				convey.So(buf.String(), convey.ShouldContainSubstring, "store get_match")
			})
		})
	})
}

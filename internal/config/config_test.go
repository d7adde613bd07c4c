package config

import (
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	convey.Convey("Given a clean environment", t, func() {
		_ = os.Unsetenv("DATABASE_URL")
		_ = os.Unsetenv("SCOUTLINE_DATABASE_URL")
		_ = os.Unsetenv("API_PORT")
		_ = os.Unsetenv("SEASON")

		convey.Convey("When no database URL is set", func() {
			_, err := Load()
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When only defaults apply", func() {
			_ = os.Setenv("DATABASE_URL", "postgres://localhost/scoutline")
			defer os.Unsetenv("DATABASE_URL")

			cfg, err := Load()
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.APIPort, convey.ShouldEqual, 8000)
			convey.So(cfg.Season, convey.ShouldEqual, CurrentSeason)
			convey.So(cfg.RecomputeWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.CacheEnabled, convey.ShouldBeTrue)
			convey.So(cfg.IsProduction(), convey.ShouldBeFalse)
		})

		convey.Convey("When the environment overrides defaults", func() {
			_ = os.Setenv("SCOUTLINE_DATABASE_URL", "postgres://db/scoutline")
			_ = os.Setenv("API_PORT", "9001")
			_ = os.Setenv("SEASON", "2024")
			_ = os.Setenv("CORS_ALLOW_ORIGINS", "https://scout.example.org, https://pit.example.org")
			defer func() {
				_ = os.Unsetenv("SCOUTLINE_DATABASE_URL")
				_ = os.Unsetenv("API_PORT")
				_ = os.Unsetenv("SEASON")
				_ = os.Unsetenv("CORS_ALLOW_ORIGINS")
			}()

			cfg, err := Load()
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://db/scoutline")
			convey.So(cfg.APIPort, convey.ShouldEqual, 9001)
			convey.So(cfg.CORSAllowOrigins, convey.ShouldResemble,
				[]string{"https://scout.example.org", "https://pit.example.org"})
		})
	})
}

func TestWeightsForSeason(t *testing.T) {
	convey.Convey("Given the season registry", t, func() {
		convey.Convey("Then a registered season returns its own table", func() {
			w := WeightsForSeason(2024)
			convey.So(w.SpeakerNote, convey.ShouldEqual, 2)
			convey.So(w.TrapNote, convey.ShouldEqual, 5)
		})

		convey.Convey("Then an unknown season falls back to the current one", func() {
			convey.So(WeightsForSeason(1999), convey.ShouldResemble, WeightsForSeason(CurrentSeason))
		})
	})
}

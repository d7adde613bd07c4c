// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Season registry — per-season scoring weight tables
// --------------------------------------------------------------------------

// ScoringWeights maps each scoring category to its per-unit point value.
// Point values change every season with the game rules, so the aggregator
// receives a table instead of compiling constants in.
type ScoringWeights struct {
	// Auton: one weight per note position, plus the leave bonus.
	AutoPosition [9]float64
	AutoLeave    float64

	// Teleop: per scored game piece.
	SpeakerNote float64
	AmpNote     float64

	// Endgame: escalating end-state values plus per-trap-note points.
	Parked    float64
	Onstage   float64
	Spotlight float64
	Harmony   float64
	TrapNote  float64
}

type SeasonConfig struct {
	Year    int
	Game    string
	Weights ScoringWeights
}

// SeasonRegistry holds the supported seasons and their weight tables.
var SeasonRegistry = map[int]SeasonConfig{
	2024: {
		Year: 2024,
		Game: "Crescendo",
		Weights: ScoringWeights{
			AutoPosition: [9]float64{5, 5, 5, 5, 5, 5, 5, 5, 5},
			AutoLeave:    2,
			SpeakerNote:  2,
			AmpNote:      1,
			Parked:       1,
			Onstage:      3,
			Spotlight:    4,
			Harmony:      2,
			TrapNote:     5,
		},
	},
}

// CurrentSeason is the season used when a request does not specify one.
const CurrentSeason = 2024

// WeightsForSeason returns the weight table for a season, falling back to
// the current season's table for unknown years.
func WeightsForSeason(year int) ScoringWeights {
	if sc, ok := SeasonRegistry[year]; ok {
		return sc.Weights
	}
	return SeasonRegistry[CurrentSeason].Weights
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	TeamsTable       = "teams"
	MatchesTable     = "match_records"
	PitReportsTable  = "pit_reports"
	PercentagesTable = "team_percentages"
	FractionsTable   = "team_fractions"
	RankingsTable    = "team_rankings"
	ImportRunsTable  = "import_runs"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Aggregation
	Season           int
	RecomputeWorkers int

	// The Blue Alliance read API
	TBAAuthKey string

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("SCOUTLINE_DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or SCOUTLINE_DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		Season:           envInt("SEASON", CurrentSeason),
		RecomputeWorkers: envInt("RECOMPUTE_WORKERS", 4),

		TBAAuthKey: envOr("TBA_AUTH_KEY", ""),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

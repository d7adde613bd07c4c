// Command ingest is the Scoutline data ingestion CLI.
//
// Usage:
//
//	scoutline-ingest import event --key 2024txhou
//	scoutline-ingest recompute --event 2024txhou
//	scoutline-ingest recompute --event 2024txhou --team 5940
//	scoutline-ingest rankings --event 2024txhou
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline-data/internal/config"
	"github.com/scoutline/scoutline-data/internal/db"
	"github.com/scoutline/scoutline-data/internal/ingest"
	"github.com/scoutline/scoutline-data/internal/provider/tba"
	"github.com/scoutline/scoutline-data/internal/stats"
	"github.com/scoutline/scoutline-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "scoutline-ingest",
		Short: "Scoutline data ingestion CLI",
	}

	root.AddCommand(importCmd())
	root.AddCommand(recomputeCmd())
	root.AddCommand(rankingsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// import command
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import data from The Blue Alliance",
	}
	cmd.AddCommand(importEventCmd())
	return cmd
}

func importEventCmd() *cobra.Command {
	var eventKey string
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Mirror an event's team roster from TBA",
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventKey == "" {
				return fmt.Errorf("--key is required")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if cfg.TBAAuthKey == "" {
					return fmt.Errorf("TBA_AUTH_KEY is required")
				}
				client := tba.NewClient(tba.DefaultBaseURL, cfg.TBAAuthKey, 60, logger)
				st := store.WithActivityLog(store.NewPostgres(pool.Pool), logger)
				imp := ingest.New(client, st, pool, logger)

				start := time.Now()
				result, err := imp.ImportEventTeams(ctx, eventKey)
				if err != nil {
					return err
				}
				logger.Info("Import finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("import error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&eventKey, "key", "", "TBA event key (e.g. 2024txhou)")
	return cmd
}

// --------------------------------------------------------------------------
// recompute command
// --------------------------------------------------------------------------

func recomputeCmd() *cobra.Command {
	var (
		eventKey   string
		teamNumber int
		workers    int
	)
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute derived aggregates for an event or one team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventKey == "" {
				return fmt.Errorf("--event is required")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				st := store.WithActivityLog(store.NewPostgres(pool.Pool), logger)
				agg := stats.New(st, config.WeightsForSeason(cfg.Season), logger)

				if teamNumber > 0 {
					start := time.Now()
					if err := agg.Recompute(ctx, teamNumber, eventKey); err != nil {
						return err
					}
					logger.Info("Recompute finished",
						"team_number", teamNumber, "event_key", eventKey,
						"duration", time.Since(start).Round(time.Millisecond))
					return nil
				}

				if workers <= 0 {
					workers = cfg.RecomputeWorkers
				}
				result, err := agg.RecomputeAll(ctx, eventKey, workers)
				if err != nil {
					return err
				}
				logger.Info("Batch recompute finished", "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("recompute error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&eventKey, "event", "", "Event key")
	cmd.Flags().IntVar(&teamNumber, "team", 0, "Recompute only this team")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent worker count (default from config)")
	return cmd
}

// --------------------------------------------------------------------------
// rankings command
// --------------------------------------------------------------------------

func rankingsCmd() *cobra.Command {
	var eventKey string
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Print the ranked leaderboard for an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventKey == "" {
				return fmt.Errorf("--event is required")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				st := store.WithActivityLog(store.NewPostgres(pool.Pool), logger)
				agg := stats.New(st, config.WeightsForSeason(cfg.Season), logger)

				ranked, err := agg.Rankings(ctx, eventKey)
				if err != nil {
					return err
				}
				fmt.Printf("%-5s %-6s %8s %8s %8s %8s %8s\n",
					"RANK", "TEAM", "AUTO", "TELEOP", "ENDGAME", "OVERALL", "MATCHES")
				for _, r := range ranked {
					fmt.Printf("%-5d %-6d %8.1f %8.1f %8.1f %8.1f %8d\n",
						r.Rank, r.TeamNumber,
						r.AutoScore, r.TeleopScore, r.EndgameScore, r.OverallScore,
						r.MatchesPlayed)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&eventKey, "event", "", "Event key")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, DB connection, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

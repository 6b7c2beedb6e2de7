package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/adapters/vrml"
	"github.com/vrml-tools/vrml-bot/internal/app/service"
	"github.com/vrml-tools/vrml-bot/internal/infra/config"
	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
	"github.com/vrml-tools/vrml-bot/internal/infra/storage"
)

var (
	runForce       bool
	runDataDir     string
	runConcurrency int
)

var rootCmd = &cobra.Command{
	Use:           "vrml-refresh",
	Short:         "Rebuild the Discord to VRML player index",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one refresh cycle and write the player index",
	Long: `Crawl every supported game roster, resolve linked Discord accounts and
replace the player index file. Without --force nothing happens unless today
is the configured refresh day.

Examples:
  vrml-refresh run --force
  vrml-refresh run --force --data-dir /var/lib/vrml-bot --concurrency 4`,
	RunE: runRefresh,
}

func init() {
	runCmd.Flags().BoolVar(&runForce, "force", false, "Run even when today is not the refresh day")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "", "Directory holding the player index (default $DATA_DIR)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Parallel player detail fetches (default $REFRESH_CONCURRENCY)")
	rootCmd.AddCommand(runCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	cfg, err := config.Load(false)
	if err != nil {
		return err
	}
	if runDataDir != "" {
		cfg.DataDir = runDataDir
	}
	if runConcurrency > 0 {
		cfg.RefreshConcurrency = runConcurrency
	}

	log := logging.New(cfg.LogLevel, cfg.Dev)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := vrml.New(
		vrml.WithBaseURL(cfg.VRMLBaseURL),
		vrml.WithSiteURL(cfg.VRMLSiteURL),
		vrml.WithMaxAttempts(cfg.VRMLMaxAttempts),
		vrml.WithRateLimit(cfg.VRMLRPS, 1),
		vrml.WithLogger(log),
	)
	cache := storage.NewPlayerCache(storage.PlayerIndexFile{Path: cfg.PlayerIndexPath()}, log)
	svc := service.NewRefreshService(api, cache, service.RefreshConfig{
		Weekday:     cfg.RefreshWeekday,
		HourUTC:     cfg.RefreshHourUTC,
		Concurrency: cfg.RefreshConcurrency,
	}, log, nil)

	res, err := svc.RunCycle(ctx, runForce)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.Skipped {
		fmt.Fprintf(out, "Not the refresh day (%s), nothing done. Use --force to run anyway.\n", cfg.RefreshWeekday)
		return nil
	}
	fmt.Fprintf(out, "Refresh %s: %d games, %d players, %d indexed, %d dropped, %d without Discord link, took %s\n",
		res.ID, res.Games, res.Players, res.Indexed, res.Dropped, res.NoLink, res.Duration)
	fmt.Fprintf(out, "Wrote %s\n", cfg.PlayerIndexPath())
	log.Debug("refresh cli done", zap.String("cycle_id", res.ID))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/soupbench/trawler/internal/db"
	"github.com/soupbench/trawler/internal/driver"
	"github.com/soupbench/trawler/internal/ops"
	"github.com/soupbench/trawler/internal/workload"
	"github.com/soupbench/trawler/pkg/config"
	"github.com/soupbench/trawler/pkg/logging"
	"github.com/soupbench/trawler/pkg/telemetry"
)

func main() {
	app := &cli.App{
		Name:  "trawler",
		Usage: "issue a production-shaped request mix against a lobste.rs database",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "issuers",
				Aliases: []string{"i"},
				Usage:   "number of concurrent request issuers",
			},
			&cli.IntFlag{
				Name:    "runtime",
				Aliases: []string{"r"},
				Usage:   "measured benchmark runtime in seconds",
			},
			&cli.IntFlag{
				Name:  "warmup",
				Usage: "warmup time in seconds, discarded from the report",
			},
			&cli.Float64Flag{
				Name:  "reqscale",
				Usage: "request load factor",
			},
			&cli.Float64Flag{
				Name:  "memscale",
				Usage: "dataset scale factor, must match the primed dataset",
			},
			&cli.BoolFlag{
				Name:  "prime",
				Usage: "assume the dataset was just primed and skip the connectivity check",
			},
			&cli.StringFlag{
				Name:  "histogram",
				Usage: "file to write per-request-kind latency histograms to",
			},
		},
		ArgsUsage: "[DSN]",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg, c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger := logging.GetLogger()
	defer logger.Sync()

	shutdownTelemetry, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdownTelemetry()

	database, err := db.New(&cfg.Database, cfg.EffectivePoolSize(), cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	drv := driver.New(database)

	if cfg.Ops.Enabled {
		opsServer := ops.New(&cfg.Ops, database)
		go func() {
			if err := opsServer.Start(); err != nil {
				logger.Error("Ops server failed", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			opsServer.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Workload.Prime {
		// a single anonymous frontpage proves the schema is loaded
		// before the load starts
		if _, err := drv.Execute(ctx, nil, driver.Request{Kind: driver.KindFrontpage}); err != nil {
			return fmt.Errorf("connectivity check failed, is the dataset primed? %w", err)
		}
		logger.Info("Connectivity check passed")
	}

	mix := workload.NewMix(cfg.Workload.MemScale, cfg.Workload.AuthedShare)
	runner, err := workload.NewRunner(drv, mix, cfg.Workload)
	if err != nil {
		return fmt.Errorf("failed to create workload runner: %w", err)
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("workload failed: %w", err)
	}

	report.Print(os.Stdout)

	if cfg.Workload.HistogramPath != "" {
		if err := runner.WriteHistograms(cfg.Workload.HistogramPath); err != nil {
			return fmt.Errorf("failed to write histograms: %w", err)
		}
		logger.Info("Wrote latency histograms", zap.String("path", cfg.Workload.HistogramPath))
	}

	return nil
}

// applyFlags layers command-line flags over the loaded configuration.
func applyFlags(cfg *config.Config, c *cli.Context) {
	if c.Args().Present() {
		cfg.Database.DSN = c.Args().First()
	}
	if c.IsSet("issuers") {
		cfg.Workload.Issuers = c.Int("issuers")
	}
	if c.IsSet("runtime") {
		cfg.Workload.Runtime = time.Duration(c.Int("runtime")) * time.Second
	}
	if c.IsSet("warmup") {
		cfg.Workload.Warmup = time.Duration(c.Int("warmup")) * time.Second
	}
	if c.IsSet("reqscale") {
		cfg.Workload.ReqScale = c.Float64("reqscale")
	}
	if c.IsSet("memscale") {
		cfg.Workload.MemScale = c.Float64("memscale")
	}
	if c.IsSet("prime") {
		cfg.Workload.Prime = c.Bool("prime")
	}
	if c.IsSet("histogram") {
		cfg.Workload.HistogramPath = c.String("histogram")
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/download-stats/internal/core/config"
	"github.com/aevon-lab/download-stats/internal/core/source/npm"
	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/aevon-lab/download-stats/internal/core/storage/filesystem"
	"github.com/aevon-lab/download-stats/internal/core/storage/postgres"
	"github.com/aevon-lab/download-stats/internal/job"
	"github.com/aevon-lab/download-stats/internal/migrations"
	"github.com/aevon-lab/download-stats/internal/projection"
	"github.com/aevon-lab/download-stats/internal/refresh"
	"github.com/aevon-lab/download-stats/internal/server"
	"github.com/aevon-lab/download-stats/internal/syncer"
)

// backend bundles the storage capabilities of the configured store.
type backend struct {
	store  storage.DocumentStore
	runs   storage.RunRecorder
	health storage.HealthChecker
	close  func() error
}

func main() {
	configPath := flag.String("config", "dlstats.yaml", "Path to configuration file (empty for defaults and env only)")
	once := flag.Bool("once", false, "Run a single sync pass over every document and exit")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)
	slog.Info("Loaded config", "storage", cfg.Storage.Type, "source", cfg.Source.BaseURL, "once", *once)

	// 3. Initialize Storage
	be, err := openBackend(cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}
	defer be.close()

	// 4. Initialize Source and Sync Engine
	client := npm.NewClient(npm.Config{
		BaseURL:      cfg.Source.BaseURL,
		Timeout:      cfg.Source.RequestTimeout(),
		MaxRangeDays: cfg.Source.MaxRangeDays,
	})
	engine := syncer.NewEngine(client, cfg.Sync.Engine(),
		syncer.WithObserver(syncer.LogObserver(logger)),
		syncer.WithConcurrency(cfg.Sync.Concurrency),
	)
	runner := job.NewRunner(engine, be.store, be.runs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler → cancels in-flight syncs and triggers shutdown.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if *once {
		summary, err := runner.RunOnce(ctx)
		if err != nil {
			slog.Error("Sync run failed", "error", err)
			os.Exit(1)
		}
		if summary.Failed > 0 {
			be.close()
			os.Exit(2)
		}
		return
	}

	// 5. Initialize HTTP API
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), be.health, cfg.Server.Mode)
	projection.NewService(be.store, cfg.Sync.Engine()).RegisterRoutes(srv.Engine)
	refresh.NewService(runner, be.runs).RegisterRoutes(srv.Engine)

	// 6. Start Scheduler
	if cfg.Sync.Enabled {
		scheduler := job.NewScheduler(cfg.Sync.Interval(), runner)
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Sync scheduler disabled by config")
	}

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func openBackend(cfg corecfg.StorageConfig) (*backend, error) {
	switch cfg.Type {
	case "filesystem":
		repo, err := filesystem.NewRepository(cfg.Path, cfg.Manifest, filesystem.WithTotalsName(cfg.TotalsName))
		if err != nil {
			return nil, err
		}
		slog.Info("[FileSystem] Document store ready", "path", cfg.Path, "manifest", cfg.Manifest)
		return &backend{store: repo, close: func() error { return nil }}, nil

	case "postgres":
		db, err := postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunMigrations(db, cfg.AutoMigrate); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		adapter, err := postgres.NewAdapter(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return &backend{store: adapter, runs: adapter, health: adapter, close: adapter.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

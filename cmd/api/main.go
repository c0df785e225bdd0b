package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"academy-cms/internal/config"
	database "academy-cms/internal/db"
	"academy-cms/internal/logger"
	"academy-cms/internal/metrics"
	"academy-cms/internal/observability"
	"academy-cms/internal/storage"

	// Use an alias to prevent naming collisions with the 'server' variable
	apiserver "academy-cms/internal/api/server"
)

func main() {
	// 1. Setup Configuration
	cfg, err := config.Load()
	if err != nil {
		// The logger depends on config, so this is the one place we print raw.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.LogMode)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg, log)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	}

	// 2. Initialize Infrastructure
	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	// 3. Run Database Migrations and seed empty tables
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	if n, err := database.SeedSchedules(db.DB, nil); err != nil {
		log.Error("schedule seed failed", "error", err)
	} else if n > 0 {
		log.Info("seeded schedule", "rows", n)
	}
	if created, err := database.SeedAdminUser(db.DB, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Error("admin seed failed", "error", err)
	} else if created {
		log.Info("created admin user", "username", cfg.Auth.AdminUsername)
	}

	// 4. Storage
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal("storage init failed", "error", err)
	}

	// 5. Metrics and API servers
	metrics.Register()
	mux := http.NewServeMux()
	mux.Handle("/_metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.Server.MetricsPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	srv := apiserver.New(cfg, db, store, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("metrics exposed", "addr", cfg.Server.MetricsPort, "path", "/_metrics")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("api server starting", "addr", cfg.Server.Port, "auth_mode", cfg.Auth.Mode, "storage", cfg.Storage.Provider)
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
		_ = shutdownTracing(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server stopped", "error", err)
	}
	log.Info("server stopped")
}

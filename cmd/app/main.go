package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/hiredvalley/career-server-go/internal/features/progress"
	"github.com/hiredvalley/career-server-go/internal/http/routes"
	"github.com/hiredvalley/career-server-go/pkg/cache"
	"github.com/hiredvalley/career-server-go/pkg/config"
	"github.com/hiredvalley/career-server-go/pkg/database"
	"github.com/hiredvalley/career-server-go/pkg/email"
	"github.com/hiredvalley/career-server-go/pkg/jobs"
	"github.com/hiredvalley/career-server-go/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.ConnectWithRetry(ctx, cfg.Database, log, 5, 2*time.Second)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(db); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	cacheClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("redis unavailable, caching disabled", "error", err)
		cacheClient, _ = cache.NewRedisClient("", "", 0)
	}
	defer func() {
		if err := cacheClient.Close(); err != nil {
			log.Error("failed to close cache client", "error", err)
		}
	}()

	emailClient := email.NewClient(
		cfg.Email.Host, cfg.Email.Port,
		cfg.Email.Username, cfg.Email.Password,
		cfg.Email.From, cfg.Email.Secure,
	)

	progressService := progress.NewService(db, log, cfg.Progress.LegacyTouch)

	scheduler := jobs.NewScheduler(log)
	scheduler.AddJob(
		progress.NewReconcileJob(progressService, log, cfg.Progress.ReconcileWindow),
		cfg.Progress.ReconcileInterval,
	)
	scheduler.Start()
	defer scheduler.Stop()

	router := routes.Setup(routes.Dependencies{
		DB:       db,
		Cache:    cacheClient,
		Email:    emailClient,
		Config:   cfg,
		Logger:   log,
		Progress: progressService,
	})

	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Info("server starting", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	log.Info("server stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clipcap/clipcap/internal/api/handlers"
	"github.com/clipcap/clipcap/internal/api/router"
	"github.com/clipcap/clipcap/internal/billing"
	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/media"
	"github.com/clipcap/clipcap/internal/pipeline"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/validator"
	"github.com/clipcap/clipcap/internal/repository/sqlite"
	"github.com/clipcap/clipcap/internal/services"
	"github.com/clipcap/clipcap/internal/transcribe"
	"github.com/clipcap/clipcap/internal/worker"
	"github.com/clipcap/clipcap/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := sqlite.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	migrationFS, err := migrations.GetFS(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Failed to load migrations: %v", err)
	}
	if err := sqlite.RunMigrations(db, migrationFS, cfg.Database.Driver); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := os.MkdirAll(cfg.Media.WorkDir, 0o755); err != nil {
		log.Fatalf("Failed to create work directory: %v", err)
	}

	// Repositories
	accountRepo := sqlite.NewAccountRepository(db, cfg.Database.Driver)
	usageRepo := sqlite.NewUsageRepository(db, cfg.Database.Driver)

	// Services
	accountService := services.NewAccountService(accountRepo, log)
	usageService := services.NewUsageService(usageRepo, log)
	billingService := services.NewBillingService(accountService, log)

	// Pipeline collaborators
	transcoder := media.NewFFmpeg(cfg.Media.FFmpegPath, log)
	if !transcoder.Available() {
		log.Warn("ffmpeg binary not found on PATH; processing requests will fail")
	}
	engine := transcribe.NewWhisperEngine(cfg.Transcribe, log)

	pipelineService := pipeline.NewService(
		accountService, usageService, transcoder, engine, cfg.Media, log,
	)

	var verifier billing.Verifier
	if cfg.Billing.WebhookSecret != "" {
		verifier = billing.NewStripeVerifier(cfg.Billing.WebhookSecret, cfg.Billing.WebhookTolerance)
	} else {
		log.Warn("Billing webhook secret not configured; webhook events will be ignored")
	}

	val := validator.New()

	h := &router.Handlers{
		Health:  handlers.NewHealthHandler(db, log),
		Process: handlers.NewProcessHandler(pipelineService, log, cfg.Server.MaxUploadBytes),
		Webhook: handlers.NewWebhookHandler(billingService, verifier, log),
		Usage:   handlers.NewUsageHandler(accountService, usageService, log, val),
	}

	// Artifact sweeper
	sweeper := worker.NewSweeper(cfg.Media, log)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start artifact sweeper: %v", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/commercecopilot/atomic-analyzer/internal/analyzer"
	"github.com/commercecopilot/atomic-analyzer/internal/config"
	"github.com/commercecopilot/atomic-analyzer/internal/database"
	"github.com/commercecopilot/atomic-analyzer/internal/handlers"
	"github.com/commercecopilot/atomic-analyzer/internal/insights"
	"github.com/commercecopilot/atomic-analyzer/internal/metrics"
	"github.com/commercecopilot/atomic-analyzer/internal/notify"
	"github.com/commercecopilot/atomic-analyzer/internal/processdocs"
	"github.com/commercecopilot/atomic-analyzer/internal/scheduler"
	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
	"github.com/commercecopilot/atomic-analyzer/internal/signals"
	"github.com/commercecopilot/atomic-analyzer/internal/webhook"
)

const (
	serviceName = "atomic-analyzer"
	version     = "1.0.0"
)

func main() {
	configPath := pflag.String("config", "", "path to config file")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logger := setupLogging(cfg)
	logger.Info("Starting Atomic Analyzer Service",
		"service", serviceName,
		"version", version,
		"environment", cfg.Environment)

	// Setup database connection
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		logger.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// Setup repositories
	analysisRepo := database.NewAnalysisRepository(db, logger)
	webhookRepo := database.NewWebhookRepository(db, logger)
	docRepo := database.NewProcessDocRepository(db, logger)

	// Setup metrics
	m := metrics.New()

	// Site identity for payloads and signal collection
	site := webhook.SiteMeta{
		URL:          cfg.Site.URL,
		Name:         cfg.Site.Name,
		BusinessType: cfg.Site.BusinessType,
	}

	// Setup core components
	source := signals.NewSiteSource(cfg.Site, logger)
	engine := scoring.NewEngine(logger, cfg.Analysis.Parallel)
	dispatcher := webhook.NewDispatcher(cfg.Webhooks, site, webhookRepo, m, logger)
	insightsClient := insights.NewClient(cfg.Insights, logger)
	mailer := notify.NewEmailNotifier(cfg.Email, logger)
	docBuilder := processdocs.NewBuilder(docRepo, insightsClient, dispatcher, logger)

	service := analyzer.NewService(cfg.Analysis, site, source, engine,
		analysisRepo, dispatcher, mailer, m, logger)

	// Setup scheduled analysis
	sched := scheduler.New(cfg.Scheduler, service, logger)
	if err := sched.Start(); err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Setup HTTP server
	handler := handlers.New(service, insightsClient, dispatcher, webhookRepo,
		docBuilder, docRepo, m, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server cleanly", "error", err)
	}

	logger.Info("Shutdown complete")
}

// setupLogging configures structured logging
func setupLogging(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" || cfg.Environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("service", serviceName)
	slog.SetDefault(logger)
	return logger
}

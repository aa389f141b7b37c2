// Package main provides the entry point for the long-running optimizer daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/adaptive-ma/internal/config"
	"github.com/yourusername/adaptive-ma/internal/database"
	"github.com/yourusername/adaptive-ma/internal/datasource"
	"github.com/yourusername/adaptive-ma/internal/health"
	"github.com/yourusername/adaptive-ma/internal/logger"
	"github.com/yourusername/adaptive-ma/internal/metrics"
	"github.com/yourusername/adaptive-ma/internal/optimizer"
	"github.com/yourusername/adaptive-ma/internal/repository"
	"github.com/yourusername/adaptive-ma/internal/scheduler"
	"github.com/yourusername/adaptive-ma/internal/service"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Adaptive MA optimizer daemon starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection and schema
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Initialize market data source
	sourceLogger := log.New(os.Stdout, "datasource: ", log.LstdFlags)
	factory := datasource.NewFactory(cfg, sourceLogger)
	source, err := factory.NewMarketDataSource()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create market data source")
	}

	appLog.WithField("source", source.Name()).Info("Market data source initialized")

	// Build services
	ingestionLogger := log.New(os.Stdout, "ingestion: ", log.LstdFlags)
	validator := service.NewBarValidator(ingestionLogger)
	ingestionSvc := service.NewIngestionService(source, repos.PriceBar, validator, ingestionLogger)

	optConfig, err := optimizer.FromConfig(cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Invalid optimizer config")
	}
	opt, err := optimizer.New(optConfig, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create optimizer")
	}
	optimizationSvc := service.NewOptimizationService(repos.PriceBar, repos.OptimizationRecord, opt, cfg.Optimizer.Workers, appLog)

	// Schedule the daily jobs
	schedLogger := log.New(os.Stdout, "scheduler: ", log.LstdFlags)
	sched := scheduler.NewScheduler(ingestionSvc, optimizationSvc, schedLogger)

	if err := sched.ScheduleDataSync(cfg.Schedule.DataSync, cfg.MarketData.Symbols, 7); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule data sync job")
	}
	if err := sched.ScheduleOptimization(cfg.Schedule.Optimize, cfg.MarketData.Symbols, cfg.Optimizer.OutputPath); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule optimization job")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Start the health and metrics server
	healthServer := health.NewServer(health.Config{
		ServiceName:  cfg.App.Name,
		Version:      Version,
		Port:         fmt.Sprintf("%d", cfg.Metrics.Port),
		MetricsPath:  cfg.Metrics.Path,
		ServeMetrics: cfg.Metrics.Enabled,
		Logger:       appLog,
		DB:           db,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"symbols":      len(cfg.MarketData.Symbols),
		"data_sync":    cfg.Schedule.DataSync,
		"optimize":     cfg.Schedule.Optimize,
		"next_run":     sched.GetNextRun(),
		"metrics_port": cfg.Metrics.Port,
	}).Info("Daemon is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Adaptive MA optimizer daemon shut down successfully")
}

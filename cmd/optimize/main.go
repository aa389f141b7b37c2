// Package main provides the entry point for the optimization CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/adaptive-ma/internal/config"
	"github.com/yourusername/adaptive-ma/internal/database"
	"github.com/yourusername/adaptive-ma/internal/logger"
	"github.com/yourusername/adaptive-ma/internal/optimizer"
	"github.com/yourusername/adaptive-ma/internal/repository"
	"github.com/yourusername/adaptive-ma/internal/service"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		symbols     = flag.String("symbols", "", "Comma-separated symbols to optimize (default: all stored symbols)")
		startDate   = flag.String("start-date", "", "Override analysis start date (YYYY-MM-DD)")
		endDate     = flag.String("end-date", "", "Override analysis end date (YYYY-MM-DD)")
		output      = flag.String("output", "", "Override CSV output path")
		workers     = flag.Int("workers", 0, "Override worker count")
		compareBoth = flag.Bool("compare-both", false, "Backtest both MA types and keep the better result")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	applyOverrides(cfg, *startDate, *endDate, *output, *workers, *compareBoth)

	appLog := logger.NewLogger(cfg.App.LogLevel)
	ctx := context.Background()

	db := openDatabase(ctx, cfg, appLog)
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.Fatalf("Failed to initialize repositories: %v", err)
	}

	svc := buildService(cfg, repos, appLog)

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"workers":     cfg.Optimizer.Workers,
		"pairs":       len(cfg.Optimizer.Pairs),
	}).Info("Starting optimization run")

	records, err := svc.RunForSymbols(ctx, splitSymbols(*symbols))
	if err != nil {
		appLog.Fatalf("Optimization run failed: %v", err)
	}
	if err := svc.WriteReports(records, cfg.Optimizer.OutputPath); err != nil {
		appLog.Fatalf("Failed to write reports: %v", err)
	}

	appLog.WithField("records", len(records)).Info("Optimization run completed")
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			fmt.Fprintln(os.Stderr, "AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
			os.Exit(1)
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load secrets: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, startDate, endDate, output string, workers int, compareBoth bool) {
	if startDate != "" {
		cfg.Optimizer.AnalysisStart = startDate
	}
	if endDate != "" {
		cfg.Optimizer.AnalysisEnd = endDate
	}
	if output != "" {
		cfg.Optimizer.OutputPath = output
	}
	if workers > 0 {
		cfg.Optimizer.Workers = workers
	}
	if compareBoth {
		cfg.Optimizer.CompareBothTypes = true
	}
}

func splitSymbols(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}
	return symbols
}

func openDatabase(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) *database.DB {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

func buildService(cfg *config.Config, repos *repository.Repositories, appLog *logrus.Logger) *service.OptimizationService {
	optConfig, err := optimizer.FromConfig(cfg)
	if err != nil {
		appLog.Fatalf("Invalid optimizer config: %v", err)
	}
	opt, err := optimizer.New(optConfig, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create optimizer: %v", err)
	}
	return service.NewOptimizationService(repos.PriceBar, repos.OptimizationRecord, opt, cfg.Optimizer.Workers, appLog)
}

// Package main provides the entry point for the data ingestion CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/adaptive-ma/internal/config"
	"github.com/yourusername/adaptive-ma/internal/database"
	"github.com/yourusername/adaptive-ma/internal/datasource"
	"github.com/yourusername/adaptive-ma/internal/repository"
	"github.com/yourusername/adaptive-ma/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	symbolList   string
	startDateStr string
	endDateStr   string
	lookbackDays int

	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
	source datasource.DataSource
	appLog *log.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&symbolList, "symbols", "", "Comma-separated symbols to sync (default: configured symbols)")
	rootCmd.Flags().StringVar(&startDateStr, "start-date", "", "Sync window start (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&endDateStr, "end-date", "", "Sync window end (YYYY-MM-DD), defaults to today")
	rootCmd.Flags().IntVar(&lookbackDays, "lookback-days", 365, "Trailing window when no start date is given")
}

var rootCmd = &cobra.Command{
	Use:   "data-ingestion",
	Short: "Fetch daily price bars and store them in PostgreSQL",
	Long:  `Fetches daily OHLCV bars from the configured market-data provider, validates them, and upserts them into the price_bars table.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return err
		}
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = log.New(os.Stdout, "data-ingestion: ", log.LstdFlags)

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	factory := datasource.NewFactory(cfg, appLog)
	source, err = factory.NewMarketDataSource()
	if err != nil {
		return fmt.Errorf("failed to create market data source: %w", err)
	}

	return nil
}

func runSync(ctx context.Context) error {
	defer db.Close()

	startDate, endDate, err := resolveWindow()
	if err != nil {
		return err
	}
	symbols := resolveSymbols()

	appLog.Printf("Syncing %d symbols from %s to %s via %s",
		len(symbols), startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), source.Name())

	validator := service.NewBarValidator(appLog)
	svc := service.NewIngestionService(source, repos.PriceBar, validator, appLog)

	metrics, err := svc.SyncAll(ctx, symbols, startDate, endDate)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	appLog.Printf("Sync complete: %s", metrics.String())
	return nil
}

func resolveWindow() (time.Time, time.Time, error) {
	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	if endDateStr != "" {
		parsed, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
		endDate = parsed
	}

	startDate := endDate.AddDate(0, 0, -lookbackDays)
	if startDateStr != "" {
		parsed, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}
		startDate = parsed
	}
	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s must be before end date %s",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}
	return startDate, endDate, nil
}

func resolveSymbols() []string {
	if symbolList == "" {
		return cfg.MarketData.Symbols
	}
	parts := strings.Split(symbolList, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}
	return symbols
}

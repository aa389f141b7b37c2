package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath     = "testdata/valid_config.yaml"
	expansionConfigPath = "testdata/expansion_config.yaml"
	nonexistentPath     = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg  = "expected no error, got %v"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != "adaptive-ma" {
		t.Errorf("expected app name 'adaptive-ma', got '%s'", cfg.App.Name)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got '%s'", cfg.App.Environment)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}

	if len(cfg.Optimizer.Pairs) != 5 {
		t.Fatalf("expected 5 candidate pairs, got %d", len(cfg.Optimizer.Pairs))
	}

	if cfg.Optimizer.Pairs[0].Fast != 10 || cfg.Optimizer.Pairs[0].Slow != 20 {
		t.Errorf("expected first pair 10/20, got %d/%d", cfg.Optimizer.Pairs[0].Fast, cfg.Optimizer.Pairs[0].Slow)
	}

	if cfg.Backtest.MaxHoldDays != 7 {
		t.Errorf("expected max hold of 7 days, got %d", cfg.Backtest.MaxHoldDays)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("ADAPTIVE_MA_APP_NAME", "test-app")
	defer os.Unsetenv("ADAPTIVE_MA_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("expected app name 'test-app' from environment, got '%s'", cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected password from environment expansion, got '%s'", cfg.Database.Password)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply when the file is absent
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment 'development', got '%s'", cfg.App.Environment)
	}

	if cfg.Optimizer.VolatilityThreshold != 0.01 {
		t.Errorf("expected default volatility threshold 0.01, got %v", cfg.Optimizer.VolatilityThreshold)
	}

	if cfg.Backtest.CostBps != 15.0 {
		t.Errorf("expected default cost of 15 bps, got %v", cfg.Backtest.CostBps)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidPairOrdering tests rejection of a pair with fast >= slow
func TestValidateInvalidPairOrdering(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg.Optimizer.Pairs = []MAPairConfig{{Fast: 50, Slow: 20}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for inverted pair")
	}
}

// TestValidateEmptyPairs tests rejection of an empty candidate list
func TestValidateEmptyPairs(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg.Optimizer.Pairs = nil
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for empty pair list")
	}
}

// TestValidateAnalysisWindowOrdering tests rejection of start after end
func TestValidateAnalysisWindowOrdering(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg.Optimizer.AnalysisStart = "2025-01-01"
	cfg.Optimizer.AnalysisEnd = "2024-01-01"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for analysis_start after analysis_end")
	}
}

// TestValidateIdleConnectionBound tests the connection pool cross-field rule
func TestValidateIdleConnectionBound(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg.Database.MaxIdleConnections = cfg.Database.MaxConnections + 1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for idle connections exceeding pool size")
	}
}

// TestValidateProductionRequiresSSL tests the production SSL requirement
func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for SSL disabled in production")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected DSN to start with 'postgres://', got '%s'", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected DSN to carry sslmode, got '%s'", dsn)
	}
}

// TestEnvironmentHelpers tests environment check functions
func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}
	if !cfg.IsDevelopment() || cfg.IsProduction() || cfg.IsStaging() {
		t.Error("expected development environment checks")
	}

	cfg.App.Environment = "production"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("expected production environment checks")
	}

	cfg.App.Environment = "staging"
	if !cfg.IsStaging() {
		t.Error("expected staging environment check")
	}
}

// TestOverlaySecrets tests that secret values replace config fields
func TestOverlaySecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Password = "from-file"
	cfg.MarketData.APIKey = "file-key"

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "from-secrets",
	})

	if cfg.Database.Password != "from-secrets" {
		t.Errorf("expected overlaid password, got '%s'", cfg.Database.Password)
	}
	if cfg.MarketData.APIKey != "file-key" {
		t.Errorf("expected API key untouched when secret empty, got '%s'", cfg.MarketData.APIKey)
	}
}

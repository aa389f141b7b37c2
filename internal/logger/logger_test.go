package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerParsesLevel(t *testing.T) {
	logger := NewLogger("debug")
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerDefaultsToInfoOnInvalidLevel(t *testing.T) {
	logger := NewLogger("verbose")
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info fallback, got %s", logger.GetLevel())
	}
}

func TestForSymbolScopesField(t *testing.T) {
	entry := ForSymbol(NewLogger("info"), "INFY")
	if entry.Data["symbol"] != "INFY" {
		t.Fatalf("expected symbol field, got %v", entry.Data)
	}
}

package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/adaptive-ma/internal/models"
)

func sampleRecords() []*models.OptimizationRecord {
	return []*models.OptimizationRecord{
		{
			ID:             uuid.New(),
			Symbol:         "AAPL",
			Volatility:     0.0142,
			TrendStrength:  32.5,
			NoiseRatio:     67.5,
			MAType:         "EMA",
			FastWindow:     12,
			SlowWindow:     26,
			ReturnPct:      8.34,
			WinRatePct:     58.33,
			SharpeRatio:    1.21,
			MaxDrawdownPct: 4.5,
			TradeCount:     12,
			CreatedAt:      time.Now().UTC(),
		},
		{
			ID:             uuid.New(),
			Symbol:         "SPY",
			Volatility:     0.0081,
			TrendStrength:  12.0,
			NoiseRatio:     88.0,
			MAType:         "SMA",
			FastWindow:     20,
			SlowWindow:     50,
			ReturnPct:      3.12,
			WinRatePct:     62.5,
			SharpeRatio:    0.87,
			MaxDrawdownPct: 2.1,
			TradeCount:     8,
			CreatedAt:      time.Now().UTC(),
		},
	}
}

// TestWriteCSV tests CSV export with the fixed column order
func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "optimization.csv")

	if err := WriteCSV(sampleRecords(), path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse report: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	wantHeader := "Symbol,Volatility,TrendStrength,Noise,MA_Type,MA_Pair,Return,WinRate,Sharpe,MaxDD,Trades"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("unexpected header:\n got %s\nwant %s", got, wantHeader)
	}

	if rows[1][0] != "AAPL" || rows[1][4] != "EMA" || rows[1][5] != "12/26" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][10] != "8" {
		t.Errorf("expected trade count 8 in second row, got %s", rows[2][10])
	}
}

// TestWriteCSVEmpty tests that an empty result set still produces a header
func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := WriteCSV(nil, path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "Symbol,") {
		t.Errorf("expected header row, got %q", string(data))
	}
}

// TestGenerateConsoleReport tests terminal output formatting
func TestGenerateConsoleReport(t *testing.T) {
	out := GenerateConsoleReport(sampleRecords())

	for _, want := range []string{"AAPL", "SPY", "EMA 12/26", "SMA 20/50", "Best symbol: AAPL"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q:\n%s", want, out)
		}
	}
}

// TestGenerateConsoleReportEmpty tests the empty result message
func TestGenerateConsoleReportEmpty(t *testing.T) {
	out := GenerateConsoleReport(nil)
	if !strings.Contains(out, "No results") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

// TestGenerateHTMLReport tests HTML export
func TestGenerateHTMLReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	if err := GenerateHTMLReport(sampleRecords(), path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}

	html := string(data)
	if !strings.Contains(html, "<td>AAPL</td>") || !strings.Contains(html, "<td>12/26</td>") {
		t.Errorf("expected table rows in HTML output:\n%s", html)
	}
}

// TestBestRecord tests best record selection and tie-breaking
func TestBestRecord(t *testing.T) {
	records := sampleRecords()
	if best := BestRecord(records); best.Symbol != "AAPL" {
		t.Errorf("expected AAPL, got %s", best.Symbol)
	}

	records[1].SharpeRatio = records[0].SharpeRatio
	records[1].ReturnPct = records[0].ReturnPct + 1
	if best := BestRecord(records); best.Symbol != "SPY" {
		t.Errorf("expected SPY to win the tie on return, got %s", best.Symbol)
	}

	if BestRecord(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

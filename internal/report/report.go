// Package report renders optimization results as CSV, console, and HTML output.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/adaptive-ma/internal/models"
)

// csvHeader is the stable column order consumed by downstream spreadsheets
var csvHeader = []string{
	"Symbol", "Volatility", "TrendStrength", "Noise", "MA_Type", "MA_Pair",
	"Return", "WinRate", "Sharpe", "MaxDD", "Trades",
}

// WriteCSV exports optimization records to a CSV file, one row per symbol
func WriteCSV(records []*models.OptimizationRecord, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.Symbol,
			strconv.FormatFloat(record.Volatility, 'f', 6, 64),
			strconv.FormatFloat(record.TrendStrength, 'f', 2, 64),
			strconv.FormatFloat(record.NoiseRatio, 'f', 2, 64),
			record.MAType,
			record.PairString(),
			strconv.FormatFloat(record.ReturnPct, 'f', 2, 64),
			strconv.FormatFloat(record.WinRatePct, 'f', 2, 64),
			strconv.FormatFloat(record.SharpeRatio, 'f', 4, 64),
			strconv.FormatFloat(record.MaxDrawdownPct, 'f', 2, 64),
			strconv.Itoa(record.TradeCount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write report row for %s: %w", record.Symbol, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	return nil
}

// GenerateConsoleReport formats optimization results for terminal output
func GenerateConsoleReport(records []*models.OptimizationRecord) string {
	var builder strings.Builder
	builder.WriteString("Optimization Report\n")
	builder.WriteString("===================\n")

	if len(records) == 0 {
		builder.WriteString("No results.\n")
		return builder.String()
	}

	for _, record := range records {
		builder.WriteString(fmt.Sprintf("%s\n", record.Symbol))
		builder.WriteString(fmt.Sprintf("  Regime: volatility=%.4f trend=%.1f%% noise=%.1f%%\n",
			record.Volatility, record.TrendStrength, record.NoiseRatio))
		builder.WriteString(fmt.Sprintf("  Selected: %s %s\n", record.MAType, record.PairString()))
		builder.WriteString(fmt.Sprintf("  Return: %.2f%%  Win Rate: %.2f%%  Sharpe: %.2f  Max DD: %.2f%%  Trades: %d\n",
			record.ReturnPct, record.WinRatePct, record.SharpeRatio, record.MaxDrawdownPct, record.TradeCount))
	}

	best := BestRecord(records)
	builder.WriteString(fmt.Sprintf("Best symbol: %s (%s %s, sharpe %.2f)\n",
		best.Symbol, best.MAType, best.PairString(), best.SharpeRatio))

	return builder.String()
}

// GenerateHTMLReport creates a simple HTML report
func GenerateHTMLReport(records []*models.OptimizationRecord, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var rows strings.Builder
	for _, record := range records {
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%.4f</td><td>%.1f</td><td>%.1f</td><td>%s</td><td>%s</td><td>%.2f</td><td>%.2f</td><td>%.2f</td><td>%.2f</td><td>%d</td></tr>\n",
			record.Symbol, record.Volatility, record.TrendStrength, record.NoiseRatio,
			record.MAType, record.PairString(), record.ReturnPct, record.WinRatePct,
			record.SharpeRatio, record.MaxDrawdownPct, record.TradeCount,
		))
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Optimization Report</title></head>
<body>
<h1>Optimization Report</h1>
<table border="1">
<tr><th>%s</th></tr>
%s</table>
</body>
</html>`,
		strings.Join(csvHeader, "</th><th>"),
		rows.String(),
	)

	return os.WriteFile(outputPath, []byte(html), 0o644)
}

// BestRecord returns the record with the highest Sharpe ratio, breaking ties on return
func BestRecord(records []*models.OptimizationRecord) *models.OptimizationRecord {
	if len(records) == 0 {
		return nil
	}

	best := records[0]
	for _, record := range records[1:] {
		if record.SharpeRatio > best.SharpeRatio ||
			(record.SharpeRatio == best.SharpeRatio && record.ReturnPct > best.ReturnPct) {
			best = record
		}
	}
	return best
}

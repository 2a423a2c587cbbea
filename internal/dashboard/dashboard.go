// Package dashboard renders an analysis as a four-panel HTML page.
package dashboard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/guregu/null/v6"

	"valueanalyzer/internal/analysis"
	"valueanalyzer/internal/metrics"
	"valueanalyzer/internal/report"
)

const billion = 1e9

// echarts draws "-" as a gap.
const gap = "-"

// ratioPanel lists the ratios drawn in the Key Ratios panel.
var ratioPanel = []metrics.Ratio{metrics.PERatio, metrics.PBRatio, metrics.DebtToEquity, metrics.CurrentRatio}

// Render writes the dashboard page for a to w.
func Render(w io.Writer, a *analysis.Analysis, now time.Time) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Financial Analysis for %s - %s", a.Ticker, now.Format("2006-01-02"))

	page.AddCharts(
		revenueChart(a),
		ratioChart(a),
		balanceChart(a),
		priceChart(a),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

// WriteFile renders the dashboard into dir/<TICKER>_dashboard.html and returns the path.
func WriteFile(dir string, a *analysis.Analysis, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dashboard directory: %w", err)
	}

	path := filepath.Join(dir, a.Ticker+"_dashboard.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dashboard file: %w", err)
	}
	defer f.Close()

	if err := Render(f, a, now); err != nil {
		return "", err
	}
	return path, f.Close()
}

func revenueChart(a *analysis.Analysis) *charts.Bar {
	inc := a.Dataset.Income
	revenueCol := inc.Column("totalRevenue")
	netIncomeCol := inc.Column("netIncome")

	// Oldest year on the left.
	n := inc.Len()
	years := make([]string, n)
	revenue := make([]opts.BarData, n)
	netIncome := make([]opts.LineData, n)
	for i, row := range inc.Rows {
		j := n - 1 - i
		years[j] = yearOf(row.FiscalDateEnding)
		revenue[j] = opts.BarData{Value: orGap(scaled(revenueCol[i]))}
		netIncome[j] = opts.LineData{Value: orGap(scaled(netIncomeCol[i]))}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Revenue & Net Income"}))
	bar.SetXAxis(years).AddSeries("Revenue ($B)", revenue)

	line := charts.NewLine()
	line.SetXAxis(years).AddSeries("Net Income ($B)", netIncome)
	bar.Overlap(line)
	return bar
}

func ratioChart(a *analysis.Analysis) *charts.Bar {
	names := make([]string, len(ratioPanel))
	values := make([]opts.BarData, len(ratioPanel))
	for i, r := range ratioPanel {
		names[i] = string(r)
		values[i] = opts.BarData{Value: orGap(a.Metrics.Get(r))}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Key Ratios"}))
	bar.SetXAxis(names).AddSeries("Ratios", values)
	return bar
}

func balanceChart(a *analysis.Analysis) *charts.Pie {
	bs := a.Dataset.Balance
	parts := []struct {
		name  string
		field string
	}{
		{"Assets", "totalAssets"},
		{"Liabilities", "totalLiabilities"},
		{"Equity", "totalShareholderEquity"},
	}

	items := make([]opts.PieData, len(parts))
	for i, c := range parts {
		// Missing slices are drawn as zero.
		items[i] = opts.PieData{Name: c.name, Value: scaled(bs.LatestValue(c.field)).ValueOrZero()}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Balance Sheet Composition"}))
	pie.AddSeries("Balance Sheet ($B)", items)
	return pie
}

func priceChart(a *analysis.Analysis) *charts.Line {
	dates, closes := a.Dataset.Price.LastYears(report.PriceWindowYears).Closes()

	days := make([]string, len(dates))
	points := make([]opts.LineData, len(closes))
	for i := range dates {
		days[i] = dates[i].Format("2006-01-02")
		points[i] = opts.LineData{Value: closes[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Stock Price History"}))
	line.SetXAxis(days).AddSeries("Stock Price", points)
	return line
}

func scaled(v null.Float) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(v.Float64 / billion)
}

func orGap(v null.Float) any {
	if !v.Valid {
		return gap
	}
	return v.Float64
}

func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"valueanalyzer/internal/analysis"
	"valueanalyzer/internal/dataset"
	"valueanalyzer/internal/fetcher"
	"valueanalyzer/internal/metrics"
)

// Final status lines.
const (
	StatusComplete = "Analysis complete"
	StatusFailed   = "Failed to fetch financial data"
)

// PriceWindowYears is the look-back used for the price summary and chart.
const PriceWindowYears = 5

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	signal  lipgloss.Style
	failure lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		signal:  r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	}
}

// Print writes the human readable summary of a successful analysis.
func Print(w io.Writer, a *analysis.Analysis) {
	st := newStyles(w)
	ov := a.Dataset.Overview

	fmt.Fprintln(w, st.title.Render("Analysis for "+a.Ticker))

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.section.Render("Company Overview:"))
	fmt.Fprintf(w, "Name: %s\n", ov.GetOr("Name", "N/A"))
	fmt.Fprintf(w, "Sector: %s\n", ov.GetOr("Sector", "N/A"))
	fmt.Fprintf(w, "Market Cap: %s\n", marketCap(ov))

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.section.Render("Key Financial Metrics:"))
	for _, name := range metrics.Ratios() {
		v := a.Metrics.Get(name)
		if !v.Valid {
			continue
		}
		fmt.Fprintf(w, "%s: %.2f\n", name.Label(), v.Float64)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.section.Render("Value Investing Assessment:"))
	for _, s := range a.Signals {
		fmt.Fprintln(w, st.signal.Render("- "+s.Message))
	}

	if ps, ok := SummarizePrices(a.Dataset.Price.LastYears(PriceWindowYears)); ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.section.Render(fmt.Sprintf("Price History (%d years):", PriceWindowYears)))
		fmt.Fprintf(w, "Period: %s to %s (%d trading days)\n",
			ps.From.Format("2006-01-02"), ps.To.Format("2006-01-02"), ps.Days)
		fmt.Fprintf(w, "Close: %.2f -> %.2f (%+.2f%%)\n", ps.First, ps.Last, ps.ReturnPct)
		fmt.Fprintf(w, "Range: %.2f - %.2f, mean %.2f, stddev %.2f\n", ps.Min, ps.Max, ps.Mean, ps.StdDev)
	}
}

// PrintFailure writes the single diagnostic line and the failure status.
func PrintFailure(w io.Writer, err error) {
	st := newStyles(w)
	fmt.Fprintln(w, st.failure.Render("Error: "+Diagnose(err)))
	fmt.Fprintln(w, StatusFailed)
}

// Diagnose condenses err into one line naming the failed kinds.
func Diagnose(err error) string {
	var agg *dataset.AggregationError
	if !errors.As(err, &agg) {
		return err.Error()
	}

	msg := "could not retrieve"
	for i, k := range agg.Kinds() {
		sep := ","
		if i == 0 {
			sep = ""
		}
		msg += fmt.Sprintf("%s %s (%s)", sep, k, reason(agg.Failures[k]))
	}
	return msg
}

func reason(err error) string {
	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		return err.Error()
	}
	if notice := fetcher.UpstreamNotice(fe.Payload); notice != "" {
		return "upstream notice: " + notice
	}
	if fe.StatusCode > 0 {
		return fmt.Sprintf("%s, HTTP %d", fe.Type, fe.StatusCode)
	}
	return string(fe.Type)
}

func marketCap(ov dataset.Overview) string {
	v := ov.Float("MarketCapitalization")
	if !v.Valid {
		return "N/A"
	}
	return "$" + humanize.Comma(int64(v.Float64))
}

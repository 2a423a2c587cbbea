package report

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"valueanalyzer/internal/dataset"
)

// PriceSummary describes closing prices over a window.
type PriceSummary struct {
	From, To  time.Time
	Days      int
	First     float64
	Last      float64
	Min       float64
	Max       float64
	Mean      float64
	StdDev    float64
	ReturnPct float64
}

// SummarizePrices computes close statistics; ok is false without closes.
func SummarizePrices(p dataset.PriceSeries) (s PriceSummary, ok bool) {
	dates, closes := p.Closes()
	if len(closes) == 0 {
		return PriceSummary{}, false
	}

	s = PriceSummary{
		From:  dates[0],
		To:    dates[len(dates)-1],
		Days:  len(closes),
		First: closes[0],
		Last:  closes[len(closes)-1],
		Min:   floats.Min(closes),
		Max:   floats.Max(closes),
		Mean:  stat.Mean(closes, nil),
	}
	if len(closes) > 1 {
		s.StdDev = stat.StdDev(closes, nil)
	}
	if s.First != 0 {
		s.ReturnPct = (s.Last/s.First - 1) * 100
	}
	return s, true
}

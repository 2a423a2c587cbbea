package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"valueanalyzer/internal/fetcher"
)

// PriceBar is one trading day of the daily series.
type PriceBar struct {
	Date   time.Time
	Open   null.Float
	High   null.Float
	Low    null.Float
	Close  null.Float
	Volume null.Float
}

// Day returns the bar's date as YYYY-MM-DD, the key the upstream uses.
func (b PriceBar) Day() string {
	return b.Date.Format(dateLayout)
}

// PriceSeries is the daily price history ordered by date, oldest first.
type PriceSeries struct {
	bars []PriceBar
}

// NewPriceSeries sorts bars by date and returns the series.
func NewPriceSeries(bars []PriceBar) PriceSeries {
	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return PriceSeries{bars: sorted}
}

// Len returns the number of trading days.
func (p PriceSeries) Len() int {
	return len(p.bars)
}

// Bars returns a copy of the bars, oldest first.
func (p PriceSeries) Bars() []PriceBar {
	out := make([]PriceBar, len(p.bars))
	copy(out, p.bars)
	return out
}

// Latest returns the most recent bar.
func (p PriceSeries) Latest() (PriceBar, bool) {
	if len(p.bars) == 0 {
		return PriceBar{}, false
	}
	return p.bars[len(p.bars)-1], true
}

// LastYears returns the bars dated strictly after the latest date minus
// years*365 days.
func (p PriceSeries) LastYears(years int) PriceSeries {
	latest, ok := p.Latest()
	if !ok {
		return PriceSeries{}
	}
	cutoff := latest.Date.AddDate(0, 0, -365*years)
	i := sort.Search(len(p.bars), func(i int) bool { return p.bars[i].Date.After(cutoff) })
	return PriceSeries{bars: p.bars[i:]}
}

// Closes returns the dates and closing prices of bars that have a close.
func (p PriceSeries) Closes() ([]time.Time, []float64) {
	dates := make([]time.Time, 0, len(p.bars))
	closes := make([]float64, 0, len(p.bars))
	for _, b := range p.bars {
		if b.Close.Valid {
			dates = append(dates, b.Date)
			closes = append(closes, b.Close.Float64)
		}
	}
	return dates, closes
}

func parsePriceSeries(raw fetcher.RawResponse) (PriceSeries, error) {
	series, ok := raw["Time Series (Daily)"].(map[string]any)
	if !ok {
		if raw["Time Series (Daily)"] == nil {
			// JSON null: no trading days, same as a null annualReports list.
			return PriceSeries{}, nil
		}
		return PriceSeries{}, fmt.Errorf("Time Series (Daily) is %T, want an object", raw["Time Series (Daily)"])
	}

	bars := make([]PriceBar, 0, len(series))
	for day, v := range series {
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			return PriceSeries{}, fmt.Errorf("invalid trading day %q: %w", day, err)
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return PriceSeries{}, fmt.Errorf("bar %s is %T, want an object", day, v)
		}
		bars = append(bars, PriceBar{
			Date:   date,
			Open:   ParseNumber(obj["1. open"]),
			High:   ParseNumber(obj["2. high"]),
			Low:    ParseNumber(obj["3. low"]),
			Close:  ParseNumber(obj["4. close"]),
			Volume: ParseNumber(obj["5. volume"]),
		})
	}
	return NewPriceSeries(bars), nil
}

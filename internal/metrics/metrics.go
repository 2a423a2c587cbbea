// Package metrics derives valuation ratios from a complete dataset.
//
// Every input and output is a null.Float so that "not computable" is a
// checked state. NaN only appears at the edge, in Result.Float, for
// consumers that want the float sentinel.
//
// Statement ratios use the most recent fiscal period. The dataset guarantees
// that index 0 is the newest period by fiscalDateEnding.
package metrics

import (
	"math"
	"strings"

	"github.com/guregu/null/v6"

	"valueanalyzer/internal/dataset"
)

// Ratio names a derived metric.
type Ratio string

const (
	PERatio       Ratio = "PE_Ratio"
	PBRatio       Ratio = "PB_Ratio"
	DebtToEquity  Ratio = "Debt_to_Equity"
	CurrentRatio  Ratio = "Current_Ratio"
	ROE           Ratio = "ROE"
	GrossMargin   Ratio = "Gross_Margin"
	EPS           Ratio = "EPS"
	DividendYield Ratio = "Dividend_Yield"
)

// Ratios returns every ratio in display order.
func Ratios() []Ratio {
	return []Ratio{PERatio, PBRatio, DebtToEquity, CurrentRatio, ROE, GrossMargin, EPS, DividendYield}
}

// Label is the human readable name, e.g. "Debt to Equity".
func (r Ratio) Label() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// Result maps each ratio to its value; an invalid null.Float means missing.
type Result map[Ratio]null.Float

// Get returns the ratio, missing if it was not computed.
func (r Result) Get(name Ratio) null.Float {
	return r[name]
}

// Float returns the ratio or NaN when missing.
func (r Result) Float(name Ratio) float64 {
	v := r[name]
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Missing returns the ratios that could not be computed, in display order.
func (r Result) Missing() []Ratio {
	var out []Ratio
	for _, name := range Ratios() {
		if !r[name].Valid {
			out = append(out, name)
		}
	}
	return out
}

// Compute derives all ratios from ds. It has no side effects and always
// returns an entry for every ratio.
func Compute(ds *dataset.Dataset) Result {
	bs, inc, ov := ds.Balance, ds.Income, ds.Overview

	// DividendYield is a fraction upstream; reported as a percentage.
	dividendYield := scale(ov.Float("DividendYield"), 100)

	return Result{
		PERatio:       ov.Float("PERatio"),
		PBRatio:       ov.Float("PriceToBookRatio"),
		DebtToEquity:  divide(bs.LatestValue("totalLiabilities"), bs.LatestValue("totalShareholderEquity")),
		CurrentRatio:  divide(bs.LatestValue("totalCurrentAssets"), bs.LatestValue("totalCurrentLiabilities")),
		ROE:           divide(inc.LatestValue("netIncome"), bs.LatestValue("totalShareholderEquity")),
		GrossMargin:   divide(inc.LatestValue("grossProfit"), inc.LatestValue("totalRevenue")),
		EPS:           ov.Float("EPS"),
		DividendYield: dividendYield,
	}
}

// divide returns num/den, missing when either side is missing or den is zero.
func divide(num, den null.Float) null.Float {
	if !num.Valid || !den.Valid || den.Float64 == 0 {
		return null.Float{}
	}
	q := num.Float64 / den.Float64
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return null.Float{}
	}
	return null.FloatFrom(q)
}

func scale(v null.Float, factor float64) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(v.Float64 * factor)
}

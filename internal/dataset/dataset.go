package dataset

import (
	"fmt"
	"strings"

	"valueanalyzer/internal/fetcher"
	"valueanalyzer/internal/logger"
)

// Dataset is the complete, typed result of one acquisition. A Dataset only
// exists when all five kinds were fetched, validated and shaped; partial
// results are reported as an *AggregationError instead.
type Dataset struct {
	Income   Statement
	Balance  Statement
	Cash     Statement
	Overview Overview
	Price    PriceSeries
}

// Symbol returns the ticker reported by the overview.
func (d *Dataset) Symbol() string {
	return d.Overview.GetOr("Symbol", "")
}

// setStatement stores st in the slot for its kind.
func (d *Dataset) setStatement(st Statement) {
	switch st.Kind {
	case fetcher.KindIncome:
		d.Income = st
	case fetcher.KindBalance:
		d.Balance = st
	case fetcher.KindCash:
		d.Cash = st
	}
}

// AggregationError reports which kinds prevented a dataset from being built.
type AggregationError struct {
	Failures map[fetcher.Kind]error
}

// Kinds returns the failed kinds in canonical order.
func (e *AggregationError) Kinds() []fetcher.Kind {
	var out []fetcher.Kind
	for _, k := range fetcher.Kinds() {
		if _, ok := e.Failures[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (e *AggregationError) Error() string {
	kinds := e.Kinds()
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s (%v)", k, e.Failures[k]))
	}
	return fmt.Sprintf("aggregation failed for %d of %d kinds: %s",
		len(kinds), len(fetcher.Kinds()), strings.Join(parts, "; "))
}

// Unwrap exposes the per-kind errors to errors.Is and errors.As.
func (e *AggregationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, k := range e.Kinds() {
		errs = append(errs, e.Failures[k])
	}
	return errs
}

// Aggregate shapes every outcome into its typed form and combines them.
// Any failed, missing or unshapeable kind fails the whole aggregation.
func Aggregate(outcomes fetcher.Outcomes) (*Dataset, error) {
	failures := make(map[fetcher.Kind]error)
	for _, k := range fetcher.Kinds() {
		out, ok := outcomes[k]
		switch {
		case !ok:
			failures[k] = fmt.Errorf("no outcome")
		case out.Err != nil:
			failures[k] = out.Err
		case out.Response == nil:
			failures[k] = fetcher.Validate(k, nil)
		}
	}
	if len(failures) > 0 {
		return nil, aggregationFailed(failures)
	}

	ds := &Dataset{}
	for _, k := range fetcher.Kinds() {
		raw := outcomes[k].Response
		var err error

		switch {
		case k.IsStatement():
			var st Statement
			var reordered bool
			st, reordered, err = parseStatement(k, raw)
			if reordered {
				logger.L().Warn().Str("kind", string(k)).Msg("annual reports were not newest-first; reordered by fiscalDateEnding")
			}
			ds.setStatement(st)
		case k == fetcher.KindOverview:
			ds.Overview = parseOverview(raw)
		case k == fetcher.KindPrice:
			ds.Price, err = parsePriceSeries(raw)
		}

		if err != nil {
			failures[k] = fetcher.NewValidationError(k, raw, err.Error())
		}
	}
	if len(failures) > 0 {
		return nil, aggregationFailed(failures)
	}

	return ds, nil
}

func aggregationFailed(failures map[fetcher.Kind]error) error {
	err := &AggregationError{Failures: failures}
	logger.L().Error().Strs("failed_kinds", kindStrings(err.Kinds())).Msg("aggregation failed")
	return err
}

func kindStrings(kinds []fetcher.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"valueanalyzer/internal/fetcher"
)

const dateLayout = "2006-01-02"

// Fields kept as text rather than parsed as numbers.
const (
	FieldFiscalDateEnding = "fiscalDateEnding"
	FieldReportedCurrency = "reportedCurrency"
)

// Row is one fiscal period of a statement.
type Row struct {
	FiscalDateEnding string
	ReportedCurrency string
	Values           map[string]null.Float
}

// Value returns the line item named field, missing if absent.
func (r Row) Value(field string) null.Float {
	return r.Values[field]
}

// FiscalDate parses FiscalDateEnding.
func (r Row) FiscalDate() (time.Time, bool) {
	t, err := time.Parse(dateLayout, r.FiscalDateEnding)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Statement is an annual financial statement, most recent period first.
type Statement struct {
	Kind fetcher.Kind
	Rows []Row
}

// Len returns the number of periods.
func (s Statement) Len() int {
	return len(s.Rows)
}

// Latest returns the most recent period, if any.
func (s Statement) Latest() (Row, bool) {
	if len(s.Rows) == 0 {
		return Row{}, false
	}
	return s.Rows[0], true
}

// LatestValue returns field from the most recent period; missing when the
// statement has no rows.
func (s Statement) LatestValue(field string) null.Float {
	row, ok := s.Latest()
	if !ok {
		return null.Float{}
	}
	return row.Value(field)
}

// Column returns field for every period, newest first.
func (s Statement) Column(field string) []null.Float {
	out := make([]null.Float, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Value(field)
	}
	return out
}

// parseStatement shapes an "annualReports" list. The result is sorted newest
// first by fiscalDateEnding; reordered reports whether the upstream order had
// to be corrected.
func parseStatement(kind fetcher.Kind, raw fetcher.RawResponse) (st Statement, reordered bool, err error) {
	list, ok := raw["annualReports"].([]any)
	if !ok {
		if raw["annualReports"] == nil {
			// JSON null: treat as an empty list.
			return Statement{Kind: kind}, false, nil
		}
		return Statement{}, false, fmt.Errorf("annualReports is %T, want a list", raw["annualReports"])
	}

	rows := make([]Row, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return Statement{}, false, fmt.Errorf("annualReports[%d] is %T, want an object", i, item)
		}
		rows = append(rows, parseRow(obj))
	}

	reordered = sortNewestFirst(rows)
	return Statement{Kind: kind, Rows: rows}, reordered, nil
}

func parseRow(obj map[string]any) Row {
	row := Row{Values: make(map[string]null.Float, len(obj))}
	for k, v := range obj {
		switch k {
		case FieldFiscalDateEnding:
			row.FiscalDateEnding, _ = v.(string)
		case FieldReportedCurrency:
			row.ReportedCurrency, _ = v.(string)
		default:
			row.Values[k] = ParseNumber(v)
		}
	}
	return row
}

// sortNewestFirst orders rows by fiscal date descending, rows with an
// unparsable date last, and reports whether anything moved.
func sortNewestFirst(rows []Row) bool {
	less := func(a, b Row) bool {
		ta, okA := a.FiscalDate()
		tb, okB := b.FiscalDate()
		switch {
		case okA && okB:
			return ta.After(tb)
		case okA:
			return true
		default:
			return false
		}
	}

	sorted := sort.SliceIsSorted(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	if sorted {
		return false
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return true
}

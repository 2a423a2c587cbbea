package fetcher

// Kind identifies one of the five financial-data categories fetched per analysis run.
type Kind string

const (
	KindIncome   Kind = "income"
	KindBalance  Kind = "balance"
	KindCash     Kind = "cash"
	KindOverview Kind = "overview"
	KindPrice    Kind = "price"
)

// Kinds returns every kind in canonical order.
// The order only matters for reporting; fetches are issued without any ordering.
func Kinds() []Kind {
	return []Kind{KindIncome, KindBalance, KindCash, KindOverview, KindPrice}
}

// RequiredKey returns the top-level key a well-formed response of this kind must contain.
func (k Kind) RequiredKey() string {
	switch k {
	case KindIncome, KindBalance, KindCash:
		return "annualReports"
	case KindOverview:
		return "Symbol"
	case KindPrice:
		return "Time Series (Daily)"
	default:
		return ""
	}
}

// IsStatement reports whether the kind is one of the three annual financial statements.
func (k Kind) IsStatement() bool {
	return k == KindIncome || k == KindBalance || k == KindCash
}

package dataset

import (
	"fmt"

	"github.com/guregu/null/v6"

	"valueanalyzer/internal/fetcher"
)

// Overview is the flat company overview record (Symbol, Name, Sector, PERatio, ...).
type Overview map[string]string

// Get returns the raw text of key.
func (o Overview) Get(key string) (string, bool) {
	v, ok := o[key]
	return v, ok
}

// GetOr returns the text of key, or def when it is absent, empty or "None".
func (o Overview) GetOr(key, def string) string {
	v, ok := o.Get(key)
	if !ok || v == "" || v == "None" {
		return def
	}
	return v
}

// Float parses key as a number, missing when absent or "None".
func (o Overview) Float(key string) null.Float {
	v, ok := o.Get(key)
	if !ok {
		return null.Float{}
	}
	return ParseNumber(v)
}

func parseOverview(raw fetcher.RawResponse) Overview {
	o := make(Overview, len(raw))
	for k, v := range raw {
		switch x := v.(type) {
		case nil:
			o[k] = "None"
		case string:
			o[k] = x
		case float64, bool:
			o[k] = fmt.Sprint(x)
		}
	}
	return o
}

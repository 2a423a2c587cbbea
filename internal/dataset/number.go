package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
)

// ParseNumber converts an upstream cell into an optional float.
// Alpha Vantage sends numbers as strings and uses "None" (sometimes "-" or "")
// for values it does not have; those, and anything unparsable, are missing.
func ParseNumber(v any) null.Float {
	switch x := v.(type) {
	case nil:
		return null.Float{}
	case float64:
		return finite(x)
	case string:
		s := strings.TrimSpace(x)
		switch s {
		case "", "None", "none", "-", "N/A":
			return null.Float{}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return null.Float{}
		}
		return finite(f)
	default:
		return null.Float{}
	}
}

func finite(f float64) null.Float {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

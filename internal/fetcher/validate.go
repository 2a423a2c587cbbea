package fetcher

import "fmt"

// Validate checks that resp has the shape required for kind.
//
// Statements need "annualReports", the overview needs "Symbol" and the daily
// price series needs "Time Series (Daily)". Nothing else is inspected: a
// response missing its key fails even if it is otherwise well formed, and a
// nil response always fails. The returned error carries resp as its Payload.
func Validate(kind Kind, resp RawResponse) error {
	key := kind.RequiredKey()
	if key == "" {
		return NewValidationError(kind, resp, fmt.Sprintf("unknown data kind %q", kind))
	}
	if resp == nil {
		return NewValidationError(kind, nil, "empty response")
	}
	if !resp.Has(key) {
		return NewValidationError(kind, resp, fmt.Sprintf("missing required key %q", key))
	}
	return nil
}

// UpstreamNotice returns the informational message Alpha Vantage sends instead
// of data when a call is throttled or rejected ("Note", "Information" or
// "Error Message"), or "" if the payload has none.
func UpstreamNotice(resp RawResponse) string {
	for _, key := range []string{"Note", "Information", "Error Message"} {
		if v, ok := resp[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

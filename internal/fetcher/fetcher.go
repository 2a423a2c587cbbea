package fetcher

import "context"

// RawResponse is a decoded JSON object as returned by the upstream API.
// A nil RawResponse means nothing usable was received.
type RawResponse map[string]any

// Has reports whether the response carries the given top-level key.
func (r RawResponse) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r[key]
	return ok
}

// RequestDescriptor describes one upstream request. Descriptors are built once
// per analysis run and never mutated afterwards.
type RequestDescriptor struct {
	Kind Kind

	// Function is the upstream function name (e.g. INCOME_STATEMENT), kept
	// separately from URL so it can be logged without leaking the API key.
	Function string

	// URL is the absolute endpoint, query string included.
	URL string
}

// Fetcher is the capability "fetch(kind, ticker) -> JSON object or transport failure".
// Implementations must be safe for concurrent use: the coordinator calls Fetch
// from one goroutine per descriptor.
type Fetcher interface {
	// Fetch performs a single request and decodes its body.
	// Any transport problem (network, timeout, HTTP status, malformed JSON)
	// is returned as a *FetchError.
	Fetch(ctx context.Context, req RequestDescriptor) (RawResponse, error)
}

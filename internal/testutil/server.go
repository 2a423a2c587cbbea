package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeAlphaVantage serves fixture bodies keyed by the "function" query parameter.
type FakeAlphaVantage struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	hits     map[string]int
}

// NewAlphaVantageServer starts a fake API that answers every function with the
// canonical fixtures. The server is closed when the test ends.
func NewAlphaVantageServer(t *testing.T) *FakeAlphaVantage {
	t.Helper()

	f := &FakeAlphaVantage{
		bodies: map[string]string{
			"INCOME_STATEMENT":  IncomeJSON,
			"BALANCE_SHEET":     BalanceJSON,
			"CASH_FLOW":         CashJSON,
			"OVERVIEW":          OverviewJSON,
			"TIME_SERIES_DAILY": PriceJSON,
		},
		statuses: map[string]int{},
		hits:     map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// SetBody overrides the body returned for function.
func (f *FakeAlphaVantage) SetBody(function, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[function] = body
}

// SetStatus makes function answer with status and an empty body.
func (f *FakeAlphaVantage) SetStatus(function string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[function] = status
}

// Hits returns how many times function was requested.
func (f *FakeAlphaVantage) Hits(function string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[function]
}

func (f *FakeAlphaVantage) serve(w http.ResponseWriter, r *http.Request) {
	function := r.URL.Query().Get("function")

	f.mu.Lock()
	f.hits[function]++
	status, hasStatus := f.statuses[function]
	body, hasBody := f.bodies[function]
	f.mu.Unlock()

	if hasStatus {
		w.WriteHeader(status)
		return
	}
	if !hasBody {
		body = `{"Error Message": "Invalid API call."}`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

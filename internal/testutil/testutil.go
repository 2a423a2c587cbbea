package testutil

import (
	"context"

	"valueanalyzer/internal/fetcher"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error)
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, req)
	}
	return nil, nil
}

// NewMockFetcher returns a fetcher that answers each kind from responses and
// errs. A kind present in neither yields (nil, nil).
func NewMockFetcher(responses map[fetcher.Kind]fetcher.RawResponse, errs map[fetcher.Kind]error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error) {
			if err, ok := errs[req.Kind]; ok {
				return nil, err
			}
			return responses[req.Kind], nil
		},
	}
}

// Descriptors returns one descriptor per kind with placeholder URLs.
func Descriptors() []fetcher.RequestDescriptor {
	reqs := make([]fetcher.RequestDescriptor, 0, 5)
	for _, k := range fetcher.Kinds() {
		reqs = append(reqs, fetcher.RequestDescriptor{
			Kind:     k,
			Function: string(k),
			URL:      "http://localhost/" + string(k),
		})
	}
	return reqs
}

package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valueanalyzer/internal/fetcher"
)

func TestNewClient(t *testing.T) {
	c := NewClient("test_api_key", "https://www.alphavantage.co/query", nil)

	require.NotNil(t, c)
	assert.Equal(t, "test_api_key", c.apiKey)
	assert.NotNil(t, c.client)
}

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"aapl", "AAPL", false},
		{"  msft ", "MSFT", false},
		{"BRK.B", "BRK.B", false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTicker(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Requests(t *testing.T) {
	c := NewClient("secret", "https://www.alphavantage.co/query", nil)

	reqs, err := c.Requests("ibm")
	require.NoError(t, err)
	require.Len(t, reqs, 5)

	var kinds []fetcher.Kind
	for _, r := range reqs {
		kinds = append(kinds, r.Kind)

		u, err := url.Parse(r.URL)
		require.NoError(t, err, "descriptor URL %q", r.URL)
		q := u.Query()

		assert.Equal(t, Function(r.Kind), q.Get("function"), "%s function", r.Kind)
		assert.Equal(t, r.Function, q.Get("function"), "%s descriptor function", r.Kind)
		assert.Equal(t, "IBM", q.Get("symbol"), "%s symbol", r.Kind)
		assert.Equal(t, "secret", q.Get("apikey"), "%s apikey", r.Kind)

		wantSize := ""
		if r.Kind == fetcher.KindPrice {
			wantSize = "full"
		}
		assert.Equal(t, wantSize, q.Get("outputsize"), "%s outputsize", r.Kind)
	}
	assert.ElementsMatch(t, fetcher.Kinds(), kinds)
}

func TestClient_Requests_EmptyTicker(t *testing.T) {
	c := NewClient("secret", "https://www.alphavantage.co/query", nil)

	_, err := c.Requests(" ")
	assert.Error(t, err)
}

func TestClient_Fetch_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Symbol": "IBM", "PERatio": "22.5"}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	c := NewClient("test_key", server.URL, nil)
	raw, err := c.Fetch(context.Background(), mustRequest(t, c, fetcher.KindOverview))
	require.NoError(t, err)
	assert.Equal(t, "IBM", raw["Symbol"])
}

func TestClient_Fetch_HTTPErrors(t *testing.T) {
	tests := []struct {
		status   int
		wantType fetcher.ErrorType
	}{
		{http.StatusInternalServerError, fetcher.ErrorTypeServer},
		{http.StatusTooManyRequests, fetcher.ErrorTypeRateLimit},
		{http.StatusForbidden, fetcher.ErrorTypeClient},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := NewClient("test_key", server.URL, nil)
			_, err := c.Fetch(context.Background(), mustRequest(t, c, fetcher.KindIncome))

			var fe *fetcher.FetchError
			require.True(t, errors.As(err, &fe), "error = %v", err)
			assert.Equal(t, tt.wantType, fe.Type)
			assert.Equal(t, fetcher.KindIncome, fe.Kind)
			assert.Equal(t, tt.status, fe.StatusCode)
		})
	}
}

func TestClient_Fetch_MalformedJSON(t *testing.T) {
	bodies := []string{`<html>busy</html>`, `[1,2,3]`, `null`, ``}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(body))
			}))
			defer server.Close()

			c := NewClient("test_key", server.URL, nil)
			_, err := c.Fetch(context.Background(), mustRequest(t, c, fetcher.KindPrice))

			var fe *fetcher.FetchError
			require.True(t, errors.As(err, &fe), "error = %v", err)
			assert.Equal(t, fetcher.ErrorTypeDecode, fe.Type)
			assert.True(t, fe.IsTransport(), "decode failure should count as a transport failure")
		})
	}
}

func TestClient_Fetch_RateLimitNoteIsNotATransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Note": "Our standard API call frequency is 5 calls per minute."}`))
	}))
	defer server.Close()

	c := NewClient("test_key", server.URL, nil)
	raw, err := c.Fetch(context.Background(), mustRequest(t, c, fetcher.KindIncome))
	require.NoError(t, err)

	// The shape check is the validator's job.
	assert.Error(t, fetcher.Validate(fetcher.KindIncome, raw))
}

func TestClient_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewClient("test_key", server.URL, fetcher.NewHTTPClient(fetcher.ClientOptions{Timeout: 50 * time.Millisecond}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, mustRequest(t, c, fetcher.KindCash))

	var fe *fetcher.FetchError
	require.True(t, errors.As(err, &fe), "error = %v", err)
	assert.Equal(t, fetcher.ErrorTypeTimeout, fe.Type)
}

func TestClient_Fetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewClient("test_key", server.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, mustRequest(t, c, fetcher.KindCash))

	var fe *fetcher.FetchError
	require.True(t, errors.As(err, &fe), "error = %v", err)
	assert.Equal(t, fetcher.ErrorTypeCanceled, fe.Type)
	assert.Equal(t, fetcher.KindCash, fe.Kind)
}

func mustRequest(t *testing.T, c *Client, kind fetcher.Kind) fetcher.RequestDescriptor {
	t.Helper()
	reqs, err := c.Requests("IBM")
	require.NoError(t, err)
	for _, r := range reqs {
		if r.Kind == kind {
			return r
		}
	}
	require.Failf(t, "missing descriptor", "no descriptor for kind %s", kind)
	return fetcher.RequestDescriptor{}
}

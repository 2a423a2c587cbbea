package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"valueanalyzer/internal/fetcher"
)

// Upstream function names per kind.
var functions = map[fetcher.Kind]string{
	fetcher.KindIncome:   "INCOME_STATEMENT",
	fetcher.KindBalance:  "BALANCE_SHEET",
	fetcher.KindCash:     "CASH_FLOW",
	fetcher.KindOverview: "OVERVIEW",
	fetcher.KindPrice:    "TIME_SERIES_DAILY",
}

// Function returns the Alpha Vantage function name for kind.
func Function(kind fetcher.Kind) string {
	return functions[kind]
}

// Client talks to the Alpha Vantage query endpoint.
// The free tier allows 5 calls per minute; one analysis run makes exactly five.
type Client struct {
	apiKey  string
	baseURL string
	client  *resty.Client
}

// NewClient creates a client. httpClient is shared by every request of a run;
// pass nil to get one with default options.
func NewClient(apiKey, baseURL string, httpClient *resty.Client) *Client {
	if httpClient == nil {
		httpClient = fetcher.NewHTTPClient(fetcher.ClientOptions{})
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  httpClient,
	}
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", fmt.Errorf("ticker symbol is required")
	}
	return t, nil
}

// Requests builds the five request descriptors for ticker.
func (c *Client) Requests(ticker string) ([]fetcher.RequestDescriptor, error) {
	symbol, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}

	reqs := make([]fetcher.RequestDescriptor, 0, len(functions))
	for _, kind := range fetcher.Kinds() {
		q := base.Query()
		q.Set("function", functions[kind])
		q.Set("symbol", symbol)
		q.Set("apikey", c.apiKey)
		if kind == fetcher.KindPrice {
			q.Set("outputsize", "full")
		}

		u := *base
		u.RawQuery = q.Encode()
		reqs = append(reqs, fetcher.RequestDescriptor{
			Kind:     kind,
			Function: functions[kind],
			URL:      u.String(),
		})
	}
	return reqs, nil
}

// Fetch performs one GET and decodes the body into a JSON object.
func (c *Client) Fetch(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(req.URL)
	if err != nil {
		return nil, fetcher.AsFetchError(req.Kind, err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(resp.StatusCode()).WithKind(req.Kind)
	}

	return decode(req.Kind, resp.Bytes())
}

func decode(kind fetcher.Kind, body []byte) (fetcher.RawResponse, error) {
	var raw fetcher.RawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fetcher.NewDecodeError(err).WithKind(kind)
	}
	if raw == nil {
		// "null" decodes without error but is not an object.
		return nil, fetcher.NewDecodeError(fmt.Errorf("body is JSON null")).WithKind(kind)
	}
	return raw, nil
}

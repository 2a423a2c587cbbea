package analysis

import (
	"context"
	"fmt"
	"time"

	"valueanalyzer/internal/alphavantage"
	"valueanalyzer/internal/config"
	"valueanalyzer/internal/coordinator"
	"valueanalyzer/internal/dataset"
	"valueanalyzer/internal/fetcher"
	"valueanalyzer/internal/logger"
	"valueanalyzer/internal/metrics"
)

// Source builds the request descriptors for a ticker and fetches them.
type Source interface {
	fetcher.Fetcher
	Requests(ticker string) ([]fetcher.RequestDescriptor, error)
}

// Analysis is the output of a successful run.
type Analysis struct {
	Ticker  string
	Dataset *dataset.Dataset
	Metrics metrics.Result
	Signals []metrics.Signal
}

// Analyzer runs fetch, validate, aggregate and compute for one ticker.
type Analyzer struct {
	source Source
	coord  *coordinator.Coordinator
}

// New creates an Analyzer over source; timeout bounds each request.
func New(source Source, timeout time.Duration) *Analyzer {
	return &Analyzer{
		source: source,
		coord:  coordinator.New(source, timeout),
	}
}

// NewFromConfig wires the Alpha Vantage client from cfg.
func NewFromConfig(cfg *config.Config) *Analyzer {
	httpClient := fetcher.NewHTTPClient(fetcher.ClientOptions{
		Timeout:    cfg.RequestTimeout,
		RetryCount: cfg.RetryCount,
	})
	client := alphavantage.NewClient(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL, httpClient)
	return New(client, cfg.RequestTimeout)
}

// Run analyzes ticker. On failure no partial dataset is returned; the error
// is an *dataset.AggregationError when one or more kinds failed.
func (a *Analyzer) Run(ctx context.Context, ticker string) (*Analysis, error) {
	reqs, err := a.source.Requests(ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to build requests: %w", err)
	}

	start := time.Now()
	// Requests has already rejected an empty ticker.
	symbol, _ := alphavantage.NormalizeTicker(ticker)
	logger.L().Info().Str("ticker", symbol).Int("requests", len(reqs)).Msg("analysis start")

	outcomes, err := a.coord.Run(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch financial data: %w", err)
	}

	if failed := outcomes.Failed(); len(failed) > 0 {
		logger.L().Warn().
			Str("ticker", symbol).
			Int("failed", len(failed)).
			Int("total", len(reqs)).
			Msg("not every kind was retrieved; no analysis will be produced")
	}

	ds, err := dataset.Aggregate(outcomes)
	if err != nil {
		return nil, err
	}
	if got := ds.Symbol(); got != "" && got != symbol {
		logger.L().Warn().Str("ticker", symbol).Str("overview_symbol", got).Msg("overview reports a different symbol")
	}

	result := metrics.Compute(ds)
	logger.L().Info().
		Str("ticker", symbol).
		Dur("elapsed", time.Since(start)).
		Int("missing_ratios", len(result.Missing())).
		Msg("analysis done")

	return &Analysis{
		Ticker:  symbol,
		Dataset: ds,
		Metrics: result,
		Signals: metrics.Assess(result),
	}, nil
}

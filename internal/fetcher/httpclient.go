package fetcher

import (
	"time"

	"resty.dev/v3"

	"valueanalyzer/internal/logger"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// ClientOptions configures NewHTTPClient.
type ClientOptions struct {
	// Timeout bounds each individual request. Zero means defaultTimeout.
	Timeout time.Duration

	// RetryCount is the number of retries after a failed attempt.
	// Zero (the default) disables retries entirely.
	RetryCount int
}

// NewHTTPClient creates the HTTP client shared by all fetch tasks of a run.
func NewHTTPClient(opts ClientOptions) *resty.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	if opts.RetryCount > 0 {
		client.
			SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(defaultRetryWaitTime).
			SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
			AddRetryConditions(retryCondition).
			AddRetryHooks(retryHook)
	}

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	switch code := r.StatusCode(); {
	case code >= 500, code == 429, code == 408:
		return true
	default:
		return false
	}
}

// retryHook logs retry attempts
func retryHook(r *resty.Response, err error) {
	ev := logger.L().Debug().Int("attempt", r.Request.Attempt)
	if err != nil {
		ev.Err(err).Msg("retrying request due to error")
		return
	}
	ev.Int("status_code", r.StatusCode()).Msg("retrying request due to status code")
}

package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"valueanalyzer/internal/fetcher"
	"valueanalyzer/internal/logger"
)

// Coordinator issues all requests of one analysis run concurrently and
// collects a validated outcome per kind.
type Coordinator struct {
	fetcher fetcher.Fetcher
	timeout time.Duration
}

// New creates a Coordinator. timeout bounds each request individually;
// zero leaves only the caller's context in charge.
func New(f fetcher.Fetcher, timeout time.Duration) *Coordinator {
	return &Coordinator{
		fetcher: f,
		timeout: timeout,
	}
}

// Run executes one fetch per descriptor, each in its own goroutine, and waits
// for all of them. A failing request never cancels or alters its siblings:
// every task writes only its own slot, and the slots are read after the join.
//
// Validation runs after the join. A response that fails validation ends up
// exactly like a transport failure, as an Outcome with a non-nil Err.
//
// The returned error is reserved for unusable input (no descriptors, a
// duplicated kind); per-kind failures are reported in the Outcomes.
func (c *Coordinator) Run(ctx context.Context, reqs []fetcher.RequestDescriptor) (fetcher.Outcomes, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no requests configured")
	}
	seen := make(map[fetcher.Kind]bool, len(reqs))
	for _, r := range reqs {
		if seen[r.Kind] {
			return nil, fmt.Errorf("duplicate request for kind %q", r.Kind)
		}
		seen[r.Kind] = true
	}

	slots := make([]fetcher.Outcome, len(reqs))

	var wg conc.WaitGroup
	for i, req := range reqs {
		wg.Go(func() {
			slots[i] = c.fetchOne(ctx, req)
		})
	}
	wg.Wait()

	outcomes := make(fetcher.Outcomes, len(reqs))
	for i, out := range slots {
		if out.Err == nil {
			if err := fetcher.Validate(out.Kind, out.Response); err != nil {
				out = fetcher.Outcome{Kind: out.Kind, Err: err}
			}
		}
		logOutcome(reqs[i], out)
		outcomes[out.Kind] = out
	}

	return outcomes, nil
}

// fetchOne runs a single request with its own timeout and turns every kind of
// failure, panics included, into a failed Outcome for that kind.
func (c *Coordinator) fetchOne(ctx context.Context, req fetcher.RequestDescriptor) fetcher.Outcome {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	logger.L().Debug().Str("kind", string(req.Kind)).Str("function", req.Function).Msg("fetch start")

	out := fetcher.Outcome{Kind: req.Kind}

	var pc panics.Catcher
	pc.Try(func() {
		raw, err := c.fetcher.Fetch(ctx, req)
		if err != nil {
			out.Err = fetcher.AsFetchError(req.Kind, err)
			return
		}
		out.Response = raw
	})
	if r := pc.Recovered(); r != nil {
		out = fetcher.Outcome{Kind: req.Kind, Err: fetcher.NewPanicError(req.Kind, r.AsError())}
	}

	logger.L().Debug().
		Str("kind", string(req.Kind)).
		Dur("elapsed", time.Since(start)).
		Bool("ok", out.Err == nil).
		Msg("fetch done")

	return out
}

func logOutcome(req fetcher.RequestDescriptor, out fetcher.Outcome) {
	if out.Err == nil {
		return
	}

	msg := "fetch failed"
	ev := logger.L().Warn().Str("kind", string(req.Kind)).Str("function", req.Function)
	var fe *fetcher.FetchError
	if errors.As(out.Err, &fe) {
		if !fe.IsTransport() {
			msg = "response failed validation"
		}
		ev = ev.Str("error_type", string(fe.Type))
		if fe.StatusCode > 0 {
			ev = ev.Int("status_code", fe.StatusCode)
		}
		if notice := fetcher.UpstreamNotice(fe.Payload); notice != "" {
			logger.L().Warn().
				Str("kind", string(req.Kind)).
				Str("notice", notice).
				Msg("upstream returned a notice instead of data; the free tier allows 5 calls per minute")
		}
	}
	ev.Err(out.Err).Msg(msg)
}

package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valueanalyzer/internal/fetcher"
	"valueanalyzer/internal/testutil"
)

// requireFetchError asserts that err is a *fetcher.FetchError of the given type.
func requireFetchError(t *testing.T, err error, want fetcher.ErrorType) *fetcher.FetchError {
	t.Helper()
	var fe *fetcher.FetchError
	require.True(t, errors.As(err, &fe), "error = %v, want *fetcher.FetchError", err)
	assert.Equal(t, want, fe.Type)
	return fe
}

func TestNew(t *testing.T) {
	coord := New(testutil.NewMockFetcher(nil, nil), time.Second)
	require.NotNil(t, coord)
	assert.Equal(t, time.Second, coord.timeout)
}

func TestRun_Success(t *testing.T) {
	coord := New(testutil.NewMockFetcher(testutil.Responses(), nil), time.Second)

	outcomes, err := coord.Run(context.Background(), testutil.Descriptors())
	require.NoError(t, err)

	require.Len(t, outcomes, 5)
	for _, k := range fetcher.Kinds() {
		assert.True(t, outcomes[k].OK(), "outcome for %s failed: %v", k, outcomes[k].Err)
	}
	assert.Empty(t, outcomes.Failed())
}

func TestRun_ValidationFailureIsIsolated(t *testing.T) {
	for _, bad := range fetcher.Kinds() {
		t.Run(string(bad), func(t *testing.T) {
			responses := testutil.Responses()
			responses[bad] = fetcher.RawResponse{"Note": "rate limited"}

			coord := New(testutil.NewMockFetcher(responses, nil), time.Second)
			outcomes, err := coord.Run(context.Background(), testutil.Descriptors())
			require.NoError(t, err)

			requireFetchError(t, outcomes[bad].Err, fetcher.ErrorTypeValidation)
			assert.Nil(t, outcomes[bad].Response, "failed outcome should not carry a response")

			for _, k := range fetcher.Kinds() {
				if k == bad {
					continue
				}
				assert.True(t, outcomes[k].OK(), "sibling %s failed: %v", k, outcomes[k].Err)
			}
			assert.Equal(t, []fetcher.Kind{bad}, outcomes.Failed())
		})
	}
}

func TestRun_TransportFailureIsIsolated(t *testing.T) {
	errs := map[fetcher.Kind]error{
		fetcher.KindCash: errors.New("connection reset by peer"),
	}
	coord := New(testutil.NewMockFetcher(testutil.Responses(), errs), time.Second)

	outcomes, err := coord.Run(context.Background(), testutil.Descriptors())
	require.NoError(t, err)

	fe := requireFetchError(t, outcomes[fetcher.KindCash].Err, fetcher.ErrorTypeNetwork)
	assert.Equal(t, fetcher.KindCash, fe.Kind)
	assert.Equal(t, []fetcher.Kind{fetcher.KindCash}, outcomes.Failed())
}

func TestRun_PanicIsIsolated(t *testing.T) {
	responses := testutil.Responses()
	mock := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error) {
			if req.Kind == fetcher.KindOverview {
				panic("boom")
			}
			return responses[req.Kind], nil
		},
	}

	outcomes, err := New(mock, time.Second).Run(context.Background(), testutil.Descriptors())
	require.NoError(t, err)

	requireFetchError(t, outcomes[fetcher.KindOverview].Err, fetcher.ErrorTypePanic)
	assert.Equal(t, []fetcher.Kind{fetcher.KindOverview}, outcomes.Failed())
}

func TestRun_PerRequestTimeout(t *testing.T) {
	responses := testutil.Responses()
	mock := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error) {
			if req.Kind == fetcher.KindPrice {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return responses[req.Kind], nil
		},
	}

	start := time.Now()
	outcomes, err := New(mock, 50*time.Millisecond).Run(context.Background(), testutil.Descriptors())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "per-request timeout not applied")

	requireFetchError(t, outcomes[fetcher.KindPrice].Err, fetcher.ErrorTypeTimeout)
	assert.Equal(t, []fetcher.Kind{fetcher.KindPrice}, outcomes.Failed())
}

func TestRun_CanceledRun(t *testing.T) {
	mock := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := New(mock, time.Second).Run(ctx, testutil.Descriptors())
	require.NoError(t, err)

	for _, k := range fetcher.Kinds() {
		requireFetchError(t, outcomes[k].Err, fetcher.ErrorTypeCanceled)
	}
}

func TestRun_NoRequests(t *testing.T) {
	coord := New(testutil.NewMockFetcher(nil, nil), time.Second)

	_, err := coord.Run(context.Background(), nil)
	assert.EqualError(t, err, "no requests configured")
}

func TestRun_DuplicateKind(t *testing.T) {
	reqs := append(testutil.Descriptors(), fetcher.RequestDescriptor{Kind: fetcher.KindIncome})

	_, err := New(testutil.NewMockFetcher(nil, nil), time.Second).Run(context.Background(), reqs)
	assert.ErrorContains(t, err, "duplicate request")
}

func TestRun_ConcurrentExecution(t *testing.T) {
	// Every fetch blocks until all five have started, which can only happen
	// if they run concurrently.
	reqs := testutil.Descriptors()
	responses := testutil.Responses()

	var started sync.WaitGroup
	started.Add(len(reqs))
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	mock := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.RequestDescriptor) (fetcher.RawResponse, error) {
			started.Done()
			select {
			case <-allStarted:
				return responses[req.Kind], nil
			case <-time.After(2 * time.Second):
				return nil, errors.New("requests were not issued concurrently")
			}
		},
	}

	outcomes, err := New(mock, 5*time.Second).Run(context.Background(), reqs)
	require.NoError(t, err)
	assert.Empty(t, outcomes.Failed())
}

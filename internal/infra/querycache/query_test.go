package querycache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"medash/config"
	"medash/internal/domain/apierror"
	"medash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, staleTime time.Duration) *Store {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache = &config.CacheConfig{
		StaleTime:       staleTime,
		RefetchInterval: time.Hour,
		GCTime:          time.Hour,
	}

	s := NewStore(cfg, slog.New(slog.DiscardHandler))
	t.Cleanup(s.Close)

	return s
}

// noRefresh disables the periodic refresher so call counts stay exact.
var noRefresh = QueryOptions{RefetchInterval: -1, RetryBaseDelay: time.Millisecond}

func TestFetch_ServesCachedValueWithinStaleWindow(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("courses", 0, 100)

	var calls atomic.Int32
	fn := func(ctx context.Context) ([]string, error) {
		calls.Add(1)

		return []string{"Digital Literacy"}, nil
	}

	first, err := Fetch(context.Background(), s, key, noRefresh, fn)
	require.NoError(t, err)

	second, err := Fetch(context.Background(), s, key, noRefresh, fn)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_DeduplicatesConcurrentReaders(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("participants", "batch-7")

	var calls atomic.Int32
	gate := make(chan struct{})
	fn := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-gate

		return 42, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]int, readers)
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(context.Background(), s, key, noRefresh, fn)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Let the readers pile onto the single flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFetch_ServesStaleValueWhileRevalidating(t *testing.T) {
	s := newTestStore(t, time.Millisecond)
	key := NewKey("cohorts")

	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "old", nil
		}

		return "new", nil
	}

	first, err := Fetch(context.Background(), s, key, noRefresh, fn)
	require.NoError(t, err)
	assert.Equal(t, "old", first)

	time.Sleep(10 * time.Millisecond)

	// The stale value is served immediately; the refresh lands later.
	second, err := Fetch(context.Background(), s, key, noRefresh, fn)
	require.NoError(t, err)
	assert.Equal(t, "old", second)

	assert.Eventually(t, func() bool {
		data, _, ok := s.lookup(key)

		return ok && data.(string) == "new"
	}, time.Second, 5*time.Millisecond)
}

func TestFetch_DoesNotRetryDefiniteFailures(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("courses", "missing")

	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)

		return "", &apierror.ClientError{Status: 404, Msg: "course not found"}
	}

	_, err := Fetch(context.Background(), s, key, noRefresh, fn)
	require.Error(t, err)

	var clientErr *apierror.ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, int32(1), calls.Load())

	// Failures are not cached; the next read tries again.
	_, err = Fetch(context.Background(), s, key, noRefresh, fn)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_RetriesTransientFailuresWithBoundedAttempts(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("overview")

	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", &apierror.ServerError{Status: 503}
		}

		return "recovered", nil
	}

	v, err := Fetch(context.Background(), s, key, noRefresh, fn)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_TransientFailureExhaustsAttempts(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("overview", "down")

	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)

		return "", &apierror.ServerError{Status: 502}
	}

	_, err := Fetch(context.Background(), s, key, noRefresh, fn)
	require.Error(t, err)

	var serverErr *apierror.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, int32(defaultMaxAttempts), calls.Load())
}

func TestFetch_DistinctKeysFetchIndependently(t *testing.T) {
	s := newTestStore(t, time.Minute)

	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)

		return "page", nil
	}

	_, err := Fetch(context.Background(), s, NewKey("participants", 0, 20), noRefresh, fn)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), s, NewKey("participants", 1, 20), noRefresh, fn)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_PeriodicRefreshKeepsEntryCurrent(t *testing.T) {
	s := newTestStore(t, time.Minute)
	key := NewKey("attendance-summary")

	var calls atomic.Int32
	fn := func(ctx context.Context) (int32, error) {
		return calls.Add(1), nil
	}

	opts := QueryOptions{RefetchInterval: 15 * time.Millisecond, RetryBaseDelay: time.Millisecond}
	v, err := Fetch(context.Background(), s, key, opts, fn)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	assert.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

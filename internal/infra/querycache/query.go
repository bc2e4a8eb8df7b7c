package querycache

import (
	"context"
	"log/slog"
	"time"

	"medash/internal/domain/apierror"
)

const (
	defaultMaxAttempts = 3

	// revalidateTimeout bounds a background refresh that no caller is
	// waiting on.
	revalidateTimeout = 30 * time.Second
)

// QueryOptions tune one query's windows. Zero values take the store
// defaults; RefetchInterval < 0 disables periodic refresh for the key.
type QueryOptions struct {
	StaleTime       time.Duration
	RefetchInterval time.Duration
	MaxAttempts     int
	RetryBaseDelay  time.Duration
}

func (o QueryOptions) withDefaults(s *Store) QueryOptions {
	if o.StaleTime == 0 {
		o.StaleTime = s.staleTime
	}
	if o.RefetchInterval == 0 {
		o.RefetchInterval = s.refetchInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = time.Second
	}

	return o
}

// Fetch is the read path. An unexpired entry is served without a network
// call; a stale entry is served immediately while a background
// revalidation runs; a missing entry is fetched, with concurrent readers
// of the same key sharing a single flight. A key must always be fetched
// as the same type T.
//
// Interleaved revalidations are not ordered against each other; the last
// response to land wins.
func Fetch[T any](ctx context.Context, s *Store, key Key, opts QueryOptions, fn func(context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults(s)

	if data, age, ok := s.lookup(key); ok {
		if age > opts.StaleTime {
			s.revalidate(key, opts, eraseType(fn))
		}

		return data.(T), nil
	}

	data, err, _ := s.flight.Do(key.String(), func() (any, error) {
		v, err := fetchWithRetry(ctx, opts, eraseType(fn))
		if err != nil {
			return nil, err
		}
		s.put(key, v)
		s.ensureRefresher(key, opts, eraseType(fn))

		return v, nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return data.(T), nil
}

func eraseType[T any](fn func(context.Context) (T, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

// revalidate refreshes a stale key in the background. The caller is not
// blocked and never sees the outcome; a failure leaves the stale entry in
// place for the next read to retry.
func (s *Store) revalidate(key Key, opts QueryOptions, fn func(context.Context) (any, error)) {
	go func() {
		_, err, _ := s.flight.Do(key.String(), func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
			defer cancel()

			v, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			s.put(key, v)

			return v, nil
		})
		if err != nil {
			s.logger.Debug("background revalidation failed",
				slog.String("key", key.String()),
				slog.Any("error", err),
			)
		}
	}()
}

// ensureRefresher starts a periodic background refresh for the key if the
// options ask for one and none is running yet.
func (s *Store) ensureRefresher(key Key, opts QueryOptions, fn func(context.Context) (any, error)) {
	if opts.RefetchInterval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[key]
	if !found || e.refreshStop != nil {
		return
	}
	stop := make(chan struct{})
	e.refreshStop = stop

	go func() {
		ticker := time.NewTicker(opts.RefetchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-stop:
				return
			case <-ticker.C:
				s.revalidate(key, opts, fn)
			}
		}
	}()
}

// fetchWithRetry retries transient failures with exponential backoff.
// Definite outcomes (4xx, auth expiry, validation) are surfaced on the
// first attempt.
func fetchWithRetry(ctx context.Context, opts QueryOptions, fn func(context.Context) (any, error)) (any, error) {
	var lastErr error
	delay := opts.RetryBaseDelay

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !apierror.Retryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

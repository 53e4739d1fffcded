package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// retryProvider wraps a Provider with retry logic for transient failures.
type retryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a provider with exponential-backoff retry.
// Rate-limit and unavailable errors are retried up to MaxAttempts times;
// invalid-response errors are retried once; everything else fails fast.
func WithRetry(inner Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryProvider{inner: inner, cfg: cfg}
}

func (r *retryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidRetried := false

	wait := r.cfg.InitialWait
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var rateErr *ErrRateLimit
		var unavailErr *ErrProviderUnavailable
		var invalidErr *ErrInvalidResponse

		switch {
		case errors.As(err, &rateErr):
			d := wait
			if rateErr.RetryAfter > 0 {
				d = rateErr.RetryAfter
			}
			if err := sleepCtx(ctx, jitter(d)); err != nil {
				return nil, err
			}
		case errors.As(err, &unavailErr):
			if err := sleepCtx(ctx, jitter(wait)); err != nil {
				return nil, err
			}
		case errors.As(err, &invalidErr):
			// A malformed response is often a one-off; retry exactly once.
			if invalidRetried {
				return nil, err
			}
			invalidRetried = true
		default:
			return nil, err
		}

		wait = time.Duration(float64(wait) * r.cfg.Multiplier)
		if wait > r.cfg.MaxWait {
			wait = r.cfg.MaxWait
		}
	}

	return nil, fmt.Errorf("llm: exhausted %d attempts: %w", r.cfg.MaxAttempts, lastErr)
}

// jitter adds up to 25% random jitter to d.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package llm

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryProvider retries transient failures with exponential backoff.
// Rate limits and provider outages are retried up to MaxAttempts;
// schema violations get a single extra attempt since a second sample
// from the model often conforms. Context cancellation and truncation
// are never retried.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps p in retry behavior.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	return &RetryProvider{inner: p, cfg: cfg}
}

// ModelID returns the wrapped provider's model identifier.
func (p *RetryProvider) ModelID() string { return p.inner.ModelID() }

func (p *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidRetried := false

	for attempt := 0; attempt < p.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, attempt-1, lastErr); err != nil {
				return nil, err
			}
		}

		resp, err := p.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !p.shouldRetry(err, &invalidRetried) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (p *RetryProvider) shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var maxTokens *ErrMaxTokensExceeded
	if errors.As(err, &maxTokens) {
		return false
	}

	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	var rateLimit *ErrRateLimit
	var unavailable *ErrProviderUnavailable
	return errors.As(err, &rateLimit) || errors.As(err, &unavailable)
}

// sleep waits out the backoff for the given completed attempt,
// honoring a provider-announced retry-after when it is longer.
func (p *RetryProvider) sleep(ctx context.Context, attempt int, lastErr error) error {
	wait := time.Duration(float64(p.cfg.InitialWait) * math.Pow(p.cfg.Multiplier, float64(attempt)))
	if wait > p.cfg.MaxWait {
		wait = p.cfg.MaxWait
	}
	// 20% jitter keeps concurrent clients from thundering in step.
	jitter := 0.8 + 0.4*rand.Float64()
	wait = time.Duration(float64(wait) * jitter)

	var rateLimit *ErrRateLimit
	if errors.As(lastErr, &rateLimit) && rateLimit.RetryAfter > wait {
		wait = rateLimit.RetryAfter
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

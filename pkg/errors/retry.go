package errors

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Retry configuration defaults.
const (
	DefaultBaseDelay = time.Second
	DefaultMaxDelay  = 10 * time.Second
	DefaultJitter    = 0.4 // Produces a multiplier range of [0.8, 1.2]
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts after the first call
	BaseDelay  time.Duration // Initial delay before first retry
	MaxDelay   time.Duration // Maximum delay between retries
	Jitter     float64       // Jitter factor (0.0 to 1.0)
}

// NewRetryConfig returns a RetryConfig with default delays and the given retry count.
func NewRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
		Jitter:     DefaultJitter,
	}
}

// RetryWithResult executes fn and returns the result with exponential backoff.
// It returns immediately if the error is not retryable or if ctx is cancelled.
// Only read-only calls should be wrapped; nothing in pullr retries a mutation.
func RetryWithResult[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var lastErr error
	var result T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return result, Wrapf(lastErr, "context cancelled after %d attempts", attempt)
			}
			return result, Wrap(err, "context cancelled before retry")
		}

		var err error
		result, err = fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(lastErr) {
			return result, lastErr
		}

		// Don't wait after the last attempt
		if attempt == cfg.MaxRetries {
			break
		}

		delay := CalculateBackoff(cfg.BaseDelay, cfg.MaxDelay, attempt, cfg.Jitter)

		select {
		case <-ctx.Done():
			return result, Wrapf(lastErr, "context cancelled during retry backoff (attempt %d/%d)", attempt+1, cfg.MaxRetries)
		case <-time.After(delay):
		}
	}

	if cfg.MaxRetries == 0 {
		return result, lastErr
	}
	return result, Wrapf(lastErr, "failed after %d retries", cfg.MaxRetries)
}

// CalculateBackoff computes the delay for a retry attempt using exponential backoff with jitter.
// Formula: delay = min(base * 2^attempt, max) * (1 - jitter/2 + jitter*rand())
func CalculateBackoff(base, max time.Duration, attempt int, jitter float64) time.Duration {
	expDelay := float64(base) * math.Pow(2, float64(attempt))

	if expDelay > float64(max) {
		expDelay = float64(max)
	}

	jitterMultiplier := 1.0 - jitter/2 + jitter*rand.Float64()
	return time.Duration(expDelay * jitterMultiplier)
}

package database

import (
	"context"
	"strings"
	"time"

	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
)

// RetryConfig bounds a transient-failure retry loop
type RetryConfig struct {
	MaxAttempts  int
	BaseInterval time.Duration
	MaxInterval  time.Duration
	JitterFactor float64 // Randomness added to intervals (0.0-1.0)
}

// DefaultRetryConfig returns the retry bounds used for connection probes
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  5,
		BaseInterval: 100 * time.Millisecond,
		MaxInterval:  2 * time.Second,
		JitterFactor: 0.2,
	}
}

// RetryOnTransient re-runs an operation while it fails with a transient
// storage error, backing off exponentially between attempts. The operation
// must be idempotent: ledger mutations go through the provider-redelivery
// path instead, where the idempotency gate absorbs a re-applied attempt.
func RetryOnTransient(
	ctx context.Context,
	cfg RetryConfig,
	logger coreport.Logger,
	operation func() error,
) error {
	var err error
	var attempt int

	for attempt = 0; attempt < cfg.MaxAttempts; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}

		if !isTransientError(err) {
			return err
		}

		backoff := backoffWithJitter(attempt, cfg)
		logger.Warn("Transient storage error, retrying", map[string]any{
			"attempt":      attempt + 1,
			"max_attempts": cfg.MaxAttempts,
			"error":        err.Error(),
			"retry_after":  backoff.String(),
		})

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			logger.Warn("Retry loop canceled by context", map[string]any{
				"attempts":     attempt + 1,
				"max_attempts": cfg.MaxAttempts,
				"error":        ctx.Err().Error(),
			})
			return ctx.Err()
		}
	}

	logger.Error("All retry attempts failed", map[string]any{
		"attempts":     attempt,
		"max_attempts": cfg.MaxAttempts,
		"error":        err.Error(),
	})

	return err
}

// backoffWithJitter computes the delay before the next attempt: exponential
// growth capped at MaxInterval, with jitter to avoid thundering herds
func backoffWithJitter(attempt int, cfg RetryConfig) time.Duration {
	backoff := cfg.BaseInterval * (1 << uint(attempt))
	if backoff > cfg.MaxInterval {
		backoff = cfg.MaxInterval
	}

	if cfg.JitterFactor > 0 {
		jitter := time.Duration(float64(backoff) * cfg.JitterFactor * (float64(time.Now().UnixNano()%100) / 100.0))
		backoff = backoff + jitter
	}

	return backoff
}

// isTransientError matches driver-level failures that a fresh attempt can
// resolve. Uniqueness conflicts are deliberately absent: a duplicate key here
// is a claim outcome, not a fault.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "deadlock") ||
		strings.Contains(errMsg, "serialization") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "too many connections") ||
		strings.Contains(errMsg, "server closed") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "lock timeout") ||
		strings.Contains(errMsg, "eof")
}

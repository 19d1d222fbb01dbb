// Package retry retries store connection attempts with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// ErrExhausted is wrapped by the error returned once every attempt failed.
var ErrExhausted = errors.New("retries exhausted")

// Backoff describes the wait between attempts: Initial * Factor^n, capped at Max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// Delay returns the wait after the given zero-based failed attempt, without jitter.
func (b Backoff) Delay(attempt int) time.Duration {
	attempt = max(attempt, 0)
	d := float64(b.Initial) * math.Pow(b.Factor, float64(attempt))
	if d > float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}

// jittered spreads d by up to 10% either way.
func jittered(d time.Duration) time.Duration {
	//nolint:gosec // jitter needs no cryptographic randomness
	return d + time.Duration(float64(d)*0.1*(rand.Float64()*2-1))
}

// Config is the retry policy for one store backend.
type Config struct {
	// Target names what is being connected to in the give-up error.
	Target string
	// MaxAttempts counts the first attempt.
	MaxAttempts int
	Backoff     Backoff
	// Transient lists case-insensitive message fragments of errors worth
	// another attempt. Empty means every error except context errors.
	Transient []string
}

// For returns the preset policy for a store driver ("sqlite", "postgres" or
// "redis"). Unknown drivers get the sqlite preset.
func For(driver string) Config {
	switch driver {
	case "postgres":
		return Config{
			Target:      "postgres",
			MaxAttempts: 5,
			Backoff:     Backoff{Initial: time.Second, Max: 30 * time.Second, Factor: 2},
			Transient: []string{
				"connection refused",
				"i/o timeout",
				"connection reset",
				"server closed the connection",
				"too many connections",
				"the database system is starting up",
				"network is unreachable",
				"dial tcp",
				"connection timed out",
			},
		}
	case "redis":
		return Config{
			Target:      "redis",
			MaxAttempts: 3,
			Backoff:     Backoff{Initial: time.Second, Max: 10 * time.Second, Factor: 2},
			Transient: []string{
				"connection refused",
				"i/o timeout",
				"connection reset",
				"loading redis is loading the dataset in memory",
				"dial tcp",
			},
		}
	default:
		// A locked file clears quickly.
		return Config{
			Target:      "sqlite",
			MaxAttempts: 5,
			Backoff:     Backoff{Initial: 50 * time.Millisecond, Max: time.Second, Factor: 2},
			Transient: []string{
				"database is locked",
				"database table is locked",
				"sqlite_busy",
			},
		}
	}
}

// Retryable reports whether err is worth another attempt under c.
func (c Config) Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if len(c.Transient) == 0 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range c.Transient {
		if strings.Contains(msg, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

// Do calls fn until it succeeds, fails permanently or attempts run out.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult is Do for functions that produce a value.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, fmt.Errorf("retry %s: MaxAttempts must be greater than 0", cfg.Target)
	}

	var lastErr error
	for attempt := range cfg.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !cfg.Retryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}
		timer := time.NewTimer(jittered(cfg.Backoff.Delay(attempt)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("%s: %w, giving up after %d attempts: %w", cfg.Target, ErrExhausted, cfg.MaxAttempts, lastErr)
}

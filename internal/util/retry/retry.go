package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// delayCap bounds the backoff growth so a generous attempt budget turns
// into steady polling rather than minute-long gaps.
const delayCap = 30 * time.Second

// Config holds the backoff schedule.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	Multiplier   float64
}

// Option adjusts the backoff schedule.
type Option func(*Config)

// WithExponentialBackoff runs operation until it succeeds, re-running it up
// to MaxRetries more times with exponentially growing delays in between.
// An error wrapped with Fatal stops the loop at once, as does context
// cancellation between attempts.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := Config{
		MaxRetries:   5,
		InitialDelay: time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	delay := cfg.InitialDelay
	for attempt := 0; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		if IsFatal(err) {
			return fmt.Errorf("not retrying: %w", err)
		}
		if attempt >= cfg.MaxRetries {
			return fmt.Errorf("still failing after %d attempts: %w", attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("aborted after %d attempts: %w", attempt+1, ctx.Err())
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > delayCap {
			delay = delayCap
		}
	}
}

// WithMaxRetries sets how many times a failed operation is re-run.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithInitialDelay sets the delay before the first re-run.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMultiplier sets the factor the delay grows by after each attempt.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// FatalError marks its wrapped error as not worth re-running.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err so the retry loop gives up on it immediately. A nil err
// stays nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err carries a FatalError anywhere in its chain.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}

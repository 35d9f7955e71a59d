// Package retry wraps a Completer with retries on rate limits and
// transient failures.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/RadchaneepornC/officebuddy"
)

// Ensure Completer implements officebuddy.Completer at compile time.
var _ officebuddy.Completer = (*Completer)(nil)

// Policy controls how many attempts are made and how long to wait between
// them. Rate-limit errors back off exponentially from Base with up to
// Jitter of random delay added. Other retryable errors wait Linear times
// the attempt number.
type Policy struct {
	MaxAttempts int
	Base        time.Duration
	Jitter      time.Duration
	Linear      time.Duration
}

// DefaultPolicy returns 5 attempts with a 60s exponential base, 10s jitter
// and 5s linear step.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		Base:        60 * time.Second,
		Jitter:      10 * time.Second,
		Linear:      5 * time.Second,
	}
}

// Delay returns the wait after failed attempt n (1-based). jitter is the
// random component, expected in [0, p.Jitter).
func (p Policy) Delay(attempt int, err error, jitter time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if officebuddy.ErrorCode(err) == officebuddy.ERATELIMIT {
		return p.Base*time.Duration(1<<(attempt-1)) + jitter
	}
	return p.Linear * time.Duration(attempt)
}

// Retryable reports whether err is worth another attempt. Configuration
// and invalid-argument errors, and canceled contexts, are not.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	switch officebuddy.ErrorCode(err) {
	case officebuddy.ECONFIG, officebuddy.EINVALID:
		return false
	}
	return true
}

// Completer retries the wrapped Completer according to Policy.
type Completer struct {
	Completer officebuddy.Completer
	Policy    Policy
	Logger    *slog.Logger

	// Sleep waits for d or until ctx is done. Replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error

	// Rand returns a random duration in [0, n). Replaced in tests.
	Rand func(n time.Duration) time.Duration
}

// Option configures a Completer.
type Option func(*Completer)

// WithPolicy sets the retry policy.
func WithPolicy(p Policy) Option {
	return func(c *Completer) {
		c.Policy = p
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Completer) {
		c.Logger = logger
	}
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Completer) {
		c.Sleep = fn
	}
}

// NewCompleter wraps next with DefaultPolicy.
func NewCompleter(next officebuddy.Completer, opts ...Option) *Completer {
	c := &Completer{
		Completer: next,
		Policy:    DefaultPolicy(),
		Logger:    slog.New(slog.DiscardHandler),
		Sleep:     sleep,
		Rand:      randDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete calls the wrapped Completer until it succeeds, returns a
// non-retryable error, or the attempts are exhausted. The last error is
// returned.
func (c *Completer) Complete(ctx context.Context, req *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
	maxAttempts := c.Policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		completion, err := c.Completer.Complete(ctx, req)
		if err == nil {
			return completion, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == maxAttempts {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var jitter time.Duration
		if c.Policy.Jitter > 0 && c.Rand != nil {
			jitter = c.Rand(c.Policy.Jitter)
		}
		delay := c.Policy.Delay(attempt, err, jitter)
		if c.Logger != nil {
			c.Logger.Warn("retrying completion",
				"label", req.Label,
				"attempt", attempt+1,
				"of", maxAttempts,
				"delay", delay,
				"code", officebuddy.ErrorCode(err),
				"err", err,
			)
		}
		wait := c.Sleep
		if wait == nil {
			wait = sleep
		}
		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randDuration(n time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}
	return rand.N(n)
}

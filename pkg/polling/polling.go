package polling

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when every attempt failed with a retryable error.
var ErrExhausted = errors.New("retries exhausted")

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Policy bounds how often and how fast an operation is retried.
type Policy struct {
	Attempts int           // defaults to 3 if <= 0
	Delay    time.Duration // wait between attempts; 0 retries immediately
	Log      Logger        // optional; nil = no logging
}

// DefaultPolicy matches the page script, which checked again once a second.
var DefaultPolicy = Policy{Attempts: 10, Delay: time.Second}

// Poll runs fn until it succeeds, fails with an error retryable does not
// accept, the attempts run out, or ctx is done. A nil retryable retries
// every error.
func Poll[T any](ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) (T, error)) (T, error) {
	log := p.Log
	if log == nil {
		log = nopLogger{}
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 3
	}

	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if retryable != nil && !retryable(err) {
			return zero, err
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		log.Debugf("Attempt %d/%d failed: %v", attempt, attempts, err)

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	log.Warnf("Giving up after %d attempts: %v", attempts, lastErr)
	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

// Retry is Poll for operations without a result.
func Retry(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	_, err := Poll(ctx, p, retryable, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Is returns a retryable predicate that accepts errors matching target.
func Is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

package polling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotYet = errors.New("not yet")

func TestPoll_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	v, err := Poll(context.Background(), Policy{Attempts: 5}, Is(errNotYet), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errNotYet
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
}

func TestPoll_Exhausted(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 4}, Is(errNotYet), func(context.Context) error {
		calls++
		return errNotYet
	})
	assert.Equal(t, 4, calls)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.True(t, errors.Is(err, errNotYet))
}

func TestPoll_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("boom")
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 4}, Is(errNotYet), func(context.Context) error {
		calls++
		return permanent
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, permanent, err)
}

func TestPoll_DefaultAttempts(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), Policy{}, nil, func(context.Context) error {
		calls++
		return errNotYet
	})
	assert.Equal(t, 3, calls)
}

func TestPoll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, Policy{Attempts: 10, Delay: time.Hour}, nil, func(context.Context) error {
		calls++
		cancel()
		return errNotYet
	})
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, context.Canceled))
}

type countingLogger struct {
	nopLogger
	warns int
}

func (l *countingLogger) Warnf(string, ...interface{}) { l.warns++ }

func TestPoll_LogsGiveUp(t *testing.T) {
	log := &countingLogger{}
	_ = Retry(context.Background(), Policy{Attempts: 2, Log: log}, nil, func(context.Context) error {
		return errNotYet
	})
	assert.Equal(t, 1, log.warns)
}

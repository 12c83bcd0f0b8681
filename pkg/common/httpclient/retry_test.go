package httpclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return NewPolicy(3, time.Millisecond)
}

func TestDelayDoublesPerAttempt(t *testing.T) {
	p := NewPolicy(3, time.Second)
	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRecoversFromTransientFailures(t *testing.T) {
	calls := 0
	var delays []time.Duration
	p := fastPolicy()
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		delays = append(delays, delay)
	}

	err := p.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		switch calls {
		case 1:
			return StatusError(http.StatusTooManyRequests, "")
		case 2:
			return StatusError(http.StatusBadGateway, "")
		case 3:
			return NetworkError(errors.New("connection reset"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestDoStopsAfterMaxRetries(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), "fetch page 1", func(ctx context.Context) error {
		calls++
		return StatusError(http.StatusTooManyRequests, "slow down")
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.False(t, IsRetryable(err))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindExhausted, kind)
}

func TestDoZeroRetries(t *testing.T) {
	calls := 0
	err := NewPolicy(0, time.Millisecond).Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return StatusError(http.StatusServiceUnavailable, "")
	})
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, calls)
}

func TestDoDoesNotRetryPermanentFailures(t *testing.T) {
	for _, failure := range []error{
		StatusError(http.StatusBadRequest, "bad page"),
		StatusError(http.StatusUnauthorized, ""),
		ParseError(errors.New("unexpected EOF")),
		errors.New("unclassified"),
	} {
		calls := 0
		err := fastPolicy().Do(context.Background(), "test", func(ctx context.Context) error {
			calls++
			return failure
		})
		assert.Equal(t, failure, err)
		assert.Equal(t, 1, calls)
	}
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPolicy(3, time.Hour)
	p.OnRetry = func(int, time.Duration, error) { cancel() }

	err := p.Do(ctx, "test", func(ctx context.Context) error {
		return StatusError(http.StatusInternalServerError, "")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusErrorClassification(t *testing.T) {
	assert.NoError(t, StatusError(http.StatusOK, ""))
	assert.ErrorIs(t, StatusError(http.StatusTooManyRequests, ""), ErrRateLimited)
	assert.ErrorIs(t, StatusError(http.StatusInternalServerError, ""), ErrServer)
	assert.ErrorIs(t, StatusError(http.StatusForbidden, ""), ErrClient)

	assert.True(t, IsRetryable(StatusError(http.StatusServiceUnavailable, "")))
	assert.True(t, IsRetryable(NetworkError(errors.New("dial tcp: refused"))))
	assert.False(t, IsRetryable(StatusError(http.StatusNotFound, "")))
	assert.False(t, IsRetryable(ParseError(errors.New("bad json"))))

	err := StatusError(http.StatusBadRequest, "limit must be <= 20")
	assert.Equal(t, "request rejected (status 400): limit must be <= 20", err.Error())
}

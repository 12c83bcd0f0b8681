package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/synaptica-ai/triage/pkg/common/logger"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// Policy retries transient failures with exponential backoff: the delay
// before retry n (counted from 0) is BaseDelay * 2^n. There is no jitter and
// no delay cap.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Retryable  func(error) bool
	OnRetry    func(attempt int, delay time.Duration, err error)
}

func NewPolicy(maxRetries int, baseDelay time.Duration) Policy {
	return Policy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		Retryable:  IsRetryable,
	}
}

func DefaultPolicy() Policy {
	return NewPolicy(DefaultMaxRetries, DefaultBaseDelay)
}

func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay << uint(attempt)
}

// Do runs fn until it succeeds, fails permanently, or MaxRetries retries have
// been spent. The last failure is wrapped in a KindExhausted error.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}

		// Do not sleep after last attempt
		if attempt == p.MaxRetries {
			break
		}

		delay := p.Delay(attempt)
		kind, _ := KindOf(err)
		logger.Log.WithFields(logrus.Fields{
			"operation":  op,
			"attempt":    attempt + 1,
			"delay_ms":   delay.Milliseconds(),
			"error_kind": kind,
		}).WithError(err).Warn("transient failure, retrying")
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return &Error{Kind: KindExhausted, Err: fmt.Errorf("%s failed after %d attempts: %w", op, p.MaxRetries+1, err)}
}

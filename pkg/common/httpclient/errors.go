package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNetwork   Kind = "network"
	KindRateLimit Kind = "rate_limit"
	KindServer    Kind = "server"
	KindClient    Kind = "client"
	KindParse     Kind = "parse"
	KindExhausted Kind = "exhausted"
)

var (
	ErrNetwork          = errors.New("network failure")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrServer           = errors.New("upstream server error")
	ErrClient           = errors.New("request rejected")
	ErrParse            = errors.New("invalid response body")
	ErrRetriesExhausted = errors.New("retries exhausted")
)

var kindSentinels = map[Kind]error{
	KindNetwork:   ErrNetwork,
	KindRateLimit: ErrRateLimited,
	KindServer:    ErrServer,
	KindClient:    ErrClient,
	KindParse:     ErrParse,
	KindExhausted: ErrRetriesExhausted,
}

// Error is a classified failure of an external call.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := kindSentinels[e.Kind].Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so errors.Is(err, ErrRateLimited)
// holds for rate-limit failures and for exhausted retries caused by them.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func NetworkError(err error) error {
	return &Error{Kind: KindNetwork, Err: err}
}

func ParseError(err error) error {
	return &Error{Kind: KindParse, Err: err}
}

// StatusError classifies a non-2xx response. It returns nil for success codes.
func StatusError(status int, body string) error {
	var kind Kind
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		kind = KindRateLimit
	case status >= 500 && status < 600:
		kind = KindServer
	default:
		kind = KindClient
	}

	var cause error
	if body != "" {
		cause = errors.New(body)
	}
	return &Error{Kind: kind, StatusCode: status, Err: cause}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsRetryable reports whether err is transient: rate limiting, a 5xx response
// or a transport failure.
func IsRetryable(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	switch kind {
	case KindRateLimit, KindServer, KindNetwork:
		return true
	default:
		return false
	}
}

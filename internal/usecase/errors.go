package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorInternal     ErrorCode = "INTERNAL_ERROR"
)

// Reasons reported to clients in the error field of a 400 response.
const (
	ReasonEmptyMessage   = "empty_message"
	ReasonMessageTooLong = "message_too_long"
	ReasonResolverPanic  = "resolver_panic"
)

// ErrNotConfigured is returned by a provider whose credential is absent. The
// resolver skips such providers without counting them as failed attempts.
var ErrNotConfigured = errors.New("usecase: provider not configured")

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// InvalidInputReason returns the reason of a validation failure. ok is false
// for any other error, which callers must not expose.
func InvalidInputReason(err error) (reason string, ok bool) {
	var ucErr *Error
	if errors.As(err, &ucErr) && ucErr.Code == ErrorInvalidInput {
		return ucErr.Reason, true
	}
	return "", false
}

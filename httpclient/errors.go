package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode classifies transport failures. HTTP statuses are never errors:
// any response that arrived is returned as a Response.
type ErrorCode int

const (
	// ErrCodeTimeout: the per-request timeout expired before a response.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection: refused, reset, DNS and other network failures.
	ErrCodeConnection
	// ErrCodeCanceled: the caller's context ended first.
	ErrCodeCanceled
	// ErrCodeRequest: the request could not be built.
	ErrCodeRequest
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is a classified transport failure.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error { return newError(ErrCodeTimeout, err) }

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error { return newError(ErrCodeConnection, err) }

// NewCanceledError creates an error for a request abandoned by its caller.
func NewCanceledError(err error) *Error { return newError(ErrCodeCanceled, err) }

func newRequestError(format string, err error) *Error {
	return newError(ErrCodeRequest, fmt.Errorf(format, err))
}

// classifyTransportError maps a failed round trip onto an error code.
// callerCtx is the context the caller passed in; reqCtx additionally carries
// the per-request deadline.
func classifyTransportError(callerCtx, reqCtx context.Context, err error) *Error {
	if callerCtx.Err() != nil {
		return NewCanceledError(err)
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout reports a per-request timeout.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection reports a network failure.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsCanceled reports a caller cancellation.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

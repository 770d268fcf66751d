package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeCanceled, "canceled"},
		{ErrCodeRequest, "request"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := NewConnectionError(errors.New("connection refused"))
	want := "httpclient: connection: connection refused"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := context.DeadlineExceeded
	outer := NewTimeoutError(fmt.Errorf("get: %w", inner))
	if !errors.Is(outer, context.DeadlineExceeded) {
		t.Error("wrapped cause not reachable through Unwrap")
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		timeout  bool
		conn     bool
		canceled bool
	}{
		{"timeout", NewTimeoutError(errors.New("timed out")), true, false, false},
		{"connection", NewConnectionError(errors.New("refused")), false, true, false},
		{"canceled", NewCanceledError(context.Canceled), false, false, true},
		{"request", newRequestError("create request: %w", errors.New("bad")), false, false, false},
		{"wrapped timeout", fmt.Errorf("call: %w", NewTimeoutError(errors.New("slow"))), true, false, false},
		{"plain", errors.New("plain"), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeout(tt.err); got != tt.timeout {
				t.Errorf("IsTimeout = %v", got)
			}
			if got := IsConnection(tt.err); got != tt.conn {
				t.Errorf("IsConnection = %v", got)
			}
			if got := IsCanceled(tt.err); got != tt.canceled {
				t.Errorf("IsCanceled = %v", got)
			}
		})
	}
}

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	live := context.Background()

	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	expiredCtx, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	<-expiredCtx.Done()

	tests := []struct {
		name   string
		caller context.Context
		req    context.Context
		err    error
		want   ErrorCode
	}{
		{"caller canceled", canceledCtx, canceledCtx, context.Canceled, ErrCodeCanceled},
		{"request deadline", live, expiredCtx, context.DeadlineExceeded, ErrCodeTimeout},
		{"net timeout", live, live, timeoutNetError{}, ErrCodeTimeout},
		{"refused", live, live, fmt.Errorf("dial tcp: connection refused"), ErrCodeConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTransportError(tt.caller, tt.req, tt.err)
			if got.Code != tt.want {
				t.Errorf("code = %v, want %v", got.Code, tt.want)
			}
			if got.Unwrap() != tt.err {
				t.Error("underlying error not preserved")
			}
		})
	}
}

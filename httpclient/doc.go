// Package httpclient is the transport layer for hubspotkit: a net/http
// adapter that resolves URLs against a base, merges default headers, sends
// raw bodies, applies auth and enforces a per-request timeout.
//
// Failures are returned as *Error and classified so callers can tell a slow
// remote from a broken one:
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method:  http.MethodGet,
//	    Path:    "contacts",
//	    Timeout: time.Second,
//	})
//	switch {
//	case httpclient.IsTimeout(err):    // per-request deadline hit
//	case httpclient.IsCanceled(err):   // ctx ended first
//	case httpclient.IsConnection(err): // refused, reset, DNS
//	}
package httpclient

package hubspot

import (
	"context"
	"net/http"
)

// Future is the pending result of a non-blocking request.
type Future struct {
	done chan struct{}
	resp *Response
	err  error
}

// Done is closed once the request has finished.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the request finishes or ctx ends. Ending ctx abandons
// the wait only; the request runs under the context it was started with.
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AsyncClient exposes the client's verbs without blocking. Every call runs
// the same dispatcher on its own goroutine with the parameter frame active
// at call time.
type AsyncClient struct {
	c *Client
}

// Async returns the non-blocking facade of c.
func (c *Client) Async() *AsyncClient {
	return &AsyncClient{c: c}
}

// Request starts Client.Request in the background.
func (a *AsyncClient) Request(ctx context.Context, method, url string, opts ...RequestOption) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.resp, f.err = a.c.Request(ctx, method, url, opts...)
	}()
	return f
}

// Get starts a GET request.
func (a *AsyncClient) Get(ctx context.Context, url string, opts ...RequestOption) *Future {
	return a.Request(ctx, http.MethodGet, url, opts...)
}

// Post starts a POST request with body sent as JSON.
func (a *AsyncClient) Post(ctx context.Context, url string, body any, opts ...RequestOption) *Future {
	return a.Request(ctx, http.MethodPost, url, withBody(body, opts)...)
}

// Put starts a PUT request with body sent as JSON.
func (a *AsyncClient) Put(ctx context.Context, url string, body any, opts ...RequestOption) *Future {
	return a.Request(ctx, http.MethodPut, url, withBody(body, opts)...)
}

// Patch starts a PATCH request with body sent as JSON.
func (a *AsyncClient) Patch(ctx context.Context, url string, body any, opts ...RequestOption) *Future {
	return a.Request(ctx, http.MethodPatch, url, withBody(body, opts)...)
}

// Delete starts a DELETE request.
func (a *AsyncClient) Delete(ctx context.Context, url string, opts ...RequestOption) *Future {
	return a.Request(ctx, http.MethodDelete, url, opts...)
}

package hubspot

import (
	"context"
	"net/http"
)

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, url, opts...)
}

// Post sends body as JSON in a POST request. A nil body sends no body.
func (c *Client) Post(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, url, withBody(body, opts)...)
}

// Put sends body as JSON in a PUT request.
func (c *Client) Put(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPut, url, withBody(body, opts)...)
}

// Patch sends body as JSON in a PATCH request.
func (c *Client) Patch(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, url, withBody(body, opts)...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, url, opts...)
}

// withBody prepends the json option so explicit options can still override it.
func withBody(body any, opts []RequestOption) []RequestOption {
	if body == nil {
		return opts
	}
	return append([]RequestOption{WithJSON(body)}, opts...)
}

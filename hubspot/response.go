package hubspot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/kbukum/hubspotkit/httpclient"
)

// Response is the normalized view of a HubSpot HTTP response.
// It is immutable once constructed.
type Response struct {
	code       int
	headers    map[string]string
	text       []byte
	body       any
	expectJSON bool
}

// NewResponse wraps raw. When expectJSON is set the body is decoded as JSON;
// an undecodable body is replaced by a synthetic error body for status 500
// and reported as a ClientError for any other status.
func NewResponse(raw *httpclient.Response, expectJSON bool) (*Response, error) {
	r := &Response{
		code:       raw.StatusCode,
		headers:    maps.Clone(raw.Headers),
		text:       bytes.Clone(raw.Body),
		expectJSON: expectJSON,
	}
	if !expectJSON {
		return r, nil
	}

	if err := json.Unmarshal(raw.Body, &r.body); err != nil {
		if r.code != http.StatusInternalServerError {
			return nil, NewClientError(fmt.Sprintf(
				"got a confusing response from HubSpot, couldn't parse JSON from response but got code %d for this response: %s",
				r.code, escapeNewlines(string(raw.Body)),
			), r.code)
		}
		r.body = map[string]any{
			"error": map[string]any{
				"message": err.Error(),
				"code":    http.StatusInternalServerError,
			},
		}
	}
	return r, nil
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// Code returns the HTTP status code.
func (r *Response) Code() int { return r.code }

// Headers returns a copy of the response headers.
func (r *Response) Headers() map[string]string { return maps.Clone(r.headers) }

// Text returns the raw response body.
func (r *Response) Text() string { return string(r.text) }

// JSON returns the decoded body, or nil when JSON was not expected.
func (r *Response) JSON() any { return r.body }

// Object returns the decoded body as a JSON object, or nil when it is not one.
func (r *Response) Object() map[string]any {
	obj, _ := r.body.(map[string]any)
	return obj
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.text, v); err != nil {
		return NewClientError(fmt.Sprintf("decode HubSpot response: %v", err), r.code).WithCause(err)
	}
	return nil
}

// Successful reports whether the request succeeded. A decoded JSON object is
// successful unless it carries an "error" key; without a decoded body the
// status decides.
func (r *Response) Successful() bool {
	if !r.expectJSON || r.body == nil {
		return r.code < http.StatusBadRequest
	}
	if obj, ok := r.body.(map[string]any); ok {
		_, failed := obj["error"]
		return !failed
	}
	return true
}

// ErrorMessage returns "" for a successful response, body.error.message when
// present, and the raw body otherwise.
func (r *Response) ErrorMessage() string {
	if r.Successful() {
		return ""
	}
	if obj, ok := r.body.(map[string]any); ok {
		if e, ok := obj["error"].(map[string]any); ok {
			if msg, ok := e["message"].(string); ok {
				return msg
			}
		}
	}
	return string(r.text)
}

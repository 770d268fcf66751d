package hubspot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"time"

	apperrors "github.com/kbukum/hubspotkit/errors"
	"github.com/kbukum/hubspotkit/params"
)

// Request option keys. They are valid both as explicit options and in
// frames entered through Client.Context, except OptExpectJSON which is
// call-site only.
const (
	OptHeaders    = "headers"
	OptParams     = "params"
	OptJSON       = "json"
	OptData       = "data"
	OptTimeout    = "timeout"
	OptRetry      = "retry"
	OptExpectJSON = "expect_json"
)

// RequestOption sets one or more request options.
type RequestOption func(params.Params)

// WithParam sets an arbitrary option key.
func WithParam(key string, value any) RequestOption {
	return func(p params.Params) { p[key] = value }
}

// WithHeader adds a single request header.
func WithHeader(name, value string) RequestOption {
	return func(p params.Params) {
		h, _ := p[OptHeaders].(map[string]string)
		h = maps.Clone(h)
		if h == nil {
			h = map[string]string{}
		}
		h[name] = value
		p[OptHeaders] = h
	}
}

// WithHeaders replaces the request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return WithParam(OptHeaders, maps.Clone(headers))
}

// WithQueryParam adds a single query parameter.
func WithQueryParam(name, value string) RequestOption {
	return func(p params.Params) {
		q, _ := p[OptParams].(map[string]string)
		q = maps.Clone(q)
		if q == nil {
			q = map[string]string{}
		}
		q[name] = value
		p[OptParams] = q
	}
}

// WithQueryParams replaces the query parameters.
func WithQueryParams(query map[string]string) RequestOption {
	return WithParam(OptParams, maps.Clone(query))
}

// WithJSON sends v JSON-encoded as the request body.
func WithJSON(v any) RequestOption {
	return WithParam(OptJSON, v)
}

// WithData sends a raw body: []byte, string or io.Reader.
func WithData(v any) RequestOption {
	return WithParam(OptData, v)
}

// WithTimeout overrides the client's default timeout.
func WithTimeout(d time.Duration) RequestOption {
	return WithParam(OptTimeout, d)
}

// WithRetry enables or disables health-gated retry.
func WithRetry(enabled bool) RequestOption {
	return WithParam(OptRetry, enabled)
}

// WithRetryPolicy enables retry with a custom policy.
func WithRetryPolicy(p RetryPolicy) RequestOption {
	return WithParam(OptRetry, p)
}

// WithoutJSON skips response body parsing; success is judged by status only.
func WithoutJSON() RequestOption {
	return WithParam(OptExpectJSON, false)
}

// requestOptions is the typed view of a merged option set.
type requestOptions struct {
	headers map[string]string
	query   map[string]string
	body    []byte
	// contentType is set when the body came from the json option.
	contentType string
	timeout     time.Duration
	// retry is nil when retry is disabled.
	retry *RetryPolicy
}

// collect applies opts to a fresh option set.
func collect(opts []RequestOption) params.Params {
	p := params.Params{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// popExpectJSON removes the call-site expect_json flag, defaulting to true.
func popExpectJSON(p params.Params) (bool, error) {
	v, ok := p.Pop(OptExpectJSON)
	if !ok {
		return true, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalidOption(OptExpectJSON, v)
	}
	return b, nil
}

// parseOptions validates a merged option set. base is the client's retry
// policy used when retry is enabled without an explicit policy.
func parseOptions(p params.Params, base RetryPolicy) (*requestOptions, error) {
	base = base.normalized()
	ro := &requestOptions{retry: &base}

	for key, v := range p {
		switch key {
		case OptHeaders:
			h, err := stringMap(key, v)
			if err != nil {
				return nil, err
			}
			ro.headers = h
		case OptParams:
			q, err := stringMap(key, v)
			if err != nil {
				return nil, err
			}
			ro.query = q
		case OptTimeout:
			d, ok := v.(time.Duration)
			if !ok || d < 0 {
				return nil, invalidOption(key, v)
			}
			ro.timeout = d
		case OptRetry:
			r, err := parseRetry(v, base)
			if err != nil {
				return nil, err
			}
			ro.retry = r
		case OptJSON, OptData:
		case OptExpectJSON:
			return nil, apperrors.InvalidInput(key, "only valid as a call-site option")
		default:
			return nil, apperrors.InvalidInput(key, "unknown request option")
		}
	}

	if err := ro.setBody(p); err != nil {
		return nil, err
	}
	return ro, nil
}

func (ro *requestOptions) setBody(p params.Params) error {
	jsonVal, hasJSON := p[OptJSON]
	dataVal, hasData := p[OptData]
	if hasJSON && jsonVal == nil {
		hasJSON = false
	}
	if hasData && dataVal == nil {
		hasData = false
	}
	switch {
	case hasJSON && hasData:
		return apperrors.InvalidInput(OptJSON, "json and data are mutually exclusive")
	case hasJSON:
		body, err := json.Marshal(jsonVal)
		if err != nil {
			return apperrors.InvalidInput(OptJSON, err.Error()).WithCause(err)
		}
		ro.body = body
		ro.contentType = "application/json"
	case hasData:
		// Readers are drained up front so a reissued request can resend them.
		switch d := dataVal.(type) {
		case []byte:
			ro.body = bytes.Clone(d)
		case string:
			ro.body = []byte(d)
		case io.Reader:
			b, err := io.ReadAll(d)
			if err != nil {
				return apperrors.InvalidInput(OptData, err.Error()).WithCause(err)
			}
			ro.body = b
		default:
			return invalidOption(OptData, dataVal)
		}
	}
	return nil
}

func parseRetry(v any, base RetryPolicy) (*RetryPolicy, error) {
	switch r := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if !r {
			return nil, nil
		}
		return &base, nil
	case RetryPolicy:
		p := r.merged(base)
		return &p, nil
	case *RetryPolicy:
		if r == nil {
			return nil, nil
		}
		p := r.merged(base)
		return &p, nil
	default:
		return nil, invalidOption(OptRetry, v)
	}
}

func stringMap(key string, v any) (map[string]string, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return maps.Clone(m), nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, invalidOption(key+"."+k, val)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, invalidOption(key, v)
	}
}

func invalidOption(key string, v any) error {
	return apperrors.InvalidInput(key, fmt.Sprintf("unsupported value of type %T", v))
}

package httpclient

import "time"

// Request describes an outbound HTTP request.
type Request struct {
	Method string
	// Path is appended to the adapter's BaseURL. Absolute URLs are used as-is.
	Path string
	// Headers are merged over the adapter defaults.
	Headers map[string]string
	// Query is merged over any query already in Path.
	Query map[string]string
	// Body is sent as-is; callers set Content-Type themselves.
	Body []byte
	// Auth overrides the adapter-level auth for this request.
	Auth *AuthConfig
	// Timeout overrides the adapter's default timeout for this request.
	Timeout time.Duration
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

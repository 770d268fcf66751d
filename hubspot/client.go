package hubspot

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/hubspotkit/httpclient"
	"github.com/kbukum/hubspotkit/logger"
	"github.com/kbukum/hubspotkit/observability"
	"github.com/kbukum/hubspotkit/params"
	"github.com/kbukum/hubspotkit/resilience"
)

// HeaderRequestID carries the per-call correlation id.
const HeaderRequestID = "X-Request-ID"

// Request outcomes recorded on spans and metrics.
const (
	outcomeSuccess   = "success"
	outcomeError     = "error"
	outcomeTimeout   = "timeout"
	outcomeUnhealthy = "unhealthy"
	outcomeCanceled  = "canceled"
	outcomeInvalid   = "invalid"
)

var (
	errEmptyResponse = errors.New("transport returned neither response nor error")
	errUnhealthy     = errors.New("health check failed")
)

// Client issues HubSpot API requests. A request that times out waits for
// the service to report healthy and is then reissued once.
type Client struct {
	cfg       Config
	transport Transport
	adapter   *httpclient.Adapter
	health    HealthChecker
	store     *params.Store
	log       *logger.Logger
	metrics   *observability.DispatchMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport, typically with a fake in tests.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithHealthChecker replaces the default health prober.
func WithHealthChecker(h HealthChecker) Option {
	return func(c *Client) { c.health = h }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records dispatch metrics on m.
func WithMetrics(m *observability.DispatchMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client. cfg is defaulted and validated.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:   cfg,
		store: params.NewStore(cfg.Name),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		a, err := newAdapter(cfg)
		if err != nil {
			return nil, err
		}
		c.adapter = a
		c.transport = a
	}
	if c.health == nil {
		c.health = &prober{client: c}
	}
	if c.log == nil {
		c.log = logger.Get(cfg.Name)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Close releases idle transport resources.
func (c *Client) Close(ctx context.Context) error {
	if c.adapter != nil {
		return c.adapter.Close(ctx)
	}
	return nil
}

// Context enters a frame of default request options. Requests made with the
// returned context see overrides merged over any enclosing frame; explicit
// options still win. The guard must be released, usually with defer.
func (c *Client) Context(ctx context.Context, overrides params.Params) (context.Context, *params.Guard) {
	return c.store.Enter(ctx, overrides)
}

// WithParams runs fn inside a frame of default request options.
func (c *Client) WithParams(ctx context.Context, overrides params.Params, fn func(ctx context.Context) error) error {
	return c.store.Scope(ctx, overrides, fn)
}

// Params returns the options in effect for ctx.
func (c *Client) Params(ctx context.Context) params.Params {
	return c.store.Current(ctx)
}

// Request sends one logical request. Relative urls resolve against the
// configured base URL.
//
// When the request times out and retry is enabled, the health prober is
// polled under the retry policy. If the service recovers the request is
// reissued once and the second result is returned as-is; if the budget runs
// out a ServiceUnhealthy error is returned. Other transport failures and
// caller cancellation are returned immediately.
func (c *Client) Request(ctx context.Context, method, url string, opts ...RequestOption) (*Response, error) {
	start := time.Now()

	explicit := collect(opts)
	expectJSON, err := popExpectJSON(explicit)
	if err != nil {
		return nil, err
	}
	ro, err := parseOptions(c.store.CurrentWith(ctx, explicit), c.cfg.Retry)
	if err != nil {
		c.metrics.RecordRequest(ctx, method, 0, outcomeInvalid, time.Since(start))
		return nil, err
	}

	requestID, ok := logger.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = logger.ContextWithRequestID(ctx, requestID)
	}
	target := httpclient.ResolveURL(c.cfg.BaseURL, url)

	ctx, span := observability.StartSpan(ctx, observability.SpanHubSpotRequest, trace.WithAttributes(
		attribute.String(observability.AttrRequestID, requestID),
		attribute.String(observability.AttrHTTPMethod, method),
		attribute.String(observability.AttrHTTPURL, target),
	))
	defer span.End()

	log := c.log.WithContext(ctx)
	log.Debug("dispatching request", logger.Fields(
		logger.FieldMethod, method,
		logger.FieldURL, target,
	))

	req := c.buildRequest(method, target, requestID, ro)

	raw, err := send(ctx, c.transport, req)
	if err != nil && c.isRecoverable(ctx, err) {
		raw, err = c.recover(ctx, req, ro, err)
	}
	if err != nil {
		outcome := outcomeFor(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
		c.metrics.RecordRequest(ctx, method, 0, outcome, time.Since(start))
		return nil, err
	}

	span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, raw.StatusCode))
	resp, err := NewResponse(raw, expectJSON)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(observability.AttrOutcome, outcomeError))
		c.metrics.RecordRequest(ctx, method, raw.StatusCode, outcomeError, time.Since(start))
		return nil, err
	}
	span.SetAttributes(attribute.String(observability.AttrOutcome, outcomeSuccess))
	c.metrics.RecordRequest(ctx, method, raw.StatusCode, outcomeSuccess, time.Since(start))
	return resp, nil
}

func (c *Client) buildRequest(method, target, requestID string, ro *requestOptions) httpclient.Request {
	headers := maps.Clone(ro.headers)
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers[HeaderRequestID]; !ok {
		headers[HeaderRequestID] = requestID
	}
	if ro.contentType != "" {
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = ro.contentType
		}
	}

	// The default adapter authenticates itself; a custom transport gets the
	// key here. Either way it replaces any caller parameter of the same name.
	query := maps.Clone(ro.query)
	if c.adapter == nil && c.cfg.AuthScheme == AuthSchemeQuery && c.cfg.AuthToken != "" {
		if query == nil {
			query = map[string]string{}
		}
		query[c.cfg.AuthParam] = c.cfg.AuthToken
	}

	req := httpclient.Request{
		Method:  method,
		Path:    target,
		Headers: headers,
		Query:   query,
		Body:    ro.body,
		Timeout: ro.timeout,
	}
	if req.Timeout <= 0 {
		req.Timeout = c.cfg.Timeout
	}
	return req
}

// isRecoverable reports whether err is a timeout on a still-live call.
func (c *Client) isRecoverable(ctx context.Context, err error) bool {
	return httpclient.IsTimeout(err) && ctx.Err() == nil
}

// recover handles a timed-out first attempt: with retry disabled the timeout
// is returned, otherwise the health poll runs and the request is reissued
// once if the service recovers.
func (c *Client) recover(ctx context.Context, req httpclient.Request, ro *requestOptions, cause error) (*httpclient.Response, error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(observability.EventTimeout)
	c.metrics.RecordTimeout(ctx, req.Method)

	log := c.log.WithContext(ctx)
	log.Warn("HubSpot request timed out", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.Path,
		logger.FieldError, cause.Error(),
	))

	if ro.retry == nil {
		return nil, cause
	}

	if err := c.awaitHealthy(ctx, *ro.retry); err != nil {
		return nil, err
	}

	log.Info("HubSpot recovered, reissuing request", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.Path,
	))
	span.AddEvent(observability.EventReissue)
	return send(ctx, c.transport, req)
}

// awaitHealthy polls the health checker until it reports healthy or the
// policy is exhausted.
func (c *Client) awaitHealthy(ctx context.Context, policy RetryPolicy) error {
	policy = policy.normalized()
	span := trace.SpanFromContext(ctx)
	log := c.log.WithContext(ctx)

	attempt := 0
	err := resilience.RetryFunc(ctx, resilience.RetryConfig{
		MaxAttempts: policy.MaxTries,
		MaxElapsed:  policy.MaxTime,
		Backoff:     policy.Backoff,
		RetryIf:     func(err error) bool { return errors.Is(err, errUnhealthy) },
		OnRetry: func(attempt int, _ error, wait time.Duration) {
			log.Debug("HubSpot still unhealthy", logger.Fields(
				logger.FieldAttempt, attempt,
				"wait_ms", wait.Milliseconds(),
			))
		},
	}, func() error {
		attempt++
		healthy := c.health.Healthy(ctx, c.cfg.HealthTimeout)
		c.metrics.RecordHealthCheck(ctx, healthy)
		span.AddEvent(observability.EventHealthPoll, trace.WithAttributes(
			attribute.Int(observability.AttrAttempt, attempt),
			attribute.Bool(observability.AttrHealthy, healthy),
		))
		if !healthy {
			return errUnhealthy
		}
		return nil
	})
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return httpclient.NewCanceledError(ctxErr)
	}
	c.metrics.RecordExhausted(ctx)
	log.Error("giving up on HubSpot", logger.Fields(
		logger.FieldAttempt, attempt,
		logger.FieldError, err.Error(),
	))
	return NewServiceUnhealthyError(err)
}

func outcomeFor(err error) string {
	switch {
	case IsServiceUnhealthy(err):
		return outcomeUnhealthy
	case httpclient.IsTimeout(err):
		return outcomeTimeout
	case httpclient.IsCanceled(err):
		return outcomeCanceled
	default:
		return outcomeError
	}
}

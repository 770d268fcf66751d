package hubspot

import (
	"context"
	"net/http"
	"time"

	"github.com/kbukum/hubspotkit/logger"
	"github.com/kbukum/hubspotkit/observability"
)

// HealthChecker reports whether HubSpot currently accepts requests.
type HealthChecker interface {
	Healthy(ctx context.Context, timeout time.Duration) bool
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context, timeout time.Duration) bool

// Healthy calls f.
func (f HealthCheckerFunc) Healthy(ctx context.Context, timeout time.Duration) bool {
	return f(ctx, timeout)
}

// prober is the default HealthChecker. It issues a GET against the health
// URL through the dispatcher with retry off and no JSON parsing. Bodies from
// enclosing parameter frames are cleared.
type prober struct {
	client *Client
}

func (p *prober) Healthy(ctx context.Context, timeout time.Duration) bool {
	c := p.client
	url := c.cfg.HealthURL

	ctx, span := observability.StartSpan(ctx, observability.SpanHealthProbe)
	defer span.End()

	resp, err := c.Request(ctx, http.MethodGet, url,
		WithRetry(false), WithTimeout(timeout), WithoutJSON(),
		WithJSON(nil), WithData(nil))
	if err != nil {
		c.log.WithContext(ctx).WithError(err).Error("HubSpot unavailable", logger.Fields(
			logger.FieldURL, url,
		))
		observability.SetSpanAttribute(ctx, observability.AttrHealthy, false)
		return false
	}
	healthy := resp.Code() == http.StatusOK
	if !healthy {
		c.log.WithContext(ctx).Error("HubSpot not healthy", logger.Fields(
			logger.FieldURL, url,
			logger.FieldStatus, resp.Code(),
		))
	}
	observability.SetSpanAttribute(ctx, observability.AttrHealthy, healthy)
	return healthy
}

// Healthy probes the health URL with the configured health timeout.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.health.Healthy(ctx, c.cfg.HealthTimeout)
}

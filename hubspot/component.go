package hubspot

import (
	"context"
	"fmt"

	"github.com/kbukum/hubspotkit/component"
)

// Component manages a Client's lifecycle. The client is created in Start.
type Component struct {
	cfg    Config
	opts   []Option
	client *Client
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a HubSpot client component.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{cfg: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.cfg.Name == "" {
		return "hubspot"
	}
	return c.cfg.Name
}

// Start creates the client.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.cfg, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop releases the client's transport.
func (c *Component) Stop(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close(ctx)
	c.client = nil
	return err
}

// Health probes HubSpot through the client's health checker.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if !c.client.Healthy(ctx) {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "health check failed"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe summarizes the client configuration.
func (c *Component) Describe() component.Description {
	cfg := c.cfg
	cfg.ApplyDefaults()
	return component.Description{
		Name:    c.Name(),
		Type:    "hubspot",
		Details: fmt.Sprintf("%s auth=%s timeout=%s retry=%d/%s", cfg.BaseURL, cfg.AuthScheme, cfg.Timeout, cfg.Retry.MaxTries, cfg.Retry.MaxTime),
	}
}

// Client returns the client. Must be called after Start.
func (c *Component) Client() *Client {
	return c.client
}

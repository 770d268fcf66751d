package hubspot

import (
	"strings"
	"time"

	"github.com/kbukum/hubspotkit/validation"
)

const (
	DefaultBaseURL       = "https://api.hubapi.com/crm/v3/objects"
	DefaultAuthParam     = "hapikey"
	DefaultTimeout       = 10 * time.Second
	DefaultHealthTimeout = time.Second

	// AuthSchemeQuery sends the token as the AuthParam query parameter.
	AuthSchemeQuery = "query"
	// AuthSchemeBearer sends the token as a bearer Authorization header.
	AuthSchemeBearer = "bearer"
)

// Config configures a HubSpot client.
type Config struct {
	// Name identifies the client in logs and component listings.
	Name string `yaml:"name" mapstructure:"name"`

	BaseURL   string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`
	// AuthParam is the query parameter carrying AuthToken. Defaults to "hapikey".
	AuthParam string `yaml:"auth_param" mapstructure:"auth_param" validate:"required,query_key"`
	// AuthScheme is "query" (default) or "bearer".
	AuthScheme string `yaml:"auth_scheme" mapstructure:"auth_scheme" validate:"oneof=query bearer"`

	// Timeout applies to every request without an explicit timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// HealthURL is probed after a timeout. Defaults to <BaseURL>/contacts?limit=1.
	HealthURL     string        `yaml:"health_url" mapstructure:"health_url" validate:"required,url"`
	HealthTimeout time.Duration `yaml:"health_timeout" mapstructure:"health_timeout" validate:"gt=0"`

	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry is the policy used when a request enables retry without its own.
	Retry RetryPolicy `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "hubspot"
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.AuthParam == "" {
		c.AuthParam = DefaultAuthParam
	}
	if c.AuthScheme == "" {
		c.AuthScheme = AuthSchemeQuery
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HealthURL == "" {
		c.HealthURL = c.BaseURL + "/contacts?limit=1"
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = DefaultHealthTimeout
	}
	c.Retry = c.Retry.normalized()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// ContactsURL is the contacts collection endpoint.
func (c *Config) ContactsURL() string { return c.BaseURL + "/contacts" }

// CompaniesURL is the companies collection endpoint.
func (c *Config) CompaniesURL() string { return c.BaseURL + "/companies" }

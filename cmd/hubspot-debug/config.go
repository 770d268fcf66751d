package main

import (
	"fmt"

	"github.com/kbukum/hubspotkit/config"
	"github.com/kbukum/hubspotkit/hubspot"
	"github.com/kbukum/hubspotkit/observability"
	"github.com/kbukum/hubspotkit/validation"
)

// DebugConfig is loaded from config.yml, .env and HUBSPOT_DEBUG_* variables.
type DebugConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HubSpot       hubspot.Config       `yaml:"hubspot" mapstructure:"hubspot"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

func (c *DebugConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.HubSpot.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *DebugConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HubSpot.Validate(); err != nil {
		return fmt.Errorf("hubspot: %w", err)
	}
	if err := validation.Validate(&c.Observability); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

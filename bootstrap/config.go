package bootstrap

import (
	"github.com/kbukum/hubspotkit/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods:
//
//	type DebugConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HubSpot hubspot.Config `yaml:"hubspot" mapstructure:"hubspot"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

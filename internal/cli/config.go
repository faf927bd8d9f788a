package cli

import (
	"fmt"

	"github.com/kbukum/rallykit/config"
	"github.com/kbukum/rallykit/observability"
	"github.com/kbukum/rallykit/restapi"
	"github.com/kbukum/rallykit/version"
)

const appName = "rallyctl"

// Config is the rallyctl configuration file layout:
//
//	name: rallyctl
//	logging:
//	  level: info
//	rally:
//	  server: https://rally1.rallydev.com
//	  apikey: _abc123
//	telemetry:
//	  endpoint: localhost:4318
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Rally                restapi.Config       `yaml:"rally" mapstructure:"rally"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in the service, client and telemetry defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = appName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Rally.ApplyDefaults()

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = version.Short()
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Rally.Validate(); err != nil {
		return fmt.Errorf("config.rally: %w", err)
	}
	return nil
}

package restapi

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/kbukum/rallykit/config"
	"github.com/kbukum/rallykit/resilience"
	"github.com/kbukum/rallykit/transport"
	"github.com/kbukum/rallykit/validation"
	"github.com/kbukum/rallykit/version"
)

// Integration identifies the calling library to the server.
type Integration struct {
	Library string `yaml:"library" mapstructure:"library"`
	Name    string `yaml:"name" mapstructure:"name"`
	Vendor  string `yaml:"vendor" mapstructure:"vendor"`
	Version string `yaml:"version" mapstructure:"version"`
}

const defaultVendor = "Rally Software, Inc."

// Config is the construction-time configuration of a Client. It is read
// once, by LoadConfig or by the caller, and passed to New by value.
type Config struct {
	Server     string        `yaml:"server" mapstructure:"server" validate:"required,url"`
	APIVersion string        `yaml:"api_version" mapstructure:"api_version" validate:"required"`
	Username   string        `yaml:"username" mapstructure:"username"`
	Password   string        `yaml:"password" mapstructure:"password"`
	APIKey     string        `yaml:"apikey" mapstructure:"apikey"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// Jar keeps session cookies between calls. Defaults to true.
	Jar         *bool             `yaml:"jar" mapstructure:"jar"`
	Headers     map[string]string `yaml:"headers" mapstructure:"headers"`
	Integration Integration       `yaml:"integration" mapstructure:"integration"`
	// AllowResultErrors resolves responses that carry a non-empty Errors
	// array, so Get and Query surface them in Result.Errors.
	AllowResultErrors bool `yaml:"allow_result_errors" mapstructure:"allow_result_errors"`

	Retry          *resilience.RetryConfig          `yaml:"retry" mapstructure:"retry"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	RateLimit      *resilience.RateLimiterConfig    `yaml:"rate_limit" mapstructure:"rate_limit"`
	Bulkhead       *resilience.BulkheadConfig       `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// ApplyDefaults fills in the server, API version, cookie jar and
// integration headers.
func (c *Config) ApplyDefaults() {
	if c.Server == "" {
		c.Server = transport.DefaultServer
	}
	if c.APIVersion == "" {
		c.APIVersion = transport.DefaultAPIVersion
	}
	if c.Jar == nil {
		jar := true
		c.Jar = &jar
	}
	if c.Integration.Library == "" {
		c.Integration.Library = version.Library()
	}
	if c.Integration.Name == "" {
		c.Integration.Name = version.LibraryName
	}
	if c.Integration.Vendor == "" {
		c.Integration.Vendor = defaultVendor
	}
	if c.Integration.Version == "" {
		c.Integration.Version = strings.TrimPrefix(version.Version, "v")
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("restapi: %w", err)
	}
	return nil
}

// IntegrationHeaders returns the X-RallyIntegration* headers.
func (c *Config) IntegrationHeaders() map[string]string {
	return map[string]string{
		"X-RallyIntegrationLibrary": c.Integration.Library,
		"X-RallyIntegrationName":    c.Integration.Name,
		"X-RallyIntegrationVendor":  c.Integration.Vendor,
		"X-RallyIntegrationVersion": c.Integration.Version,
	}
}

// TransportConfig derives the HTTP transport configuration. Headers
// override the integration headers.
func (c *Config) TransportConfig() transport.Config {
	headers := c.IntegrationHeaders()
	maps.Copy(headers, c.Headers)

	jar := true
	if c.Jar != nil {
		jar = *c.Jar
	}
	return transport.Config{
		Server:     c.Server,
		APIVersion: c.APIVersion,
		Auth: transport.Auth{
			Username: c.Username,
			Password: c.Password,
			APIKey:   c.APIKey,
		},
		Timeout:           c.Timeout,
		Jar:               jar,
		Headers:           headers,
		AllowResultErrors: c.AllowResultErrors,
		Retry:             c.Retry,
		CircuitBreaker:    c.CircuitBreaker,
		RateLimit:         c.RateLimit,
		Bulkhead:          c.Bulkhead,
	}
}

// fileConfig is the layout of the rally config file.
type fileConfig struct {
	Rally Config `yaml:"rally" mapstructure:"rally"`
}

// LoadConfig reads the rally section of the config file and RALLY_*
// environment variables (RALLY_SERVER, RALLY_USERNAME, RALLY_PASSWORD,
// RALLY_APIKEY, ...), then applies defaults.
func LoadConfig(opts ...config.LoaderOption) (Config, error) {
	var fc fileConfig
	if err := config.LoadConfig("rally", &fc, opts...); err != nil {
		return Config{}, err
	}
	fc.Rally.ApplyDefaults()
	return fc.Rally, nil
}

package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/rallykit/resilience"
	"github.com/kbukum/rallykit/validation"
)

const (
	DefaultServer     = "https://rally1.rallydev.com"
	DefaultAPIVersion = "v2.0"
	defaultTimeout    = 30 * time.Second
	webservicePath    = "/slm/webservice/"
)

// Config configures the HTTP transport.
type Config struct {
	// Name labels logs, spans and metrics. Defaults to "wsapi".
	Name       string        `yaml:"name" mapstructure:"name"`
	Server     string        `yaml:"server" mapstructure:"server" validate:"required,url"`
	APIVersion string        `yaml:"api_version" mapstructure:"api_version" validate:"required"`
	Auth       Auth          `yaml:"auth" mapstructure:"auth"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// Jar keeps session cookies between requests.
	Jar bool `yaml:"jar" mapstructure:"jar"`
	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// AllowResultErrors resolves responses whose Errors array is non-empty
	// instead of rejecting them with ResultErrors.
	AllowResultErrors bool `yaml:"allow_result_errors" mapstructure:"allow_result_errors"`

	// Nil policies are disabled.
	Retry          *resilience.RetryConfig          `yaml:"retry" mapstructure:"retry"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	RateLimit      *resilience.RateLimiterConfig    `yaml:"rate_limit" mapstructure:"rate_limit"`
	Bulkhead       *resilience.BulkheadConfig       `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "wsapi"
	}
	if c.Server == "" {
		c.Server = DefaultServer
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	return nil
}

// BaseURL returns <server>/slm/webservice/<apiVersion>.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.Server, "/") + webservicePath + c.APIVersion
}

package transport

import (
	"context"
	"fmt"

	"github.com/kbukum/rallykit/component"
)

// Component manages a Client's lifecycle.
type Component struct {
	config Config
	opts   []Option
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component; the Client is built in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string { return "transport." + c.config.Name }

// Start builds the Client.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

// Health is unhealthy before Start and while the circuit is open.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	case !c.client.IsAvailable(ctx):
		h.Status, h.Message = component.StatusDegraded, "circuit open"
	}
	return h
}

// Describe reports the endpoint and auth mode.
func (c *Component) Describe() component.Description {
	mode := "none"
	switch {
	case c.config.Auth.APIKey != "":
		mode = "api_key"
	case c.config.Auth.Username != "":
		mode = "basic"
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "transport",
		Details: fmt.Sprintf("%s auth=%s", c.config.BaseURL(), mode),
	}
}

// Client returns the Client built by Start, or nil.
func (c *Component) Client() *Client { return c.client }

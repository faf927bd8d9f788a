package restapi

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

func (c *Component) Name() string { return "restapi" }

func (c *Component) Start(_ context.Context) error {
	client, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.client == nil {
		h.Status, h.Message = component.StatusUnhealthy, "not started"
		return h
	}
	if c.client.owned != nil && !c.client.owned.IsAvailable(ctx) {
		h.Status, h.Message = component.StatusDegraded, "circuit open"
	}
	return h
}

func (c *Component) Describe() component.Description {
	tc := c.config.TransportConfig()
	return component.Description{
		Name:    c.Name(),
		Type:    "client",
		Details: fmt.Sprintf("%s integration=%q", tc.BaseURL(), c.config.Integration.Name),
	}
}

// Client returns the Client built by Start, or nil.
func (c *Component) Client() *Client { return c.client }

package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed piece of client infrastructure such as
// the WSAPI transport or the REST client built on it.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is a one-line self report used in startup logs.
type Description struct {
	// Name defaults to the component's Name().
	Name string
	// Type categorizes the component, e.g. "transport" or "client".
	Type string
	// Details is shown verbatim, e.g. "https://rally1.rallydev.com/slm/webservice/v2.0 auth=basic".
	Details string
}

// Describable is optionally implemented by components that can describe
// their configuration.
type Describable interface {
	Describe() Description
}

package provider

import "context"

// Provider is the base interface all providers implement.
type Provider interface {
	// Name returns the provider's name, used in logs, spans and metrics.
	Name() string
	// IsAvailable reports whether the provider can take requests.
	IsAvailable(ctx context.Context) bool
}

// Package provider defines the RequestResponse abstraction the transport
// is built on, plus composable middleware for logging, tracing, metrics
// and resilience.
//
//	exchange := provider.Chain(
//	    provider.WithLogging[*Request, Payload](log),
//	    provider.WithTracing[*Request, Payload]("rallykit"),
//	    provider.WithMetrics[*Request, Payload](metrics),
//	    provider.WithResilience[*Request, Payload](cfg),
//	)(provider.Func("wsapi", do))
package provider

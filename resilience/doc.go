// Package resilience provides the fault-tolerance primitives the transport
// wraps around every WSAPI call: Retry with exponential backoff, a
// CircuitBreaker, a token bucket RateLimiter and a concurrency Bulkhead.
//
// Each config struct carries yaml and mapstructure tags so policies can be
// loaded from the rally section of a config file.
package resilience

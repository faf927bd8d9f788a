// Package observability wires OpenTelemetry tracing and metrics for WSAPI
// traffic.
//
//	shutdown, err := observability.Setup(ctx, observability.DefaultConfig("rallyctl"))
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "rally.get")
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("rallykit"))
//	metrics.RecordRequestEnd(ctx, "GET", "ok", duration)
package observability

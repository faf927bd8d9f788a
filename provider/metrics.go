package provider

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/kbukum/rallykit/errors"
	"github.com/kbukum/rallykit/observability"
)

// WithMetrics records in-flight count, duration and errors for each call.
// A nil metrics set disables the middleware.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if metrics == nil {
			return inner
		}
		return &metricsRR[I, O]{inner: inner, metrics: metrics}
	}
}

type metricsRR[I, O any] struct {
	inner   RequestResponse[I, O]
	metrics *observability.Metrics
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	m.metrics.RecordRequestStart(ctx)
	output, err := m.inner.Execute(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, errorType(err), m.inner.Name())
	}
	m.metrics.RecordRequestEnd(ctx, m.inner.Name(), status, time.Since(start))
	return output, err
}

// errorType labels an error by the code it reports, if any.
func errorType(err error) string {
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "error"
}

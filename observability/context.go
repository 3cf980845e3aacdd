package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LifecycleContext holds observability state for a tracked lifecycle operation,
// typically one GetOrCreate or Destroy call.
type LifecycleContext struct {
	RegistryID string
	ObjectName string
	ObjectKind string
	StartTime  time.Time
	Metrics    *Metrics
}

// NewLifecycleContext creates a lifecycle context for the named object.
// If metrics is nil, metric recording is silently skipped.
func NewLifecycleContext(registryID, objectName, objectKind string, metrics *Metrics) *LifecycleContext {
	return &LifecycleContext{
		RegistryID: registryID,
		ObjectName: objectName,
		ObjectKind: objectKind,
		StartTime:  time.Now(),
		Metrics:    metrics,
	}
}

// lifecycleContextKey is the context key for LifecycleContext.
type lifecycleContextKey struct{}

// WithLifecycleContext stores a LifecycleContext in the context.
func WithLifecycleContext(ctx context.Context, lc *LifecycleContext) context.Context {
	return context.WithValue(ctx, lifecycleContextKey{}, lc)
}

// LifecycleContextFromContext retrieves the LifecycleContext from context, or nil.
func LifecycleContextFromContext(ctx context.Context) *LifecycleContext {
	if lc, ok := ctx.Value(lifecycleContextKey{}).(*LifecycleContext); ok {
		return lc
	}
	return nil
}

// StartCreationSpan starts a traced span for an object creation.
func (lc *LifecycleContext) StartCreationSpan(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanGetOrCreate)
	span.SetAttributes(
		attribute.String(AttrRegistryID, lc.RegistryID),
		attribute.String(AttrObjectName, lc.ObjectName),
	)
	if lc.ObjectKind != "" {
		span.SetAttributes(attribute.String(AttrObjectKind, lc.ObjectKind))
	}
	return ctx, span
}

// EndCreation ends the span and records creation metrics.
func (lc *LifecycleContext) EndCreation(ctx context.Context, span trace.Span, err error) {
	duration := time.Since(lc.StartTime)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if lc.Metrics != nil {
		lc.Metrics.RecordCreation(ctx, lc.ObjectName, status, duration)
	}
}

// Duration returns the elapsed time since the operation started.
func (lc *LifecycleContext) Duration() time.Duration {
	return time.Since(lc.StartTime)
}

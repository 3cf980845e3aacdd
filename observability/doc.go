// Package observability wires OpenTelemetry tracing and metrics into
// container lifecycle operations.
//
// InitTracer and InitMeter set up the global OTLP HTTP providers.
// LifecycleContext ties a single creation or destruction to a span and
// the container metric instruments:
//
//	lc := observability.NewLifecycleContext(registryID, "orderService", "service", metrics)
//	ctx, span := lc.StartCreationSpan(ctx)
//	obj, err := create(ctx)
//	lc.EndCreation(ctx, span, err)
package observability

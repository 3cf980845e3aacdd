package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/skillsenselab/containerkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name reported for this container process.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds metric instruments for container lifecycle observability.
type Metrics struct {
	creationTotal    metric.Int64Counter
	creationDuration metric.Float64Histogram
	activeSingletons metric.Int64UpDownCounter
	destructionTotal metric.Int64Counter
	proxyTotal       metric.Int64Counter
	errorTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	creationTotal, err := meter.Int64Counter("container.creation.total",
		metric.WithDescription("Total number of object creations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.creation.total counter: %w", err)
	}

	creationDuration, err := meter.Float64Histogram("container.creation.duration",
		metric.WithDescription("Duration of object creation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.creation.duration histogram: %w", err)
	}

	activeSingletons, err := meter.Int64UpDownCounter("container.singletons.active",
		metric.WithDescription("Number of fully-initialized singletons in the registry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.singletons.active gauge: %w", err)
	}

	destructionTotal, err := meter.Int64Counter("container.destruction.total",
		metric.WithDescription("Total number of object destructions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.destruction.total counter: %w", err)
	}

	proxyTotal, err := meter.Int64Counter("container.proxy.total",
		metric.WithDescription("Total number of objects wrapped in proxies"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.proxy.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("container.error.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.error.total counter: %w", err)
	}

	return &Metrics{
		creationTotal:    creationTotal,
		creationDuration: creationDuration,
		activeSingletons: activeSingletons,
		destructionTotal: destructionTotal,
		proxyTotal:       proxyTotal,
		errorTotal:       errorTotal,
	}, nil
}

// RecordCreation records a completed object creation and grows the active count.
func (m *Metrics) RecordCreation(ctx context.Context, name, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("object", name),
		attribute.String("status", status),
	)
	m.creationTotal.Add(ctx, 1, attrs)
	m.creationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("object", name),
	))
	if status == "ok" {
		m.activeSingletons.Add(ctx, 1)
	}
}

// RecordDestruction records an object destruction and shrinks the active count.
func (m *Metrics) RecordDestruction(ctx context.Context, name, status string) {
	m.destructionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("object", name),
		attribute.String("status", status),
	))
	m.activeSingletons.Add(ctx, -1)
}

// RecordProxy records that an object was wrapped in a proxy.
func (m *Metrics) RecordProxy(ctx context.Context, name string, behaviorCount int) {
	m.proxyTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("object", name),
		attribute.Int("behaviors", behaviorCount),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}

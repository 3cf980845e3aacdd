package container

import (
	"context"
	"fmt"
	"reflect"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/skillsenselab/containerkit/autoproxy"
	"github.com/skillsenselab/containerkit/config"
	"github.com/skillsenselab/containerkit/errors"
	"github.com/skillsenselab/containerkit/lifecycle"
	"github.com/skillsenselab/containerkit/logger"
	"github.com/skillsenselab/containerkit/observability"
	"github.com/skillsenselab/containerkit/registry"
	"github.com/skillsenselab/containerkit/version"
)

// Container bundles the object registry, the lifecycle hook chain and
// the proxy creator behind one facade, configured from Settings.
//
// Example:
//
//	settings, err := container.LoadSettings("orders")
//	c, err := container.New(settings, container.WithSelector(mySelector))
//	svc, err := c.Provide(lifecycle.Definition{
//	    Name: "orderService",
//	    New:  func() (any, error) { return newOrderService(), nil },
//	})
type Container struct {
	Name     string
	Settings *config.Settings
	Registry *registry.Registry
	Aliases  *registry.AliasResolver
	Hooks    *lifecycle.Hooks
	Creator  *lifecycle.Creator
	Proxies  *autoproxy.Creator
	Logger   *logger.Logger
	Metrics  *observability.Metrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// LoadSettings loads, defaults and validates container settings for the
// named container.
func LoadSettings(name string, opts ...config.LoaderOption) (*config.Settings, error) {
	var s config.Settings
	if err := config.Load(name, &s, opts...); err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = name
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation: %w", err)
	}
	return &s, nil
}

// New builds a container from validated settings. The logger is
// initialized from the settings' logging section unless one is supplied.
func New(settings *config.Settings, opts ...Option) (*Container, error) {
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation: %w", err)
	}

	o := resolveOptions(opts)

	c := &Container{
		Name:     settings.Name,
		Settings: settings,
		Aliases:  registry.NewAliasResolver(),
		Hooks:    lifecycle.NewHooks(),
	}

	if o.logger != nil {
		c.Logger = o.logger
	} else {
		logger.Init(settings.Logging)
		c.Logger = logger.GetGlobalLogger().WithComponent("container")
	}

	c.Registry = registry.New(
		registry.WithCanonicalizer(c.Aliases.Canonicalize),
		registry.WithLogger(c.Logger.WithComponent("registry")),
	)

	if o.selector != nil {
		proxyOpts := []autoproxy.Option{
			autoproxy.WithSharedFirst(settings.Proxy.SharedFirst()),
			autoproxy.WithSharedBehaviors(o.sharedBehaviors...),
			autoproxy.WithProxyLogger(c.Logger.WithComponent("autoproxy")),
		}
		if o.skip != nil {
			proxyOpts = append(proxyOpts, autoproxy.WithSkip(o.skip))
		}
		if o.targets != nil {
			proxyOpts = append(proxyOpts, autoproxy.WithTargetProvider(o.targets))
		}
		c.Proxies = autoproxy.NewCreator(o.selector, proxyOpts...)
		if err := c.Hooks.Register(c.Proxies); err != nil {
			return nil, err
		}
	}

	for _, hook := range o.hooks {
		if err := c.Hooks.Register(hook); err != nil {
			return nil, err
		}
	}

	c.Creator = lifecycle.NewCreator(c.Registry, c.Hooks,
		lifecycle.WithEarlyExposure(settings.Registry.EarlyExposure()),
		lifecycle.WithCreatorLogger(c.Logger.WithComponent("lifecycle")),
	)

	c.Logger.Info("container initialized", logger.Fields(
		"name", settings.Name,
		"environment", settings.Environment,
		"version", version.Resolve().Short(),
		logger.FieldRegistryID, c.Registry.ID(),
	))
	return c, nil
}

// InitObservability starts the OpenTelemetry providers when the settings
// enable them. Safe to skip entirely; the container works without it.
func (c *Container) InitObservability(ctx context.Context) error {
	obs := c.Settings.Observability
	if !obs.Enabled {
		return nil
	}

	tp, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: c.Name,
		Environment: c.Settings.Environment,
		Endpoint:    obs.Endpoint,
		Insecure:    obs.Insecure,
		SampleRate:  obs.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	c.tracerProvider = tp

	mc := observability.DefaultMeterConfig(c.Name)
	mc.Environment = c.Settings.Environment
	mc.Endpoint = obs.Endpoint
	mc.Insecure = obs.Insecure
	mp, err := observability.InitMeter(ctx, &mc)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	c.meterProvider = mp

	metrics, err := observability.NewMetrics(observability.Meter(c.Name))
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	c.Metrics = metrics
	if c.Proxies != nil {
		c.Proxies.SetMetrics(metrics)
	}
	return nil
}

// Provide returns the finished component for def, constructing it on
// first use through the full lifecycle: hooks, early exposure, init and
// proxying. Creation is traced and measured when observability is
// initialized.
func (c *Container) Provide(def lifecycle.Definition) (any, error) {
	if instance, ok := c.Registry.Lookup(def.Name, false); ok {
		return instance, nil
	}

	kind := ""
	if def.Kind != nil {
		kind = def.Kind.String()
	}
	lc := observability.NewLifecycleContext(c.Registry.ID(), def.Name, kind, c.Metrics)
	ctx, span := lc.StartCreationSpan(context.Background())

	instance, err := c.Creator.Create(def)
	lc.EndCreation(ctx, span, err)
	if err != nil && c.Metrics != nil {
		code := "UNKNOWN"
		if ce, ok := errors.AsContainerError(err); ok {
			code = string(ce.Code)
		}
		c.Metrics.RecordError(ctx, code, def.Name)
	}
	return instance, err
}

// RegisterSingleton binds a pre-built instance under name, bypassing the
// lifecycle.
func (c *Container) RegisterSingleton(name string, instance any) error {
	return c.Registry.RegisterSingleton(name, instance)
}

// RegisterAlias makes alias resolve to name in dependency bookkeeping.
func (c *Container) RegisterAlias(alias, name string) error {
	return c.Aliases.Register(alias, name)
}

// Get returns the component under name, allowing early references.
func (c *Container) Get(name string) (any, bool) {
	return c.Registry.Get(name)
}

// PredictType returns the type a component will have once produced,
// accounting for proxying.
func (c *Container) PredictType(kind reflect.Type, name string) reflect.Type {
	if c.Proxies == nil {
		return kind
	}
	return c.Proxies.PredictType(kind, name)
}

// Shutdown tears down every component and stops the telemetry
// providers. Component teardown failures are logged, never returned;
// the error reports provider shutdown only.
func (c *Container) Shutdown(ctx context.Context) error {
	names := c.Registry.SingletonNames()
	c.Registry.DestroyAll()
	if c.Metrics != nil {
		// Teardown is best-effort and total; per-component failures are
		// logged inside the registry, so every component counts as torn
		// down here.
		for _, name := range names {
			c.Metrics.RecordDestruction(ctx, name, "ok")
		}
	}

	var err error
	if c.tracerProvider != nil {
		if e := c.tracerProvider.Shutdown(ctx); e != nil {
			err = fmt.Errorf("tracer shutdown: %w", e)
		}
	}
	if c.meterProvider != nil {
		if e := c.meterProvider.Shutdown(ctx); e != nil && err == nil {
			err = fmt.Errorf("meter shutdown: %w", e)
		}
	}
	c.Logger.Info("container shut down", logger.Fields("name", c.Name))
	return err
}

// Resolve fetches a finished component from the container with type
// safety.
func Resolve[T any](c *Container, name string) (T, error) {
	return registry.Resolve[T](c.Registry, name)
}

// MustResolve fetches a component, panicking when it is absent or
// mistyped.
func MustResolve[T any](c *Container, name string) T {
	return registry.MustResolve[T](c.Registry, name)
}

// TryResolve fetches an optional component.
func TryResolve[T any](c *Container, name string) (T, bool) {
	return registry.TryResolve[T](c.Registry, name)
}

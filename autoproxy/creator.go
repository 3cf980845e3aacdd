package autoproxy

import (
	"context"
	"reflect"
	"sync"

	"github.com/skillsenselab/containerkit/logger"
	"github.com/skillsenselab/containerkit/observability"
)

// Option configures a Creator.
type Option func(*Creator)

// WithSharedBehaviors sets behaviors attached to every proxy the creator
// builds.
func WithSharedBehaviors(behaviors ...Behavior) Option {
	return func(c *Creator) { c.shared = behaviors }
}

// WithSharedFirst orders shared behaviors before component-specific ones
// (the default) or after them.
func WithSharedFirst(sharedFirst bool) Option {
	return func(c *Creator) { c.sharedFirst = sharedFirst }
}

// WithSkip excludes components matching the predicate from proxying.
// The decision is cached per cache key.
func WithSkip(skip func(kind reflect.Type, name string) bool) Option {
	return func(c *Creator) { c.skip = skip }
}

// WithTargetProvider plugs in substitute-target resolution.
func WithTargetProvider(tp TargetProvider) Option {
	return func(c *Creator) { c.targets = tp }
}

// WithMetrics records proxy creations on the given instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Creator) { c.metrics = m }
}

// WithProxyLogger sets the logger the creator reports through.
func WithProxyLogger(log *logger.Logger) Option {
	return func(c *Creator) { c.log = log }
}

// Creator is a lifecycle hook that wraps eligible components in
// proxies. It implements the instantiation, early-reference and
// initialization hook capabilities, caching its per-component decisions
// so each candidate is evaluated once.
type Creator struct {
	selector    Selector
	shared      []Behavior
	sharedFirst bool
	skip        func(kind reflect.Type, name string) bool
	targets     TargetProvider
	metrics     *observability.Metrics
	log         *logger.Logger

	targetSourced sync.Map // name -> struct{}
	advised       sync.Map // cache key -> bool
	earlyRefs     sync.Map // cache key -> raw instance
	proxyTypes    sync.Map // cache key -> reflect.Type
}

// NewCreator builds a proxy creator around the given behavior selector.
func NewCreator(selector Selector, opts ...Option) *Creator {
	c := &Creator{
		selector:    selector,
		sharedFirst: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger().WithComponent("autoproxy")
	}
	return c
}

// SetMetrics attaches metric instruments to a creator built before
// observability was initialized. Call it before serving traffic.
func (c *Creator) SetMetrics(m *observability.Metrics) {
	c.metrics = m
}

// cacheKey derives the decision-cache key for a component. Named
// components key on their name, prefixed for object sources so a source
// and its product never share an entry. Anonymous components key on
// their type.
func (c *Creator) cacheKey(kind reflect.Type, name string) any {
	if name != "" {
		if kind != nil && (kind.Implements(objectSourceType) ||
			(kind.Kind() != reflect.Pointer && reflect.PointerTo(kind).Implements(objectSourceType))) {
			return "&" + name
		}
		return name
	}
	return kind
}

// BeforeInstantiation short-circuits construction for components with a
// substitute target: the proxy is built immediately around the
// substitute. For everything else it only primes the decision cache.
func (c *Creator) BeforeInstantiation(kind reflect.Type, name string) (any, bool) {
	key := c.cacheKey(kind, name)

	if name == "" || !c.isTargetSourced(name) {
		if _, decided := c.advised.Load(key); decided {
			return nil, false
		}
		if isInfrastructureRole(roleOfKind(kind)) || c.shouldSkip(kind, name) {
			c.advised.Store(key, false)
			return nil, false
		}
	}

	if c.targets != nil && name != "" {
		if target, ok := c.targets.TargetFor(kind, name); ok {
			c.targetSourced.Store(name, struct{}{})
			specific, proxyable := c.selector.BehaviorsFor(kind, name)
			if !proxyable {
				specific = nil
			}
			proxy := c.buildProxy(name, target, specific)
			c.proxyTypes.Store(key, reflect.TypeOf(proxy))
			return proxy, true
		}
	}

	return nil, false
}

// EarlyReference wraps a component exposed mid-construction and records
// the raw reference so AfterInitialization does not wrap a second time.
func (c *Creator) EarlyReference(raw any, name string) any {
	key := c.cacheKey(reflect.TypeOf(raw), name)
	c.earlyRefs.Store(key, raw)
	return c.wrapIfNecessary(raw, name, key)
}

// AfterInitialization wraps an eligible component in its proxy. A
// component already wrapped through its early reference passes through
// unchanged.
func (c *Creator) AfterInitialization(instance any, name string) any {
	if instance == nil {
		return nil
	}
	key := c.cacheKey(reflect.TypeOf(instance), name)
	if early, loaded := c.earlyRefs.LoadAndDelete(key); loaded {
		if sameObject(early, instance) {
			return instance
		}
	}
	return c.wrapIfNecessary(instance, name, key)
}

// sameObject compares by identity, tolerating uncomparable types.
func sameObject(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Pointer && vb.Kind() == reflect.Pointer {
		return va.Pointer() == vb.Pointer()
	}
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() || !va.Comparable() {
		return false
	}
	return a == b
}

// wrapIfNecessary builds the proxy for instance unless a cached or
// structural decision excludes it.
func (c *Creator) wrapIfNecessary(instance any, name string, key any) any {
	if name != "" && c.isTargetSourced(name) {
		return instance
	}
	if advised, decided := c.advised.Load(key); decided && advised == false {
		return instance
	}

	kind := reflect.TypeOf(instance)
	if isInfrastructureRole(RoleOf(instance)) || c.shouldSkip(kind, name) {
		c.advised.Store(key, false)
		return instance
	}

	specific, proxyable := c.selector.BehaviorsFor(kind, name)
	if !proxyable {
		c.advised.Store(key, false)
		return instance
	}

	c.advised.Store(key, true)
	proxy := c.buildProxy(name, instance, specific)
	c.proxyTypes.Store(key, reflect.TypeOf(proxy))
	return proxy
}

// buildProxy combines shared and component-specific behaviors in the
// configured order and wraps target.
func (c *Creator) buildProxy(name string, target any, specific []Behavior) *Proxy {
	var behaviors []Behavior
	if c.sharedFirst {
		behaviors = append(behaviors, c.shared...)
		behaviors = append(behaviors, specific...)
	} else {
		behaviors = append(behaviors, specific...)
		behaviors = append(behaviors, c.shared...)
	}

	proxy := NewProxy(name, target, behaviors)
	c.log.Debug("component proxied", logger.Fields(
		logger.FieldComponent, name,
		logger.FieldProxyType, reflect.TypeOf(target).String(),
		"behaviors", len(behaviors),
	))
	if c.metrics != nil {
		c.metrics.RecordProxy(context.Background(), name, len(behaviors))
	}
	return proxy
}

// PredictType returns the type a component will have after this hook:
// its proxy type when one was or will be built, otherwise kind itself.
func (c *Creator) PredictType(kind reflect.Type, name string) reflect.Type {
	if t, ok := c.proxyTypes.Load(c.cacheKey(kind, name)); ok {
		return t.(reflect.Type)
	}
	return kind
}

// Advised reports the cached proxying decision for a component, when one
// exists.
func (c *Creator) Advised(kind reflect.Type, name string) (decision, decided bool) {
	v, ok := c.advised.Load(c.cacheKey(kind, name))
	if !ok {
		return false, false
	}
	return v.(bool), true
}

func (c *Creator) isTargetSourced(name string) bool {
	_, ok := c.targetSourced.Load(name)
	return ok
}

func (c *Creator) shouldSkip(kind reflect.Type, name string) bool {
	return c.skip != nil && c.skip(kind, name)
}

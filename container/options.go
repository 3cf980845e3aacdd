package container

import (
	"reflect"

	"github.com/skillsenselab/containerkit/autoproxy"
	"github.com/skillsenselab/containerkit/logger"
)

type options struct {
	logger          *logger.Logger
	selector        autoproxy.Selector
	sharedBehaviors []autoproxy.Behavior
	skip            func(kind reflect.Type, name string) bool
	targets         autoproxy.TargetProvider
	hooks           []any
}

// Option customizes container construction.
type Option func(*options)

// WithLogger supplies a custom logger instead of initializing one from
// the settings.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSelector enables auto-proxying with the given behavior selector.
func WithSelector(s autoproxy.Selector) Option {
	return func(o *options) { o.selector = s }
}

// WithSharedBehaviors attaches behaviors to every proxy the container
// builds.
func WithSharedBehaviors(behaviors ...autoproxy.Behavior) Option {
	return func(o *options) { o.sharedBehaviors = behaviors }
}

// WithSkip excludes matching components from proxying.
func WithSkip(skip func(kind reflect.Type, name string) bool) Option {
	return func(o *options) { o.skip = skip }
}

// WithTargetProvider plugs substitute-target resolution into the proxy
// creator.
func WithTargetProvider(tp autoproxy.TargetProvider) Option {
	return func(o *options) { o.targets = tp }
}

// WithHook appends a lifecycle hook to the chain, after the proxy
// creator when one is configured.
func WithHook(hook any) Option {
	return func(o *options) { o.hooks = append(o.hooks, hook) }
}

func resolveOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

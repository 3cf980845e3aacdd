package config

import (
	"github.com/skillsenselab/containerkit/logger"
	"github.com/skillsenselab/containerkit/validation"
)

// Settings contains the configuration of a lifecycle container.
// Projects extend this by embedding it in their own settings structs.
type Settings struct {
	Name          string                `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string                `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Debug         bool                  `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config         `yaml:"logging" mapstructure:"logging"`
	Registry      RegistrySettings      `yaml:"registry" mapstructure:"registry"`
	Proxy         ProxySettings         `yaml:"proxy" mapstructure:"proxy"`
	Observability ObservabilitySettings `yaml:"observability" mapstructure:"observability"`
}

// RegistrySettings configures registry behavior.
type RegistrySettings struct {
	// DisableEarlyExposure turns off the pending early-reference factory
	// that plain lookups may consume to resolve a cyclic dependency.
	DisableEarlyExposure bool `yaml:"disable_early_exposure" mapstructure:"disable_early_exposure"`
}

// ProxySettings configures the proxy-creating lifecycle hook.
type ProxySettings struct {
	// Ordering decides whether globally shared behaviors are applied before
	// or after component-specific ones.
	Ordering string `yaml:"ordering" mapstructure:"ordering" validate:"omitempty,oneof=shared-first specific-first"`
}

// ObservabilitySettings configures tracing and metrics export.
type ObservabilitySettings struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults applies default values to the settings.
// Override this in embedding structs and call Settings.ApplyDefaults() first.
func (s *Settings) ApplyDefaults() {
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.Environment == "development" {
		s.Debug = true
	}
	if s.Proxy.Ordering == "" {
		s.Proxy.Ordering = "shared-first"
	}
	if s.Observability.Endpoint == "" {
		s.Observability.Endpoint = "localhost:4318"
	}
	if s.Observability.SampleRate == 0 {
		s.Observability.SampleRate = 1.0
	}
	s.Logging.ApplyDefaults()
}

// Validate validates the settings.
// Override this in embedding structs and call Settings.Validate() first.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}
	return s.Logging.Validate()
}

// EarlyExposure reports whether cyclic dependencies may be resolved through
// early references.
func (s *RegistrySettings) EarlyExposure() bool {
	return !s.DisableEarlyExposure
}

// SharedFirst reports whether shared proxy behaviors apply before specific ones.
func (s *ProxySettings) SharedFirst() bool {
	return s.Ordering != "specific-first"
}

package logger

import (
	"os"
	"testing"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-registry")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.registry != "test-registry" {
		t.Errorf("expected registry 'test-registry', got %q", l.registry)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "core")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-test")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected default output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Level: "info", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg.Level = "info"
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestWithComponentAndRegistry(t *testing.T) {
	l := NewDefault("core")
	cl := l.WithComponent("dataSource").WithRegistry("reg-1")
	if cl == nil {
		t.Fatal("expected non-nil derived logger")
	}
	// Derived loggers must not mutate the parent.
	if l == cl {
		t.Error("expected a new logger instance")
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "destroy", "component", "db")
	if m["op"] != "destroy" || m["component"] != "db" {
		t.Errorf("unexpected fields map: %v", m)
	}
	// Odd trailing key is dropped.
	m = Fields("only-key")
	if len(m) != 0 {
		t.Errorf("expected empty map for odd pair count, got %v", m)
	}
}

func TestLoggerRegistry(t *testing.T) {
	base := NewDefault("core")
	Register("cache", base.WithComponent("cache"))

	if Get("cache") == nil {
		t.Fatal("expected registered logger")
	}
	// Unregistered name falls back to a component-tagged global logger.
	if Get("unknown") == nil {
		t.Fatal("expected fallback logger")
	}
}

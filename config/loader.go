package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load loads container settings for the named container into cfg.
// It searches for container.yml and .env files in standard locations, binds
// environment variables, and unmarshals the result into cfg.
func Load(containerName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	files := resolveFiles(containerName, lc)
	return loadFromResolvedFiles(containerName, cfg, files, lc.FileSystem)
}

// resolvedFiles contains the resolved config and env file paths.
type resolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// resolveFiles finds config and env files for a container.
// Returns explicit paths if provided, otherwise searches for them.
func resolveFiles(containerName string, lc LoaderConfig) resolvedFiles {
	resolved := resolvedFiles{
		ConfigFile: lc.ConfigFile,
		EnvFile:    lc.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = findFirst(lc.FileSystem, configSearchPaths(containerName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = findFirst(lc.FileSystem, envSearchPaths(containerName))
	}

	return resolved
}

func configSearchPaths(containerName string) []string {
	return []string{
		fmt.Sprintf("./config/%s.yml", containerName),
		fmt.Sprintf("../config/%s.yml", containerName),
		fmt.Sprintf("./%s.yml", containerName),
		"./config/container.yml",
		"../config/container.yml",
		"./container.yml",
	}
}

func envSearchPaths(containerName string) []string {
	return []string{
		fmt.Sprintf("./.env.%s", containerName),
		fmt.Sprintf("../.env.%s", containerName),
		"./.env",
		"../.env",
	}
}

func findFirst(fs FileSystem, paths []string) string {
	for _, path := range paths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// loadFromResolvedFiles loads settings from specific files.
func loadFromResolvedFiles(containerName string, cfg any, files resolvedFiles, fs FileSystem) error {
	v := viper.New()

	// 1. Load YAML settings first (base configuration)
	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Printf("[config] warning: failed to load config file %s: %v\n", files.ConfigFile, err)
		}
	}

	// 2. Enable automatic environment variable reading
	v.AutomaticEnv()
	autoBindEnvVars(v)

	// 3. Load .env file
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			fmt.Printf("[config] warning: failed to load .env file %s: %v\n", files.EnvFile, err)
		} else {
			// Re-bind env vars after loading .env to pick up new variables
			autoBindEnvVars(v)
		}
	}

	// 4. Unmarshal into the settings struct
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal settings for container %s: %w", containerName, err)
	}

	return nil
}

// autoBindEnvVars automatically binds environment variables to Viper
// by converting UPPER_CASE_WITH_UNDERSCORES to possible nested key formats.
func autoBindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}

		variants := generateEnvKeyVariants(pair[0])
		for _, variant := range variants {
			v.Set(variant, pair[1])
		}
	}
}

// generateEnvKeyVariants creates key variants for environment variable binding.
// Example: REGISTRY_DISABLE_EARLY_EXPOSURE ->
// [registry_disable_early_exposure, registry.disable.early.exposure,
// registry.disable_early_exposure, ...]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return variants
}

// Package config loads lifecycle container settings from YAML files and
// environment variables via viper, with .env support through godotenv.
// Settings embed logging, registry, proxy, and observability sections and
// are validated with struct tags.
package config

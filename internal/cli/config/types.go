// Package config provides configuration management for the cratesql CLI.
//
// The shared project types live in pkg/core and are re-exported here via
// type aliases. Config adds the CLI-only keys: the selected environment
// and per-environment target overrides.
package config

import (
	intconfig "github.com/leapstack-labs/cratesql/internal/config"
	"github.com/leapstack-labs/cratesql/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = core.ProjectConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectConfig `koanf:",squash"`

	Environment  string               `koanf:"environment"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory the config file was found in, or the
	// working directory.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	ServerVersion string        `koanf:"server_version"`
	Target        *TargetConfig `koanf:"target"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultDialect       = intconfig.DefaultDialect
	DefaultServerVersion = intconfig.DefaultServerVersion
	DefaultOutput        = intconfig.DefaultOutput
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return intconfig.ValidateProject(&c.ProjectConfig)
}

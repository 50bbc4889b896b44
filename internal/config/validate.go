// Package config holds the configuration rules shared by the CLI and any
// other tool that reads cratesql.yaml: defaults, validation and config file
// discovery. Loading with flag and environment overrides lives in
// internal/cli/config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/cratesql/pkg/adapter"
	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
)

// Output formats accepted by the output key.
var OutputFormats = []string{"auto", "text", "table", "json"}

// ValidateTarget checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return nil
	}
	if t.Type == "" {
		return errors.New("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target port %d out of range", t.Port)
	}
	return nil
}

// ValidateProject checks the project-level keys and the target.
func ValidateProject(c *core.ProjectConfig) error {
	if c == nil {
		return errors.New("configuration is missing")
	}

	if _, ok := dialect.Get(c.Dialect); !ok {
		return fmt.Errorf("unknown dialect %q (available: %s)", c.Dialect, strings.Join(dialect.List(), ", "))
	}
	if _, err := dialect.Resolve(c.ServerVersion); err != nil {
		return fmt.Errorf("server_version: %w", err)
	}
	if c.Placeholder != "" {
		if _, ok := core.ParsePlaceholderStyle(c.Placeholder); !ok {
			return fmt.Errorf("placeholder must be colon, at or dollar, got %q", c.Placeholder)
		}
	}
	if !validOutput(c.Output) {
		return fmt.Errorf("output must be one of %s, got %q", strings.Join(OutputFormats, ", "), c.Output)
	}

	if err := ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

func validOutput(s string) bool {
	for _, f := range OutputFormats {
		if s == f {
			return true
		}
	}
	return false
}

package config

import (
	"strings"

	"github.com/leapstack-labs/cratesql/pkg/adapters/postgres"
	"github.com/leapstack-labs/cratesql/pkg/core"
)

// Default configuration values.
const (
	DefaultDialect       = "cratedb"
	DefaultServerVersion = "14.0.0"
	DefaultOutput        = "auto" // Auto-detect: TTY=table, non-TTY=text
	DefaultPort          = 5432
)

// ApplyDefaults applies default values to a ProjectConfig.
func ApplyDefaults(c *core.ProjectConfig) {
	if c == nil {
		return
	}
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	if c.ServerVersion == "" {
		c.ServerVersion = DefaultServerVersion
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	c.Dialect = strings.ToLower(c.Dialect)
	ApplyTargetDefaults(c.Target, c.Dialect)
}

// ApplyTargetDefaults applies default values to a TargetConfig. A target
// without a type connects with the project's dialect.
func ApplyTargetDefaults(t *core.TargetConfig, dialectName string) {
	if t == nil {
		return
	}
	if t.Type == "" {
		t.Type = dialectName
	}
	t.Type = strings.ToLower(t.Type)

	// Both servers speak the PostgreSQL wire protocol.
	if t.Port == 0 {
		t.Port = DefaultPort
	}
	if t.AdminDatabase == "" {
		t.AdminDatabase = postgres.DefaultAdminDatabase
	}
}

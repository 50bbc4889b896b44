// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/cratesql/pkg/dialect"

// Config is the PostgreSQL dialect configuration.
// This is pure data - accessible by both Adapter and generators.
var Config = dialect.PostgresConfig

package core

import (
	"context"
	"database/sql"
)

// Adapter defines the interface that database adapters implement to run
// compiled commands.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a statement that doesn't return rows and reports the
	// number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query executes a statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// ServerVersion returns the version string the server reports.
	ServerVersion(ctx context.Context) (string, error)

	// DialectConfig returns the static dialect configuration.
	DialectConfig() *DialectConfig
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}

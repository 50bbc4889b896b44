// Package adapter runs compiled commands against a database.
//
// It holds the registry of adapter implementations and BaseSQLAdapter, the
// database/sql plumbing concrete adapters embed. Concrete adapters live in
// pkg/adapters/ subdirectories and register themselves from init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/provider"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter is a core.Adapter that can also run compiled commands.
type Adapter interface {
	core.Adapter

	// ExecCommand executes a compiled command that doesn't return rows.
	ExecCommand(ctx context.Context, cmd *provider.Command) (int64, error)

	// QueryCommand executes a compiled command that returns rows.
	QueryCommand(ctx context.Context, cmd *provider.Command) (*Rows, error)

	// Dialect returns the dialect commands for this adapter are compiled
	// against.
	Dialect() *dialect.Dialect
}

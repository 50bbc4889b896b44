package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/leapstack-labs/cratesql/pkg/adapter"
)

// DefaultAdminDatabase is the database version discovery connects to when
// none is configured.
const DefaultAdminDatabase = "template1"

const optionPooling = "pooling"

// CloneWithAlternateDatabase returns a copy of cfg pointing at database.
// With poolingDisabled the clone's connections are closed as soon as they
// are released.
func CloneWithAlternateDatabase(cfg adapter.Config, database string, poolingDisabled bool) adapter.Config {
	clone := cfg
	clone.Database = database
	clone.Options = maps.Clone(cfg.Options)
	if poolingDisabled {
		if clone.Options == nil {
			clone.Options = make(map[string]string, 1)
		}
		clone.Options[optionPooling] = "false"
	}
	return clone
}

// connect is replaced in tests.
var connect = func(ctx context.Context, a *Adapter, cfg adapter.Config) error {
	return a.Connect(ctx, cfg)
}

// UsingAdminConnection opens an unpooled connection to the admin database
// of cfg, runs fn with it and closes it on every path.
func UsingAdminConnection(ctx context.Context, cfg adapter.Config, adminDatabase string, logger *slog.Logger, fn func(ctx context.Context, a *Adapter) error) (err error) {
	if adminDatabase == "" {
		adminDatabase = DefaultAdminDatabase
	}

	a := New(logger)
	if err := connect(ctx, a, CloneWithAlternateDatabase(cfg, adminDatabase, true)); err != nil {
		return fmt.Errorf("admin connection to %q: %w", adminDatabase, err)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close admin connection: %w", cerr)
		}
	}()

	return fn(ctx, a)
}

// VersionSource discovers the server version through an admin connection.
type VersionSource struct {
	// AdminDatabase defaults to DefaultAdminDatabase.
	AdminDatabase string
	Logger        *slog.Logger
}

// DiscoverVersionHint returns the version string the server behind target
// reports.
func (s *VersionSource) DiscoverVersionHint(ctx context.Context, target adapter.Config) (string, error) {
	var hint string
	err := UsingAdminConnection(ctx, target, s.AdminDatabase, s.Logger, func(ctx context.Context, a *Adapter) error {
		v, err := a.ServerVersion(ctx)
		hint = v
		return err
	})
	if err != nil {
		return "", err
	}
	return hint, nil
}

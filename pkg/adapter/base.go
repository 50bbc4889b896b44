package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/cratesql/pkg/provider"
)

// ErrNotConnected is returned by BaseSQLAdapter methods called before
// Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and command execution.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows and reports the
// number of rows it affected.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string, args ...any) (int64, error) {
	if b.DB == nil {
		return 0, ErrNotConnected
	}
	res, err := b.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute SQL: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string, args ...any) (*Rows, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &Rows{Rows: rows}, nil
}

// ExecCommand executes a compiled command with its bound parameters.
func (b *BaseSQLAdapter) ExecCommand(ctx context.Context, cmd *provider.Command) (int64, error) {
	args, err := cmd.ExecArgs()
	if err != nil {
		return 0, err
	}
	b.logCommand(cmd)
	return b.Exec(ctx, cmd.Text, args...)
}

// QueryCommand executes a compiled query with its bound parameters.
func (b *BaseSQLAdapter) QueryCommand(ctx context.Context, cmd *provider.Command) (*Rows, error) {
	args, err := cmd.ExecArgs()
	if err != nil {
		return nil, err
	}
	b.logCommand(cmd)
	return b.Query(ctx, cmd.Text, args...)
}

func (b *BaseSQLAdapter) logCommand(cmd *provider.Command) {
	if b.Logger == nil {
		return
	}
	b.Logger.Debug("executing command", slog.String("sql", cmd.Text), slog.Int("params", len(cmd.Parameters)))
}

// ServerVersion runs SHOW server_version.
func (b *BaseSQLAdapter) ServerVersion(ctx context.Context) (string, error) {
	if b.DB == nil {
		return "", ErrNotConnected
	}
	var v string
	if err := b.DB.QueryRowContext(ctx, "SHOW server_version").Scan(&v); err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return v, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Package postgres provides the pgx-backed adapter for PostgreSQL and
// CrateDB, plus the admin-connection version discovery used to pick a
// provider manifest.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/cratesql/pkg/adapter"
	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/dialects/cratedb"
	pgdialect "github.com/leapstack-labs/cratesql/pkg/dialects/postgres"
)

// Adapter implements adapter.Adapter over the pgx database/sql driver.
type Adapter struct {
	adapter.BaseSQLAdapter
	dialect *dialect.Dialect
}

// New creates a PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return newAdapter(pgdialect.Postgres, logger)
}

// NewCrateDB creates an adapter that compiles for CrateDB. CrateDB speaks
// the PostgreSQL wire protocol, so only the dialect differs.
func NewCrateDB(logger *slog.Logger) *Adapter {
	return newAdapter(cratedb.CrateDB, logger)
}

func newAdapter(d *dialect.Dialect, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
		dialect:        d,
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return a.dialect.Name
}

// Dialect returns the dialect commands are compiled against.
func (a *Adapter) Dialect() *dialect.Dialect {
	return a.dialect
}

// DialectConfig returns the static dialect configuration.
func (a *Adapter) DialectConfig() *core.DialectConfig {
	return a.dialect.Config()
}

// Connect establishes a connection to the server.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting",
		slog.String("dialect", a.dialect.Name),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", a.dialect.Name, err)
	}
	if !poolingEnabled(cfg) {
		db.SetMaxIdleConns(0)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", a.dialect.Name, err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// ServerVersion returns the server_version the server reported at startup,
// falling back to SHOW server_version when the driver does not expose it.
func (a *Adapter) ServerVersion(ctx context.Context) (string, error) {
	if a.DB == nil {
		return "", adapter.ErrNotConnected
	}

	v, err := a.parameterStatus(ctx, "server_version")
	if err != nil {
		return "", err
	}
	if v != "" {
		return v, nil
	}
	return a.BaseSQLAdapter.ServerVersion(ctx)
}

func (a *Adapter) parameterStatus(ctx context.Context, key string) (string, error) {
	conn, err := a.DB.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var v string
	err = conn.Raw(func(driverConn any) error {
		if c, ok := driverConn.(*stdlib.Conn); ok {
			v = c.Conn().PgConn().ParameterStatus(key)
		}
		return nil
	})
	return v, err
}

// buildPostgresDSN constructs a key=value connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	parts := []string{
		"host=" + dsnValue(host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + dsnValue(cfg.Database),
		"sslmode=" + dsnValue(sslmode),
	}
	if cfg.Username != "" {
		parts = append(parts, "user="+dsnValue(cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+dsnValue(cfg.Password))
	}
	for _, key := range []string{"connect_timeout", "application_name", "search_path"} {
		if v, ok := cfg.Options[key]; ok {
			parts = append(parts, key+"="+dsnValue(v))
		}
	}
	return strings.Join(parts, " ")
}

// dsnValue quotes v when it is empty or contains spaces or quotes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func poolingEnabled(cfg adapter.Config) bool {
	return !strings.EqualFold(cfg.Options[optionPooling], "false")
}

var _ adapter.Adapter = (*Adapter)(nil)

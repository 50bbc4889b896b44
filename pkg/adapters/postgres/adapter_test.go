package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cratesql/internal/testutil"
	"github.com/leapstack-labs/cratesql/pkg/adapter"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
		{
			name: "quoted password",
			config: adapter.Config{
				Host:     "crate.local",
				Database: "doc",
				Username: "crate",
				Password: "it's secret",
			},
			expected: `host=crate.local port=5432 dbname=doc sslmode=disable user=crate password='it\'s secret'`,
		},
		{
			name: "passthrough options",
			config: adapter.Config{
				Database: "doc",
				Options:  map[string]string{"connect_timeout": "5", "application_name": "cratesql", "pooling": "false"},
			},
			expected: "host=localhost port=5432 dbname=doc sslmode=disable connect_timeout=5 application_name=cratesql",
		},
		{
			name:     "empty database",
			config:   adapter.Config{Port: 5433},
			expected: "host=localhost port=5433 dbname='' sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		adp         *Adapter
		dialect     string
		schema      string
		ilike       bool
		placeholder string
	}{
		{name: "postgres", adp: New(nil), dialect: "postgres", schema: "public", ilike: true, placeholder: "colon"},
		{name: "cratedb", adp: NewCrateDB(nil), dialect: "cratedb", schema: "doc", ilike: true, placeholder: "colon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, tt.adp.DB, "DB should be nil before Connect")
			assert.False(t, tt.adp.IsConnected())
			assert.Equal(t, tt.dialect, tt.adp.DialectName())
			assert.Equal(t, tt.dialect, tt.adp.Dialect().Name)

			cfg := tt.adp.DialectConfig()
			assert.Equal(t, tt.schema, cfg.DefaultSchema)
			assert.Equal(t, tt.ilike, cfg.SupportsIlike)
			assert.Equal(t, tt.placeholder, cfg.Placeholder.String())
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Exec(ctx, "DELETE FROM t")
				return err
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "server version without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.ServerVersion(ctx)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			assert.ErrorIs(t, err, adapter.ErrNotConnected)
		})
	}
}

func TestAdapter_ServerVersionFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SHOW server_version").WillReturnRows(sqlmock.NewRows([]string{"server_version"}).AddRow("5.6.3"))

	adp := NewCrateDB(testutil.NewTestLogger(t))
	adp.DB = db

	v, err := adp.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.6.3", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Registry(t *testing.T) {
	for _, name := range []string{"postgres", "cratedb"} {
		t.Run(name, func(t *testing.T) {
			factory, ok := adapter.Get(name)
			require.True(t, ok, "%s adapter should be registered", name)

			pg, ok := factory(nil).(*Adapter)
			require.True(t, ok, "factory should return *Adapter")
			assert.Equal(t, name, pg.DialectName())
		})
	}
}

func TestAdapter_Close(t *testing.T) {
	adp := New(nil)
	assert.NoError(t, adp.Close())
}

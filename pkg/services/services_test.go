package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/cratesql/internal/testutil"
	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/dialects/cratedb"
	"github.com/leapstack-labs/cratesql/pkg/provider"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

func ordersInsert() *core.InsertTree {
	return &core.InsertTree{
		Target: &core.TableName{Name: "orders"},
		SetClauses: []core.SetClause{
			{Column: "id", Value: &core.Constant{Kind: core.KindInt32, Value: 42}},
			{Column: "total", Value: &core.Constant{Kind: core.KindDecimal, Value: "19.99"}},
		},
	}
}

func updateByID() *core.UpdateTree {
	return &core.UpdateTree{
		Params: []core.ParameterDecl{{Name: "id", Type: core.TypeUsage{Kind: core.KindInt64}}},
		Target: &core.TableName{Name: "orders"},
		SetClauses: []core.SetClause{
			{Column: "status", Value: &core.Constant{Kind: core.KindString, Value: "shipped"}},
		},
		Predicate: &core.BinaryExpr{Left: &core.ColumnRef{Column: "id"}, Op: token.EQ, Right: &core.ParamRef{Name: "id"}},
	}
}

func mustVersion(t *testing.T, v string) *version.Version {
	t.Helper()
	ver, err := version.NewVersion(v)
	require.NoError(t, err)
	return ver
}

func TestCreateCommand_Orders(t *testing.T) {
	s := New(WithLogger(testutil.NewTestLogger(t)))

	cmd, err := s.CreateCommand(mustVersion(t, "14.0.0"), ordersInsert())
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO "orders" ("id","total") VALUES (:p0, :p1)`, cmd.Text)
	require.Len(t, cmd.Parameters, 2)
	assert.Equal(t, "p0", cmd.Parameters[0].Name)
	assert.Equal(t, provider.Integer, cmd.Parameters[0].Type)
	assert.Equal(t, 42, cmd.Parameters[0].Value)
	assert.Equal(t, "p1", cmd.Parameters[1].Name)
	assert.Equal(t, provider.Numeric, cmd.Parameters[1].Type)
	assert.Equal(t, "19.99", cmd.Parameters[1].Value)
}

func TestCreateCommand_Options(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		wantText string
		wantArgs []any
	}{
		{
			name:     "defaults",
			wantText: `UPDATE "orders" SET "status" = :p1 WHERE "id" = :id`,
			wantArgs: []any{nil, "shipped"},
		},
		{
			name:     "inline constants",
			opts:     []Option{WithParameterizeConstants(false)},
			wantText: `UPDATE "orders" SET "status" = 'shipped' WHERE "id" = :id`,
			wantArgs: []any{nil},
		},
		{
			name:     "dollar placeholders",
			opts:     []Option{WithPlaceholder(core.PlaceholderDollar)},
			wantText: `UPDATE "orders" SET "status" = $2 WHERE "id" = $1`,
			wantArgs: []any{nil, "shipped"},
		},
		{
			name:     "cratedb",
			opts:     []Option{WithDialect(cratedb.CrateDB)},
			wantText: `UPDATE "orders" SET "status" = :p1 WHERE "id" = :id`,
			wantArgs: []any{nil, "shipped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(append(tt.opts, WithLogger(testutil.NewTestLogger(t)))...)
			cmd, err := s.CreateCommand(mustVersion(t, "14.0.0"), updateByID())
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, cmd.Text)
			assert.Equal(t, tt.wantArgs, cmd.Args())
		})
	}
}

func TestCreateCommand_Errors(t *testing.T) {
	var typedNil *core.DeleteTree

	tests := []struct {
		name    string
		version string
		tree    core.CommandTree
		kind    error
	}{
		{name: "nil tree", version: "14.0.0", tree: nil, kind: core.ErrNullCommandTree},
		{name: "typed nil tree", version: "14.0.0", tree: typedNil, kind: core.ErrNullCommandTree},
		{name: "nil version", tree: ordersInsert(), kind: core.ErrNullVersionHint},
		{
			name:    "unsupported parameter kind",
			version: "14.0.0",
			tree: &core.QueryTree{
				Params: []core.ParameterDecl{{Name: "shape", Type: core.TypeUsage{Kind: core.KindGeography}}},
				Query:  &core.SelectStmt{Where: &core.ParamRef{Name: "shape"}},
			},
			kind: core.ErrUnsupportedTypeKind,
		},
		{
			name:    "orphan parameter",
			version: "14.0.0",
			tree: &core.DeleteTree{
				Params: []core.ParameterDecl{{Name: "y", Type: core.TypeUsage{Kind: core.KindInt32}}},
				Target: &core.TableName{Name: "t"},
			},
			kind: core.ErrOrphanParameter,
		},
		{
			name:    "parameter name with sql",
			version: "14.0.0",
			tree: &core.QueryTree{
				Params: []core.ParameterDecl{{Name: "x OR 1=1", Type: core.TypeUsage{Kind: core.KindInt32}}},
				Query: &core.SelectStmt{
					Columns: []core.SelectItem{{Star: true}},
					From:    &core.FromClause{Source: &core.TableName{Name: "t"}},
					Where:   &core.BinaryExpr{Left: &core.ColumnRef{Column: "a"}, Op: token.EQ, Right: &core.ParamRef{Name: "x OR 1=1"}},
				},
			},
			kind: core.ErrInvalidCommandTree,
		},
		{
			name:    "constant value does not fit its kind",
			version: "14.0.0",
			tree: &core.InsertTree{
				Target:     &core.TableName{Name: "t"},
				SetClauses: []core.SetClause{{Column: "id", Value: &core.Constant{Kind: core.KindInt32, Value: "not a number"}}},
			},
			kind: core.ErrInvalidCommandTree,
		},
		{
			name:    "below dialect minimum",
			version: "7.4",
			tree:    ordersInsert(),
			kind:    core.ErrUnsupportedOnServerVersion,
		},
		{
			name:    "on conflict before 9.5",
			version: "9.4.10",
			tree: func() core.CommandTree {
				tree := ordersInsert()
				tree.OnConflict = &core.OnConflict{Columns: []string{"id"}}
				return tree
			}(),
			kind: core.ErrUnsupportedOnServerVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithLogger(testutil.NewTestLogger(t)))

			var v *version.Version
			if tt.version != "" {
				v = mustVersion(t, tt.version)
			}
			cmd, err := s.CreateCommand(v, tt.tree)
			assert.Nil(t, cmd)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestCreateCommand_OrphanNamesParameter(t *testing.T) {
	s := New()
	tree := &core.DeleteTree{
		Params: []core.ParameterDecl{{Name: "y", Type: core.TypeUsage{Kind: core.KindInt32}}},
		Target: &core.TableName{Name: "t"},
	}

	_, err := s.CreateCommand(mustVersion(t, "14.0.0"), tree)

	var orphan *core.OrphanParameterError
	require.ErrorAs(t, err, &orphan)
	assert.Equal(t, "y", orphan.Name)
}

func TestTranslateCommandTree_LeavesCommandOnFailure(t *testing.T) {
	s := New()
	m, err := s.ProviderManifest("8.1.0")
	require.NoError(t, err)

	tree := updateByID()
	tree.Returning = []core.Expr{&core.ColumnRef{Column: "id"}}

	cmd := provider.NewCommand(core.PlaceholderColon)
	require.NoError(t, cmd.AddParameter(&provider.Parameter{Name: "tenant", Type: provider.Text, Value: "acme"}))

	err = s.TranslateCommandTree(m, tree, cmd, true)
	require.ErrorIs(t, err, core.ErrUnsupportedOnServerVersion)
	assert.Empty(t, cmd.Text)
	require.Len(t, cmd.Parameters, 1)
	assert.Equal(t, "tenant", cmd.Parameters[0].Name)
}

func TestTranslateCommandTree_ExistingParameters(t *testing.T) {
	s := New()
	m, err := s.ProviderManifest("14.0.0")
	require.NoError(t, err)

	cmd := provider.NewCommand(core.PlaceholderColon)
	require.NoError(t, cmd.AddParameter(&provider.Parameter{Name: "p1", Type: provider.Text}))

	require.NoError(t, s.TranslateCommandTree(m, updateByID(), cmd, true))
	assert.Equal(t, `UPDATE "orders" SET "status" = :p2 WHERE "id" = :id`, cmd.Text)

	names := make([]string, len(cmd.Parameters))
	for i, p := range cmd.Parameters {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"p1", "id", "p2"}, names)

	clash := provider.NewCommand(core.PlaceholderColon)
	require.NoError(t, clash.AddParameter(&provider.Parameter{Name: "id"}))
	err = s.TranslateCommandTree(m, updateByID(), clash, true)
	assert.ErrorIs(t, err, core.ErrDuplicateParameter)
}

func TestTranslateCommandTree_SelectIgnoresParameterizeFlag(t *testing.T) {
	s := New()
	m, err := s.ProviderManifest("14.0.0")
	require.NoError(t, err)

	tree := &core.QueryTree{Query: &core.SelectStmt{
		From:  &core.FromClause{Source: &core.TableName{Name: "orders"}},
		Where: &core.BinaryExpr{Left: &core.ColumnRef{Column: "total"}, Op: token.GT, Right: &core.Constant{Kind: core.KindInt32, Value: 10}},
	}}

	cmd := provider.NewCommand(core.PlaceholderColon)
	require.NoError(t, s.TranslateCommandTree(m, tree, cmd, true))
	assert.Equal(t, `SELECT * FROM "orders" WHERE "total" > 10`, cmd.Text)
	assert.Empty(t, cmd.Parameters)
}

func TestCreateCommandDefinition(t *testing.T) {
	s := New()
	m, err := s.ProviderManifest("PostgreSQL 9.6.24 on x86_64-pc-linux-gnu")
	require.NoError(t, err)

	def, err := s.CreateCommandDefinition(m, updateByID())
	require.NoError(t, err)

	a := def.CreateCommand()
	b := def.CreateCommand()
	require.NoError(t, a.SetValue("id", int64(7)))

	assert.Equal(t, a.Text, b.Text)
	assert.Equal(t, []any{int64(7), "shipped"}, a.Args())
	assert.Equal(t, []any{nil, "shipped"}, b.Args())

	_, err = s.CreateCommandDefinition(nil, updateByID())
	assert.ErrorIs(t, err, core.ErrNullVersionHint)
}

func TestCreateCommand_Concurrent(t *testing.T) {
	s := New()
	v := mustVersion(t, "14.0.0")

	want, err := s.CreateCommand(v, ordersInsert())
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			cmd, err := s.CreateCommand(v, ordersInsert())
			if err != nil {
				return err
			}
			if cmd.Text != want.Text {
				return fmt.Errorf("got %q", cmd.Text)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}

type fakeVersions struct {
	hint   string
	err    error
	target core.AdapterConfig
}

func (f *fakeVersions) DiscoverVersionHint(_ context.Context, target core.AdapterConfig) (string, error) {
	f.target = target
	return f.hint, f.err
}

func TestProviderManifestToken(t *testing.T) {
	ctx := context.Background()
	target := core.AdapterConfig{Type: "cratedb", Host: "crate.local", Database: "doc"}

	t.Run("no source", func(t *testing.T) {
		_, err := New().ProviderManifestToken(ctx, target)
		assert.ErrorIs(t, err, ErrNoVersionSource)
	})

	t.Run("discovered", func(t *testing.T) {
		src := &fakeVersions{hint: "5.6.3"}
		s := New(WithVersionSource(src), WithLogger(testutil.NewTestLogger(t)))

		hint, err := s.ProviderManifestToken(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, "5.6.3", hint)
		assert.Equal(t, target, src.target)

		m, err := s.ProviderManifest(hint)
		require.NoError(t, err)
		assert.True(t, m.SupportsOnConflict())
	})

	t.Run("source error", func(t *testing.T) {
		boom := errors.New("connection refused")
		s := New(WithVersionSource(&fakeVersions{err: boom}))

		_, err := s.ProviderManifestToken(ctx, target)
		assert.ErrorIs(t, err, boom)
	})
}

func TestProviderManifest(t *testing.T) {
	s := New(WithDialect(cratedb.CrateDB))

	m, err := s.ProviderManifest("9.4.10")
	require.NoError(t, err)
	assert.Equal(t, "cratedb", m.Dialect.Name)
	assert.True(t, m.Below(dialect.VersionOnConflict))

	_, err = s.ProviderManifest("  ")
	assert.ErrorIs(t, err, core.ErrNullVersionHint)
}

func TestDatabaseLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	target := core.AdapterConfig{Database: "does_not_exist"}

	assert.True(t, s.DatabaseExists(ctx, target))
	s.CreateDatabase(ctx, target)
	s.DeleteDatabase(ctx, target)
	assert.True(t, s.DatabaseExists(ctx, target))
}

func TestTranslateCommandTree_LogsCompilation(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	s := New(WithLogger(logger))

	_, err := s.CreateCommand(mustVersion(t, "14.0.0"), updateByID())
	require.NoError(t, err)

	lines := logs.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `msg="compiled command tree"`)
	assert.Contains(t, lines[0], "kind=update")
	assert.Contains(t, lines[0], "version=14.0.0")
	assert.Contains(t, lines[0], "params=2")

	_, err = s.CreateCommand(mustVersion(t, "14.0.0"), &core.DeleteTree{})
	require.Error(t, err)
	assert.Len(t, logs.Lines(), 1, "failed compilations are not logged")
}

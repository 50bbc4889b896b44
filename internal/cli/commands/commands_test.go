package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cratesql/internal/cli/config"
	"github.com/leapstack-labs/cratesql/internal/cli/output"
	clitestutil "github.com/leapstack-labs/cratesql/internal/cli/testutil"
	"github.com/leapstack-labs/cratesql/internal/testutil"
	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/services"
)

func TestNewCompileCommand(t *testing.T) {
	cmd := NewCompileCommand()

	assert.Equal(t, "compile <file>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"watch", "concurrency"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewManifestCommand(t *testing.T) {
	cmd := NewManifestCommand()

	assert.Equal(t, "manifest [hint]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.Error(t, cmd.Args(cmd, []string{"9.4", "9.5"}))
}

func TestNewDiscoverCommand(t *testing.T) {
	cmd := NewDiscoverCommand()

	assert.Equal(t, "discover", cmd.Use)
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	tr := clitestutil.NewTestRenderer(output.ModeText, false)
	cmd.SetOut(tr.Out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, tr.Output(), "cratesql v1.2.3")
}

func TestGetConfig_Defaults(t *testing.T) {
	config.ResetConfig()

	cfg := getConfig()
	assert.Equal(t, "cratedb", cfg.Dialect)
	assert.Equal(t, "14.0.0", cfg.ServerVersion)
	assert.True(t, cfg.ParameterizeConstants)
}

func TestNewServices(t *testing.T) {
	logger := testutil.NewTestLogger(t)

	t.Run("placeholder override", func(t *testing.T) {
		cfg := &config.Config{ProjectConfig: core.ProjectConfig{Dialect: "postgres", Placeholder: "at", ParameterizeConstants: true}}
		svc, err := newServices(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, "postgres", svc.Dialect().Name)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		_, err := newServices(&config.Config{ProjectConfig: core.ProjectConfig{Dialect: "oracle"}}, logger)
		assert.ErrorContains(t, err, "unknown dialect")
	})

	t.Run("unknown placeholder", func(t *testing.T) {
		_, err := newServices(&config.Config{ProjectConfig: core.ProjectConfig{Dialect: "cratedb", Placeholder: "?"}}, logger)
		assert.ErrorContains(t, err, "placeholder")
	})

	t.Run("no target means no version source", func(t *testing.T) {
		svc, err := newServices(&config.Config{ProjectConfig: core.ProjectConfig{Dialect: "cratedb"}}, logger)
		require.NoError(t, err)
		_, err = svc.ProviderManifestToken(context.Background(), core.AdapterConfig{})
		assert.ErrorIs(t, err, services.ErrNoVersionSource)
	})
}

func TestPlaceholderFor(t *testing.T) {
	assert.Equal(t, ":id", placeholderFor(core.PlaceholderColon, "id", 0))
	assert.Equal(t, "@id", placeholderFor(core.PlaceholderAt, "id", 0))
	assert.Equal(t, "$3", placeholderFor(core.PlaceholderDollar, "id", 2))
}

func compileFixture(t *testing.T, trees map[string]string) ([]compiledCommand, []string) {
	t.Helper()
	dir := clitestutil.SetupTestProject(t, "", trees)

	var files []string
	for _, name := range []string{"orders.yaml", "recent.yaml"} {
		if _, ok := trees[name]; ok {
			files = append(files, filepath.Join(dir, name))
		}
	}

	svc := services.New(services.WithLogger(testutil.NewTestLogger(t)))
	results, err := compileFiles(context.Background(), svc, version.Must(version.NewVersion("14.0")), files, 2)
	require.NoError(t, err)
	return results, files
}

func TestCompileFiles(t *testing.T) {
	results, files := compileFixture(t, map[string]string{
		"orders.yaml": clitestutil.OrdersTree,
		"recent.yaml": clitestutil.RecentOrdersTree,
	})

	require.Len(t, results, 2)
	assert.Equal(t, "new_order", results[0].Name)
	assert.Equal(t, files[0], results[0].File)
	assert.Equal(t, "insert", results[0].Kind)
	assert.Equal(t, "recent_orders", results[1].Name)
	assert.Equal(t, "query", results[1].Kind)
	assert.Empty(t, results[1].Parameters)
}

func TestCompileFiles_StopsOnError(t *testing.T) {
	dir := clitestutil.SetupTestProject(t, "", map[string]string{
		"good.yaml": clitestutil.OrdersTree,
		"bad.yaml":  "kind: insert\n",
	})
	svc := services.New()

	_, err := compileFiles(context.Background(), svc, version.Must(version.NewVersion("14.0")),
		[]string{filepath.Join(dir, "good.yaml"), filepath.Join(dir, "bad.yaml")}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a target")
}

func TestRenderCompiled(t *testing.T) {
	results, _ := compileFixture(t, map[string]string{"orders.yaml": clitestutil.OrdersTree})

	t.Run("table on a terminal", func(t *testing.T) {
		tr := clitestutil.NewTestRenderer(output.ModeAuto, true)
		require.NoError(t, renderCompiled(tr.Renderer, results))

		out := tr.Output()
		assert.Contains(t, out, "new_order (insert)")
		assert.Contains(t, out, "PARAMETER")
		assert.Contains(t, out, ":p1")
		assert.Contains(t, out, "19.99")
		clitestutil.AssertNoANSI(t, out)
	})

	t.Run("json", func(t *testing.T) {
		tr := clitestutil.NewTestRenderer(output.ModeJSON, false)
		require.NoError(t, renderCompiled(tr.Renderer, results))
		assert.Contains(t, tr.Output(), `"placeholder": ":p1"`)
	})

	t.Run("json empty", func(t *testing.T) {
		tr := clitestutil.NewTestRenderer(output.ModeJSON, false)
		require.NoError(t, renderCompiled(tr.Renderer, nil))
		assert.Equal(t, "[]\n", tr.Output())
	})
}

func TestDescribeManifest(t *testing.T) {
	m, err := dialect.ResolveFor(nil, "8.3")
	require.NoError(t, err)

	info := describeManifest(m)
	assert.Equal(t, "8.3.0", info.Version)
	assert.Equal(t, []manifestFeature{
		{"RETURNING", "8.2.0", true},
		{"FETCH FIRST", "8.4.0", false},
		{"ON CONFLICT", "9.5.0", false},
	}, info.Features)

	tr := clitestutil.NewTestRenderer(output.ModeTable, false)
	require.NoError(t, renderManifest(tr.Renderer, info))
	assert.Contains(t, tr.Output(), "FETCH FIRST")
	assert.Contains(t, tr.Output(), "no")
}

func TestWatchFiles(t *testing.T) {
	dir := clitestutil.SetupTestProject(t, "", map[string]string{"orders.yaml": clitestutil.OrdersTree})
	path := filepath.Join(dir, "orders.yaml")

	old := watchDebounce
	watchDebounce = 10 * time.Millisecond
	t.Cleanup(func() { watchDebounce = old })

	tr := clitestutil.NewTestRenderer(output.ModeText, false)
	cc := &CommandContext{Logger: testutil.NewTestLogger(t), Renderer: tr.Renderer}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recompiled := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, cc, []string{path}, func() { recompiled <- struct{}{} })
	}()

	// Keep writing until the watcher is up and reports the change.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case <-recompiled:
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(clitestutil.OrdersTree), 0600))
		case <-deadline:
			t.Fatal("no recompile after writing the watched file")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

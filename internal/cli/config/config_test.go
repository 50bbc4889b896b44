package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a cratesql.yaml into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cratesql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "target dialect")
	flags.String("server-version", "", "server version hint")
	flags.Bool("parameterize-constants", true, "parameterize DML constants")
	flags.String("placeholder", "", "placeholder style")
	flags.String("output", "", "output format")
	flags.Bool("verbose", false, "verbose logging")
	flags.String("env", "", "environment")
	return flags
}

// TestExpandEnvVars tests the expandEnvVars function.
func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"multiple variables", "${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
		{"mixed set and unset", "${TEST_VAR_ONE}:${UNSET_VAR}", "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

// TestMergeTargetConfig tests the MergeTargetConfig function.
func TestMergeTargetConfig(t *testing.T) {
	t.Run("nil base returns override", func(t *testing.T) {
		override := &TargetConfig{Type: "cratedb", Host: "crate"}
		assert.Equal(t, override, MergeTargetConfig(nil, override))
	})

	t.Run("nil override returns base", func(t *testing.T) {
		base := &TargetConfig{Type: "cratedb", Host: "crate"}
		assert.Equal(t, base, MergeTargetConfig(base, nil))
	})

	t.Run("both nil returns nil", func(t *testing.T) {
		assert.Nil(t, MergeTargetConfig(nil, nil))
	})

	t.Run("override replaces base fields", func(t *testing.T) {
		base := &TargetConfig{Type: "cratedb", Host: "localhost", Port: 5432, User: "crate"}
		override := &TargetConfig{Host: "prod.internal", AdminDatabase: "doc"}

		result := MergeTargetConfig(base, override)

		assert.Equal(t, "cratedb", result.Type, "Type should be inherited from base")
		assert.Equal(t, "prod.internal", result.Host)
		assert.Equal(t, 5432, result.Port)
		assert.Equal(t, "crate", result.User)
		assert.Equal(t, "doc", result.AdminDatabase)
		assert.Equal(t, "localhost", base.Host, "base must not be modified")
	})

	t.Run("options are merged", func(t *testing.T) {
		base := &TargetConfig{Options: map[string]string{"sslmode": "disable", "application_name": "a"}}
		override := &TargetConfig{Options: map[string]string{"sslmode": "require"}}

		result := MergeTargetConfig(base, override)

		assert.Equal(t, map[string]string{"sslmode": "require", "application_name": "a"}, result.Options)
		assert.Equal(t, "disable", base.Options["sslmode"])
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "target:\n  host: localhost\n")
	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultServerVersion, cfg.ServerVersion)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.True(t, cfg.ParameterizeConstants)
	assert.Empty(t, cfg.Placeholder)
	assert.Equal(t, "cratedb", cfg.Target.Type)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "template1", cfg.Target.AdminDatabase)
	assert.Equal(t, filepath.Dir(cfgPath), cfg.ProjectRoot)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	t.Setenv("CRATESQL_TEST_PASSWORD", "s3cret")

	cfgPath := writeConfig(t, `dialect: postgres
server_version: "9.4"
parameterize_constants: false
placeholder: dollar
output: json
target:
  host: db.internal
  port: 5433
  database: app
  user: app
  password: ${CRATESQL_TEST_PASSWORD}
  options:
    sslmode: require
`)
	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "9.4", cfg.ServerVersion)
	assert.False(t, cfg.ParameterizeConstants)
	assert.Equal(t, "dollar", cfg.Placeholder)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, 5433, cfg.Target.Port)
	assert.Equal(t, "s3cret", cfg.Target.Password)
	assert.Equal(t, "require", cfg.Target.Options["sslmode"])
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"unknown dialect", "dialect: oracle\n", "unknown dialect"},
		{"bad version", "server_version: latest\n", "server_version"},
		{"bad placeholder", "placeholder: question\n", "placeholder must be"},
		{"bad output", "output: xml\n", "output must be one of"},
		{"unknown adapter", "target:\n  type: mysql\n", "unknown adapter type"},
		{"malformed yaml", "dialect: [\n", "error reading config file"},
		{"unknown environment", "environment: staging\n", `environment "staging" is not defined`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfigWithTarget_Environments(t *testing.T) {
	content := `server_version: "14.0"
target:
  host: localhost
  user: crate
environment: dev
environments:
  dev:
    target:
      database: dev
  prod:
    server_version: "5.4.2"
    target:
      host: crate.prod
      database: prod
`

	t.Run("environment from file", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(writeConfig(t, content), "", nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Target.Host)
		assert.Equal(t, "dev", cfg.Target.Database)
		assert.Equal(t, "14.0", cfg.ServerVersion)
	})

	t.Run("override selects another environment", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(writeConfig(t, content), "prod", nil)
		require.NoError(t, err)
		assert.Equal(t, "crate.prod", cfg.Target.Host)
		assert.Equal(t, "prod", cfg.Target.Database)
		assert.Equal(t, "crate", cfg.Target.User)
		assert.Equal(t, "5.4.2", cfg.ServerVersion)
	})

	t.Run("env flag", func(t *testing.T) {
		ResetConfig()
		flags := testFlags()
		require.NoError(t, flags.Set("env", "prod"))
		cfg, err := LoadConfig(writeConfig(t, content), flags)
		require.NoError(t, err)
		assert.Equal(t, "prod", cfg.Environment)
		assert.Equal(t, "crate.prod", cfg.Target.Host)
	})
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "dialect: postgres\nserver_version: \"9.0\"\n")
	t.Setenv("CRATESQL_SERVER_VERSION", "9.6")

	flags := testFlags()
	require.NoError(t, flags.Set("server-version", "12.1"))
	require.NoError(t, flags.Set("parameterize-constants", "false"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "12.1", cfg.ServerVersion, "flag value should override config file and env var")
	assert.False(t, cfg.ParameterizeConstants)
	assert.Equal(t, "postgres", cfg.Dialect, "unset flag must not override the file")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "server_version: \"9.0\"\ntarget:\n  host: from_file\n")
	t.Setenv("CRATESQL_SERVER_VERSION", "9.6")
	t.Setenv("CRATESQL_TARGET__HOST", "from_env")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)

	assert.Equal(t, "9.6", cfg.ServerVersion)
	assert.Equal(t, "from_env", cfg.Target.Host)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "fallback logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

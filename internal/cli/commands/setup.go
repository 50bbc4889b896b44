package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cratesql/internal/cli/config"
	"github.com/leapstack-labs/cratesql/internal/cli/output"
	intconfig "github.com/leapstack-labs/cratesql/internal/config"
	"github.com/leapstack-labs/cratesql/pkg/adapters/postgres"
	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/services"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Services *services.Services
	Renderer *output.Renderer
}

// NewCommandContext builds the compilation services and renderer from the
// loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	svc, err := newServices(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Services: svc,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg := &config.Config{ProjectConfig: core.ProjectConfig{ParameterizeConstants: true}}
	intconfig.ApplyDefaults(&cfg.ProjectConfig)
	return cfg
}

func newServices(cfg *config.Config, logger *slog.Logger) (*services.Services, error) {
	d, ok := dialect.Get(cfg.Dialect)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q", cfg.Dialect)
	}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithDialect(d),
		services.WithParameterizeConstants(cfg.ParameterizeConstants),
	}
	if cfg.Placeholder != "" {
		style, ok := core.ParsePlaceholderStyle(cfg.Placeholder)
		if !ok {
			return nil, fmt.Errorf("unknown placeholder style %q", cfg.Placeholder)
		}
		opts = append(opts, services.WithPlaceholder(style))
	}
	if cfg.Target != nil {
		opts = append(opts, services.WithVersionSource(&postgres.VersionSource{
			AdminDatabase: cfg.Target.AdminDatabase,
			Logger:        logger,
		}))
	}
	return services.New(opts...), nil
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cratesql/internal/cli/output"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
)

// errNoTarget is returned by discover when the configuration has no target.
var errNoTarget = errors.New("no target configured\nHint: add a target section to cratesql.yaml or set CRATESQL_TARGET__HOST")

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Ask the target server for its version",
		Long: `Open a short-lived connection to the target's admin database and print
the server version it reports. The value can be used as server_version.

The connection is not pooled and is closed before the command returns.`,
		Example: `  cratesql discover
  cratesql discover --env prod --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiscover(cmd)
		},
	}
}

type discoverInfo struct {
	Host     string `json:"host"`
	Database string `json:"admin_database"`
	Hint     string `json:"hint"`
	Version  string `json:"version"`
}

func runDiscover(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if cc.Cfg.Target == nil {
		return errNoTarget
	}

	hint, err := cc.Services.ProviderManifestToken(cmd.Context(), cc.Cfg.Target.AdapterConfig())
	if err != nil {
		return err
	}

	info := discoverInfo{
		Host:     cc.Cfg.Target.Host,
		Database: cc.Cfg.Target.AdminDatabase,
		Hint:     hint,
		Version:  dialect.NormalizeHint(hint),
	}

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return cc.Renderer.JSON(info)
	default:
		_, _ = fmt.Fprintln(cc.Renderer.Out(), info.Hint)
		return nil
	}
}

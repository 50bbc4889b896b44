package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cratesql/internal/cli/output"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
)

// NewManifestCommand creates the manifest command.
func NewManifestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest [hint]",
		Short: "Show what a server version supports",
		Long: `Resolve a server version hint against the configured dialect and list
the version-gated features the generated SQL relies on.

Without an argument the configured server_version is used.`,
		Example: `  cratesql manifest 9.4
  cratesql manifest "PostgreSQL 10.5 (Ubuntu 10.5-1)"
  cratesql manifest --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(cmd, args)
		},
	}
}

type manifestFeature struct {
	Name      string `json:"name"`
	Since     string `json:"since"`
	Supported bool   `json:"supported"`
}

type manifestInfo struct {
	Dialect  string            `json:"dialect"`
	Hint     string            `json:"hint"`
	Version  string            `json:"version"`
	Features []manifestFeature `json:"features"`
}

func runManifest(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	hint := cc.Cfg.ServerVersion
	if len(args) == 1 {
		hint = args[0]
	}
	m, err := cc.Services.ProviderManifest(hint)
	if err != nil {
		return err
	}

	return renderManifest(cc.Renderer, describeManifest(m))
}

func describeManifest(m *dialect.Manifest) manifestInfo {
	return manifestInfo{
		Dialect: m.Dialect.Name,
		Hint:    m.Hint,
		Version: m.Version.String(),
		Features: []manifestFeature{
			{"RETURNING", dialect.VersionReturning, m.SupportsReturning()},
			{"FETCH FIRST", dialect.VersionFetchFirst, m.SupportsFetchFirst()},
			{"ON CONFLICT", dialect.VersionOnConflict, m.SupportsOnConflict()},
		},
	}
}

func renderManifest(r *output.Renderer, info manifestInfo) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeTable:
		_, _ = fmt.Fprintf(r.Out(), "%s %s\n", info.Dialect, info.Version)
		rows := make([]table.Row, len(info.Features))
		for i, f := range info.Features {
			rows[i] = table.Row{f.Name, f.Since, yesNo(f.Supported)}
		}
		r.Table(table.Row{"FEATURE", "SINCE", "SUPPORTED"}, rows)
		return nil
	default:
		_, _ = fmt.Fprintf(r.Out(), "dialect: %s\nversion: %s\n", info.Dialect, info.Version)
		for _, f := range info.Features {
			_, _ = fmt.Fprintf(r.Out(), "%s: %s\n", f.Name, yesNo(f.Supported))
		}
		return nil
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

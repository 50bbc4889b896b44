package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-version"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/cratesql/internal/cli/output"
	"github.com/leapstack-labs/cratesql/internal/treefile"
	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/provider"
	"github.com/leapstack-labs/cratesql/pkg/services"
)

// CompileOptions holds options for the compile command.
type CompileOptions struct {
	Watch       bool
	Concurrency int
}

// watchDebounce is how long compile --watch waits for a burst of writes
// to settle.
var watchDebounce = 100 * time.Millisecond

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	opts := &CompileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <file>...",
		Short: "Compile command tree files to SQL",
		Long: `Compile YAML command tree documents into SQL commands for the configured
dialect and server version.

Files are compiled concurrently. The first failure stops the run and no
output is printed for the batch.`,
		Example: `  # Compile a tree file for the configured server
  cratesql compile trees/orders.yaml

  # Target an older PostgreSQL release with positional placeholders
  cratesql compile --dialect postgres --server-version 9.4 --placeholder dollar trees/*.yaml

  # Recompile whenever the files change
  cratesql compile --watch trees/orders.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Recompile when a file changes")
	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "j", 4, "Number of files compiled at once")

	return cmd
}

// compiledCommand is one compiled document.
type compiledCommand struct {
	Name       string          `json:"name"`
	File       string          `json:"file"`
	Kind       string          `json:"kind"`
	SQL        string          `json:"sql"`
	Parameters []compiledParam `json:"parameters"`
}

type compiledParam struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Type        string `json:"type"`
	Value       any    `json:"value,omitempty"`
	Synthesized bool   `json:"synthesized,omitempty"`
}

func runCompile(cmd *cobra.Command, files []string, opts *CompileOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	manifest, err := cc.Services.ProviderManifest(cc.Cfg.ServerVersion)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := compileFiles(ctx, cc.Services, manifest.Version, files, opts.Concurrency)
	if err != nil {
		if !opts.Watch {
			return err
		}
		cc.Renderer.Warnf("Error: %v", err)
	} else if err := renderCompiled(cc.Renderer, results); err != nil {
		return err
	}

	if !opts.Watch {
		return nil
	}
	return watchFiles(ctx, cc, files, func() {
		results, err := compileFiles(ctx, cc.Services, manifest.Version, files, opts.Concurrency)
		if err != nil {
			cc.Renderer.Warnf("Error: %v", err)
			return
		}
		if err := renderCompiled(cc.Renderer, results); err != nil {
			cc.Renderer.Warnf("Error: %v", err)
		}
	})
}

// compileFiles decodes and compiles every file. Results keep the order of
// files and of the documents within each file.
func compileFiles(ctx context.Context, svc *services.Services, v *version.Version, files []string, limit int) ([]compiledCommand, error) {
	perFile := make([][]compiledCommand, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := compileFile(svc, v, file)
			if err != nil {
				return err
			}
			perFile[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []compiledCommand
	for _, out := range perFile {
		all = append(all, out...)
	}
	return all, nil
}

func compileFile(svc *services.Services, v *version.Version, file string) ([]compiledCommand, error) {
	docs, err := treefile.ReadFile(file)
	if err != nil {
		return nil, err
	}

	out := make([]compiledCommand, 0, len(docs))
	for _, doc := range docs {
		cmd, err := svc.CreateCommand(v, doc.Tree)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Name, err)
		}
		out = append(out, newCompiledCommand(file, doc, cmd))
	}
	return out, nil
}

func newCompiledCommand(file string, doc treefile.Document, cmd *provider.Command) compiledCommand {
	cc := compiledCommand{
		Name:       doc.Name,
		File:       file,
		Kind:       core.KindOf(doc.Tree),
		SQL:        cmd.Text,
		Parameters: make([]compiledParam, len(cmd.Parameters)),
	}
	for i, p := range cmd.Parameters {
		cc.Parameters[i] = compiledParam{
			Name:        p.Name,
			Placeholder: placeholderFor(cmd.Placeholder, p.Name, i),
			Type:        p.Type.String(),
			Value:       p.Value,
			Synthesized: p.Synthesized,
		}
	}
	return cc
}

func placeholderFor(style core.PlaceholderStyle, name string, index int) string {
	switch style {
	case core.PlaceholderAt:
		return "@" + name
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index+1)
	default:
		return ":" + name
	}
}

func renderCompiled(r *output.Renderer, results []compiledCommand) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if results == nil {
			results = []compiledCommand{}
		}
		return r.JSON(results)
	case output.ModeTable:
		for _, c := range results {
			_, _ = fmt.Fprintf(r.Out(), "%s (%s)\n%s;\n", c.Name, c.Kind, c.SQL)
			if len(c.Parameters) == 0 {
				_, _ = fmt.Fprintln(r.Out())
				continue
			}
			rows := make([]table.Row, len(c.Parameters))
			for i, p := range c.Parameters {
				rows[i] = table.Row{p.Placeholder, p.Type, formatValue(p)}
			}
			r.Table(table.Row{"PARAMETER", "TYPE", "VALUE"}, rows)
			_, _ = fmt.Fprintln(r.Out())
		}
		return nil
	default:
		for _, c := range results {
			_, _ = fmt.Fprintf(r.Out(), "-- %s\n%s;\n", c.Name, c.SQL)
			for _, p := range c.Parameters {
				_, _ = fmt.Fprintf(r.Out(), "--   %s %s = %s\n", p.Placeholder, p.Type, formatValue(p))
			}
		}
		return nil
	}
}

func formatValue(p compiledParam) string {
	if !p.Synthesized {
		return "(unbound)"
	}
	if p.Value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", p.Value)
}

// watchFiles calls recompile whenever one of files is written or replaced,
// until ctx is done.
func watchFiles(ctx context.Context, cc *CommandContext, files []string, recompile func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the parent directories: editors often replace files on save.
	watched := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	cc.Renderer.Warnf("Watching %d file(s) for changes. Press Ctrl+C to stop.", len(files))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, ok := watched[filepath.Clean(event.Name)]; !ok {
				continue
			}
			cc.Logger.Debug("file changed", "file", event.Name)
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			recompile()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				debounce = time.After(watchDebounce)
				continue
			}
			cc.Logger.Error("watcher error", "error", err)
		}
	}
}

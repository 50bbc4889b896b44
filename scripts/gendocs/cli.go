package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/cratesql/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// exampleIndent is the indentation every command's Example text uses.
const exampleIndent = "  "

const quickStartTree = `# orders.yaml
name: new_order
kind: insert
params:
  - {name: id, type: int32}
target: {name: orders}
set:
  - {column: id, value: {param: id}}
  - {column: total, value: {const: "19.99", type: decimal}}`

const quickStartOutput = `$ cratesql compile --placeholder dollar orders.yaml
-- new_order
INSERT INTO "orders" ("id","total") VALUES ($1, $2);
--   $1 integer = (unbound)
--   $2 numeric = 19.99`

// generateCLIDocs writes index.md plus one page per cratesql command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	commands := documented(root)

	if err := writePage(outDir, "index.md", cliIndex(root, commands)); err != nil {
		return err
	}
	for _, cmd := range commands {
		if err := writePage(outDir, cmd.Name()+".md", commandPage(cmd, commands)); err != nil {
			return err
		}
	}
	return nil
}

// documented returns the commands that get a reference page. Shell
// completion is covered by its own --help output.
func documented(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		switch {
		case cmd.Hidden, cmd.Name() == "help", cmd.Name() == "completion":
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func writePage(outDir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

func cliIndex(root *cobra.Command, commands []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for cratesql")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("cratesql compiles command trees described in YAML into PostgreSQL or CrateDB SQL " +
		"and reports which version-gated constructs a target server accepts.")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/cratesql/cmd/cratesql@latest")

	w.Header(2, "Quick Start")
	w.CodeBlock("yaml", quickStartTree)
	w.CodeBlock("bash", quickStartOutput)

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(commands))
	for _, cmd := range commands {
		rows = append(rows, []string{commandLink(cmd), cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Header(2, "Environment Variables")
	w.Paragraph("Every `cratesql.yaml` key can be set with the `CRATESQL_` prefix; nested keys use `__` " +
		"(`CRATESQL_TARGET__HOST`). Flags win over the environment, which wins over the file. " +
		"See the [configuration reference](/reference/configuration).")

	w.Header(2, "Exit Codes")
	w.Paragraph("`0` on success. `1` when any tree fails to compile or the server cannot be reached; the error is printed to stderr.")
	return w
}

func commandPage(cmd *cobra.Command, commands []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		w.Table(flagHeaders, flagRows(cmd.LocalFlags()))
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		w.Table(flagHeaders, flagRows(cmd.InheritedFlags()))
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	var related []string
	for _, other := range commands {
		if other != cmd {
			related = append(related, commandLink(other)+": "+cleanDescription(other.Short))
		}
	}
	if len(related) > 0 {
		w.Header(2, "See Also")
		w.BulletList(related)
	}
	return w
}

func commandLink(cmd *cobra.Command) string {
	return fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
}

var flagHeaders = []string{"Option", "Short", "Default", "Description"}

func flagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if def != "" && f.Value.Type() == "string" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	return rows
}

func dedent(example string) string {
	lines := strings.Split(example, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, exampleIndent)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

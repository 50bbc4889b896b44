package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/cratesql/internal/cli/config"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
)

// generateConfigDocs generates the cratesql.yaml reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "project", "target"
}

// getConfigSchema returns the configuration schema definition.
// This follows core.ProjectConfig, core.TargetConfig and config.Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "dialect", Type: "string", Default: config.DefaultDialect, Description: "SQL dialect: " + strings.Join(dialect.List(), ", "), Category: "project"},
		{Name: "server_version", Type: "string", Default: config.DefaultServerVersion, Description: "Server version the generated SQL targets; gates RETURNING, FETCH FIRST and ON CONFLICT", Category: "project"},
		{Name: "parameterize_constants", Type: "bool", Default: "true", Description: "Emit non-null constants as synthesized parameters instead of literals", Category: "project"},
		{Name: "placeholder", Type: "string", Default: "colon", Description: "Parameter placeholder style: colon, at or dollar", Category: "project"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, table or json", Category: "project"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Log debug output to stderr", Category: "project"},
		{Name: "environment", Type: "string", Description: "Environment whose overrides are applied", Category: "project"},

		{Name: "type", Type: "string", Description: "Adapter type; defaults to the dialect", Category: "target"},
		{Name: "host", Type: "string", Description: "Server host", Category: "target"},
		{Name: "port", Type: "int", Default: "5432", Description: "Server port", Category: "target"},
		{Name: "database", Type: "string", Description: "Database name", Category: "target"},
		{Name: "user", Type: "string", Description: "Database username", Category: "target"},
		{Name: "password", Type: "string", Description: "Database password", Category: "target"},
		{Name: "admin_database", Type: "string", Default: "template1", Description: "Database version discovery connects to", Category: "target"},
		{Name: "options", Type: "map[string]string", Description: "Additional connection string options", Category: "target"},
	}
}

func fieldRows(fields []ConfigField, category string) [][]string {
	var rows [][]string
	for _, f := range fields {
		if f.Category != category {
			continue
		}
		defVal := f.Default
		if defVal == "" {
			defVal = "-"
		} else {
			defVal = InlineCode(defVal)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
	}
	return rows
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "cratesql configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("cratesql is configured via `cratesql.yaml` (or `cratesql.yml`) in your project root. " +
		"Values are layered: defaults, then the file, then `CRATESQL_` environment variables, then command-line flags.")

	fields := getConfigSchema()
	headers := []string{"Field", "Type", "Default", "Description"}

	w.Header(2, "Project Settings")
	w.Table(headers, fieldRows(fields, "project"))

	w.Header(2, "Target")
	w.Paragraph("The `target` key describes the server used by `cratesql discover` to resolve its version.")
	w.Table(headers, fieldRows(fields, "target"))

	w.Header(2, "Environments")
	w.Paragraph("Each entry under `environments` may override `server_version` and any target field. " +
		"Select one with `environment:` or `--env`.")

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# cratesql.yaml
dialect: cratedb
server_version: "14.0.0"
placeholder: at
parameterize_constants: true

target:
  host: localhost
  port: 5432
  user: crate
  database: doc

environments:
  legacy:
    server_version: "9.4"
  prod:
    target:
      host: crate.example.com
      password: ${CRATE_PASSWORD}`)

	w.Header(2, "Environment Variables")
	w.Paragraph("Use `${VAR_NAME}` in target host, user, password and database to read a value from the environment:")
	w.CodeBlock("yaml", `target:
  password: ${CRATE_PASSWORD}`)

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/cratesql/internal/cli/output"
)

// OrdersTree is an insert tree over the orders table with one declared
// parameter and two constants.
const OrdersTree = `name: new_order
kind: insert
params:
  - {name: id, type: int32}
target: {name: orders}
set:
  - {column: id, value: {param: id}}
  - {column: total, value: {const: "19.99", type: decimal}}
  - {column: status, value: {const: open}}
`

// RecentOrdersTree is a query tree with a LIMIT.
const RecentOrdersTree = `name: recent_orders
kind: query
query:
  columns:
    - {expr: {col: id}}
  from:
    table: {name: orders}
  order_by:
    - {expr: {col: created_at}, desc: true}
  limit: {const: 10}
`

// SetupTestProject creates a temporary project with a config file and the
// given tree files, keyed by file name. It returns the project directory.
func SetupTestProject(t *testing.T, config string, trees map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	if config != "" {
		WriteFile(t, filepath.Join(tmpDir, "cratesql.yaml"), config)
	}
	for name, content := range trees {
		WriteFile(t, filepath.Join(tmpDir, name), content)
	}
	return tmpDir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// Package output decides how CLI results are printed.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Mode is an output format.
type Mode string

// Output modes.
const (
	ModeAuto  Mode = "auto"  // table on a terminal, text otherwise
	ModeText  Mode = "text"  // plain SQL, friendly to pipes and diffs
	ModeTable Mode = "table" // boxed tables
	ModeJSON  Mode = "json"
)

// Renderer writes command results to the configured streams.
type Renderer struct {
	out  io.Writer
	err  io.Writer
	mode Mode

	// isTerminal is replaced in tests.
	isTerminal func(w io.Writer) bool
}

// NewRenderer creates a renderer. An empty mode means ModeAuto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, err: errOut, mode: mode, isTerminal: writerIsTerminal}
}

// NewRendererWithTTY creates a renderer that treats out as a terminal when
// isTTY is set, whatever out is.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	r := NewRenderer(out, errOut, mode)
	r.isTerminal = func(io.Writer) bool { return isTTY }
	return r
}

// Out returns the writer for results.
func (r *Renderer) Out() io.Writer { return r.out }

// Err returns the writer for diagnostics.
func (r *Renderer) Err() io.Writer { return r.err }

// EffectiveMode resolves ModeAuto against the output stream.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTerminal(r.out) {
		return ModeTable
	}
	return ModeText
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes a light-styled table. An empty body prints "(0 rows)".
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

// Warnf writes a diagnostic line.
func (r *Renderer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.err, format+"\n", args...)
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

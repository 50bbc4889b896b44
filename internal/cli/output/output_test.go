package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		terminal bool
		want     Mode
	}{
		{"auto on terminal", ModeAuto, true, ModeTable},
		{"auto piped", ModeAuto, false, ModeText},
		{"empty is auto", "", false, ModeText},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text", ModeText, true, ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.terminal, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestBufferIsNotTerminal(t *testing.T) {
	assert.False(t, writerIsTerminal(&bytes.Buffer{}))
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeTable)

	r.Table(table.Row{"NAME", "TYPE"}, []table.Row{{"p1", "integer"}})
	assert.Contains(t, out.String(), "p1")
	assert.Contains(t, out.String(), "integer")
	assert.Contains(t, out.String(), "┌")

	out.Reset()
	r.Table(table.Row{"NAME"}, nil)
	assert.Equal(t, "(0 rows)\n", out.String())
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}

func TestWarnf(t *testing.T) {
	var errOut bytes.Buffer
	r := NewRenderer(&bytes.Buffer{}, &errOut, ModeText)

	r.Warnf("watching %d files", 2)
	assert.Equal(t, "watching 2 files\n", errOut.String())
	assert.Same(t, &errOut, r.Err())
}

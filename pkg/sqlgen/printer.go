package sqlgen

import (
	"bytes"
	"strconv"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/provider"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

// printer accumulates the SQL text of one build. The first error sticks and
// later writes are ignored.
type printer struct {
	dialect      *dialect.Dialect
	manifest     *dialect.Manifest
	parameterize bool

	output  *bytes.Buffer
	params  []*provider.Parameter
	refs    []string
	refSeen map[string]struct{}
	err     error
}

func newPrinter(m *dialect.Manifest, cmd *provider.Command, parameterize bool) *printer {
	return &printer{
		dialect:      m.Dialect.WithPlaceholder(cmd.Placeholder),
		manifest:     m,
		parameterize: parameterize,
		output:       &bytes.Buffer{},
		params:       append([]*provider.Parameter(nil), cmd.Parameters...),
		refSeen:      make(map[string]struct{}),
	}
}

// commit copies the text and parameters into cmd unless an error occurred.
func (p *printer) commit(cmd *provider.Command) error {
	if p.err != nil {
		return p.err
	}
	cmd.Text = p.output.String()
	cmd.Parameters = p.params
	return nil
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	p.output.WriteString(s)
}

func (p *printer) space() {
	p.write(" ")
}

// kw prints keywords separated by single spaces.
func (p *printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		p.write(t.String())
	}
}

// formatList prints count items separated by sep.
func (p *printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}

func (p *printer) ident(name string) {
	p.write(p.dialect.QuoteIdentifier(name))
}

// require fails with an *core.UnsupportedOnServerVersionError when the
// server is older than threshold.
func (p *printer) require(feature, threshold string) bool {
	if err := p.manifest.Require(feature, threshold); err != nil {
		p.fail(err)
		return false
	}
	return true
}

// ---------- Parameters ----------

func (p *printer) indexOf(name string) int {
	for i, param := range p.params {
		if param.Name == name {
			return i
		}
	}
	return -1
}

func (p *printer) reference(name string) {
	if _, ok := p.refSeen[name]; !ok {
		p.refSeen[name] = struct{}{}
		p.refs = append(p.refs, name)
	}
	p.write(p.dialect.FormatPlaceholder(name, p.indexOf(name)+1))
}

func (p *printer) paramRef(ref *core.ParamRef) {
	i := p.indexOf(ref.Name)
	if i < 0 || p.params[i].Synthesized {
		p.fail(&core.UndeclaredParameterError{Name: ref.Name})
		return
	}
	p.reference(ref.Name)
}

// synthesize appends a parameter for a constant and prints its placeholder.
// Names are p<n>, n starting at the current parameter count and skipping
// names already taken. The value must be one Literal accepts, so a tree
// compiles the same way with and without parameterization.
func (p *printer) synthesize(c *core.Constant) {
	typ, err := provider.MapPrimitive(c.Kind)
	if err != nil {
		p.fail(err)
		return
	}
	if _, err := Literal(c); err != nil {
		p.fail(err)
		return
	}
	n := len(p.params)
	for p.indexOf("p"+strconv.Itoa(n)) >= 0 {
		n++
	}
	name := "p" + strconv.Itoa(n)
	p.params = append(p.params, &provider.Parameter{
		Name:        name,
		Type:        typ,
		Value:       c.Value,
		Synthesized: true,
	})
	p.reference(name)
}

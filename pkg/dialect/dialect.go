// Package dialect provides SQL dialect configuration and the version
// capability manifest the generators consult.
//
// This package contains the public contract for dialect definitions used by
// the SQL generators and adapters. Concrete dialect implementations are
// registered from pkg/dialects/*/ packages.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema    string                // Default schema name ("public" for Postgres, "doc" for CrateDB)
	Placeholder      core.PlaceholderStyle // How to format query parameters
	SupportsIlike    bool                  // ILIKE operator available
	MinServerVersion string                // Oldest supported server release

	precedence map[token.TokenType]int
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:             d.Name,
		Identifiers:      d.Identifiers,
		DefaultSchema:    d.DefaultSchema,
		Placeholder:      d.Placeholder,
		SupportsIlike:    d.SupportsIlike,
		MinServerVersion: d.MinServerVersion,
	}
}

// FormatPlaceholder returns the placeholder for a parameter. The position is
// 1-based and only used by positional styles.
func (d *Dialect) FormatPlaceholder(name string, position int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(position)
	case core.PlaceholderAt:
		return "@" + name
	default: // PlaceholderColon
		return ":" + name
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteQualified quotes each part of a dotted name and skips empty parts.
func (d *Dialect) QuoteQualified(parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		quoted = append(quoted, d.QuoteIdentifier(p))
	}
	return strings.Join(quoted, ".")
}

// Precedence returns the binding strength of an operator token, or
// core.PrecedenceNone for tokens that are not operators.
func (d *Dialect) Precedence(t token.TokenType) int {
	if p, ok := d.precedence[t]; ok {
		return p
	}
	return core.PrecedenceNone
}

// WithPlaceholder returns a copy of the dialect using a different
// placeholder style. The receiver is not modified.
func (d *Dialect) WithPlaceholder(style core.PlaceholderStyle) *Dialect {
	cp := *d
	cp.Placeholder = style
	return &cp
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a builder with ANSI defaults: double-quoted
// identifiers, colon placeholders and the ANSI operator table.
func NewDialect(name string) *Builder {
	b := &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:    `"`,
				QuoteEnd: `"`,
				Escape:   `""`,
			},
			precedence: make(map[token.TokenType]int),
		},
	}
	return b.Operators(ANSIOperators)
}

// New creates a dialect builder from a DialectConfig.
func New(cfg *core.DialectConfig) *Builder {
	b := NewDialect(cfg.Name)
	if cfg.Identifiers.Quote != "" {
		b.dialect.Identifiers = cfg.Identifiers
	}
	b.dialect.DefaultSchema = cfg.DefaultSchema
	b.dialect.Placeholder = cfg.Placeholder
	b.dialect.SupportsIlike = cfg.SupportsIlike
	b.dialect.MinServerVersion = cfg.MinServerVersion
	return b
}

// Identifiers configures identifier quoting.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:    quote,
		QuoteEnd: quoteEnd,
		Escape:   escape,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// Ilike enables or disables the ILIKE operator.
func (b *Builder) Ilike(enabled bool) *Builder {
	b.dialect.SupportsIlike = enabled
	return b
}

// MinServerVersion sets the oldest server release the dialect targets.
func (b *Builder) MinServerVersion(v string) *Builder {
	b.dialect.MinServerVersion = v
	return b
}

// Operators registers operator precedences. Later sets override earlier ones.
func (b *Builder) Operators(sets ...[]core.OperatorDef) *Builder {
	for _, set := range sets {
		for _, op := range set {
			b.dialect.precedence[op.Token] = op.Precedence
		}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}

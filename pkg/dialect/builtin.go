package dialect

import "github.com/leapstack-labs/cratesql/pkg/core"

// PostgresConfig is the PostgreSQL dialect configuration. PostgreSQL is the
// default dialect, so its definition lives here and pkg/dialects/postgres
// re-exports it.
var PostgresConfig = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderColon,
	Identifiers: core.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	SupportsIlike:    true,
	MinServerVersion: "8.0.0",
}

var builtinPostgres = New(PostgresConfig).Build()

// Postgres returns the builtin PostgreSQL dialect.
func Postgres() *Dialect {
	return builtinPostgres
}

func init() {
	Register(builtinPostgres)
	SetDefault(builtinPostgres)
}

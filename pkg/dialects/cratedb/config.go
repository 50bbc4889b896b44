// Package cratedb provides the CrateDB SQL dialect definition.
//
// CrateDB speaks the PostgreSQL wire protocol and reports a PostgreSQL
// compatible server version, so it shares the version-gated generation
// rules of the postgres dialect. It differs in its default schema.
package cratedb

import "github.com/leapstack-labs/cratesql/pkg/core"

// Config is the CrateDB dialect configuration. MinServerVersion is on the
// PostgreSQL scale CrateDB reports, not the CrateDB release number.
var Config = &core.DialectConfig{
	Name:          "cratedb",
	DefaultSchema: "doc",
	Placeholder:   core.PlaceholderColon,
	Identifiers: core.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	SupportsIlike:    true,
	MinServerVersion: "8.0.0",
}

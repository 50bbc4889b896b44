package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data, no behavior.
//
// The runtime behavior (quoting, placeholder formatting, version
// thresholds) lives in pkg/dialect.Dialect, which embeds this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "postgres", "cratedb")
	Name string

	// Identifiers defines quoting rules
	Identifiers IdentifierConfig

	// DefaultSchema is the default schema name ("public" for Postgres, "doc" for CrateDB)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// SupportsIlike reports whether ILIKE is available; without it
	// case-insensitive LIKE is rendered with lower() on both sides.
	SupportsIlike bool

	// MinServerVersion is the oldest server release the dialect targets.
	// Generation fails for older servers.
	MinServerVersion string
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderColon uses :name for parameters.
	PlaceholderColon PlaceholderStyle = iota
	// PlaceholderAt uses @name for parameters (pgx named arguments).
	PlaceholderAt
	// PlaceholderDollar uses $1, $2, etc. for parameters, numbered by position.
	PlaceholderDollar
)

// String returns the style name.
func (s PlaceholderStyle) String() string {
	switch s {
	case PlaceholderColon:
		return "colon"
	case PlaceholderAt:
		return "at"
	case PlaceholderDollar:
		return "dollar"
	default:
		return "unknown"
	}
}

// ParsePlaceholderStyle parses "colon", "at" or "dollar".
func ParsePlaceholderStyle(s string) (PlaceholderStyle, bool) {
	switch s {
	case "colon", ":":
		return PlaceholderColon, true
	case "at", "@":
		return PlaceholderAt, true
	case "dollar", "$":
		return PlaceholderDollar, true
	default:
		return PlaceholderColon, false
	}
}

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Quote character: ", `, [
	QuoteEnd string // End quote character (usually same as Quote, ] for [)
	Escape   string // Escape sequence: "", ``, ]]
}

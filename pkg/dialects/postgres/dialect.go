package postgres

import (
	"github.com/leapstack-labs/cratesql/pkg/dialect"
)

// Postgres is the PostgreSQL dialect. It is registered and set as the
// default by the dialect package itself.
var Postgres = dialect.Postgres()

package cratedb

import (
	"github.com/leapstack-labs/cratesql/pkg/dialect"
)

func init() {
	dialect.Register(CrateDB)
}

// CrateDB is the CrateDB dialect.
var CrateDB = dialect.New(Config).Build()

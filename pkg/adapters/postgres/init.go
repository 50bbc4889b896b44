package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/cratesql/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	adapter.Register("cratedb", func(logger *slog.Logger) adapter.Adapter { return NewCrateDB(logger) })
}

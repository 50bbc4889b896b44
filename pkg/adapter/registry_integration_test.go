package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cratesql/pkg/adapter"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/cratesql/pkg/adapters/postgres"
)

func TestListAdapters(t *testing.T) {
	adapters := adapter.ListAdapters()

	assert.Contains(t, adapters, "postgres", "postgres should be in adapter list")
	assert.Contains(t, adapters, "cratedb", "cratedb should be in adapter list")
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"postgres registered", "postgres", true},
		{"cratedb registered", "cratedb", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.IsRegistered(tt.adapterName), "IsRegistered(%q)", tt.adapterName)
		})
	}
}

func TestNewAdapter_Success(t *testing.T) {
	adp, err := adapter.NewAdapter(adapter.Config{Type: "cratedb", Host: "crate.local"}, nil)
	require.NoError(t, err)
	require.NotNil(t, adp)
	assert.Equal(t, "cratedb", adp.Dialect().Name)
	assert.Equal(t, "doc", adp.DialectConfig().DefaultSchema)
}

func TestNewAdapter_UnknownTypeListsAvailable(t *testing.T) {
	_, err := adapter.NewAdapter(adapter.Config{Type: "duckdb"}, nil)

	var unknownErr *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)
	assert.Contains(t, unknownErr.Available, "postgres")
	assert.Contains(t, unknownErr.Available, "cratedb")
}

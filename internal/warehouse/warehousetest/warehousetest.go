// Package warehousetest opens throwaway in-memory warehouses for tests.
package warehousetest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"alcyxob/trainer-ai/internal/config"
	"alcyxob/trainer-ai/internal/warehouse"
)

// Open returns a migrated in-memory DuckDB warehouse closed with the test.
func Open(t *testing.T) *warehouse.DB {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := warehouse.Open(t.Context(), log, config.WarehouseConfig{Driver: config.DriverDuckDB})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	require.NoError(t, db.Migrate(t.Context()))
	return db
}

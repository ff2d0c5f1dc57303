package warehouse_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainer-ai/internal/warehouse"
	"alcyxob/trainer-ai/internal/warehouse/warehousetest"
)

func TestDialect_Rebind(t *testing.T) {
	t.Parallel()

	q := "SELECT * FROM t WHERE a = ? AND b = '?' AND c = ?"
	assert.Equal(t, q, warehouse.Snowflake.Rebind(q))
	assert.Equal(t, q, warehouse.DuckDB.Rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = '?' AND c = $2", warehouse.Postgres.Rebind(q))
}

func TestDialect_InsertSQL(t *testing.T) {
	t.Parallel()

	cols := append(warehouse.Cols("id", "client_id"), warehouse.JSONCol("plan_json"))
	tests := []struct {
		dialect warehouse.Dialect
		want    string
	}{
		{warehouse.Snowflake, "INSERT INTO workout_plans (id, client_id, plan_json) SELECT ?, ?, PARSE_JSON(?)"},
		{warehouse.DuckDB, "INSERT INTO workout_plans (id, client_id, plan_json) VALUES (?, ?, ?)"},
		{warehouse.Postgres, "INSERT INTO workout_plans (id, client_id, plan_json) VALUES (?, ?, CAST(? AS JSONB))"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.InsertSQL("workout_plans", cols))
		})
	}
}

func TestDialect_DDL(t *testing.T) {
	t.Parallel()

	stmts := warehouse.Snowflake.DDL()
	require.Len(t, stmts, 9)
	for _, s := range stmts {
		assert.True(t, strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS "), s)
		assert.NotContains(t, s, "{")
	}
	assert.Contains(t, stmts[1], "plan_json       VARIANT NOT NULL")
	assert.Contains(t, warehouse.Postgres.DDL()[0], "created_at           TIMESTAMPTZ NOT NULL")
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	require.NoError(t, db.Migrate(t.Context()))

	for _, table := range []string{
		warehouse.TableClients, warehouse.TableWorkoutPlans, warehouse.TableGeneratedWorkouts,
		warehouse.TableMealPlans, warehouse.TableWeighIns, warehouse.TableBodyMeasurements,
		warehouse.TableExerciseResults, warehouse.TableRunningSessions, warehouse.TableAppLogs,
	} {
		var n int
		require.NoError(t, db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM "+table).Scan(&n), table)
		assert.Zero(t, n, table)
	}
}

func TestQueryString(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	got, err := db.QueryString(t.Context(), "SELECT ? || ?", "mistral", "-7b")
	require.NoError(t, err)
	assert.Equal(t, "mistral-7b", got)

	got, err = db.QueryString(t.Context(), "SELECT CAST(NULL AS VARCHAR)")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	insert := db.Dialect().InsertSQL(warehouse.TableAppLogs, warehouse.Cols("log_id", "event_type", "severity", "created_at"))
	boom := errors.New("boom")

	err := db.InTx(t.Context(), func(tx *warehouse.Tx) error {
		if _, err := tx.ExecContext(t.Context(), insert, "l1", "client_created", "INFO", "2026-01-05 10:00:00"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM app_logs").Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, db.InTx(context.Background(), func(tx *warehouse.Tx) error {
		_, err := tx.ExecContext(t.Context(), insert, "l2", "client_created", "INFO", "2026-01-05 10:00:00")
		return err
	}))
	require.NoError(t, db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM app_logs").Scan(&n))
	assert.Equal(t, 1, n)
}

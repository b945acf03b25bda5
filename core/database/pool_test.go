package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPool(t *testing.T) *Pool {
	t.Helper()
	pool, err := Open(filepath.Join(t.TempDir(), "test.db"), DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestOpenClose(t *testing.T) {
	pool := openTestPool(t)
	assert.NotNil(t, pool.DB())
	require.NoError(t, pool.Close())
	// Close is idempotent
	require.NoError(t, pool.Close())
}

func TestTransactionRollsBackOnError(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)")
	require.NoError(t, err)

	sentinel := errors.New("abort")
	err = pool.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t (v) VALUES (?)", "x"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "migrate.db")

	pool, err := OpenAndMigrate(ctx, path)
	require.NoError(t, err)
	defer pool.Close()

	version, err := pool.Version()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// A second run applies nothing
	require.NoError(t, NewMigrator(pool, Migrations).Migrate(ctx))

	version, err = pool.Version()
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestMigratedSchemaConstraints(t *testing.T) {
	ctx := context.Background()
	pool, err := OpenAndMigrate(ctx, filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	defer pool.Close()

	res, err := pool.Exec(ctx,
		"INSERT INTO locations (name, latitude, longitude, description) VALUES (?, ?, ?, ?)",
		"Bend, Oregon", 44.05817, -121.31531, "High desert basecamp")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	// Score check constraint
	_, err = pool.Exec(ctx,
		"INSERT INTO activity_scores (location_id, activity_type, score) VALUES (?, ?, ?)",
		id, "hiking", 101)
	assert.Error(t, err)

	// Unique (location, activity)
	_, err = pool.Exec(ctx,
		"INSERT INTO activity_scores (location_id, activity_type, score) VALUES (?, ?, ?)",
		id, "hiking", 90)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		"INSERT INTO activity_scores (location_id, activity_type, score) VALUES (?, ?, ?)",
		id, "hiking", 80)
	assert.Error(t, err)

	// Unique name, case-insensitive
	_, err = pool.Exec(ctx,
		"INSERT INTO locations (name, latitude, longitude, description) VALUES (?, ?, ?, ?)",
		"bend, oregon", 44.0, -121.0, "duplicate")
	assert.Error(t, err)
}

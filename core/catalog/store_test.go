package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/adalundhe/trailhead/core/database"
	"github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	pool, err := database.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return NewStore(pool)
}

func moabRecord() *schema.LocationRecord {
	return &schema.LocationRecord{
		Name:        "Moab, Utah",
		Latitude:    38.57332605,
		Longitude:   -109.54983718,
		Description: "Desert climbing and slickrock biking.",
		Activities:  map[string]int{"hiking": 90, "climbing": 95, "biking": 98},
	}
}

func bendRecord() *schema.LocationRecord {
	return &schema.LocationRecord{
		Name:        "Bend, Oregon",
		Latitude:    44.05817,
		Longitude:   -121.31531,
		Description: "High desert basecamp with year-round trails.",
		Activities:  map[string]int{"hiking": 92, "skiing": 88},
	}
}

func TestInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, moabRecord())
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	record, err := store.GetByName(ctx, "Moab, Utah")
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, "Moab, Utah", record.Name)
	assert.Equal(t, 98, record.Activities["biking"])

	byID, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, record.Name, byID.Name)
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, moabRecord())
	require.NoError(t, err)

	record, err := store.GetByName(ctx, "  moab, utah ")
	require.NoError(t, err)
	assert.Equal(t, "Moab, Utah", record.Name)
}

func TestGetByNameNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByName(context.Background(), "Nowhere, Kansas")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestListNamesSorted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, moabRecord())
	require.NoError(t, err)
	_, err = store.Insert(ctx, bendRecord())
	require.NoError(t, err)

	names, err := store.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bend, Oregon", "Moab, Utah"}, names)
}

func TestListAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, moabRecord())
	require.NoError(t, err)
	_, err = store.Insert(ctx, bendRecord())
	require.NoError(t, err)

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Bend, Oregon", records[0].Name)
	assert.Equal(t, "Moab, Utah", records[1].Name)
	assert.Equal(t, 88, records[0].Activities["skiing"])
}

func TestInsertAtomicOnScoreFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Score 101 violates the activity_scores CHECK constraint; the base row
	// must not survive the failed transaction.
	record := moabRecord()
	record.Activities["skiing"] = 101

	_, err := store.Insert(ctx, record)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindStore))

	_, err = store.GetByName(ctx, "Moab, Utah")
	assert.True(t, errors.IsNotFound(err))

	names, err := store.ListNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestInsertDuplicateNameRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, moabRecord())
	require.NoError(t, err)

	dup := moabRecord()
	dup.Name = "MOAB, UTAH"
	_, err = store.Insert(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindStore))
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, moabRecord())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "moab, UTAH"))

	_, err = store.GetByName(ctx, "Moab, Utah")
	assert.True(t, errors.IsNotFound(err))

	// Score rows cascade
	pool := store.pool
	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM activity_scores WHERE location_id = ?", id).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestDeleteAbsentIsNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), "Nowhere, Kansas")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

package reconciliation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
)

func newStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reconciliation_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// sqlite cannot evaluate the postgres uuid defaults in the model tags,
	// so the schema is written out by hand here.
	ddl := `
CREATE TABLE IF NOT EXISTS reconciliation_tasks (
  id TEXT PRIMARY KEY,
  trip_id TEXT NOT NULL,
  allocation_id TEXT NOT NULL UNIQUE,
  reservation_id TEXT,
  seats INTEGER NOT NULL,
  reason TEXT NOT NULL,
  attempts INTEGER NOT NULL,
  resolved_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func TestFlagIsIdempotentPerAllocation(t *testing.T) {
	conn := newStoreTestDB(t)
	store, err := NewStore(conn)
	require.NoError(t, err)
	ctx := context.Background()

	task := Task{
		TripID:       uuid.New(),
		AllocationID: uuid.New(),
		Seats:        2,
		Reason:       "release retries exhausted",
		Attempts:     5,
	}

	first, err := store.Flag(ctx, task)
	require.NoError(t, err)

	second, err := store.Flag(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestResolveClosesTask(t *testing.T) {
	conn := newStoreTestDB(t)
	store, err := NewStore(conn)
	require.NoError(t, err)
	ctx := context.Background()

	flagged, err := store.Flag(ctx, Task{
		TripID:       uuid.New(),
		AllocationID: uuid.New(),
		Seats:        1,
		Reason:       "release retries exhausted",
		Attempts:     3,
	})
	require.NoError(t, err)

	require.NoError(t, store.Resolve(ctx, flagged.ID))

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	err = store.Resolve(ctx, flagged.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestFlagValidation(t *testing.T) {
	conn := newStoreTestDB(t)
	store, err := NewStore(conn)
	require.NoError(t, err)

	_, err = store.Flag(context.Background(), Task{Reason: "x"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = store.Flag(context.Background(), Task{AllocationID: uuid.New()})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

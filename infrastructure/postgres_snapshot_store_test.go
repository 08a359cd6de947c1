package infrastructure

import (
	"context"
	"fmt"
	"testing"

	"wagerbot/database/testutil"
	"wagerbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSnapshotStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	t.Run("missing document", func(t *testing.T) {
		store := NewPostgresSnapshotStore(testDB.DB, "missing", DefaultSnapshotHistory)
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, entities.ErrSnapshotNotFound)
	})

	t.Run("save replaces document", func(t *testing.T) {
		store := NewPostgresSnapshotStore(testDB.DB, "primary", DefaultSnapshotHistory)

		require.NoError(t, store.Save(ctx, []byte(`{"version":1,"lottery_pot":15000}`)))
		require.NoError(t, store.Save(ctx, []byte(`{"version":1,"lottery_pot":15030}`)))

		data, err := store.Load(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"version":1,"lottery_pot":15030}`, string(data))
	})

	t.Run("history is bounded", func(t *testing.T) {
		store := NewPostgresSnapshotStore(testDB.DB, "bounded", 3)

		for i := 0; i < 5; i++ {
			require.NoError(t, store.Save(ctx, []byte(fmt.Sprintf(`{"seq":%d}`, i))))
		}

		count, err := store.HistoryCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("documents are isolated by name", func(t *testing.T) {
		a := NewPostgresSnapshotStore(testDB.DB, "guild-a", 0)
		b := NewPostgresSnapshotStore(testDB.DB, "guild-b", 0)

		require.NoError(t, a.Save(ctx, []byte(`{"owner":"a"}`)))
		require.NoError(t, b.Save(ctx, []byte(`{"owner":"b"}`)))

		data, err := a.Load(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"owner":"a"}`, string(data))

		count, err := a.HistoryCount(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

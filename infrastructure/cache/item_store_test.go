package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
)

func TestEncodeDecodeItems(t *testing.T) {
	saved := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	raw, err := encodeItems([]*model.Item{{ID: "a", Title: "A"}}, saved)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tags":[]`)

	env, err := decodeItems(raw)
	require.NoError(t, err)
	assert.True(t, saved.Equal(env.SavedAt))
	require.Len(t, env.Items, 1)
	assert.Equal(t, "A", env.Items[0].Title)

	_, err = decodeItems([]byte("{"))
	assert.ErrorContains(t, err, "corrupt item cache")
}

// TestItemStore_Redis runs against a live server when YTBULK_TEST_REDIS_ADDR is set.
func TestItemStore_Redis(t *testing.T) {
	addr := os.Getenv("YTBULK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("YTBULK_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := NewCache(ctx, addr, "", "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	prefix := "ytbulkedit-test-" + uuid.NewString()
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	store := NewItemStore(rdb, prefix, func() time.Time { return now })
	t.Cleanup(func() { _ = store.Invalidate(ctx) })

	_, _, err = store.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, store.Save(ctx, []*model.Item{{ID: "a"}}, time.Time{}))
	items, savedAt, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, now.Equal(savedAt))

	listed := now.Add(-3 * time.Hour)
	require.NoError(t, store.Save(ctx, []*model.Item{{ID: "a", Title: "Edited"}}, listed))
	_, savedAt, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, listed.Equal(savedAt))

	ids := NewPlaylistIDStore(rdb, prefix)
	t.Cleanup(func() { _ = rdb.Del(ctx, ids.key()).Err() })
	_, err = ids.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
	require.NoError(t, ids.Put(ctx, "UU1"))
	id, err := ids.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UU1", id)
}

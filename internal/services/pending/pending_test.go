package pending

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	db := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = db.Close() })
	return New(db, time.Hour), mr
}

func TestStore_SetGetTake(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	token := models.PendingUnlock{
		ContentType: models.ContentTip,
		ContentID:   "m123",
		RequestedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Set(ctx, "u1", token))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, token, *got)

	taken, err := store.Take(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, taken)
	assert.Equal(t, token, *taken)

	again, err := store.Take(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, again, "второе чтение не должно получить токен")
}

func TestStore_SetOverwritesSingleSlot(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", models.PendingUnlock{ContentType: models.ContentTip, ContentID: "a"}))
	require.NoError(t, store.Set(ctx, "u1", models.PendingUnlock{ContentType: models.ContentTicket, ContentID: "b"}))

	got, err := store.Take(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ContentTicket, got.ContentType)
	assert.Equal(t, "b", got.ContentID)
}

func TestStore_Clear(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", models.PendingUnlock{ContentType: models.ContentTip, ContentID: "a"}))
	require.NoError(t, store.Clear(ctx, "u1"))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_TTL(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", models.PendingUnlock{ContentType: models.ContentTip, ContentID: "a"}))
	mr.FastForward(2 * time.Hour)

	got, err := store.Take(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_TakeOnlyOnceUnderConcurrency(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "u1", models.PendingUnlock{ContentType: models.ContentTip, ContentID: "a"}))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Take(ctx, "u1")
			assert.NoError(t, err)
			if got != nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won)
}

func TestStore_CorruptedToken(t *testing.T) {
	store, mr := setupStore(t)
	require.NoError(t, mr.Set(keyPrefix+"u1", "{not json"))

	got, err := store.Take(context.Background(), "u1")
	assert.Error(t, err)
	assert.Nil(t, got)
}

package badger

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/common"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()

	manager, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	return manager
}

func newTestEntry(symbol string, sourceType models.SourceType, ttl time.Duration) *models.CacheEntry {
	now := time.Now()
	return &models.CacheEntry{
		Symbol:     symbol,
		SourceType: sourceType,
		Data:       json.RawMessage(`{"symbol":"` + symbol + `"}`),
		DataDate:   now,
		CachedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
}

func TestCacheStorageRoundTrip(t *testing.T) {
	storage := newTestManager(t).CacheStorage()
	ctx := context.Background()

	entry := newTestEntry("amd", models.SourceEarningsTranscript, models.TTLEarnings)
	require.NoError(t, storage.Upsert(ctx, entry))

	// Symbols are normalized on write; reads are case-insensitive.
	got, err := storage.GetLive(ctx, "AMD", models.SourceEarningsTranscript)
	require.NoError(t, err)
	assert.Equal(t, "AMD", got.Symbol)
	assert.Equal(t, models.SourceEarningsTranscript, got.SourceType)
	assert.JSONEq(t, `{"symbol":"amd"}`, string(got.Data))
}

func TestCacheStorageExpiredEntryIsMiss(t *testing.T) {
	storage := newTestManager(t).CacheStorage()
	ctx := context.Background()

	entry := newTestEntry("AMD", models.SourceMarketNews, models.TTLNews)
	entry.CachedAt = time.Now().Add(-8 * 24 * time.Hour)
	entry.ExpiresAt = time.Now().Add(-24 * time.Hour)
	require.NoError(t, storage.Upsert(ctx, entry))

	// The row still exists; only GetLive filters it.
	_, err := storage.GetLive(ctx, "AMD", models.SourceMarketNews)
	assert.ErrorIs(t, err, interfaces.ErrEntryNotFound)

	total, err := storage.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	expired, err := storage.CountExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
}

func TestCacheStorageMissingEntry(t *testing.T) {
	storage := newTestManager(t).CacheStorage()

	_, err := storage.GetLive(context.Background(), "NOPE", models.SourceMarketNews)
	assert.ErrorIs(t, err, interfaces.ErrEntryNotFound)
}

func TestCacheStorageUpsertReplaces(t *testing.T) {
	storage := newTestManager(t).CacheStorage()
	ctx := context.Background()

	first := newTestEntry("AMD", models.SourceMarketNews, models.TTLNews)
	first.Data = json.RawMessage(`{"version":1}`)
	require.NoError(t, storage.Upsert(ctx, first))

	second := newTestEntry("AMD", models.SourceMarketNews, models.TTLNews)
	second.Data = json.RawMessage(`{"version":2}`)
	require.NoError(t, storage.Upsert(ctx, second))

	got, err := storage.GetLive(ctx, "AMD", models.SourceMarketNews)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(got.Data))

	total, err := storage.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCacheStorageRejectsInvalidWindow(t *testing.T) {
	storage := newTestManager(t).CacheStorage()

	entry := newTestEntry("AMD", models.SourceMarketNews, models.TTLNews)
	entry.ExpiresAt = entry.CachedAt.Add(-time.Hour)
	assert.Error(t, storage.Upsert(context.Background(), entry))
}

func TestCacheStorageTouch(t *testing.T) {
	storage := newTestManager(t).CacheStorage()
	ctx := context.Background()

	entry := newTestEntry("AMD", models.SourceEarningsTranscript, models.TTLEarnings)
	require.NoError(t, storage.Upsert(ctx, entry))

	require.NoError(t, storage.Touch(ctx, "AMD", models.SourceEarningsTranscript))
	require.NoError(t, storage.Touch(ctx, "AMD", models.SourceEarningsTranscript))

	got, err := storage.GetLive(ctx, "AMD", models.SourceEarningsTranscript)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.AccessCount)
	assert.False(t, got.LastAccessedAt.IsZero())
}

func TestCacheStorageDeleteExpired(t *testing.T) {
	storage := newTestManager(t).CacheStorage()
	ctx := context.Background()

	live := newTestEntry("AMD", models.SourceEarningsTranscript, models.TTLEarnings)
	require.NoError(t, storage.Upsert(ctx, live))

	dead := newTestEntry("NVDA", models.SourceMarketNews, models.TTLNews)
	dead.CachedAt = time.Now().Add(-10 * 24 * time.Hour)
	dead.ExpiresAt = time.Now().Add(-3 * 24 * time.Hour)
	require.NoError(t, storage.Upsert(ctx, dead))

	removed, err := storage.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// Idempotent on a clean store.
	removed, err = storage.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = storage.GetLive(ctx, "AMD", models.SourceEarningsTranscript)
	assert.NoError(t, err)
}

func TestCacheStorageDeleteBySymbol(t *testing.T) {
	storage := newTestManager(t).CacheStorage()
	ctx := context.Background()

	require.NoError(t, storage.Upsert(ctx, newTestEntry("AMD", models.SourceEarningsTranscript, models.TTLEarnings)))
	require.NoError(t, storage.Upsert(ctx, newTestEntry("AMD", models.SourceMarketNews, models.TTLNews)))
	require.NoError(t, storage.Upsert(ctx, newTestEntry("NVDA", models.SourceMarketNews, models.TTLNews)))

	removed, err := storage.DeleteBySymbol(ctx, "amd")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	total, err := storage.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

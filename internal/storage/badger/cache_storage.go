package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// CacheStorage implements the CacheStorage interface for Badger
type CacheStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCacheStorage creates a new CacheStorage instance
func NewCacheStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CacheStorage {
	return &CacheStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeSymbol uppercases a ticker symbol for case-insensitive keys
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetLive retrieves the entry for (symbol, sourceType) if its TTL has not passed.
// The TTL is evaluated per-row at read time, not enforced by a sweeper.
func (s *CacheStorage) GetLive(ctx context.Context, symbol string, sourceType models.SourceType) (*models.CacheEntry, error) {
	key := models.CacheEntryID(normalizeSymbol(symbol), sourceType)

	var entry models.CacheEntry
	err := s.db.Store().Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	if !entry.IsLive(time.Now()) {
		return nil, interfaces.ErrEntryNotFound
	}

	return &entry, nil
}

// Upsert writes an entry, replacing any earlier snapshot for the same key.
// Concurrent writers for the same key race to completion; the last writer
// wins, which is acceptable because cache content is a disposable snapshot.
func (s *CacheStorage) Upsert(ctx context.Context, entry *models.CacheEntry) error {
	entry.Symbol = normalizeSymbol(entry.Symbol)
	entry.ID = models.CacheEntryID(entry.Symbol, entry.SourceType)

	if !entry.ExpiresAt.After(entry.CachedAt) {
		return fmt.Errorf("invalid cache entry for %s: expires_at must be after cached_at", entry.ID)
	}

	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}

// Touch increments the access counter and refreshes the last-accessed
// timestamp without changing content.
func (s *CacheStorage) Touch(ctx context.Context, symbol string, sourceType models.SourceType) error {
	key := models.CacheEntryID(normalizeSymbol(symbol), sourceType)

	var entry models.CacheEntry
	err := s.db.Store().Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get cache entry for access tracking: %w", err)
	}

	entry.AccessCount++
	entry.LastAccessedAt = time.Now()

	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to update access tracking: %w", err)
	}

	return nil
}

// DeleteExpired removes all rows whose TTL has passed and returns the count.
// The expiry predicate is evaluated per-row inside the delete, so the sweep
// is safe to run concurrently with live traffic.
func (s *CacheStorage) DeleteExpired(ctx context.Context) (int, error) {
	now := time.Now()
	query := badgerhold.Where("ExpiresAt").Le(now)

	count, err := s.db.Store().Count(&models.CacheEntry{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count expired entries: %w", err)
	}

	if err := s.db.Store().DeleteMatching(&models.CacheEntry{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete expired entries: %w", err)
	}

	return int(count), nil
}

// DeleteBySymbol removes all rows for a symbol regardless of TTL.
func (s *CacheStorage) DeleteBySymbol(ctx context.Context, symbol string) (int, error) {
	query := badgerhold.Where("Symbol").Eq(normalizeSymbol(symbol))

	count, err := s.db.Store().Count(&models.CacheEntry{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries for symbol: %w", err)
	}

	if err := s.db.Store().DeleteMatching(&models.CacheEntry{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete entries for symbol: %w", err)
	}

	return int(count), nil
}

// CountAll returns the total number of cache rows.
func (s *CacheStorage) CountAll(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.CacheEntry{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return int(count), nil
}

// CountExpired returns the number of rows whose TTL has passed.
func (s *CacheStorage) CountExpired(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.CacheEntry{}, badgerhold.Where("ExpiresAt").Le(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("failed to count expired entries: %w", err)
	}
	return int(count), nil
}

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SourceType identifies the kind of payload a cache row holds.
type SourceType string

const (
	SourceEarningsTranscript SourceType = "earnings_transcript"
	SourceMarketNews         SourceType = "market_news"
	SourceNews               SourceType = "news"
	SourceSentiment          SourceType = "sentiment"
)

// TTL constants per source type. These are added to the write time to
// calculate ExpiresAt. Earnings transcripts change quarterly; news goes
// stale within days.
const (
	TTLEarnings = 90 * 24 * time.Hour
	TTLNews     = 7 * 24 * time.Hour
)

// TTLForSource returns the cache TTL for a source type.
func TTLForSource(sourceType SourceType) time.Duration {
	if sourceType == SourceEarningsTranscript {
		return TTLEarnings
	}
	return TTLNews
}

// CacheEntry is one cached intelligence snapshot, keyed by
// (symbol, source_type). A later write for the same key replaces the
// earlier snapshot rather than accumulating history. The row is live
// only while now < ExpiresAt.
type CacheEntry struct {
	ID             string          `badgerhold:"key" json:"id"`
	Symbol         string          `badgerholdIndex:"Symbol" json:"symbol"`
	SourceType     SourceType      `json:"source_type"`
	Data           json.RawMessage `json:"data"`
	DataDate       time.Time       `json:"data_date"`
	CachedAt       time.Time       `json:"cached_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	AccessCount    int64           `json:"access_count"`
}

// CacheEntryID builds the storage key for a (symbol, source_type) pair.
func CacheEntryID(symbol string, sourceType SourceType) string {
	return fmt.Sprintf("%s|%s", symbol, sourceType)
}

// IsLive reports whether the entry is still within its TTL at the given time.
func (e *CacheEntry) IsLive(now time.Time) bool {
	return e != nil && e.ExpiresAt.After(now)
}

// CacheStats is an immutable snapshot of the cache service counters.
// Hit rate and average fetch time are running aggregates maintained after
// every call, not recomputed from a log.
type CacheStats struct {
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	HitRate        float64 `json:"hit_rate"`
	AvgFetchTimeMs float64 `json:"avg_fetch_time_ms"`
	TotalEntries   int     `json:"total_entries"`
	ExpiredEntries int     `json:"expired_entries"`
}

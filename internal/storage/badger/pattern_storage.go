package badger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// Similarity windows for matching historical trades to a prospective one.
const (
	dteMatchWindow   = 7
	deltaMatchWindow = 0.1
)

// PatternStorage implements the PatternStorage interface for Badger
type PatternStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPatternStorage creates a new PatternStorage instance
func NewPatternStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PatternStorage {
	return &PatternStorage{
		db:     db,
		logger: logger,
	}
}

// QueryTrades returns trades matching the criteria: same symbol, same
// strategy type when given, DTE within +-7 and delta within +-0.1 when given.
func (s *PatternStorage) QueryTrades(ctx context.Context, criteria models.PatternCriteria) ([]models.TradeOutcome, error) {
	query := badgerhold.Where("Symbol").Eq(normalizeSymbol(criteria.Symbol))
	if criteria.StrategyType != "" {
		query = query.And("StrategyType").Eq(criteria.StrategyType)
	}

	var trades []models.TradeOutcome
	if err := s.db.Store().Find(&trades, query); err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}

	// DTE and delta windows are range filters, applied in memory
	matched := trades[:0]
	for _, trade := range trades {
		if criteria.DTE != 0 && abs(trade.DTE-criteria.DTE) > dteMatchWindow {
			continue
		}
		if criteria.Delta != 0 && math.Abs(trade.Delta-criteria.Delta) > deltaMatchWindow {
			continue
		}
		matched = append(matched, trade)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ExitDate.After(matched[j].ExitDate)
	})

	return matched, nil
}

// RecentDocuments returns research documents for a symbol created within
// maxAgeDays, newest first.
func (s *PatternStorage) RecentDocuments(ctx context.Context, symbol string, maxAgeDays int) ([]models.ResearchDocument, error) {
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	var docs []models.ResearchDocument
	err := s.db.Store().Find(&docs,
		badgerhold.Where("Symbol").Eq(normalizeSymbol(symbol)).And("CreatedAt").Ge(cutoff).SortBy("CreatedAt").Reverse())
	if err != nil {
		return nil, fmt.Errorf("failed to query research documents: %w", err)
	}

	return docs, nil
}

// SaveTrade upserts a trade outcome row.
func (s *PatternStorage) SaveTrade(ctx context.Context, trade *models.TradeOutcome) error {
	if trade.ID == "" {
		trade.ID = uuid.New().String()
	}
	trade.Symbol = normalizeSymbol(trade.Symbol)

	if err := s.db.Store().Upsert(trade.ID, trade); err != nil {
		return fmt.Errorf("failed to upsert trade: %w", err)
	}
	return nil
}

// SaveDocument upserts a research document.
func (s *PatternStorage) SaveDocument(ctx context.Context, doc *models.ResearchDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.Symbol = normalizeSymbol(doc.Symbol)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to upsert research document: %w", err)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

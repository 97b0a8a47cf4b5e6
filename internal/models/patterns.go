package models

import "time"

// TradeOutcome is one historical options trade stored in the pattern store.
type TradeOutcome struct {
	ID           string    `badgerhold:"key" json:"id"`
	Symbol       string    `badgerholdIndex:"Symbol" json:"symbol"`
	StrategyType string    `json:"strategy_type"`
	DTE          int       `json:"dte"`
	Delta        float64   `json:"delta"`
	EntryDate    time.Time `json:"entry_date"`
	ExitDate     time.Time `json:"exit_date"`
	ROI          float64   `json:"roi"`
	Win          bool      `json:"win"`
	Notes        string    `json:"notes,omitempty"`
}

// PatternCriteria selects historical trades comparable to a prospective
// trade. Zero values mean "don't filter on this dimension".
type PatternCriteria struct {
	Symbol       string  `json:"symbol"`
	StrategyType string  `json:"strategy_type,omitempty"`
	DTE          int     `json:"dte,omitempty"`
	Delta        float64 `json:"delta,omitempty"`
}

// SimilarTrade is a compact view of a matched historical trade.
type SimilarTrade struct {
	Symbol       string    `json:"symbol"`
	StrategyType string    `json:"strategy_type"`
	DTE          int       `json:"dte"`
	Delta        float64   `json:"delta"`
	ROI          float64   `json:"roi"`
	Win          bool      `json:"win"`
	ExitDate     time.Time `json:"exit_date"`
}

// PatternAnalysis summarizes historical performance for matched trades.
// HasData=false means the zero value of every other field; consumers
// proceed with an empty block rather than failing.
type PatternAnalysis struct {
	HasData       bool           `json:"has_data"`
	TradeCount    int            `json:"trade_count"`
	WinRate       float64        `json:"win_rate"`
	AvgROI        float64        `json:"avg_roi"`
	SimilarTrades []SimilarTrade `json:"similar_trades,omitempty"`
}

// ResearchDocument is a retrievable record in the pattern store: either an
// embedded trade note or a persisted web-research result written back by
// the router for future hits.
type ResearchDocument struct {
	ID        string    `badgerhold:"key" json:"id"`
	Symbol    string    `badgerholdIndex:"Symbol" json:"symbol"`
	Context   string    `json:"context"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	URL       string    `json:"url,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// PatternActivity is a time-windowed view of pattern-store records for a
// symbol, used by the router's relevance scoring.
type PatternActivity struct {
	Count      int                `json:"count"`
	AvgAgeDays float64            `json:"avg_age_days"`
	Documents  []ResearchDocument `json:"documents,omitempty"`
}

package models

import "time"

// EarningsTranscript is a stored earnings call transcript row in the
// market-intelligence store.
type EarningsTranscript struct {
	ID               string    `badgerhold:"key" json:"id"`
	Symbol           string    `badgerholdIndex:"Symbol" json:"symbol"`
	Quarter          int       `json:"quarter"`
	FiscalYear       int       `json:"fiscal_year"`
	FiscalDateEnding time.Time `json:"fiscal_date_ending"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewsArticleRow is a stored full news article in the market-intelligence
// store. Per-ticker sentiment lives in TickerSentiment rows joined by
// ArticleID.
type NewsArticleRow struct {
	ID             string         `badgerhold:"key" json:"id"`
	Title          string         `json:"title"`
	Summary        string         `json:"summary"`
	URL            string         `json:"url"`
	TimePublished  time.Time      `json:"time_published"`
	Source         string         `json:"source"`
	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	Topics         []string       `json:"topics,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// TickerSentiment relates an article to a ticker with per-ticker relevance
// and sentiment. An article mentions several tickers; each gets its own row.
type TickerSentiment struct {
	ID             string         `badgerhold:"key" json:"id"`
	ArticleID      string         `json:"article_id"`
	Symbol         string         `badgerholdIndex:"Symbol" json:"symbol"`
	RelevanceScore float64        `json:"relevance_score"`
	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	CreatedAt      time.Time      `json:"created_at"`
}

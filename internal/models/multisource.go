package models

// OverallSentiment labels the aggregate across all sources.
type OverallSentiment string

const (
	SentimentOverallBullish OverallSentiment = "bullish"
	SentimentOverallNeutral OverallSentiment = "neutral"
	SentimentOverallBearish OverallSentiment = "bearish"
	SentimentOverallUnknown OverallSentiment = "unknown"
)

// RecommendationStrength gates how actionable the aggregate is.
type RecommendationStrength string

const (
	StrengthStrong   RecommendationStrength = "strong"
	StrengthModerate RecommendationStrength = "moderate"
	StrengthWeak     RecommendationStrength = "weak"
)

// Source identifiers reported in MultiSourceResult.DataSourcesUsed,
// always in this order.
const (
	DataSourceInternalRAG = "internal_rag"
	DataSourceExternal    = "external_intelligence"
	DataSourceTavily      = "tavily"
)

// MultiSourceQuery selects which sources to consult for a symbol.
type MultiSourceQuery struct {
	Symbol              string  `json:"symbol"`
	Context             string  `json:"context,omitempty"`
	IncludeInternalRAG  bool    `json:"include_internal_rag"`
	IncludeExternal     bool    `json:"include_external_intelligence"`
	IncludeTavily       bool    `json:"include_tavily"`
	ForceRefresh        bool    `json:"force_refresh,omitempty"`
	MaxNewsArticles     int     `json:"max_news_articles,omitempty"`
	MaxEarningsQuarters int     `json:"max_earnings_quarters,omitempty"`
	NewsMaxAgeDays      int     `json:"news_max_age_days,omitempty"`
	StrategyType        string  `json:"strategy_type,omitempty"`
	DTE                 int     `json:"dte,omitempty"`
	Delta               float64 `json:"delta,omitempty"`
}

// ExternalIntelBlock wraps the external intelligence branch of a
// multi-source result.
type ExternalIntelBlock struct {
	Report      *IntelligenceReport `json:"report,omitempty"`
	FetchTimeMs int64               `json:"fetch_time_ms"`
}

// TavilyBlock wraps the web-research branch of a multi-source result.
type TavilyBlock struct {
	HasData        bool             `json:"has_data"`
	Source         RouteSource      `json:"source,omitempty"`
	Answer         string           `json:"answer,omitempty"`
	Results        []ResearchResult `json:"results,omitempty"`
	ResultCount    int              `json:"result_count"`
	CreditsUsed    int              `json:"credits_used"`
	FreshnessScore float64          `json:"freshness_score"`
}

// AggregateAnalysis combines all branches into one sentiment/quality view.
// DataQualityScore sums independent presence contributions (30/40/30); it
// is a soft indicator, not a strict percentage.
type AggregateAnalysis struct {
	OverallSentiment       OverallSentiment       `json:"overall_sentiment"`
	SentimentScore         float64                `json:"sentiment_score"`
	DataQualityScore       int                    `json:"data_quality_score"`
	RecommendationStrength RecommendationStrength `json:"recommendation_strength"`
}

// MultiSourceResult is the orchestrator's unified report. Disabled or
// failed branches carry zero-valued blocks so consumers never need to
// special-case absence. Constructed fresh per call, never mutated after
// return.
type MultiSourceResult struct {
	Symbol               string             `json:"symbol"`
	Confidence           Confidence         `json:"confidence"`
	DataSourcesUsed      []string           `json:"data_sources_used"`
	TotalFetchTimeMs     int64              `json:"total_fetch_time_ms"`
	CreditsUsed          int                `json:"credits_used"`
	InternalRAG          PatternAnalysis    `json:"internal_rag"`
	ExternalIntelligence ExternalIntelBlock `json:"external_intelligence"`
	Tavily               TavilyBlock        `json:"tavily"`
	Aggregate            AggregateAnalysis  `json:"aggregate"`
}

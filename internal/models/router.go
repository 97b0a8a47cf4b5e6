package models

// RouteSource identifies which path served a routed research query.
type RouteSource string

const (
	RouteRAG    RouteSource = "rag"
	RouteTavily RouteSource = "tavily"
	RouteHybrid RouteSource = "hybrid"
)

// RouterOptions tunes a single routed research query. Zero values fall
// back to the router's configured defaults.
type RouterOptions struct {
	MaxRAGAgeDays         int     `json:"max_rag_age_days,omitempty"`
	RAGRelevanceThreshold float64 `json:"rag_relevance_threshold,omitempty"`
	ForceRefresh          bool    `json:"force_refresh,omitempty"`
	EnableHybrid          bool    `json:"enable_hybrid,omitempty"`
}

// RoutedResearch is the router's answer: which source served the query,
// how fresh and relevant the underlying data was, and what it cost.
type RoutedResearch struct {
	Source            RouteSource        `json:"source"`
	Cached            bool               `json:"cached"`
	FreshnessScore    float64            `json:"freshness_score"`
	RelevanceScore    float64            `json:"relevance_score"`
	Documents         []ResearchDocument `json:"documents,omitempty"`
	Answer            string             `json:"answer,omitempty"`
	Results           []ResearchResult   `json:"results,omitempty"`
	CreditsUsed       int                `json:"credits_used"`
	RAGResultCount    int                `json:"rag_results_count"`
	TavilyResultCount int                `json:"tavily_results_count"`
	ResponseTimeMs    int64              `json:"response_time_ms"`
}

// HasData reports whether either path returned anything.
func (r *RoutedResearch) HasData() bool {
	return r != nil && (r.RAGResultCount > 0 || r.TavilyResultCount > 0)
}

// RouterStatsSnapshot is an immutable view of the router's process-wide
// counters. CacheHitRate and AvgCreditsPerQuery are derived ratios.
type RouterStatsSnapshot struct {
	TotalQueries       int64   `json:"total_queries"`
	RAGHits            int64   `json:"rag_hits"`
	TavilyFetches      int64   `json:"tavily_fetches"`
	HybridQueries      int64   `json:"hybrid_queries"`
	TotalCreditsUsed   int64   `json:"total_credits_used"`
	CacheHitRate       float64 `json:"cache_hit_rate"`
	AvgCreditsPerQuery float64 `json:"avg_credits_per_query"`
}

package models

// ResearchResult is one result returned by the web-research provider.
type ResearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// ResearchResponse is the outcome of one paid web-research call.
// CreditsUsed is the metered cost the provider charged for the call.
type ResearchResponse struct {
	Query          string           `json:"query"`
	Answer         string           `json:"answer,omitempty"`
	Results        []ResearchResult `json:"results"`
	CreditsUsed    int              `json:"credits_used"`
	ResponseTimeMs int64            `json:"response_time_ms"`
}

package entities

// SearchResult is the outcome of a free-text search over the events.
type SearchResult struct {
	Events     []*Event `json:"data"`
	AIInsights string   `json:"aiInsights"`
}

// Analytics summarises the full event set.
type Analytics struct {
	TotalEvents       int             `json:"totalEvents"`
	ThemeAnalysis     *FrequencyTable `json:"themeAnalysis"`
	TypeAnalysis      *FrequencyTable `json:"typeAnalysis"`
	AIAnalysis        string          `json:"aiAnalysis"`
	AIRecommendations string          `json:"aiRecommendations"`
}

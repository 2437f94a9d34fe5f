package models

type TrendingResult struct {
	TotalArticles int       `json:"total_articles"`
	Sources       []string  `json:"sources"`
	Articles      []Article `json:"articles"`
}

type CategoryResult struct {
	Category            string     `json:"category"`
	TotalArticles       int        `json:"total_articles"`
	AvailableCategories []Category `json:"available_categories"`
	Articles            []Article  `json:"articles"`
}

type SearchResult struct {
	Query        string    `json:"query"`
	TotalResults int       `json:"total_results"`
	Articles     []Article `json:"articles"`
}

type StatsResult struct {
	TotalArticles         int            `json:"total_articles"`
	CategoryDistribution  map[string]int `json:"category_distribution"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	SourceDistribution    map[string]int `json:"source_distribution"`
	TrendingKeywords      []KeywordCount `json:"trending_keywords"`
	Timestamp             string         `json:"timestamp"`
}

type AnalyticsResult struct {
	Timestamp   string            `json:"timestamp"`
	Overview    AnalyticsOverview `json:"overview"`
	TopArticles []Article         `json:"top_articles"`
	Trends      AnalyticsTrends   `json:"trends"`
}

type AnalyticsOverview struct {
	TotalArticles int            `json:"total_articles"`
	Categories    map[string]int `json:"categories"`
	Sources       map[string]int `json:"sources"`
}

type AnalyticsTrends struct {
	MostPopularCategory string         `json:"most_popular_category"`
	SentimentRatio      SentimentRatio `json:"sentiment_ratio"`
}

// SentimentRatio holds percentages rounded to one decimal place.
type SentimentRatio struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

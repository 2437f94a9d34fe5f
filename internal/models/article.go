package models

// SourceTag identifies which provider a raw record came from.
type SourceTag string

const (
	SourceNewsAPI    SourceTag = "NewsAPI"
	SourceHackerNews SourceTag = "HackerNews"
	SourceReddit     SourceTag = "Reddit"
)

// AllSourceTags returns the providers in fetch and interleave order.
func AllSourceTags() []SourceTag {
	return []SourceTag{SourceNewsAPI, SourceHackerNews, SourceReddit}
}

// Category is the coarse topic label assigned by keyword matching.
type Category string

const (
	CategoryTechnology    Category = "technology"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryBusiness      Category = "business"
	CategoryGeneral       Category = "general"
)

// CategoryAll is the filter value that disables category filtering.
const CategoryAll = "all"

// AllCategories returns every label in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryTechnology,
		CategorySports,
		CategoryEntertainment,
		CategoryBusiness,
		CategoryGeneral,
	}
}

// SentimentNeutral is the only sentiment any article ever carries.
const SentimentNeutral = "neutral"

// Article is the provider-independent shape every record is normalized into.
type Article struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Source        string   `json:"source"`
	PublishedDate string   `json:"published_date"`
	Score         int      `json:"score"`
	Description   string   `json:"description"`
	Category      Category `json:"category,omitempty"`
}

// RawRecord is the union of item fields across providers. Pointers distinguish a
// missing or null key from a zero value.
type RawRecord struct {
	// Shared
	Title *string `json:"title,omitempty"`
	URL   *string `json:"url,omitempty"`
	Score *int    `json:"score,omitempty"`

	// NewsAPI
	Source      *RawSource `json:"source,omitempty"`
	PublishedAt *string    `json:"publishedAt,omitempty"`
	Description *string    `json:"description,omitempty"`

	// Hacker News
	ID          *int64  `json:"id,omitempty"`
	Type        *string `json:"type,omitempty"`
	Time        *int64  `json:"time,omitempty"`
	By          *string `json:"by,omitempty"`
	Descendants *int    `json:"descendants,omitempty"`

	// Reddit
	Subreddit   *string  `json:"subreddit,omitempty"`
	CreatedUTC  *float64 `json:"created_utc,omitempty"`
	NumComments *int     `json:"num_comments,omitempty"`
	IsSelf      *bool    `json:"is_self,omitempty"`
}

type RawSource struct {
	ID   *string `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type SourceInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tag         SourceTag `json:"tag"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
}

// StringPtr and friends make building raw records in fixtures less noisy.
func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func Int64Ptr(i int64) *int64 { return &i }

func Float64Ptr(f float64) *float64 { return &f }

func BoolPtr(b bool) *bool { return &b }

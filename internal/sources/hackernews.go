package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/ratelimit"
)

const (
	DefaultHackerNewsBaseURL = "https://hacker-news.firebaseio.com"
	DefaultStoryCount        = 10
)

// HackerNewsFetcher reads the head of the top-stories index and then each item.
type HackerNewsFetcher struct {
	storyCount int
	client     client
}

func NewHackerNewsFetcher(storyCount int, limiter ratelimit.RateLimiter, config FetcherConfig) *HackerNewsFetcher {
	if storyCount <= 0 {
		storyCount = DefaultStoryCount
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultHackerNewsBaseURL
	}
	return &HackerNewsFetcher{
		storyCount: storyCount,
		client:     newClient("hackernews", limiter, config),
	}
}

func (f *HackerNewsFetcher) Name() string {
	return "Hacker News"
}

func (f *HackerNewsFetcher) Tag() models.SourceTag {
	return models.SourceHackerNews
}

func (f *HackerNewsFetcher) SourceInfo() models.SourceInfo {
	return models.SourceInfo{
		ID:          "hackernews",
		Name:        "Hacker News",
		Tag:         models.SourceHackerNews,
		URL:         "https://news.ycombinator.com",
		Description: fmt.Sprintf("Top %d stories", f.storyCount),
	}
}

func (f *HackerNewsFetcher) base() string {
	return strings.TrimRight(f.client.config.BaseURL, "/")
}

// Fetch keeps only items of type "story". A null item is skipped; any failed
// request fails the whole fetch.
func (f *HackerNewsFetcher) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	var ids []int64
	if err := f.client.getJSON(ctx, f.base()+"/v0/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("failed to fetch top stories: %w", err)
	}

	if len(ids) > f.storyCount {
		ids = ids[:f.storyCount]
	}

	records := make([]models.RawRecord, 0, len(ids))
	for _, id := range ids {
		var item *models.RawRecord
		url := fmt.Sprintf("%s/v0/item/%d.json", f.base(), id)
		if err := f.client.getJSON(ctx, url, &item); err != nil {
			return nil, fmt.Errorf("failed to fetch item %d: %w", id, err)
		}

		if item == nil || item.Type == nil || *item.Type != "story" {
			continue
		}
		records = append(records, *item)
	}

	return records, nil
}

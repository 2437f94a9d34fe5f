package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/ratelimit"
)

const (
	DefaultRedditBaseURL = "https://www.reddit.com"
	DefaultRedditLimit   = 5
)

// DefaultSubreddits are read in this order.
var DefaultSubreddits = []string{"news", "worldnews", "technology", "indianews"}

// RedditFetcher reads the hot listing of several subreddits and keeps link posts.
type RedditFetcher struct {
	subreddits []string
	limit      int
	client     client
}

type redditResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       *string  `json:"title"`
	URL         *string  `json:"url"`
	Score       *int     `json:"score"`
	Subreddit   *string  `json:"subreddit"`
	CreatedUTC  *float64 `json:"created_utc"`
	NumComments *int     `json:"num_comments"`
	IsSelf      *bool    `json:"is_self"`
}

func NewRedditFetcher(subreddits []string, limit int, limiter ratelimit.RateLimiter, config FetcherConfig) *RedditFetcher {
	if len(subreddits) == 0 {
		subreddits = DefaultSubreddits
	}
	if limit <= 0 {
		limit = DefaultRedditLimit
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultRedditBaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}
	return &RedditFetcher{
		subreddits: append([]string(nil), subreddits...),
		limit:      limit,
		client:     newClient("reddit", limiter, config),
	}
}

func (f *RedditFetcher) Name() string {
	return "Reddit"
}

func (f *RedditFetcher) Tag() models.SourceTag {
	return models.SourceReddit
}

func (f *RedditFetcher) SourceInfo() models.SourceInfo {
	subs := f.Subreddits()
	names := make([]string, len(subs))
	for i, sub := range subs {
		names[i] = "r/" + sub
	}
	return models.SourceInfo{
		ID:          "reddit",
		Name:        "Reddit",
		Tag:         models.SourceReddit,
		URL:         "https://www.reddit.com",
		Description: "Hot link posts from " + strings.Join(names, ", "),
	}
}

// Subreddits returns the channels in fetch order.
func (f *RedditFetcher) Subreddits() []string {
	return append([]string(nil), f.subreddits...)
}

func (f *RedditFetcher) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	records := make([]models.RawRecord, 0, len(f.subreddits)*f.limit)
	for _, sub := range f.subreddits {
		posts, err := f.fetchSubreddit(ctx, sub)
		if err != nil {
			return nil, err
		}
		records = append(records, posts...)
	}
	return records, nil
}

func (f *RedditFetcher) fetchSubreddit(ctx context.Context, subreddit string) ([]models.RawRecord, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", strings.TrimRight(f.client.config.BaseURL, "/"), subreddit, f.limit)

	var data redditResponse
	if err := f.client.getJSON(ctx, url, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch r/%s: %w", subreddit, err)
	}

	records := make([]models.RawRecord, 0, len(data.Data.Children))
	for _, child := range data.Data.Children {
		post := child.Data
		// Missing is_self is treated as a link post.
		if post.IsSelf != nil && *post.IsSelf {
			continue
		}

		records = append(records, models.RawRecord{
			Title:       post.Title,
			URL:         post.URL,
			Score:       post.Score,
			Subreddit:   post.Subreddit,
			CreatedUTC:  post.CreatedUTC,
			NumComments: post.NumComments,
			IsSelf:      post.IsSelf,
		})
	}

	return records, nil
}

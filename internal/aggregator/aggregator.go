package aggregator

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/johnrirwin/headlinehub/internal/keywords"
	"github.com/johnrirwin/headlinehub/internal/logging"
	"github.com/johnrirwin/headlinehub/internal/metrics"
	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/normalizer"
	"github.com/johnrirwin/headlinehub/internal/sources"
	"github.com/johnrirwin/headlinehub/internal/tagging"
)

const (
	TrendingPerSource = 5
	TrendingLimit     = 15
	CategoryLimit     = 20
	TopArticlesLimit  = 5
)

// ErrEmptyQuery is returned by Search when the query is blank.
var ErrEmptyQuery = errors.New("search query is required")

// batch is one provider's normalized output, kept in fetch order.
type batch struct {
	tag      models.SourceTag
	articles []models.Article
}

// Aggregator runs every query against a fresh, sequential fetch of all providers.
type Aggregator struct {
	fetchers []sources.Fetcher
	tagger   *tagging.Tagger
	logger   *logging.Logger
	now      func() time.Time
}

func New(fetchers []sources.Fetcher, tagger *tagging.Tagger, logger *logging.Logger) *Aggregator {
	if tagger == nil {
		tagger = tagging.New()
	}
	return &Aggregator{
		fetchers: fetchers,
		tagger:   tagger,
		logger:   logger,
		now:      time.Now,
	}
}

// fetchAll queries each provider in order. The first failure aborts the whole
// operation; there is no partial result.
func (a *Aggregator) fetchAll(ctx context.Context) ([]batch, error) {
	batches := make([]batch, 0, len(a.fetchers))
	for _, f := range a.fetchers {
		start := time.Now()
		records, err := f.Fetch(ctx)
		elapsed := time.Since(start)

		if err != nil {
			metrics.RecordFetch(string(f.Tag()), "error", elapsed, 0)
			a.logger.Error("Failed to fetch from source", logging.WithFields(map[string]interface{}{
				"source": f.Name(),
				"error":  err.Error(),
			}))
			return nil, err
		}

		metrics.RecordFetch(string(f.Tag()), "ok", elapsed, len(records))
		a.logger.Debug("Fetched items from source", logging.WithFields(map[string]interface{}{
			"source":      f.Name(),
			"count":       len(records),
			"duration_ms": elapsed.Milliseconds(),
		}))

		batches = append(batches, batch{
			tag:      f.Tag(),
			articles: normalizer.NormalizeAll(records, f.Tag()),
		})
	}
	return batches, nil
}

func flatten(batches []batch) []models.Article {
	n := 0
	for _, b := range batches {
		n += len(b.articles)
	}
	all := make([]models.Article, 0, n)
	for _, b := range batches {
		all = append(all, b.articles...)
	}
	return all
}

func (a *Aggregator) Trending(ctx context.Context) (models.TrendingResult, error) {
	batches, err := a.fetchAll(ctx)
	if err != nil {
		return models.TrendingResult{}, err
	}

	lists := make([][]models.Article, len(batches))
	names := make([]string, len(batches))
	for i, b := range batches {
		lists[i] = head(b.articles, TrendingPerSource)
		names[i] = string(b.tag)
	}

	mixed := Interleave(lists...)
	if len(mixed) > TrendingLimit {
		mixed = mixed[:TrendingLimit]
	}

	return models.TrendingResult{
		TotalArticles: len(mixed),
		Sources:       names,
		Articles:      mixed,
	}, nil
}

// Interleave takes one element from each list in turn until all are drained.
func Interleave(lists ...[]models.Article) []models.Article {
	longest, total := 0, 0
	for _, l := range lists {
		total += len(l)
		if len(l) > longest {
			longest = len(l)
		}
	}

	mixed := make([]models.Article, 0, total)
	for i := 0; i < longest; i++ {
		for _, l := range lists {
			if i < len(l) {
				mixed = append(mixed, l[i])
			}
		}
	}
	return mixed
}

// ByCategory returns the highest scoring articles with the given label. An empty
// category means all; a label that does not exist yields no articles.
func (a *Aggregator) ByCategory(ctx context.Context, category string) (models.CategoryResult, error) {
	if category == "" {
		category = models.CategoryAll
	}

	batches, err := a.fetchAll(ctx)
	if err != nil {
		return models.CategoryResult{}, err
	}

	articles := a.tagger.TagAll(flatten(batches))
	if category != models.CategoryAll {
		filtered := make([]models.Article, 0, len(articles))
		for _, art := range articles {
			if string(art.Category) == category {
				filtered = append(filtered, art)
			}
		}
		articles = filtered
	}

	SortByScore(articles)
	articles = head(articles, CategoryLimit)

	return models.CategoryResult{
		Category:            category,
		TotalArticles:       len(articles),
		AvailableCategories: a.tagger.Categories(),
		Articles:            articles,
	}, nil
}

// Search keeps articles whose title contains the query, case-insensitively.
// NewsAPI articles also match on description.
func (a *Aggregator) Search(ctx context.Context, query string) (models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return models.SearchResult{}, ErrEmptyQuery
	}

	batches, err := a.fetchAll(ctx)
	if err != nil {
		return models.SearchResult{}, err
	}

	needle := strings.ToLower(query)
	matches := make([]models.Article, 0)
	for _, b := range batches {
		for _, art := range b.articles {
			hit := strings.Contains(strings.ToLower(art.Title), needle)
			if !hit && b.tag == models.SourceNewsAPI {
				hit = strings.Contains(strings.ToLower(art.Description), needle)
			}
			if hit {
				matches = append(matches, a.tagger.Tag(art))
			}
		}
	}

	return models.SearchResult{
		Query:        query,
		TotalResults: len(matches),
		Articles:     matches,
	}, nil
}

func (a *Aggregator) Stats(ctx context.Context) (models.StatsResult, error) {
	batches, err := a.fetchAll(ctx)
	if err != nil {
		return models.StatsResult{}, err
	}

	articles := a.tagger.TagAll(flatten(batches))

	return models.StatsResult{
		TotalArticles:         len(articles),
		CategoryDistribution:  CategoryDistribution(articles),
		SentimentDistribution: SentimentDistribution(articles),
		SourceDistribution:    SourceDistribution(articles),
		TrendingKeywords:      keywords.Extract(articles, keywords.DefaultTopN),
		Timestamp:             a.now().UTC().Format(time.RFC3339),
	}, nil
}

func (a *Aggregator) Analytics(ctx context.Context) (models.AnalyticsResult, error) {
	batches, err := a.fetchAll(ctx)
	if err != nil {
		return models.AnalyticsResult{}, err
	}

	articles := a.tagger.TagAll(flatten(batches))
	categories := CategoryDistribution(articles)

	top := make([]models.Article, len(articles))
	copy(top, articles)
	SortByScore(top)
	top = head(top, TopArticlesLimit)

	return models.AnalyticsResult{
		Timestamp: a.now().UTC().Format(time.RFC3339),
		Overview: models.AnalyticsOverview{
			TotalArticles: len(articles),
			Categories:    categories,
			Sources:       SourceDistribution(articles),
		},
		TopArticles: top,
		Trends: models.AnalyticsTrends{
			MostPopularCategory: MostPopular(categories),
			SentimentRatio:      Ratio(SentimentDistribution(articles), len(articles)),
		},
	}, nil
}

func (a *Aggregator) Sources() []models.SourceInfo {
	infos := make([]models.SourceInfo, 0, len(a.fetchers))
	for _, f := range a.fetchers {
		infos = append(infos, f.SourceInfo())
	}
	return infos
}

// SortByScore orders by descending score, keeping input order for equal scores.
func SortByScore(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Score > articles[j].Score
	})
}

func CategoryDistribution(articles []models.Article) map[string]int {
	dist := make(map[string]int)
	for _, art := range articles {
		dist[string(art.Category)]++
	}
	return dist
}

// SourceDistribution groups by the source text before the first " - ", so every
// subreddit counts as "Reddit".
func SourceDistribution(articles []models.Article) map[string]int {
	dist := make(map[string]int)
	for _, art := range articles {
		name, _, _ := strings.Cut(art.Source, " - ")
		dist[name]++
	}
	return dist
}

// SentimentDistribution counts every article as neutral. No sentiment analysis
// is performed.
func SentimentDistribution(articles []models.Article) map[string]int {
	dist := make(map[string]int)
	if len(articles) > 0 {
		dist[models.SentimentNeutral] = len(articles)
	}
	return dist
}

// MostPopular returns the category with the highest count. Ties go to the
// earlier category in canonical order.
func MostPopular(dist map[string]int) string {
	best, bestCount := "", 0
	for _, c := range models.AllCategories() {
		if n := dist[string(c)]; n > bestCount {
			best, bestCount = string(c), n
		}
	}
	return best
}

// Ratio converts sentiment counts into percentages rounded to one decimal.
func Ratio(dist map[string]int, total int) models.SentimentRatio {
	if total == 0 {
		return models.SentimentRatio{}
	}
	pct := func(n int) float64 {
		return math.Round(float64(n)*1000/float64(total)) / 10
	}
	return models.SentimentRatio{
		Positive: pct(dist["positive"]),
		Negative: pct(dist["negative"]),
		Neutral:  pct(dist[models.SentimentNeutral]),
	}
}

func head(articles []models.Article, n int) []models.Article {
	if len(articles) > n {
		return articles[:n]
	}
	return articles
}

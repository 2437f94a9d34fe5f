// Package normalizer maps provider records onto the shared Article shape.
package normalizer

import (
	"fmt"
	"time"

	"github.com/johnrirwin/headlinehub/internal/models"
)

const (
	DefaultTitle         = "No title"
	MaxDescriptionLength = 200
	DateLayout           = "2006-01-02 15:04:05"
)

// Normalize converts rec according to tag. Every field has a default, so a record
// with nothing set still produces a complete Article. An unknown tag yields the
// zero Article.
func Normalize(rec models.RawRecord, tag models.SourceTag) models.Article {
	switch tag {
	case models.SourceNewsAPI:
		return normalizeNewsAPI(rec)
	case models.SourceHackerNews:
		return normalizeHackerNews(rec)
	case models.SourceReddit:
		return normalizeReddit(rec)
	default:
		return models.Article{}
	}
}

// NormalizeAll normalizes every record with the same tag.
func NormalizeAll(recs []models.RawRecord, tag models.SourceTag) []models.Article {
	articles := make([]models.Article, 0, len(recs))
	for _, rec := range recs {
		articles = append(articles, Normalize(rec, tag))
	}
	return articles
}

func normalizeNewsAPI(rec models.RawRecord) models.Article {
	outlet := "Unknown"
	if rec.Source != nil {
		outlet = stringOr(rec.Source.Name, "Unknown")
	}

	return models.Article{
		Title:         stringOr(rec.Title, DefaultTitle),
		URL:           stringOr(rec.URL, ""),
		Source:        "NewsAPI - " + outlet,
		PublishedDate: stringOr(rec.PublishedAt, ""),
		Score:         0,
		Description:   truncate(stringOr(rec.Description, ""), MaxDescriptionLength),
	}
}

func normalizeHackerNews(rec models.RawRecord) models.Article {
	var ts int64
	if rec.Time != nil {
		ts = *rec.Time
	}

	return models.Article{
		Title:         stringOr(rec.Title, DefaultTitle),
		URL:           stringOr(rec.URL, ""),
		Source:        "HackerNews",
		PublishedDate: FormatUnix(ts),
		Score:         intOr(rec.Score, 0),
		Description:   fmt.Sprintf("Posted by %s | %d comments", stringOr(rec.By, "unknown"), intOr(rec.Descendants, 0)),
	}
}

func normalizeReddit(rec models.RawRecord) models.Article {
	var ts int64
	if rec.CreatedUTC != nil {
		ts = int64(*rec.CreatedUTC)
	}

	return models.Article{
		Title:         stringOr(rec.Title, DefaultTitle),
		URL:           stringOr(rec.URL, ""),
		Source:        "Reddit - r/" + stringOr(rec.Subreddit, "unknown"),
		PublishedDate: FormatUnix(ts),
		Score:         intOr(rec.Score, 0),
		Description:   fmt.Sprintf("%d comments", intOr(rec.NumComments, 0)),
	}
}

// FormatUnix renders unix seconds as "YYYY-MM-DD HH:MM:SS" in UTC.
func FormatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(DateLayout)
}

// truncate keeps the first max characters. It counts runes so a multi-byte
// character is never split.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

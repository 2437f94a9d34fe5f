// Package keywords counts the most frequent words across a batch of articles.
package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/tagging"
)

const DefaultTopN = 20

// wordPattern matches maximal letter runs, so "zürich" is one word, not "rich".
var wordPattern = regexp.MustCompile(`\p{L}{4,}`)

// Words shorter than four letters never match wordPattern, so only longer
// function words need listing.
var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "been": {}, "being": {},
	"could": {}, "does": {}, "from": {}, "have": {}, "into": {},
	"just": {}, "more": {}, "most": {}, "over": {}, "said": {},
	"should": {}, "some": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"what": {}, "when": {}, "which": {}, "will": {}, "with": {},
	"would": {}, "your": {},
}

// IsStopWord reports whether w is excluded from counting.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Extract returns up to topN words by descending frequency. Ties keep the order
// in which words were first seen. topN <= 0 means DefaultTopN.
func Extract(articles []models.Article, topN int) []models.KeywordCount {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var b strings.Builder
	for _, a := range articles {
		b.WriteString(a.Title)
		b.WriteByte(' ')
		b.WriteString(a.Description)
		b.WriteByte(' ')
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, w := range wordPattern.FindAllString(tagging.Fold(b.String()), -1) {
		if IsStopWord(w) {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}

	result := make([]models.KeywordCount, 0, len(order))
	for _, w := range order {
		result = append(result, models.KeywordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if len(result) > topN {
		result = result[:topN]
	}
	return result
}

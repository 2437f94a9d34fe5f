package tagging

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/johnrirwin/headlinehub/internal/models"
)

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category models.Category
	Keywords []string
}

// Tagger assigns one category per article. Rules are checked in order and the
// first rule with any keyword contained in the text wins.
type Tagger struct {
	mu    sync.RWMutex
	rules []Rule
}

func New() *Tagger {
	return &Tagger{rules: defaultRules()}
}

func defaultRules() []Rule {
	return []Rule{
		{
			Category: models.CategoryTechnology,
			Keywords: []string{
				"technology", "tech", "software", "hardware", "computer", "programming",
				"developer", "artificial intelligence", "machine learning", "openai",
				"chatgpt", "llm", "robot", "startup", "internet", "cyber", "smartphone",
				"iphone", "android", "google", "microsoft", "apple", "nvidia", "chip",
				"semiconductor", "crypto", "blockchain", "bitcoin", "cloud", "linux",
				"open source", "database", "algorithm", "gadget",
			},
		},
		{
			Category: models.CategorySports,
			Keywords: []string{
				"sports", "football", "soccer", "cricket", "basketball", "baseball",
				"tennis", "golf", "hockey", "olympic", "world cup", "tournament",
				"championship", "league", "match", "coach", "athlete", "stadium",
				"fifa", "medal",
			},
		},
		{
			Category: models.CategoryEntertainment,
			Keywords: []string{
				"movie", "film", "music", "celebrity", "hollywood", "bollywood",
				"netflix", "concert", "album", "actress", "oscar", "grammy",
				"television", "tv show", "box office", "singer", "trailer", "streaming",
			},
		},
		{
			Category: models.CategoryBusiness,
			Keywords: []string{
				"business", "economy", "economic", "market", "stock", "finance",
				"financial", "bank", "trade", "tariff", "investment", "investor",
				"revenue", "profit", "earnings", "inflation", "company", "companies",
				"ceo", "merger", "acquisition", "shares",
			},
		},
	}
}

// Categorize returns the label for title and description. It always returns a
// label; text that matches no rule is general.
func (t *Tagger) Categorize(title, description string) models.Category {
	text := Fold(title + " " + description)

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, rule := range t.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return models.CategoryGeneral
}

// Tag returns a copy of a with its category set.
func (t *Tagger) Tag(a models.Article) models.Article {
	a.Category = t.Categorize(a.Title, a.Description)
	return a
}

// TagAll categorizes every article in place and returns the slice.
func (t *Tagger) TagAll(articles []models.Article) []models.Article {
	for i := range articles {
		articles[i].Category = t.Categorize(articles[i].Title, articles[i].Description)
	}
	return articles
}

// SetKeywords replaces the keywords of an existing category rule. Keywords are
// lowercased. It reports whether the category had a rule.
func (t *Tagger) SetKeywords(category models.Category, keywords []string) bool {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = Fold(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.rules {
		if t.rules[i].Category == category {
			t.rules[i].Keywords = lowered
			return true
		}
	}
	return false
}

// Rules returns a deep copy of the rules in priority order.
func (t *Tagger) Rules() []Rule {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = Rule{
			Category: r.Category,
			Keywords: append([]string(nil), r.Keywords...),
		}
	}
	return out
}

// Categories returns all labels in canonical order, general last.
func (t *Tagger) Categories() []models.Category {
	return models.AllCategories()
}

// IsCategory reports whether s is one of the known labels.
func IsCategory(s string) bool {
	for _, c := range models.AllCategories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Fold lowercases s after NFC composition so precomposed and decomposed
// spellings of the same word compare equal.
func Fold(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

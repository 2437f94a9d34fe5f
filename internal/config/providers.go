package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProvidersFile is the on-disk shape of the optional provider settings file.
// Any field left out keeps its current value.
//
//	newsapi:
//	  country: gb
//	hackernews:
//	  story_count: 15
//	reddit:
//	  subreddits: [news, golang]
//	  limit: 10
//	categories:
//	  sports: [football, cricket, formula 1]
type ProvidersFile struct {
	UserAgent string `yaml:"user_agent"`
	Timeout   string `yaml:"timeout"`

	NewsAPI struct {
		APIKey  string `yaml:"api_key"`
		Country string `yaml:"country"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"newsapi"`

	HackerNews struct {
		StoryCount int    `yaml:"story_count"`
		BaseURL    string `yaml:"base_url"`
	} `yaml:"hackernews"`

	Reddit struct {
		Subreddits []string `yaml:"subreddits"`
		Limit      int      `yaml:"limit"`
		BaseURL    string   `yaml:"base_url"`
	} `yaml:"reddit"`

	// Categories replaces the keyword list of the named categories.
	Categories map[string][]string `yaml:"categories"`
}

// LoadProviders reads a provider settings file.
func LoadProviders(path string) (*ProvidersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var file ProvidersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse providers config: %w", err)
	}

	return &file, nil
}

// FindProvidersConfig searches for providers.yaml in common locations
func FindProvidersConfig() string {
	locations := []string{
		"providers.yaml",
		"config/providers.yaml",
		"../providers.yaml", // running from cmd/server
		"/app/providers.yaml",
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			absPath, _ := filepath.Abs(loc)
			return absPath
		}
	}

	return ""
}

// Merge copies every value set in f over p. An API key from the file is only
// used when none came from the environment.
func (p *ProvidersConfig) Merge(f *ProvidersFile) error {
	if f == nil {
		return nil
	}

	if f.UserAgent != "" {
		p.UserAgent = f.UserAgent
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid providers timeout %q: %w", f.Timeout, err)
		}
		p.Timeout = d
	}

	if p.NewsAPIKey == "" {
		p.NewsAPIKey = f.NewsAPI.APIKey
	}
	if f.NewsAPI.Country != "" {
		p.Country = f.NewsAPI.Country
	}
	if f.NewsAPI.BaseURL != "" {
		p.NewsAPIBaseURL = f.NewsAPI.BaseURL
	}

	if f.HackerNews.StoryCount > 0 {
		p.StoryCount = f.HackerNews.StoryCount
	}
	if f.HackerNews.BaseURL != "" {
		p.HackerNewsBaseURL = f.HackerNews.BaseURL
	}

	if len(f.Reddit.Subreddits) > 0 {
		p.Subreddits = append([]string(nil), f.Reddit.Subreddits...)
	}
	if f.Reddit.Limit > 0 {
		p.RedditLimit = f.Reddit.Limit
	}
	if f.Reddit.BaseURL != "" {
		p.RedditBaseURL = f.Reddit.BaseURL
	}

	for name, keywords := range f.Categories {
		if p.CategoryKeywords == nil {
			p.CategoryKeywords = make(map[string][]string)
		}
		p.CategoryKeywords[strings.ToLower(strings.TrimSpace(name))] = append([]string(nil), keywords...)
	}

	return nil
}

// ResolveProviders merges the configured file, or one found in a common
// location, into c.Providers. No file is not an error.
func (c *Config) ResolveProviders() (string, error) {
	path := c.Providers.File
	if path == "" {
		path = FindProvidersConfig()
	}
	if path == "" {
		return "", nil
	}

	file, err := LoadProviders(path)
	if err != nil {
		return path, err
	}
	return path, c.Providers.Merge(file)
}

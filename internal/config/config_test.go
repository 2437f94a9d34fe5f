package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnv = []string{
	"NEWSAPI_KEY", "HTTP_ADDR", "MCP_MODE", "CACHE_BACKEND", "CACHE_TTL", "REDIS_ADDR",
	"REDIS_PASSWORD", "REDIS_DB", "RATE_LIMIT", "REQUEST_RPS", "REQUEST_BURST", "LOG_LEVEL",
	"FETCH_TIMEOUT", "NEWS_COUNTRY", "PROVIDERS_CONFIG",
}

func loadWithArgs(t *testing.T, args ...string) *Config {
	t.Helper()

	if len(args) == 0 {
		args = []string{"test"}
	}

	oldCommandLine := flag.CommandLine
	oldArgs := os.Args

	flag.CommandLine = flag.NewFlagSet(args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(io.Discard)
	os.Args = args

	t.Cleanup(func() {
		flag.CommandLine = oldCommandLine
		os.Args = oldArgs
	})

	return Load()
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := loadWithArgs(t, "test")

	if cfg.Server.HTTPAddr != ":5000" {
		t.Errorf("HTTPAddr = %q, want :5000", cfg.Server.HTTPAddr)
	}
	if cfg.Server.MCPMode {
		t.Error("MCPMode should default to false")
	}
	if cfg.Server.RateLimitDur != 0 || cfg.Server.RequestRPS != 0 {
		t.Errorf("limits should default off, got %s / %v", cfg.Server.RateLimitDur, cfg.Server.RequestRPS)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Providers.Country != "us" || cfg.Providers.Timeout != 30*time.Second {
		t.Errorf("Providers = %+v", cfg.Providers)
	}
	if len(cfg.Providers.Subreddits) != 4 || cfg.Providers.Subreddits[3] != "indianews" {
		t.Errorf("Subreddits = %v", cfg.Providers.Subreddits)
	}
	if cfg.Providers.NewsAPIKey != "" {
		t.Errorf("NewsAPIKey = %q, want empty", cfg.Providers.NewsAPIKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSAPI_KEY", "secret")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("MCP_MODE", "1")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REQUEST_RPS", "2.5")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("NEWS_COUNTRY", "in")

	cfg := loadWithArgs(t, "test")

	if cfg.Providers.NewsAPIKey != "secret" {
		t.Errorf("NewsAPIKey = %q", cfg.Providers.NewsAPIKey)
	}
	if cfg.Server.HTTPAddr != ":9000" || !cfg.Server.MCPMode {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL != 2*time.Minute || cfg.Cache.RedisDB != 3 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.RequestRPS != 2.5 {
		t.Errorf("RequestRPS = %v", cfg.Server.RequestRPS)
	}
	if cfg.Providers.Timeout != 5*time.Second || cfg.Providers.Country != "in" {
		t.Errorf("Providers = %+v", cfg.Providers)
	}
}

func TestLoad_FromFlags(t *testing.T) {
	clearEnv(t)
	cfg := loadWithArgs(t, "test", "-mcp", "-cache-backend", "memory", "-rate-limit", "250ms", "-country", "gb")

	if !cfg.Server.MCPMode {
		t.Error("expected MCPMode=true when -mcp is provided")
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Server.RateLimitDur != 250*time.Millisecond {
		t.Errorf("RateLimitDur = %s", cfg.Server.RateLimitDur)
	}
	if cfg.Providers.Country != "gb" {
		t.Errorf("Country = %q", cfg.Providers.Country)
	}
}

func TestLoad_EnvBeatsFlag(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")

	cfg := loadWithArgs(t, "test", "-log-level", "warn")
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"memory needs ttl", func(c *Config) { c.Cache.Backend = CacheMemory; c.Cache.TTL = 0 }, true},
		{"negative rps", func(c *Config) { c.Server.RequestRPS = -1 }, true},
		{"negative timeout", func(c *Config) { c.Providers.Timeout = -time.Second }, true},
		{"zero story count", func(c *Config) { c.Providers.StoryCount = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Cache:     CacheConfig{Backend: CacheNone, TTL: time.Minute},
				Providers: DefaultProviders(),
			}
			tt.mutate(cfg)

			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadProviders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	data := `
user_agent: HeadlineBot/2.0
timeout: 10s
newsapi:
  api_key: from-file
  country: gb
hackernews:
  story_count: 15
reddit:
  subreddits: [golang, rust]
  limit: 8
  base_url: http://localhost:9999
categories:
  Sports: [quidditch, Chess]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	file, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("LoadProviders() error = %v", err)
	}

	p := DefaultProviders()
	p.NewsAPIKey = "from-env"
	if err := p.Merge(file); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if p.NewsAPIKey != "from-env" {
		t.Errorf("NewsAPIKey = %q, env value should win", p.NewsAPIKey)
	}
	if p.UserAgent != "HeadlineBot/2.0" || p.Timeout != 10*time.Second {
		t.Errorf("UserAgent/Timeout = %q / %s", p.UserAgent, p.Timeout)
	}
	if p.Country != "gb" || p.StoryCount != 15 || p.RedditLimit != 8 {
		t.Errorf("Providers = %+v", p)
	}
	if len(p.Subreddits) != 2 || p.Subreddits[0] != "golang" {
		t.Errorf("Subreddits = %v", p.Subreddits)
	}
	if p.RedditBaseURL != "http://localhost:9999" || p.HackerNewsBaseURL != "" {
		t.Errorf("base urls = %q / %q", p.RedditBaseURL, p.HackerNewsBaseURL)
	}
	if got := p.CategoryKeywords["sports"]; len(got) != 2 || got[0] != "quidditch" {
		t.Errorf("CategoryKeywords = %v", p.CategoryKeywords)
	}
}

func TestLoadProviders_Errors(t *testing.T) {
	if _, err := LoadProviders(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("reddit: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProviders(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestMerge_BadTimeout(t *testing.T) {
	p := DefaultProviders()
	f := &ProvidersFile{Timeout: "soon"}

	if err := p.Merge(f); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestResolveProviders_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	if err := os.WriteFile(path, []byte("hackernews:\n  story_count: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Providers: DefaultProviders()}
	cfg.Providers.File = path

	got, err := cfg.ResolveProviders()
	if err != nil {
		t.Fatalf("ResolveProviders() error = %v", err)
	}
	if got != path || cfg.Providers.StoryCount != 3 {
		t.Errorf("ResolveProviders() = %q, StoryCount = %d", got, cfg.Providers.StoryCount)
	}
}

package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Providers ProvidersConfig
}

// ServerConfig holds HTTP/MCP server configuration
type ServerConfig struct {
	HTTPAddr     string
	MCPMode      bool
	RateLimitDur time.Duration
	RequestRPS   float64
	RequestBurst int
}

// CacheConfig holds raw-record cache configuration
type CacheConfig struct {
	Backend       string // "none", "memory" or "redis"
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ProvidersConfig holds everything the three provider adapters need.
type ProvidersConfig struct {
	NewsAPIKey        string
	Country           string
	Subreddits        []string
	RedditLimit       int
	StoryCount        int
	UserAgent         string
	Timeout           time.Duration
	NewsAPIBaseURL    string
	HackerNewsBaseURL string
	RedditBaseURL     string

	// CategoryKeywords overrides the categorizer's keywords per category.
	CategoryKeywords map[string][]string

	// File is an optional YAML file merged over these values at startup.
	File string
}

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// DefaultProviders returns the provider settings used when nothing is configured.
func DefaultProviders() ProvidersConfig {
	return ProvidersConfig{
		Country:     "us",
		Subreddits:  []string{"news", "worldnews", "technology", "indianews"},
		RedditLimit: 5,
		StoryCount:  10,
		UserAgent:   "NewsAggregator/1.0",
		Timeout:     30 * time.Second,
	}
}

// Load parses flags and environment variables to build configuration. A .env
// file in the working directory is read first if present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{Providers: DefaultProviders()}

	// Define flags with defaults
	flag.StringVar(&cfg.Server.HTTPAddr, "http", ":5000", "HTTP server address")
	flag.BoolVar(&cfg.Server.MCPMode, "mcp", false, "Run in MCP stdio mode")
	flag.DurationVar(&cfg.Server.RateLimitDur, "rate-limit", 0, "Minimum delay between requests to same upstream host")
	flag.Float64Var(&cfg.Server.RequestRPS, "request-rps", 0, "Per-client request rate limit (0 disables)")
	flag.IntVar(&cfg.Server.RequestBurst, "request-burst", 10, "Per-client request burst")
	flag.StringVar(&cfg.Cache.Backend, "cache-backend", CacheNone, "Raw-record cache backend: none, memory or redis")
	flag.DurationVar(&cfg.Cache.TTL, "cache-ttl", time.Minute, "Raw-record cache window")
	flag.StringVar(&cfg.Cache.RedisAddr, "redis-addr", "localhost:6379", "Redis server address")
	flag.IntVar(&cfg.Cache.RedisDB, "redis-db", 0, "Redis database number")
	flag.StringVar(&cfg.Logging.Level, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&cfg.Providers.Timeout, "fetch-timeout", cfg.Providers.Timeout, "Timeout for each upstream request (0 disables)")
	flag.StringVar(&cfg.Providers.Country, "country", cfg.Providers.Country, "NewsAPI country code")
	flag.StringVar(&cfg.Providers.File, "providers", "", "Path to a YAML provider settings file")

	flag.Parse()

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg
}

func applyEnvOverrides(cfg *Config) {
	cfg.Providers.NewsAPIKey = os.Getenv("NEWSAPI_KEY")

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.HTTPAddr = v
	}
	if v := os.Getenv("MCP_MODE"); v == "true" || v == "1" {
		cfg.Server.MCPMode = true
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.RateLimitDur = d
		}
	}
	if v := os.Getenv("REQUEST_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RequestRPS = f
		}
	}
	if v := os.Getenv("REQUEST_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RequestBurst = n
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	cfg.Cache.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.RedisDB = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Providers.Timeout = d
		}
	}
	cfg.Providers.Country = getEnvOrDefault("NEWS_COUNTRY", cfg.Providers.Country)
	cfg.Providers.File = getEnvOrDefault("PROVIDERS_CONFIG", cfg.Providers.File)
}

// Validate reports settings that would make the server misbehave.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Server.RequestRPS < 0 {
		return fmt.Errorf("request rps must not be negative")
	}
	if c.Server.RateLimitDur < 0 || c.Providers.Timeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.Providers.RedditLimit <= 0 || c.Providers.StoryCount <= 0 {
		return fmt.Errorf("reddit limit and story count must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/johnrirwin/headlinehub/internal/aggregator"
	"github.com/johnrirwin/headlinehub/internal/cache"
	"github.com/johnrirwin/headlinehub/internal/config"
	"github.com/johnrirwin/headlinehub/internal/httpapi"
	"github.com/johnrirwin/headlinehub/internal/logging"
	"github.com/johnrirwin/headlinehub/internal/mcp"
	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/ratelimit"
	"github.com/johnrirwin/headlinehub/internal/sources"
	"github.com/johnrirwin/headlinehub/internal/tagging"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Logger     *logging.Logger
	Cache      cache.Cache
	Limiter    ratelimit.RateLimiter
	Fetchers   []sources.Fetcher
	Tagger     *tagging.Tagger
	Aggregator *aggregator.Aggregator
	HTTPServer *httpapi.Server
	MCPServer  *mcp.Server
}

// New creates and initializes a new App instance
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{Config: cfg}
	app.Logger = app.initLogger()

	path, err := cfg.ResolveProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to load providers config: %w", err)
	}
	if path != "" {
		app.Logger.Info("Loaded providers config", logging.WithField("path", path))
	}
	if cfg.Providers.NewsAPIKey == "" {
		app.Logger.Warn("NEWSAPI_KEY is not set, NewsAPI requests will be rejected upstream")
	}

	app.Tagger, err = app.initTagger()
	if err != nil {
		return nil, err
	}

	app.Cache, app.Limiter = app.initCache()
	app.Fetchers = app.initFetchers()
	app.Aggregator = aggregator.New(app.Fetchers, app.Tagger, app.Logger)
	app.initServers()

	return app, nil
}

// Run starts the application in the appropriate mode
func (a *App) Run(ctx context.Context) error {
	if a.Config.Server.MCPMode {
		return a.runMCPMode(ctx)
	}
	return a.runHTTPMode(ctx)
}

// Serve runs the application until ctx is done or Run stops on its own. It
// returns only after Shutdown has drained the HTTP server and closed the cache.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		a.Logger.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
		}
	}

	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Error("Cache close error", logging.WithField("error", err.Error()))
		}
	}

	return nil
}

func (a *App) initLogger() *logging.Logger {
	return logging.New(logging.ParseLevel(a.Config.Logging.Level))
}

// initTagger applies keyword overrides from the providers file. General has no
// rule of its own, so it cannot be overridden.
func (a *App) initTagger() (*tagging.Tagger, error) {
	tagger := tagging.New()

	for name, keywords := range a.Config.Providers.CategoryKeywords {
		if !tagging.IsCategory(name) {
			return nil, fmt.Errorf("unknown category %q in keyword overrides", name)
		}
		if !tagger.SetKeywords(models.Category(name), keywords) {
			return nil, fmt.Errorf("category %q has no keyword rule to override", name)
		}
	}

	for _, rule := range tagger.Rules() {
		a.Logger.Debug("Category rule", logging.WithFields(map[string]interface{}{
			"category": string(rule.Category),
			"keywords": len(rule.Keywords),
		}))
	}
	return tagger, nil
}

// initCache builds the raw-record cache and the upstream limiter. The limiter
// is shared through Redis when Redis is reachable.
func (a *App) initCache() (cache.Cache, ratelimit.RateLimiter) {
	cfg := a.Config.Cache
	interval := a.Config.Server.RateLimitDur

	switch cfg.Backend {
	case config.CacheRedis:
		a.Logger.Info("Using Redis cache backend", logging.WithField("addr", cfg.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "headlinehub:",
		}, cfg.TTL)
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			return cache.NewMemory(cfg.TTL), ratelimit.New(interval)
		}
		a.Logger.Info("Using Redis for distributed rate limiting")
		return redisCache, ratelimit.NewRedis(redisCache.Client(), "", interval)
	case config.CacheMemory:
		a.Logger.Info("Using in-memory cache backend", logging.WithField("ttl", cfg.TTL.String()))
		return cache.NewMemory(cfg.TTL), ratelimit.New(interval)
	default:
		a.Logger.Debug("Raw-record cache disabled")
		return nil, ratelimit.New(interval)
	}
}

func (a *App) initFetchers() []sources.Fetcher {
	p := a.Config.Providers
	base := sources.FetcherConfig{
		Timeout:   p.Timeout,
		UserAgent: p.UserAgent,
	}
	withURL := func(url string) sources.FetcherConfig {
		c := base
		c.BaseURL = url
		return c
	}

	fetchers := []sources.Fetcher{
		sources.NewNewsAPIFetcher(p.NewsAPIKey, p.Country, a.Limiter, withURL(p.NewsAPIBaseURL)),
		sources.NewHackerNewsFetcher(p.StoryCount, a.Limiter, withURL(p.HackerNewsBaseURL)),
		sources.NewRedditFetcher(p.Subreddits, p.RedditLimit, a.Limiter, withURL(p.RedditBaseURL)),
	}

	if a.Cache != nil {
		for i, f := range fetchers {
			fetchers[i] = sources.NewCachedFetcher(f, a.Cache, a.Config.Cache.TTL)
		}
	}

	for _, f := range fetchers {
		a.Logger.Debug("Registered provider", logging.WithFields(map[string]interface{}{
			"name": f.Name(),
			"tag":  string(f.Tag()),
		}))
	}

	return fetchers
}

func (a *App) initServers() {
	a.HTTPServer = httpapi.New(a.Aggregator, a.Logger, httpapi.Options{
		RequestRPS:   a.Config.Server.RequestRPS,
		RequestBurst: a.Config.Server.RequestBurst,
	})

	mcpHandler := mcp.NewHandler(a.Aggregator, a.Logger)
	a.MCPServer = mcp.NewServer(mcpHandler, a.Logger)
}

func (a *App) runMCPMode(ctx context.Context) error {
	a.Logger.Info("Starting MCP server in stdio mode")
	return a.MCPServer.Run(ctx)
}

func (a *App) runHTTPMode(ctx context.Context) error {
	a.Logger.Info("Starting HTTP server", logging.WithField("addr", a.Config.Server.HTTPAddr))

	err := a.HTTPServer.Start(a.Config.Server.HTTPAddr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

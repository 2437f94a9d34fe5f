package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/ratelimit"
)

type Fetcher interface {
	Name() string
	Tag() models.SourceTag
	Fetch(ctx context.Context) ([]models.RawRecord, error)
	SourceInfo() models.SourceInfo
}

type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
	BaseURL   string
}

func DefaultConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:   30 * time.Second,
		UserAgent: "NewsAggregator/1.0",
	}
}

// StatusError is returned when a provider answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

// ProviderError is returned when a provider reports a failure in its body.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Provider, e.Code, e.Message)
}

type client struct {
	provider string
	http     *http.Client
	limiter  ratelimit.RateLimiter
	config   FetcherConfig
}

func newClient(provider string, limiter ratelimit.RateLimiter, config FetcherConfig) client {
	return client{
		provider: provider,
		http:     &http.Client{Timeout: config.Timeout},
		limiter:  limiter,
		config:   config,
	}
}

// get issues a GET and returns the open response. Callers close the body.
func (c client) get(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, ratelimit.HostOf(url)); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c.provider, err)
	}
	return resp, nil
}

func (c client) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Provider: c.provider, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.provider, err)
	}
	return nil
}

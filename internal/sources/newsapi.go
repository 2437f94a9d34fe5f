package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/ratelimit"
)

const (
	DefaultNewsAPIBaseURL = "https://newsapi.org"
	DefaultCountry        = "us"
)

// NewsAPIFetcher pulls top headlines for a single country.
type NewsAPIFetcher struct {
	apiKey  string
	country string
	client  client
}

type newsAPIResponse struct {
	Status       string             `json:"status"`
	Code         string             `json:"code"`
	Message      string             `json:"message"`
	TotalResults int                `json:"totalResults"`
	Articles     []models.RawRecord `json:"articles"`
}

func NewNewsAPIFetcher(apiKey, country string, limiter ratelimit.RateLimiter, config FetcherConfig) *NewsAPIFetcher {
	if country == "" {
		country = DefaultCountry
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultNewsAPIBaseURL
	}
	return &NewsAPIFetcher{
		apiKey:  apiKey,
		country: country,
		client:  newClient("newsapi", limiter, config),
	}
}

func (f *NewsAPIFetcher) Name() string {
	return "NewsAPI"
}

func (f *NewsAPIFetcher) Tag() models.SourceTag {
	return models.SourceNewsAPI
}

func (f *NewsAPIFetcher) SourceInfo() models.SourceInfo {
	return models.SourceInfo{
		ID:          "newsapi",
		Name:        "NewsAPI",
		Tag:         models.SourceNewsAPI,
		URL:         "https://newsapi.org",
		Description: "Top headlines for " + strings.ToUpper(f.country),
	}
}

func (f *NewsAPIFetcher) endpoint() string {
	q := url.Values{}
	q.Set("country", f.country)
	q.Set("apiKey", f.apiKey)
	return strings.TrimRight(f.client.config.BaseURL, "/") + "/v2/top-headlines?" + q.Encode()
}

// Fetch returns every article in the response. The API key is not checked
// locally; NewsAPI's own error body is surfaced as a ProviderError.
func (f *NewsAPIFetcher) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	resp, err := f.client.get(ctx, f.endpoint())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data newsAPIResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	if data.Status == "error" {
		return nil, &ProviderError{Provider: "newsapi", Code: data.Code, Message: data.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: "newsapi", StatusCode: resp.StatusCode}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", decodeErr)
	}

	if data.Articles == nil {
		return []models.RawRecord{}, nil
	}
	return data.Articles, nil
}

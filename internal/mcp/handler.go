package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/johnrirwin/headlinehub/internal/aggregator"
	"github.com/johnrirwin/headlinehub/internal/logging"
)

type Handler struct {
	agg    *aggregator.Aggregator
	logger *logging.Logger
}

func NewHandler(agg *aggregator.Aggregator, logger *logging.Logger) *Handler {
	return &Handler{
		agg:    agg,
		logger: logger,
	}
}

type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type CategoryParams struct {
	Category string `json:"category"`
}

type SearchParams struct {
	Query string `json:"query"`
}

var emptySchema = json.RawMessage(`{
	"type": "object",
	"properties": {}
}`)

func (h *Handler) GetTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "get_trending_news",
			Description: "Get a mix of the top headlines from NewsAPI, Hacker News and Reddit, interleaved by source.",
			InputSchema: emptySchema,
		},
		{
			Name:        "get_news_by_category",
			Description: "Get categorized headlines sorted by score, optionally limited to one category.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"category": {
						"type": "string",
						"description": "technology, sports, entertainment, business, general or all (default: all)"
					}
				}
			}`),
		},
		{
			Name:        "search_news",
			Description: "Search headlines whose title contains the query.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {
						"type": "string",
						"description": "Text to look for in headline titles"
					}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "get_news_stats",
			Description: "Get category, source and sentiment distributions plus trending keywords.",
			InputSchema: emptySchema,
		},
		{
			Name:        "get_news_analytics",
			Description: "Get an overview with totals, the top five articles by score and the most popular category.",
			InputSchema: emptySchema,
		},
		{
			Name:        "get_news_sources",
			Description: "Get the list of providers being aggregated.",
			InputSchema: emptySchema,
		},
	}
}

func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	switch name {
	case "get_trending_news":
		return h.agg.Trending(ctx)
	case "get_news_by_category":
		return h.handleByCategory(ctx, arguments)
	case "search_news":
		return h.handleSearch(ctx, arguments)
	case "get_news_stats":
		return h.agg.Stats(ctx)
	case "get_news_analytics":
		return h.agg.Analytics(ctx)
	case "get_news_sources":
		return h.handleGetSources()
	default:
		return nil, &ToolError{Message: "Unknown tool: " + name}
	}
}

func (h *Handler) handleByCategory(ctx context.Context, arguments json.RawMessage) (interface{}, error) {
	var params CategoryParams
	if err := decodeArguments(arguments, &params); err != nil {
		return nil, err
	}
	return h.agg.ByCategory(ctx, strings.ToLower(strings.TrimSpace(params.Category)))
}

func (h *Handler) handleSearch(ctx context.Context, arguments json.RawMessage) (interface{}, error) {
	var params SearchParams
	if err := decodeArguments(arguments, &params); err != nil {
		return nil, err
	}

	result, err := h.agg.Search(ctx, params.Query)
	if errors.Is(err, aggregator.ErrEmptyQuery) {
		return nil, &ToolError{Message: "query is required"}
	}
	return result, err
}

func (h *Handler) handleGetSources() (interface{}, error) {
	sources := h.agg.Sources()
	return map[string]interface{}{
		"sources": sources,
		"count":   len(sources),
	}, nil
}

func decodeArguments(arguments json.RawMessage, out interface{}) error {
	if len(arguments) == 0 || string(arguments) == "null" {
		return nil
	}
	if err := json.Unmarshal(arguments, out); err != nil {
		return &ToolError{Message: "Invalid arguments: " + err.Error()}
	}
	return nil
}

type ToolError struct {
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

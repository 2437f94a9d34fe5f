package httpapi

import (
	"github.com/johnrirwin/headlinehub/internal/models"
)

const (
	APIName    = "News Aggregator API"
	APIVersion = "1.0.0"
)

type EndpointDoc struct {
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Description string            `json:"description"`
	Params      map[string]string `json:"params,omitempty"`
}

type DocsResponse struct {
	Status      string            `json:"status"`
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   []EndpointDoc     `json:"endpoints"`
	Categories  []models.Category `json:"categories"`
}

var endpointDocs = []EndpointDoc{
	{Path: "/", Method: "GET", Description: "Liveness message"},
	{Path: "/trending", Method: "GET", Description: "Top five headlines from each source, interleaved, at most 15"},
	{Path: "/news", Method: "GET", Description: "Categorized headlines sorted by score, at most 20",
		Params: map[string]string{"category": "technology, sports, entertainment, business, general or all (default all)"}},
	{Path: "/search", Method: "GET", Description: "Headlines whose title contains the query",
		Params: map[string]string{"q": "search text (required)"}},
	{Path: "/stats", Method: "GET", Description: "Category, source and sentiment counts plus trending keywords"},
	{Path: "/analytics", Method: "GET", Description: "Overview counts, top five articles by score and trends"},
	{Path: "/summary/<id>", Method: "GET", Description: "Placeholder article summary"},
	{Path: "/docs", Method: "GET", Description: "This document"},
}

// AvailableEndpoints lists the documented paths, as returned with a 404.
func AvailableEndpoints() []string {
	paths := make([]string, len(endpointDocs))
	for i, e := range endpointDocs {
		paths[i] = e.Path
	}
	return paths
}

func Documentation() DocsResponse {
	return DocsResponse{
		Status:      "ok",
		Name:        APIName,
		Version:     APIVersion,
		Description: "Aggregates headlines from NewsAPI, Hacker News and Reddit, normalized into one article shape and tagged with a topic category.",
		Endpoints:   append([]EndpointDoc(nil), endpointDocs...),
		Categories:  models.AllCategories(),
	}
}

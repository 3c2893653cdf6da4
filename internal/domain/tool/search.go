package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

// SearchClient runs a web search. The infrastructure search package
// satisfies this.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// SearchResult is one organic search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// SearchTool answers time dependent questions with live web results.
type SearchTool struct {
	client     SearchClient
	maxResults int
}

// NewSearchTool constructs the search_web tool.
func NewSearchTool(client SearchClient) *SearchTool {
	return &SearchTool{client: client, maxResults: 5}
}

func (t *SearchTool) Kind() Kind { return KindSearchWeb }

func (t *SearchTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        string(KindSearchWeb),
			Description: "Search the web for up to date information",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string"},
				},
				"required": []string{"query"},
			},
		},
	}
}

func (t *SearchTool) Execute(ctx context.Context, _ domain.Owner, args json.RawMessage) (*Result, error) {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ErrorResult(fmt.Sprintf("invalid search_web arguments: %v", err)), nil
	}
	if strings.TrimSpace(params.Query) == "" {
		return ErrorResult("search_web requires a non empty query"), nil
	}

	results, err := t.client.Search(ctx, params.Query)
	if err != nil {
		return ErrorResult(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return &Result{Output: "No results found."}, nil
	}
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n%s\n%s\n\n", i+1, r.Title, r.Snippet, r.Link)
	}
	return &Result{Output: strings.TrimSpace(sb.String())}, nil
}

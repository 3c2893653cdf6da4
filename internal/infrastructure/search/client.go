package search

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain/tool"
)

const serperSearchEndpoint = "https://google.serper.dev/search"

// Client queries the Serper search API, satisfying tool.SearchClient.
type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	logger   zerolog.Logger
}

// NewClient wires the Serper HTTP client.
func NewClient(apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "seoan-server/1.0"),
		endpoint: serperSearchEndpoint,
		apiKey:   apiKey,
		logger:   logger,
	}
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
}

// Search runs one organic web search.
func (c *Client) Search(ctx context.Context, query string) ([]tool.SearchResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("search is not configured")
	}

	var payload serperResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"q": query}).
		SetResult(&payload).
		Post(c.endpoint)
	if err != nil {
		c.logger.Error().Err(err).Str("service", "serper").Msg("failed to query search API")
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode())
	}

	results := make([]tool.SearchResult, 0, len(payload.Organic))
	for _, hit := range payload.Organic {
		results = append(results, tool.SearchResult{
			Title:   hit.Title,
			Snippet: hit.Snippet,
			Link:    hit.Link,
		})
	}
	return results, nil
}

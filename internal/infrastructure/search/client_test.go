package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSearch_ParsesOrganicResults(t *testing.T) {
	var gotKey string
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body["q"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic": [
				{"title": "Go", "snippet": "The Go programming language", "link": "https://go.dev"},
				{"title": "Go wiki", "snippet": "Community wiki", "link": "https://go.dev/wiki"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("secret", 5*time.Second, zerolog.Nop())
	client.endpoint = server.URL

	results, err := client.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotQuery != "golang" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Title != "Go" || results[0].Link != "https://go.dev" {
		t.Errorf("first result = %+v", results[0])
	}
}

func TestSearch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("secret", 5*time.Second, zerolog.Nop())
	client.endpoint = server.URL

	if _, err := client.Search(context.Background(), "golang"); err == nil {
		t.Error("expected an error for a non-2xx response")
	}
}

func TestSearch_MissingAPIKey(t *testing.T) {
	client := NewClient("", 5*time.Second, zerolog.Nop())

	if _, err := client.Search(context.Background(), "golang"); err == nil {
		t.Error("expected an error when no API key is configured")
	}
}

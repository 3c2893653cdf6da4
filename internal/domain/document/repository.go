package document

import (
	"context"
	"time"
)

// Repository persists document versions and suggestions.
type Repository interface {
	// SaveVersion appends a new version of the document identified by
	// document.PublicID.
	SaveVersion(ctx context.Context, document *Document) error
	// ListVersions returns every version of a document, oldest first.
	ListVersions(ctx context.Context, publicID string) ([]Document, error)
	// FindLatestVersion returns the newest version of a document.
	FindLatestVersion(ctx context.Context, publicID string) (*Document, error)
	// DeleteVersionsAfter removes versions created strictly after ts,
	// dependent suggestions first.
	DeleteVersionsAfter(ctx context.Context, publicID string, ts time.Time) error

	CreateSuggestions(ctx context.Context, suggestions []*Suggestion) error
	ListSuggestionsByDocument(ctx context.Context, documentPublicID string) ([]Suggestion, error)
}

package document

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/utils/idgen"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// Service implements document version and suggestion operations with
// ownership checks.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService constructs a document service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create stores the first version of a new document and returns it.
func (s *Service) Create(ctx context.Context, owner domain.Owner, title string, kind Kind, content string) (*Document, error) {
	publicID, err := idgen.NewDocumentID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"generate document id", err)
	}
	doc := &Document{
		PublicID:  publicID,
		Owner:     owner,
		Title:     title,
		Kind:      kind,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.SaveVersion(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update appends a new version of an owned document and returns it.
func (s *Service) Update(ctx context.Context, owner domain.Owner, publicID, title, content string) (*Document, error) {
	latest, err := s.getOwnedLatest(ctx, owner, publicID)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = latest.Title
	}
	next := &Document{
		PublicID:  latest.PublicID,
		Owner:     latest.Owner,
		Title:     title,
		Kind:      latest.Kind,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.SaveVersion(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Versions lists every version of an owned document, oldest first.
func (s *Service) Versions(ctx context.Context, owner domain.Owner, publicID string) ([]Document, error) {
	if _, err := s.getOwnedLatest(ctx, owner, publicID); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, publicID)
}

// Latest returns the newest version of an owned document.
func (s *Service) Latest(ctx context.Context, owner domain.Owner, publicID string) (*Document, error) {
	return s.getOwnedLatest(ctx, owner, publicID)
}

// RollbackAfter deletes the versions of an owned document created strictly
// after ts, suggestions first.
func (s *Service) RollbackAfter(ctx context.Context, owner domain.Owner, publicID string, ts time.Time) error {
	if _, err := s.getOwnedLatest(ctx, owner, publicID); err != nil {
		return err
	}
	return s.repo.DeleteVersionsAfter(ctx, publicID, ts)
}

// AddSuggestions stores proposed edits against an owned document.
func (s *Service) AddSuggestions(ctx context.Context, owner domain.Owner, publicID string, suggestions []*Suggestion) error {
	latest, err := s.getOwnedLatest(ctx, owner, publicID)
	if err != nil {
		return err
	}
	for _, suggestion := range suggestions {
		id, err := idgen.NewSuggestionID()
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
				"generate suggestion id", err)
		}
		suggestion.PublicID = id
		suggestion.DocumentPublicID = latest.PublicID
		suggestion.DocumentCreatedAt = latest.CreatedAt
		suggestion.Owner = owner
		suggestion.CreatedAt = time.Now().UTC()
	}
	return s.repo.CreateSuggestions(ctx, suggestions)
}

// Suggestions lists the stored suggestions of an owned document.
func (s *Service) Suggestions(ctx context.Context, owner domain.Owner, publicID string) ([]Suggestion, error) {
	if _, err := s.getOwnedLatest(ctx, owner, publicID); err != nil {
		return nil, err
	}
	return s.repo.ListSuggestionsByDocument(ctx, publicID)
}

func (s *Service) getOwnedLatest(ctx context.Context, owner domain.Owner, publicID string) (*Document, error) {
	latest, err := s.repo.FindLatestVersion(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !latest.Owner.Equal(owner) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"document belongs to another owner", nil)
	}
	return latest, nil
}

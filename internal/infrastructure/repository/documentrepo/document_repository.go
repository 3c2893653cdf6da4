package documentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/seoan1210/seoan-server/internal/domain/document"
	"github.com/seoan1210/seoan-server/internal/infrastructure/database/entities"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// Repository is the PostgreSQL implementation of document.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a document repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveVersion appends a new version of a document.
func (r *Repository) SaveVersion(ctx context.Context, doc *document.Document) error {
	entity := entities.NewSchemaDocument(doc)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to save document version", err)
	}

	doc.ID = entity.ID
	return nil
}

// ListVersions returns every version of a document, oldest first.
func (r *Repository) ListVersions(ctx context.Context, publicID string) ([]document.Document, error) {
	var rows []entities.Document
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list document versions", err)
	}

	docs := make([]document.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, *rows[i].EtoD())
	}
	return docs, nil
}

// FindLatestVersion returns the newest version of a document.
func (r *Repository) FindLatestVersion(ctx context.Context, publicID string) (*document.Document, error) {
	var entity entities.Document
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		Order("created_at DESC").
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("document not found: %s", publicID), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to fetch document", err)
	}

	return entity.EtoD(), nil
}

// DeleteVersionsAfter removes versions created strictly after ts,
// suggestions first, in one transaction.
func (r *Repository) DeleteVersionsAfter(ctx context.Context, publicID string, ts time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_public_id = ? AND document_created_at > ?", publicID, ts).
			Delete(&entities.Suggestion{}).Error; err != nil {
			return err
		}
		return tx.Where("public_id = ? AND created_at > ?", publicID, ts).
			Delete(&entities.Document{}).Error
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete document versions", err)
	}
	return nil
}

// CreateSuggestions stores a batch of suggestions.
func (r *Repository) CreateSuggestions(ctx context.Context, suggestions []*document.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}

	rows := make([]entities.Suggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		rows = append(rows, *entities.NewSchemaSuggestion(suggestion))
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create suggestions", err)
	}

	for i := range rows {
		suggestions[i].ID = rows[i].ID
	}
	return nil
}

// ListSuggestionsByDocument returns the suggestions stored for a document.
func (r *Repository) ListSuggestionsByDocument(ctx context.Context, documentPublicID string) ([]document.Suggestion, error) {
	var rows []entities.Suggestion
	if err := r.db.WithContext(ctx).
		Where("document_public_id = ?", documentPublicID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list suggestions", err)
	}

	suggestions := make([]document.Suggestion, 0, len(rows))
	for i := range rows {
		suggestions = append(suggestions, *rows[i].EtoD())
	}
	return suggestions, nil
}

package ownershiprepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/infrastructure/database/entities"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// Repository moves every resource of one owner to another in a single
// transaction, satisfying ownership.Transferrer.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an ownership repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transfer reassigns conversations, documents, and suggestions. Owner
// columns are a nullable pair, so moving between populations clears the
// source column and sets the destination column.
func (r *Repository) Transfer(ctx context.Context, from, to domain.Owner) error {
	fromColumn := "user_owner_id"
	if from.IsGuest() {
		fromColumn = "guest_owner_id"
	}
	toColumn := "user_owner_id"
	if to.IsGuest() {
		toColumn = "guest_owner_id"
	}

	assignments := map[string]interface{}{toColumn: to.ID}
	if fromColumn != toColumn {
		assignments[fromColumn] = nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&entities.Conversation{},
			&entities.Document{},
			&entities.Suggestion{},
		} {
			if err := tx.Model(model).
				Where(fromColumn+" = ?", from.ID).
				Updates(assignments).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to transfer ownership", err)
	}
	return nil
}

package chatrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/infrastructure/database/entities"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// Repository is the PostgreSQL implementation of chat.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a chat repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func ownerScope(owner domain.Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.IsGuest() {
			return db.Where("guest_owner_id = ?", owner.ID)
		}
		return db.Where("user_owner_id = ?", owner.ID)
	}
}

// CreateConversation inserts the conversation record.
func (r *Repository) CreateConversation(ctx context.Context, conv *chat.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation", err)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindConversationByPublicID fetches a conversation by its public ID.
func (r *Repository) FindConversationByPublicID(ctx context.Context, publicID string) (*chat.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation", err)
	}

	return entity.EtoD(), nil
}

// ListConversationsByOwner pages through an owner's conversations, newest
// first. Cursors are conversation public IDs: starting_after selects records
// newer than the cursor, ending_before records older than it.
func (r *Repository) ListConversationsByOwner(ctx context.Context, owner domain.Owner, limit int, startingAfter, endingBefore string) (*chat.HistoryPage, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Scopes(ownerScope(owner))

	if startingAfter != "" {
		cursor, err := r.FindConversationByPublicID(ctx, startingAfter)
		if err != nil {
			return nil, err
		}
		query = query.Where("created_at > ?", cursor.CreatedAt)
	}
	if endingBefore != "" {
		cursor, err := r.FindConversationByPublicID(ctx, endingBefore)
		if err != nil {
			return nil, err
		}
		query = query.Where("created_at < ?", cursor.CreatedAt)
	}

	var rows []entities.Conversation
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	conversations := make([]chat.Conversation, 0, len(rows))
	for i := range rows {
		conversations = append(conversations, *rows[i].EtoD())
	}

	return &chat.HistoryPage{Conversations: conversations, HasMore: hasMore}, nil
}

// UpdateConversationTitle sets the conversation title.
func (r *Repository) UpdateConversationTitle(ctx context.Context, id uint, title string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("title", title).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation title", err)
	}
	return nil
}

// UpdateConversationVisibility switches a conversation between private and
// public.
func (r *Repository) UpdateConversationVisibility(ctx context.Context, id uint, visibility chat.Visibility) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("visibility", string(visibility)).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation visibility", err)
	}
	return nil
}

// DeleteConversation removes a conversation together with its messages and
// votes in one transaction.
func (r *Repository) DeleteConversation(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&entities.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&entities.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Conversation{}, id).Error
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation", err)
	}
	return nil
}

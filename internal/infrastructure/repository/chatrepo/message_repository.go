package chatrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/infrastructure/database/entities"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// CreateMessage inserts a single transcript message.
func (r *Repository) CreateMessage(ctx context.Context, message *chat.Message) error {
	entity, err := entities.NewSchemaMessage(message)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to encode message parts", err)
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create message", err)
	}

	message.ID = entity.ID
	message.CreatedAt = entity.CreatedAt
	return nil
}

// CreateMessages stores multiple messages in one insert.
func (r *Repository) CreateMessages(ctx context.Context, messages []*chat.Message) error {
	if len(messages) == 0 {
		return nil
	}

	rows := make([]entities.Message, 0, len(messages))
	for _, message := range messages {
		entity, err := entities.NewSchemaMessage(message)
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to encode message parts", err)
		}
		rows = append(rows, *entity)
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to bulk insert messages", err)
	}

	for i := range rows {
		messages[i].ID = rows[i].ID
		messages[i].CreatedAt = rows[i].CreatedAt
	}
	return nil
}

// ListMessagesByConversation returns the ordered transcript of a
// conversation. The insert ID breaks creation time ties.
func (r *Repository) ListMessagesByConversation(ctx context.Context, conversationID uint) ([]chat.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list messages", err)
	}

	messages := make([]chat.Message, 0, len(rows))
	for i := range rows {
		message, err := rows[i].EtoD()
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to decode message parts", err)
		}
		messages = append(messages, *message)
	}
	return messages, nil
}

// FindMessageByPublicID fetches one message of a conversation.
func (r *Repository) FindMessageByPublicID(ctx context.Context, conversationID uint, publicID string) (*chat.Message, error) {
	var entity entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND public_id = ?", conversationID, publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("message not found: %s", publicID), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to fetch message", err)
	}

	message, err := entity.EtoD()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to decode message parts", err)
	}
	return message, nil
}

// DeleteMessagesFrom removes all messages of the conversation created at or
// after ts, votes first, in one transaction. An empty window is a no-op.
func (r *Repository) DeleteMessagesFrom(ctx context.Context, conversationID uint, ts time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doomed := tx.Model(&entities.Message{}).
			Select("id").
			Where("conversation_id = ? AND created_at >= ?", conversationID, ts)

		if err := tx.Where("conversation_id = ? AND message_id IN (?)", conversationID, doomed).
			Delete(&entities.Vote{}).Error; err != nil {
			return err
		}
		return tx.Where("conversation_id = ? AND created_at >= ?", conversationID, ts).
			Delete(&entities.Message{}).Error
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to truncate messages", err)
	}
	return nil
}

// CountOwnerUserMessagesSince counts user-authored messages across all of
// the owner's conversations created at or after the given instant. The
// window boundary is inclusive, so a message stamped exactly at the cutoff
// still counts.
func (r *Repository) CountOwnerUserMessagesSince(ctx context.Context, owner domain.Owner, since time.Time) (int64, error) {
	ownerColumn := "conversations.user_owner_id"
	if owner.IsGuest() {
		ownerColumn = "conversations.guest_owner_id"
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where(ownerColumn+" = ?", owner.ID).
		Where("messages.role = ?", string(chat.RoleUser)).
		Where("messages.created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count user messages", err)
	}
	return count, nil
}

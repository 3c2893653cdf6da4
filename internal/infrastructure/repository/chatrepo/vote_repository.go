package chatrepo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/infrastructure/database/entities"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// UpsertVote inserts or replaces the vote for a message.
func (r *Repository) UpsertVote(ctx context.Context, vote *chat.Vote) error {
	entity := entities.NewSchemaVote(vote)

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "message_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"upvoted", "updated_at"}),
		}).
		Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to upsert vote", err)
	}
	return nil
}

// ListVotesByConversation returns every vote of a conversation.
func (r *Repository) ListVotesByConversation(ctx context.Context, conversationID uint) ([]chat.Vote, error) {
	var rows []entities.Vote
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list votes", err)
	}

	votes := make([]chat.Vote, 0, len(rows))
	for i := range rows {
		votes = append(votes, *rows[i].EtoD())
	}
	return votes, nil
}

package entities

import (
	"time"

	"github.com/seoan1210/seoan-server/internal/domain/chat"
)

// Vote represents per-message feedback, keyed by conversation and message.
type Vote struct {
	ConversationID uint `gorm:"primaryKey;autoIncrement:false"`
	MessageID      uint `gorm:"primaryKey;autoIncrement:false"`

	MessagePublicID string    `gorm:"type:varchar(50);not null"`
	Upvoted         bool      `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Vote.
func (Vote) TableName() string {
	return "votes"
}

// EtoD converts database entity to domain model
func (v *Vote) EtoD() *chat.Vote {
	return &chat.Vote{
		ConversationID: v.ConversationID,
		MessageID:      v.MessageID,
		MessagePublic:  v.MessagePublicID,
		Upvoted:        v.Upvoted,
	}
}

// NewSchemaVote creates a database entity from domain model
func NewSchemaVote(v *chat.Vote) *Vote {
	return &Vote{
		ConversationID:  v.ConversationID,
		MessageID:       v.MessageID,
		MessagePublicID: v.MessagePublic,
		Upvoted:         v.Upvoted,
	}
}

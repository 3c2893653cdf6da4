package chat

import (
	"context"
	"time"

	"github.com/seoan1210/seoan-server/internal/domain"
)

// HistoryPage is a cursor window over an owner's conversations, newest first.
type HistoryPage struct {
	Conversations []Conversation
	HasMore       bool
}

// Repository persists conversations, messages, and votes.
type Repository interface {
	CreateConversation(ctx context.Context, conversation *Conversation) error
	FindConversationByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	ListConversationsByOwner(ctx context.Context, owner domain.Owner, limit int, startingAfter, endingBefore string) (*HistoryPage, error)
	UpdateConversationTitle(ctx context.Context, id uint, title string) error
	UpdateConversationVisibility(ctx context.Context, id uint, visibility Visibility) error
	DeleteConversation(ctx context.Context, id uint) error

	CreateMessage(ctx context.Context, message *Message) error
	CreateMessages(ctx context.Context, messages []*Message) error
	ListMessagesByConversation(ctx context.Context, conversationID uint) ([]Message, error)
	FindMessageByPublicID(ctx context.Context, conversationID uint, publicID string) (*Message, error)
	// DeleteMessagesFrom removes all messages of the conversation created at
	// or after ts, dependent votes first. Deleting an already empty window is
	// not an error.
	DeleteMessagesFrom(ctx context.Context, conversationID uint, ts time.Time) error
	// CountOwnerUserMessagesSince counts user-authored messages across all of
	// the owner's conversations created at or after the given instant.
	CountOwnerUserMessagesSince(ctx context.Context, owner domain.Owner, since time.Time) (int64, error)

	UpsertVote(ctx context.Context, vote *Vote) error
	ListVotesByConversation(ctx context.Context, conversationID uint) ([]Vote, error)
}

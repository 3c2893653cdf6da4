package entities

import (
	"time"

	"github.com/seoan1210/seoan-server/internal/domain/chat"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID     string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	GuestOwnerID *string `gorm:"type:varchar(64);index:idx_conversation_guest_owner;check:chk_conversation_owner,(guest_owner_id IS NULL) <> (user_owner_id IS NULL)"`
	UserOwnerID  *string `gorm:"type:varchar(64);index:idx_conversation_user_owner"`
	Title        string  `gorm:"type:varchar(256);not null"`
	Visibility   string  `gorm:"type:varchar(16);not null;default:'private'"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts database entity to domain model
func (c *Conversation) EtoD() *chat.Conversation {
	return &chat.Conversation{
		ID:         c.ID,
		PublicID:   c.PublicID,
		Owner:      OwnerFromColumns(c.GuestOwnerID, c.UserOwnerID),
		Title:      c.Title,
		Visibility: chat.Visibility(c.Visibility),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model
func NewSchemaConversation(c *chat.Conversation) *Conversation {
	guestID, userID := OwnerToColumns(c.Owner)
	return &Conversation{
		ID:           c.ID,
		PublicID:     c.PublicID,
		GuestOwnerID: guestID,
		UserOwnerID:  userID,
		Title:        c.Title,
		Visibility:   string(c.Visibility),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

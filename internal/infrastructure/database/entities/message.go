package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/seoan1210/seoan-server/internal/domain/chat"
)

// Message represents the database schema for transcript messages. Ordering
// inside a conversation is (created_at, id); the auto increment ID breaks
// same-timestamp ties.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_conversation_order,priority:2"`

	PublicID       string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID uint           `gorm:"not null;index:idx_message_conversation_order,priority:1"`
	Role           string         `gorm:"type:varchar(16);not null"`
	Parts          datatypes.JSON `gorm:"type:jsonb;not null"`
	Attachments    datatypes.JSON `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model
func (m *Message) EtoD() (*chat.Message, error) {
	var parts []chat.Part
	if len(m.Parts) > 0 {
		if err := json.Unmarshal(m.Parts, &parts); err != nil {
			return nil, err
		}
	}
	var attachments []chat.Attachment
	if len(m.Attachments) > 0 {
		if err := json.Unmarshal(m.Attachments, &attachments); err != nil {
			return nil, err
		}
	}
	return &chat.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Role:           chat.Role(m.Role),
		Parts:          parts,
		Attachments:    attachments,
		CreatedAt:      m.CreatedAt,
	}, nil
}

// NewSchemaMessage creates a database entity from domain model
func NewSchemaMessage(m *chat.Message) (*Message, error) {
	raw, err := json.Marshal(m.Parts)
	if err != nil {
		return nil, err
	}
	entity := &Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Parts:          datatypes.JSON(raw),
		CreatedAt:      m.CreatedAt,
	}
	if len(m.Attachments) > 0 {
		rawAttachments, err := json.Marshal(m.Attachments)
		if err != nil {
			return nil, err
		}
		entity.Attachments = datatypes.JSON(rawAttachments)
	}
	return entity, nil
}

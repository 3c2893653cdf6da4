package entities

import (
	"time"

	"github.com/seoan1210/seoan-server/internal/domain/document"
)

// Document represents one stored version of an artifact. Versions share a
// public ID and are keyed by (public_id, created_at).
type Document struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null;uniqueIndex:idx_document_version,priority:2"`

	PublicID     string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_document_version,priority:1"`
	GuestOwnerID *string `gorm:"type:varchar(64);index:idx_document_guest_owner;check:chk_document_owner,(guest_owner_id IS NULL) <> (user_owner_id IS NULL)"`
	UserOwnerID  *string `gorm:"type:varchar(64);index:idx_document_user_owner"`
	Title        string  `gorm:"type:varchar(256);not null"`
	Kind         string  `gorm:"type:varchar(16);not null"`
	Content      string  `gorm:"type:text;not null"`
}

// TableName specifies the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// EtoD converts database entity to domain model
func (d *Document) EtoD() *document.Document {
	return &document.Document{
		ID:        d.ID,
		PublicID:  d.PublicID,
		Owner:     OwnerFromColumns(d.GuestOwnerID, d.UserOwnerID),
		Title:     d.Title,
		Kind:      document.Kind(d.Kind),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

// NewSchemaDocument creates a database entity from domain model
func NewSchemaDocument(d *document.Document) *Document {
	guestID, userID := OwnerToColumns(d.Owner)
	return &Document{
		ID:           d.ID,
		PublicID:     d.PublicID,
		GuestOwnerID: guestID,
		UserOwnerID:  userID,
		Title:        d.Title,
		Kind:         string(d.Kind),
		Content:      d.Content,
		CreatedAt:    d.CreatedAt,
	}
}

// Suggestion represents a proposed edit against one document version.
type Suggestion struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	PublicID          string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DocumentPublicID  string    `gorm:"type:varchar(50);not null;index:idx_suggestion_document"`
	DocumentCreatedAt time.Time `gorm:"not null"`
	GuestOwnerID      *string   `gorm:"type:varchar(64);check:chk_suggestion_owner,(guest_owner_id IS NULL) <> (user_owner_id IS NULL)"`
	UserOwnerID       *string   `gorm:"type:varchar(64)"`
	OriginalText      string    `gorm:"type:text;not null"`
	SuggestedText     string    `gorm:"type:text;not null"`
	Description       string    `gorm:"type:text"`
	Resolved          bool      `gorm:"not null;default:false"`
}

// TableName specifies the table name for Suggestion.
func (Suggestion) TableName() string {
	return "suggestions"
}

// EtoD converts database entity to domain model
func (s *Suggestion) EtoD() *document.Suggestion {
	return &document.Suggestion{
		ID:                s.ID,
		PublicID:          s.PublicID,
		DocumentPublicID:  s.DocumentPublicID,
		DocumentCreatedAt: s.DocumentCreatedAt,
		Owner:             OwnerFromColumns(s.GuestOwnerID, s.UserOwnerID),
		OriginalText:      s.OriginalText,
		SuggestedText:     s.SuggestedText,
		Description:       s.Description,
		Resolved:          s.Resolved,
		CreatedAt:         s.CreatedAt,
	}
}

// NewSchemaSuggestion creates a database entity from domain model
func NewSchemaSuggestion(s *document.Suggestion) *Suggestion {
	guestID, userID := OwnerToColumns(s.Owner)
	return &Suggestion{
		ID:                s.ID,
		PublicID:          s.PublicID,
		DocumentPublicID:  s.DocumentPublicID,
		DocumentCreatedAt: s.DocumentCreatedAt,
		GuestOwnerID:      guestID,
		UserOwnerID:       userID,
		OriginalText:      s.OriginalText,
		SuggestedText:     s.SuggestedText,
		Description:       s.Description,
		Resolved:          s.Resolved,
		CreatedAt:         s.CreatedAt,
	}
}

package document

import (
	"errors"
	"time"

	"github.com/seoan1210/seoan-server/internal/domain"
)

// Kind classifies the artifact a document holds.
type Kind string

const (
	KindText  Kind = "text"
	KindCode  Kind = "code"
	KindImage Kind = "image"
	KindSheet Kind = "sheet"
)

// ParseKind validates a client supplied document kind.
func ParseKind(k string) (Kind, error) {
	switch Kind(k) {
	case KindText, KindCode, KindImage, KindSheet:
		return Kind(k), nil
	default:
		return "", errors.New("document kind must be one of text, code, image, sheet")
	}
}

// Document is one version of an artifact. Versions of the same artifact
// share a PublicID and are distinguished by CreatedAt.
type Document struct {
	ID        uint
	PublicID  string
	Owner     domain.Owner
	Title     string
	Kind      Kind
	Content   string
	CreatedAt time.Time
}

// Suggestion is a proposed edit against one document version.
type Suggestion struct {
	ID                uint
	PublicID          string
	DocumentPublicID  string
	DocumentCreatedAt time.Time
	Owner             domain.Owner
	OriginalText      string
	SuggestedText     string
	Description       string
	Resolved          bool
	CreatedAt         time.Time
}

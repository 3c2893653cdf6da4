package idgen

import (
	"crypto/rand"
	"fmt"
)

// Prefixes for public identifiers handed out by the API.
const (
	ConversationPrefix = "conv"
	MessagePrefix      = "msg"
	DocumentPrefix     = "doc"
	SuggestionPrefix   = "sug"
)

// DefaultLength is the random portion length used for all public IDs.
const DefaultLength = 24

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// Uses only alphanumeric characters (0-9, a-z) - no dashes or special characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	bytes := make([]byte, length*2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%36]
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// ValidateIDFormat reports whether id is a well formed public ID for the
// expected prefix: "prefix_" followed by at least one [0-9a-z] character.
func ValidateIDFormat(id, expectedPrefix string) bool {
	head := expectedPrefix + "_"
	if len(id) <= len(head) || id[:len(head)] != head {
		return false
	}
	for _, char := range id[len(head):] {
		if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}

// NewConversationID returns a fresh conversation identifier.
func NewConversationID() (string, error) {
	return GenerateSecureID(ConversationPrefix, DefaultLength)
}

// NewMessageID returns a fresh message identifier.
func NewMessageID() (string, error) {
	return GenerateSecureID(MessagePrefix, DefaultLength)
}

// NewDocumentID returns a fresh document identifier.
func NewDocumentID() (string, error) {
	return GenerateSecureID(DocumentPrefix, DefaultLength)
}

// NewSuggestionID returns a fresh suggestion identifier.
func NewSuggestionID() (string, error) {
	return GenerateSecureID(SuggestionPrefix, DefaultLength)
}

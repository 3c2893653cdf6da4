package handlers

import (
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/domain/document"
	"github.com/seoan1210/seoan-server/internal/domain/ownership"
	"github.com/seoan1210/seoan-server/internal/domain/turn"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Document     *DocumentHandler
	Ownership    *OwnershipHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	orchestrator *turn.Orchestrator,
	chatService *chat.Service,
	documentService *document.Service,
	ownershipService *ownership.Service,
	guestVerifier GuestTokenVerifier,
	guestRole string,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:         NewChatHandler(orchestrator, log),
		Conversation: NewConversationHandler(chatService, log),
		Document:     NewDocumentHandler(documentService, log),
		Ownership:    NewOwnershipHandler(ownershipService, guestVerifier, guestRole, log),
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/handlers"
)

// Provider coordinates all route registrations.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{handlers: handlerProvider}
}

// Register attaches all protected API routes to the gin engine.
func (p *Provider) Register(engine *gin.Engine) {
	v1 := engine.Group("/v1")

	v1.POST("/chat", p.handlers.Chat.Turn)
	v1.GET("/history", p.handlers.Conversation.History)

	conversations := v1.Group("/conversations")
	conversations.GET("/:conversation_id", p.handlers.Conversation.Get)
	conversations.GET("/:conversation_id/messages", p.handlers.Conversation.Messages)
	conversations.DELETE("/:conversation_id", p.handlers.Conversation.Delete)
	conversations.PATCH("/:conversation_id/visibility", p.handlers.Conversation.UpdateVisibility)
	conversations.POST("/:conversation_id/truncate", p.handlers.Conversation.Truncate)
	conversations.GET("/:conversation_id/votes", p.handlers.Conversation.Votes)
	conversations.PATCH("/:conversation_id/votes", p.handlers.Conversation.Vote)

	documents := v1.Group("/documents")
	documents.POST("", p.handlers.Document.Create)
	documents.GET("/:document_id", p.handlers.Document.Versions)
	documents.GET("/:document_id/latest", p.handlers.Document.Latest)
	documents.POST("/:document_id", p.handlers.Document.Update)
	documents.POST("/:document_id/rollback", p.handlers.Document.Rollback)
	documents.GET("/:document_id/suggestions", p.handlers.Document.Suggestions)

	v1.POST("/ownership/transfer", p.handlers.Ownership.Transfer)
}

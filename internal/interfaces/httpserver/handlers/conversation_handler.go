package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/middlewares"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/requests"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/responses"
)

// ConversationHandler exposes transcript and conversation management
// endpoints.
type ConversationHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service *chat.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// History handles GET /v1/history. It returns the caller's conversations
// newest first, paged by starting_after / ending_before cursors.
func (h *ConversationHandler) History(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			responses.HandleErrorWithStatus(c, http.StatusBadRequest, errors.New("limit must be a positive integer"), "invalid limit")
			return
		}
		limit = parsed
	}

	page, err := h.service.History(c.Request.Context(), owner, limit, c.Query("starting_after"), c.Query("ending_before"))
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewConversationListResponse(page))
}

// Get handles GET /v1/conversations/:conversation_id.
func (h *ConversationHandler) Get(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	conversation, err := h.service.GetReadableConversation(c.Request.Context(), owner, c.Param("conversation_id"))
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewConversationResponse(conversation))
}

// Messages handles GET /v1/conversations/:conversation_id/messages.
func (h *ConversationHandler) Messages(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	messages, err := h.service.Messages(c.Request.Context(), owner, c.Param("conversation_id"))
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewMessageListResponse(messages))
}

// Delete handles DELETE /v1/conversations/:conversation_id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	publicID := c.Param("conversation_id")
	if err := h.service.Delete(c.Request.Context(), owner, publicID); err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.ConversationDeletedResponse{
		ID:      publicID,
		Object:  "conversation.deleted",
		Deleted: true,
	})
}

// UpdateVisibility handles PATCH /v1/conversations/:conversation_id/visibility.
func (h *ConversationHandler) UpdateVisibility(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req requests.VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}
	visibility, err := chat.ParseVisibility(req.Visibility)
	if err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid visibility")
		return
	}

	if err := h.service.UpdateVisibility(c.Request.Context(), owner, c.Param("conversation_id"), visibility); err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("conversation_id"), "visibility": string(visibility)})
}

// Truncate handles POST /v1/conversations/:conversation_id/truncate. The
// named message and everything after it are removed.
func (h *ConversationHandler) Truncate(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req requests.TruncateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if err := h.service.TruncateFrom(c.Request.Context(), owner, c.Param("conversation_id"), req.MessageID); err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("conversation_id"), "truncated_from": req.MessageID})
}

// Vote handles PATCH /v1/conversations/:conversation_id/votes.
func (h *ConversationHandler) Vote(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req requests.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if err := h.service.Vote(c.Request.Context(), owner, c.Param("conversation_id"), req.MessageID, req.Type == "up"); err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": req.MessageID, "type": req.Type})
}

// Votes handles GET /v1/conversations/:conversation_id/votes.
func (h *ConversationHandler) Votes(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	votes, err := h.service.Votes(c.Request.Context(), owner, c.Param("conversation_id"))
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewVoteListResponse(votes))
}

// requireOwner resolves the authenticated caller's resource owner or
// renders 401.
func requireOwner(c *gin.Context) (domain.Owner, bool) {
	owner, ok := middlewares.OwnerFromContext(c)
	if !ok {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
		return domain.Owner{}, false
	}
	return owner, true
}

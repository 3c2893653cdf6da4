package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain/document"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/requests"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/responses"
)

// DocumentHandler exposes versioned artifact endpoints. Most documents are
// created by the model through tools; these endpoints cover direct client
// access and version management.
type DocumentHandler struct {
	service *document.Service
	log     zerolog.Logger
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(service *document.Service, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		log:     log.With().Str("handler", "document").Logger(),
	}
}

// Create handles POST /v1/documents.
func (h *DocumentHandler) Create(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req requests.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}
	kind, err := document.ParseKind(req.Kind)
	if err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid document kind")
		return
	}

	doc, err := h.service.Create(c.Request.Context(), owner, req.Title, kind, req.Content)
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, responses.NewDocumentResponse(doc))
}

// Update handles POST /v1/documents/:document_id. A new version is
// appended; prior versions stay readable.
func (h *DocumentHandler) Update(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req requests.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	doc, err := h.service.Update(c.Request.Context(), owner, c.Param("document_id"), req.Title, req.Content)
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewDocumentResponse(doc))
}

// Versions handles GET /v1/documents/:document_id. All versions are
// returned oldest first.
func (h *DocumentHandler) Versions(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	docs, err := h.service.Versions(c.Request.Context(), owner, c.Param("document_id"))
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewDocumentListResponse(docs))
}

// Latest handles GET /v1/documents/:document_id/latest.
func (h *DocumentHandler) Latest(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	doc, err := h.service.Latest(c.Request.Context(), owner, c.Param("document_id"))
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewDocumentResponse(doc))
}

// Rollback handles POST /v1/documents/:document_id/rollback. Versions
// saved after the timestamp are discarded.
func (h *DocumentHandler) Rollback(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req requests.RollbackDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if err := h.service.RollbackAfter(c.Request.Context(), owner, c.Param("document_id"), req.After); err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("document_id"), "rolled_back_after": req.After})
}

// Suggestions handles GET /v1/documents/:document_id/suggestions.
func (h *DocumentHandler) Suggestions(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	suggestions, err := h.service.Suggestions(c.Request.Context(), owner, c.Param("document_id"))
	if err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewSuggestionListResponse(suggestions))
}

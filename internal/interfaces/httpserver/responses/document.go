package responses

import (
	"time"

	"github.com/seoan1210/seoan-server/internal/domain/document"
)

// DocumentResponse is the wire form of one document version.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentListResponse lists the versions of a document, oldest first.
type DocumentListResponse struct {
	Object string             `json:"object"`
	Data   []DocumentResponse `json:"data"`
}

// SuggestionResponse is the wire form of one suggested edit.
type SuggestionResponse struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	DocumentID    string `json:"document_id"`
	OriginalText  string `json:"original_text"`
	SuggestedText string `json:"suggested_text"`
	Description   string `json:"description,omitempty"`
	Resolved      bool   `json:"is_resolved"`
	CreatedAt     int64  `json:"created_at"`
}

// SuggestionListResponse lists the suggestions for a document.
type SuggestionListResponse struct {
	Object string               `json:"object"`
	Data   []SuggestionResponse `json:"data"`
}

// NewDocumentResponse converts a domain document version.
func NewDocumentResponse(doc *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.PublicID,
		Object:    "document",
		Title:     doc.Title,
		Kind:      string(doc.Kind),
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
}

// NewDocumentListResponse converts document versions.
func NewDocumentListResponse(docs []document.Document) DocumentListResponse {
	data := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		data = append(data, NewDocumentResponse(&docs[i]))
	}
	return DocumentListResponse{Object: "list", Data: data}
}

// NewSuggestionListResponse converts domain suggestions.
func NewSuggestionListResponse(suggestions []document.Suggestion) SuggestionListResponse {
	data := make([]SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		data = append(data, SuggestionResponse{
			ID:            s.PublicID,
			Object:        "suggestion",
			DocumentID:    s.DocumentPublicID,
			OriginalText:  s.OriginalText,
			SuggestedText: s.SuggestedText,
			Description:   s.Description,
			Resolved:      s.Resolved,
			CreatedAt:     s.CreatedAt.Unix(),
		})
	}
	return SuggestionListResponse{Object: "list", Data: data}
}

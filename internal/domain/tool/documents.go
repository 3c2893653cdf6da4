package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/document"
	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

// DocumentService is the slice of the document domain the tools need.
type DocumentService interface {
	Create(ctx context.Context, owner domain.Owner, title string, kind document.Kind, content string) (*document.Document, error)
	Update(ctx context.Context, owner domain.Owner, publicID, title, content string) (*document.Document, error)
	Latest(ctx context.Context, owner domain.Owner, publicID string) (*document.Document, error)
	AddSuggestions(ctx context.Context, owner domain.Owner, publicID string, suggestions []*document.Suggestion) error
}

// CreateDocumentTool drafts a new artifact. The content itself is produced
// by a dedicated model call so the main turn stream stays clean.
type CreateDocumentTool struct {
	docs     DocumentService
	provider llm.Provider
	model    string
}

// NewCreateDocumentTool constructs the create_document tool.
func NewCreateDocumentTool(docs DocumentService, provider llm.Provider, model string) *CreateDocumentTool {
	return &CreateDocumentTool{docs: docs, provider: provider, model: model}
}

func (t *CreateDocumentTool) Kind() Kind { return KindCreateDocument }

func (t *CreateDocumentTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        string(KindCreateDocument),
			Description: "Create a document, code file, or spreadsheet artifact for writing or content creation tasks",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{"type": "string"},
					"kind": map[string]interface{}{
						"type": "string",
						"enum": []string{"text", "code", "sheet"},
					},
				},
				"required": []string{"title", "kind"},
			},
		},
	}
}

func (t *CreateDocumentTool) Execute(ctx context.Context, owner domain.Owner, args json.RawMessage) (*Result, error) {
	var params struct {
		Title string `json:"title"`
		Kind  string `json:"kind"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ErrorResult(fmt.Sprintf("invalid create_document arguments: %v", err)), nil
	}
	kind, err := document.ParseKind(params.Kind)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	content, err := t.generateContent(ctx, params.Title, kind)
	if err != nil {
		return ErrorResult(fmt.Sprintf("document generation failed: %v", err)), nil
	}

	doc, err := t.docs.Create(ctx, owner, params.Title, kind, content)
	if err != nil {
		return ErrorResult(fmt.Sprintf("document creation failed: %v", err)), nil
	}
	return &Result{Output: fmt.Sprintf("Created %s document %s titled %q. It is now visible to the user.", doc.Kind, doc.PublicID, doc.Title)}, nil
}

func (t *CreateDocumentTool) generateContent(ctx context.Context, title string, kind document.Kind) (string, error) {
	var instruction string
	switch kind {
	case document.KindCode:
		instruction = "Write a self contained code snippet for the given title. Include comments and example output. Respond with the code only."
	case document.KindSheet:
		instruction = "Write a spreadsheet in CSV format for the given title. Include a header row. Respond with the CSV only."
	default:
		instruction = "Write a document about the given title. Use markdown where appropriate. Respond with the document only."
	}

	resp, err := t.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model: t.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: title},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// UpdateDocumentTool revises an existing artifact based on a description of
// the requested change.
type UpdateDocumentTool struct {
	docs     DocumentService
	provider llm.Provider
	model    string
}

// NewUpdateDocumentTool constructs the update_document tool.
func NewUpdateDocumentTool(docs DocumentService, provider llm.Provider, model string) *UpdateDocumentTool {
	return &UpdateDocumentTool{docs: docs, provider: provider, model: model}
}

func (t *UpdateDocumentTool) Kind() Kind { return KindUpdateDocument }

func (t *UpdateDocumentTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        string(KindUpdateDocument),
			Description: "Update an existing document with the described changes",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":          map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
				},
				"required": []string{"id", "description"},
			},
		},
	}
}

func (t *UpdateDocumentTool) Execute(ctx context.Context, owner domain.Owner, args json.RawMessage) (*Result, error) {
	var params struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ErrorResult(fmt.Sprintf("invalid update_document arguments: %v", err)), nil
	}

	latest, err := t.docs.Latest(ctx, owner, params.ID)
	if err != nil {
		return ErrorResult(fmt.Sprintf("document lookup failed: %v", err)), nil
	}

	resp, err := t.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model: t.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: llm.UpdateDocumentPrompt(latest.Content, string(latest.Kind))},
			{Role: "user", Content: params.Description},
		},
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("document revision failed: %v", err)), nil
	}
	if len(resp.Choices) == 0 {
		return ErrorResult("model returned no choices"), nil
	}

	updated, err := t.docs.Update(ctx, owner, latest.PublicID, "", resp.Choices[0].Message.Content)
	if err != nil {
		return ErrorResult(fmt.Sprintf("document update failed: %v", err)), nil
	}
	return &Result{Output: fmt.Sprintf("Updated document %s titled %q.", updated.PublicID, updated.Title)}, nil
}

// RequestSuggestionsTool asks the model for edit suggestions against a
// document and stores them.
type RequestSuggestionsTool struct {
	docs     DocumentService
	provider llm.Provider
	model    string
}

// NewRequestSuggestionsTool constructs the request_suggestions tool.
func NewRequestSuggestionsTool(docs DocumentService, provider llm.Provider, model string) *RequestSuggestionsTool {
	return &RequestSuggestionsTool{docs: docs, provider: provider, model: model}
}

func (t *RequestSuggestionsTool) Kind() Kind { return KindRequestSuggestions }

func (t *RequestSuggestionsTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        string(KindRequestSuggestions),
			Description: "Request writing suggestions for an existing document",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"document_id": map[string]interface{}{"type": "string"},
				},
				"required": []string{"document_id"},
			},
		},
	}
}

const suggestionsInstruction = `Suggest improvements for the following document.
Respond with a JSON array of objects carrying "original_text",
"suggested_text", and "description" fields. Give at most five suggestions
and respond with the JSON only.`

func (t *RequestSuggestionsTool) Execute(ctx context.Context, owner domain.Owner, args json.RawMessage) (*Result, error) {
	var params struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ErrorResult(fmt.Sprintf("invalid request_suggestions arguments: %v", err)), nil
	}

	latest, err := t.docs.Latest(ctx, owner, params.DocumentID)
	if err != nil {
		return ErrorResult(fmt.Sprintf("document lookup failed: %v", err)), nil
	}

	resp, err := t.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model: t.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: suggestionsInstruction},
			{Role: "user", Content: latest.Content},
		},
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("suggestion generation failed: %v", err)), nil
	}
	if len(resp.Choices) == 0 {
		return ErrorResult("model returned no choices"), nil
	}

	var proposals []struct {
		OriginalText  string `json:"original_text"`
		SuggestedText string `json:"suggested_text"`
		Description   string `json:"description"`
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "`\n ")
	if err := json.Unmarshal([]byte(raw), &proposals); err != nil {
		return ErrorResult(fmt.Sprintf("could not parse suggestions: %v", err)), nil
	}

	suggestions := make([]*document.Suggestion, 0, len(proposals))
	for _, p := range proposals {
		suggestions = append(suggestions, &document.Suggestion{
			OriginalText:  p.OriginalText,
			SuggestedText: p.SuggestedText,
			Description:   p.Description,
		})
	}
	if len(suggestions) == 0 {
		return &Result{Output: "No suggestions were produced."}, nil
	}
	if err := t.docs.AddSuggestions(ctx, owner, latest.PublicID, suggestions); err != nil {
		return ErrorResult(fmt.Sprintf("storing suggestions failed: %v", err)), nil
	}
	return &Result{Output: fmt.Sprintf("Stored %d suggestions for document %s.", len(suggestions), latest.PublicID)}, nil
}

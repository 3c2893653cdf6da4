package responses

import (
	"github.com/seoan1210/seoan-server/internal/domain/chat"
)

// ConversationResponse is the wire form of a conversation.
type ConversationResponse struct {
	ID         string `json:"id"`
	Object     string `json:"object"`
	Title      string `json:"title"`
	Visibility string `json:"visibility"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// ConversationListResponse is a cursor page of conversations.
type ConversationListResponse struct {
	Object  string                 `json:"object"`
	Data    []ConversationResponse `json:"data"`
	FirstID string                 `json:"first_id"`
	LastID  string                 `json:"last_id"`
	HasMore bool                   `json:"has_more"`
}

// ConversationDeletedResponse confirms a deletion.
type ConversationDeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// NewConversationResponse converts a domain conversation.
func NewConversationResponse(conv *chat.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:         conv.PublicID,
		Object:     "conversation",
		Title:      conv.Title,
		Visibility: string(conv.Visibility),
		CreatedAt:  conv.CreatedAt.Unix(),
		UpdatedAt:  conv.UpdatedAt.Unix(),
	}
}

// NewConversationListResponse converts a history page.
func NewConversationListResponse(page *chat.HistoryPage) ConversationListResponse {
	data := make([]ConversationResponse, 0, len(page.Conversations))
	for i := range page.Conversations {
		data = append(data, NewConversationResponse(&page.Conversations[i]))
	}
	resp := ConversationListResponse{
		Object:  "list",
		Data:    data,
		HasMore: page.HasMore,
	}
	if len(data) > 0 {
		resp.FirstID = data[0].ID
		resp.LastID = data[len(data)-1].ID
	}
	return resp
}

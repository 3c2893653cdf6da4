package responses

import (
	"github.com/seoan1210/seoan-server/internal/domain/chat"
)

// MessageResponse is the wire form of a transcript message.
type MessageResponse struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	Role        string            `json:"role"`
	Parts       []chat.Part       `json:"parts"`
	Attachments []chat.Attachment `json:"attachments,omitempty"`
	CreatedAt   int64             `json:"created_at"`
}

// MessageListResponse is the full ordered transcript of a conversation.
type MessageListResponse struct {
	Object string            `json:"object"`
	Data   []MessageResponse `json:"data"`
}

// NewMessageResponse converts a domain message.
func NewMessageResponse(msg *chat.Message) MessageResponse {
	return MessageResponse{
		ID:          msg.PublicID,
		Object:      "message",
		Role:        string(msg.Role),
		Parts:       msg.Parts,
		Attachments: msg.Attachments,
		CreatedAt:   msg.CreatedAt.Unix(),
	}
}

// NewMessageListResponse converts an ordered transcript.
func NewMessageListResponse(messages []chat.Message) MessageListResponse {
	data := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		data = append(data, NewMessageResponse(&messages[i]))
	}
	return MessageListResponse{Object: "list", Data: data}
}

// VoteResponse is the wire form of per-message feedback.
type VoteResponse struct {
	MessageID string `json:"message_id"`
	Upvoted   bool   `json:"is_upvoted"`
}

// VoteListResponse lists the votes of a conversation.
type VoteListResponse struct {
	Object string         `json:"object"`
	Data   []VoteResponse `json:"data"`
}

// NewVoteListResponse converts domain votes.
func NewVoteListResponse(votes []chat.Vote) VoteListResponse {
	data := make([]VoteResponse, 0, len(votes))
	for _, v := range votes {
		data = append(data, VoteResponse{MessageID: v.MessagePublic, Upvoted: v.Upvoted})
	}
	return VoteListResponse{Object: "list", Data: data}
}

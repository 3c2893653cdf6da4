package chat

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/seoan1210/seoan-server/internal/domain"
)

// Visibility controls who may read a conversation.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ParseVisibility validates a client supplied visibility value.
func ParseVisibility(v string) (Visibility, error) {
	switch Visibility(v) {
	case VisibilityPrivate, VisibilityPublic:
		return Visibility(v), nil
	default:
		return "", errors.New("visibility must be private or public")
	}
}

// Conversation is the durable chat thread.
type Conversation struct {
	ID         uint
	PublicID   string
	Owner      domain.Owner
	Title      string
	Visibility Visibility
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Role indicates who authored a message. Persisted transcript rows carry
// only user and assistant; system prompts are assembled per turn and tool
// traffic is embedded in the assistant's parts, so the system and tool
// roles appear on model wire messages but never in storage.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Attachment references an uploaded file accompanying a message.
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
}

// Message is one transcript entry, holding an ordered list of parts and
// any attachment references.
type Message struct {
	ID             uint
	PublicID       string
	ConversationID uint
	Role           Role
	Parts          []Part
	Attachments    []Attachment
	CreatedAt      time.Time
}

// TextContent concatenates the text parts of a message.
func (m Message) TextContent() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			out += p.Text
		}
	}
	return out
}

// PartType discriminates transcript part payloads.
type PartType string

const (
	PartTypeText       PartType = "text"
	PartTypeToolCall   PartType = "tool_call"
	PartTypeToolResult PartType = "tool_result"
)

// Part is a tagged union of transcript content. Type selects exactly one
// payload field.
type Part struct {
	Type       PartType        `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolCall   *ToolCallPart   `json:"tool_call,omitempty"`
	ToolResult *ToolResultPart `json:"tool_result,omitempty"`
}

// ToolCallPart records a model requested tool invocation.
type ToolCallPart struct {
	CallID    string          `json:"call_id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolResultPart records the outcome of a tool invocation.
type ToolResultPart struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Output  string `json:"output,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

// ErrInvalidPart is returned when a part payload does not match its type tag.
var ErrInvalidPart = errors.New("part payload does not match its type")

// Validate ensures the payload matching Type is set and the others are not.
func (p Part) Validate() error {
	switch p.Type {
	case PartTypeText:
		if p.ToolCall != nil || p.ToolResult != nil {
			return ErrInvalidPart
		}
	case PartTypeToolCall:
		if p.ToolCall == nil || p.ToolResult != nil || p.Text != "" {
			return ErrInvalidPart
		}
	case PartTypeToolResult:
		if p.ToolResult == nil || p.ToolCall != nil || p.Text != "" {
			return ErrInvalidPart
		}
	default:
		return ErrInvalidPart
	}
	return nil
}

// TextPart constructs a plain text part.
func TextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text}
}

// ToolCallPartOf constructs a tool call part.
func ToolCallPartOf(callID, name string, args json.RawMessage) Part {
	return Part{Type: PartTypeToolCall, ToolCall: &ToolCallPart{CallID: callID, Name: name, Arguments: args}}
}

// ToolResultPartOf constructs a tool result part.
func ToolResultPartOf(callID, name, output string, isError bool) Part {
	return Part{Type: PartTypeToolResult, ToolResult: &ToolResultPart{CallID: callID, Name: name, Output: output, IsError: isError}}
}

// Vote is per-message feedback, keyed by conversation and message.
type Vote struct {
	ConversationID uint
	MessageID      uint
	MessagePublic  string
	Upvoted        bool
}

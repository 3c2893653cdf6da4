package requests

// TurnRequest starts one conversation turn. ConversationID is empty for a
// brand new conversation.
type TurnRequest struct {
	ConversationID string         `json:"conversation_id"`
	Message        InboundMessage `json:"message" binding:"required"`
	Variant        string         `json:"variant"`
	Latitude       string         `json:"latitude"`
	Longitude      string         `json:"longitude"`
	City           string         `json:"city"`
	Country        string         `json:"country"`
}

// InboundMessage is the client-authored message of a turn. The client may
// assign the message ID; only the user role is accepted inbound.
type InboundMessage struct {
	ID          string              `json:"id"`
	Role        string              `json:"role" binding:"required"`
	Parts       []InboundPart       `json:"parts" binding:"required,min=1,dive"`
	Attachments []InboundAttachment `json:"attachments" binding:"dive"`
}

// InboundPart is one content segment of an inbound message. Clients send
// text parts only; tool parts exist solely on stored assistant messages.
type InboundPart struct {
	Type string `json:"type" binding:"required,eq=text"`
	Text string `json:"text" binding:"required"`
}

// InboundAttachment references a previously uploaded file.
type InboundAttachment struct {
	Name        string `json:"name"`
	URL         string `json:"url" binding:"required,url"`
	ContentType string `json:"content_type"`
}

// VisibilityRequest switches a conversation between private and public.
type VisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required"`
}

// TruncateRequest removes a message and everything after it.
type TruncateRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}

// VoteRequest records up or down feedback on a message.
type VoteRequest struct {
	MessageID string `json:"message_id" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=up down"`
}

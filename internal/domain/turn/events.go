package turn

import (
	"encoding/json"

	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/domain/tool"
)

// Observer receives live updates while a turn runs. The HTTP layer
// implements it over SSE.
type Observer interface {
	// OnConversation fires once, after the conversation for the turn is
	// known, before any model output.
	OnConversation(conversation *chat.Conversation)
	// OnDelta fires for each streamed fragment of assistant text.
	OnDelta(text string)
	// OnReasoningDelta fires for streamed reasoning fragments. Reasoning is
	// displayed but never persisted.
	OnReasoningDelta(text string)
	// OnToolCall fires when the model requests a tool.
	OnToolCall(callID, name string, args json.RawMessage)
	// OnToolResult fires when a tool finishes.
	OnToolResult(callID, name string, result *tool.Result)
}

// State tracks a turn through its lifecycle. Transitions only move forward.
type State string

const (
	StateValidating   State = "validating"
	StateEntitled     State = "entitled"
	StateTitlePending State = "title_pending"
	StateStreaming    State = "streaming"
	StateFinalizing   State = "finalizing"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

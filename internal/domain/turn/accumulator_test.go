package turn

import (
	"encoding/json"
	"testing"

	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

func textDelta(content string) *llm.ChatCompletionDelta {
	return &llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{
			{Delta: llm.ChatMessage{Content: content}},
		},
	}
}

func toolCallDelta(index int, id, name, argsFragment string) *llm.ChatCompletionDelta {
	idx := index
	return &llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{
			{Delta: llm.ChatMessage{
				ToolCalls: []llm.ToolCall{
					{
						Index: &idx,
						ID:    id,
						Type:  "function",
						Function: llm.ToolFunction{
							Name:      name,
							Arguments: json.RawMessage(argsFragment),
						},
					},
				},
			}},
		},
	}
}

func TestStreamAccumulator_FoldsTextDeltas(t *testing.T) {
	acc := newStreamAccumulator()
	acc.Apply(textDelta("Hello"))
	acc.Apply(textDelta(", "))
	acc.Apply(textDelta("world"))
	acc.Apply(&llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{{FinishReason: "stop"}},
	})

	choice := acc.Result()
	if choice == nil {
		t.Fatal("expected a choice")
	}
	if choice.Message.Content != "Hello, world" {
		t.Errorf("content = %q, want %q", choice.Message.Content, "Hello, world")
	}
	if choice.Message.Role != "assistant" {
		t.Errorf("role = %q, want assistant", choice.Message.Role)
	}
	if choice.FinishReason != "stop" {
		t.Errorf("finish reason = %q, want stop", choice.FinishReason)
	}
}

func TestStreamAccumulator_EmptyStream(t *testing.T) {
	acc := newStreamAccumulator()
	if choice := acc.Result(); choice != nil {
		t.Errorf("expected nil choice for empty stream, got %+v", choice)
	}
}

func TestStreamAccumulator_FoldsReasoningSeparately(t *testing.T) {
	acc := newStreamAccumulator()
	acc.Apply(&llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{
			{Delta: llm.ChatMessage{ReasoningContent: "thinking "}},
		},
	})
	acc.Apply(&llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{
			{Delta: llm.ChatMessage{ReasoningContent: "hard", Content: "answer"}},
		},
	})

	choice := acc.Result()
	if choice.Message.ReasoningContent != "thinking hard" {
		t.Errorf("reasoning = %q, want %q", choice.Message.ReasoningContent, "thinking hard")
	}
	if choice.Message.Content != "answer" {
		t.Errorf("content = %q, want %q", choice.Message.Content, "answer")
	}
}

func TestStreamAccumulator_MergesFragmentedToolCall(t *testing.T) {
	// Providers send the ID and name on the first fragment only; argument
	// fragments arrive with the stream index alone.
	acc := newStreamAccumulator()
	acc.Apply(toolCallDelta(0, "call_abc", "get_weather", `{"lat`))
	acc.Apply(toolCallDelta(0, "", "", `itude":1.5}`))

	choice := acc.Result()
	if len(choice.Message.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(choice.Message.ToolCalls))
	}
	call := choice.Message.ToolCalls[0]
	if call.ID != "call_abc" {
		t.Errorf("id = %q, want call_abc", call.ID)
	}
	if call.Function.Name != "get_weather" {
		t.Errorf("name = %q, want get_weather", call.Function.Name)
	}
	if string(call.Function.Arguments) != `{"latitude":1.5}` {
		t.Errorf("arguments = %s", call.Function.Arguments)
	}
}

func TestStreamAccumulator_KeepsParallelToolCallsInOrder(t *testing.T) {
	acc := newStreamAccumulator()
	acc.Apply(toolCallDelta(0, "call_a", "get_weather", `{}`))
	acc.Apply(toolCallDelta(1, "call_b", "search_web", `{"query":`))
	acc.Apply(toolCallDelta(1, "", "", `"go"}`))

	choice := acc.Result()
	if len(choice.Message.ToolCalls) != 2 {
		t.Fatalf("tool calls = %d, want 2", len(choice.Message.ToolCalls))
	}
	if choice.Message.ToolCalls[0].ID != "call_a" || choice.Message.ToolCalls[1].ID != "call_b" {
		t.Errorf("order = %q, %q", choice.Message.ToolCalls[0].ID, choice.Message.ToolCalls[1].ID)
	}
	if string(choice.Message.ToolCalls[1].Function.Arguments) != `{"query":"go"}` {
		t.Errorf("arguments = %s", choice.Message.ToolCalls[1].Function.Arguments)
	}
}

func TestStreamAccumulator_SynthesizesMissingCallID(t *testing.T) {
	acc := newStreamAccumulator()
	acc.Apply(toolCallDelta(2, "", "get_weather", `{}`))

	choice := acc.Result()
	if len(choice.Message.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(choice.Message.ToolCalls))
	}
	if choice.Message.ToolCalls[0].ID != "call_2" {
		t.Errorf("id = %q, want call_2", choice.Message.ToolCalls[0].ID)
	}
}

func TestStreamAccumulator_FallsBackToDeltaPosition(t *testing.T) {
	// No stream index at all: fragments at the same position in the delta
	// belong to the same call.
	acc := newStreamAccumulator()
	acc.Apply(&llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{
			{Delta: llm.ChatMessage{ToolCalls: []llm.ToolCall{
				{ID: "call_x", Type: "function", Function: llm.ToolFunction{Name: "search_web", Arguments: json.RawMessage(`{"q":`)}},
			}}},
		},
	})
	acc.Apply(&llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{
			{Delta: llm.ChatMessage{ToolCalls: []llm.ToolCall{
				{Function: llm.ToolFunction{Arguments: json.RawMessage(`1}`)}},
			}}},
		},
	})

	choice := acc.Result()
	if len(choice.Message.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(choice.Message.ToolCalls))
	}
	if string(choice.Message.ToolCalls[0].Function.Arguments) != `{"q":1}` {
		t.Errorf("arguments = %s", choice.Message.ToolCalls[0].Function.Arguments)
	}
}

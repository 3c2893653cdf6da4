package turn

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

// streamAccumulator folds streaming deltas into a complete assistant
// message. All state lives here; nothing is shared with the caller until
// Result is taken.
type streamAccumulator struct {
	choices map[int]*choiceAccumulator
}

func newStreamAccumulator() *streamAccumulator {
	return &streamAccumulator{
		choices: make(map[int]*choiceAccumulator),
	}
}

func (a *streamAccumulator) Apply(delta *llm.ChatCompletionDelta) {
	if delta == nil {
		return
	}
	for _, choice := range delta.Choices {
		acc := a.ensure(choice.Index)
		acc.apply(choice)
	}
}

func (a *streamAccumulator) ensure(index int) *choiceAccumulator {
	if acc, ok := a.choices[index]; ok {
		return acc
	}
	acc := &choiceAccumulator{
		role:      "assistant",
		toolCalls: make(map[int]*toolCallAccumulator),
	}
	a.choices[index] = acc
	return acc
}

// Result builds the first choice. Nil means the stream carried no choices.
func (a *streamAccumulator) Result() *llm.ChatCompletionChoice {
	acc, ok := a.choices[0]
	if !ok {
		return nil
	}
	choice := acc.build(0)
	return &choice
}

type choiceAccumulator struct {
	role         string
	finishReason string
	content      strings.Builder
	reasoning    strings.Builder
	toolCalls    map[int]*toolCallAccumulator
	toolOrder    []int
}

func (c *choiceAccumulator) apply(choice llm.ChatCompletionDeltaChoice) {
	if choice.Delta.Role != "" {
		c.role = choice.Delta.Role
	}
	if choice.Delta.Content != "" {
		c.content.WriteString(choice.Delta.Content)
	}
	if choice.Delta.ReasoningContent != "" {
		c.reasoning.WriteString(choice.Delta.ReasoningContent)
	}
	for pos, call := range choice.Delta.ToolCalls {
		c.addOrUpdateToolCall(pos, call)
	}
	if choice.FinishReason != "" {
		c.finishReason = choice.FinishReason
	}
}

// addOrUpdateToolCall merges a tool call fragment. Fragments are keyed by
// the provider stream index; the position inside the delta is the fallback
// for providers that omit it.
func (c *choiceAccumulator) addOrUpdateToolCall(pos int, call llm.ToolCall) {
	key := pos
	if call.Index != nil {
		key = *call.Index
	}

	builder, ok := c.toolCalls[key]
	if !ok {
		builder = &toolCallAccumulator{}
		c.toolCalls[key] = builder
		c.toolOrder = append(c.toolOrder, key)
	}

	if call.ID != "" {
		builder.call.ID = call.ID
	}
	if call.Type != "" {
		builder.call.Type = call.Type
	}
	if call.Function.Name != "" {
		builder.call.Function.Name = call.Function.Name
	}
	if len(call.Function.Arguments) > 0 {
		builder.args.Write(call.Function.Arguments)
	}
}

func (c *choiceAccumulator) build(index int) llm.ChatCompletionChoice {
	message := llm.ChatMessage{
		Role:             c.role,
		Content:          c.content.String(),
		ReasoningContent: c.reasoning.String(),
	}
	if len(c.toolOrder) > 0 {
		message.ToolCalls = make([]llm.ToolCall, 0, len(c.toolOrder))
		for _, key := range c.toolOrder {
			builder := c.toolCalls[key]
			call := builder.call
			if builder.args.Len() > 0 {
				call.Function.Arguments = json.RawMessage(builder.args.String())
			}
			if call.ID == "" {
				call.ID = fmt.Sprintf("call_%d", key)
			}
			message.ToolCalls = append(message.ToolCalls, call)
		}
	}

	return llm.ChatCompletionChoice{
		Index:        index,
		Message:      message,
		FinishReason: c.finishReason,
	}
}

type toolCallAccumulator struct {
	call llm.ToolCall
	args strings.Builder
}

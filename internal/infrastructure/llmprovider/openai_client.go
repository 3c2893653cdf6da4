package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

// Client adapts an OpenAI-compatible endpoint to llm.Provider.
type Client struct {
	client *openai.Client
}

var _ llm.Provider = (*Client)(nil)

// NewClient builds a provider client for the given base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{client: openai.NewClientWithConfig(cfg)}
}

// CreateChatCompletion performs a blocking completion call.
func (c *Client) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, toOpenAIRequest(req, false))
	if err != nil {
		return nil, err
	}

	choices := make([]llm.ChatCompletionChoice, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		choices = append(choices, llm.ChatCompletionChoice{
			Index:        choice.Index,
			Message:      fromOpenAIMessage(choice.Message),
			FinishReason: string(choice.FinishReason),
		})
	}

	out := &llm.ChatCompletionResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: choices,
	}
	out.Usage = &llm.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return out, nil
}

// CreateChatCompletionStream opens a streaming completion.
func (c *Client) CreateChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	inner, err := c.client.CreateChatCompletionStream(ctx, toOpenAIRequest(req, true))
	if err != nil {
		return nil, err
	}
	return &stream{inner: inner}, nil
}

type stream struct {
	inner *openai.ChatCompletionStream
}

func (s *stream) Recv() (*llm.ChatCompletionDelta, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}

	delta := &llm.ChatCompletionDelta{
		Choices: make([]llm.ChatCompletionDeltaChoice, 0, len(resp.Choices)),
	}
	for _, choice := range resp.Choices {
		delta.Choices = append(delta.Choices, llm.ChatCompletionDeltaChoice{
			Index:        choice.Index,
			FinishReason: string(choice.FinishReason),
			Delta: llm.ChatMessage{
				Role:             choice.Delta.Role,
				Content:          choice.Delta.Content,
				ReasoningContent: choice.Delta.ReasoningContent,
				ToolCalls:        fromOpenAIToolCalls(choice.Delta.ToolCalls),
			},
		})
	}
	return delta, nil
}

func (s *stream) Close() error {
	return s.inner.Close()
}

func toOpenAIRequest(req llm.ChatCompletionRequest, streaming bool) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:  req.Model,
		Stream: streaming,
	}
	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}

	out.Messages = make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, message := range req.Messages {
		converted := openai.ChatCompletionMessage{
			Role:    message.Role,
			Content: message.Content,
		}
		if message.ToolCallID != nil {
			converted.ToolCallID = *message.ToolCallID
		}
		for _, call := range message.ToolCalls {
			converted.ToolCalls = append(converted.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolType(call.Type),
				Function: openai.FunctionCall{
					Name:      call.Function.Name,
					Arguments: string(call.Function.Arguments),
				},
			})
		}
		out.Messages = append(out.Messages, converted)
	}

	for _, def := range req.Tools {
		out.Tools = append(out.Tools, openai.Tool{
			Type: openai.ToolType(def.Type),
			Function: &openai.FunctionDefinition{
				Name:        def.Function.Name,
				Description: def.Function.Description,
				Parameters:  def.Function.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIMessage(message openai.ChatCompletionMessage) llm.ChatMessage {
	converted := llm.ChatMessage{
		Role:             message.Role,
		Content:          message.Content,
		ReasoningContent: message.ReasoningContent,
		ToolCalls:        fromOpenAIToolCalls(message.ToolCalls),
	}
	if message.ToolCallID != "" {
		id := message.ToolCallID
		converted.ToolCallID = &id
	}
	return converted
}

func fromOpenAIToolCalls(calls []openai.ToolCall) []llm.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]llm.ToolCall, 0, len(calls))
	for _, call := range calls {
		out = append(out, llm.ToolCall{
			Index: call.Index,
			ID:    call.ID,
			Type:  string(call.Type),
			Function: llm.ToolFunction{
				Name:      call.Function.Name,
				Arguments: json.RawMessage(call.Function.Arguments),
			},
		})
	}
	return out
}

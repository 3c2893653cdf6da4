package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

// DefaultTitle names a conversation before any title could be derived.
const DefaultTitle = "New Conversation"

const titlePrompt = `Generate a short title summarizing the user's first message.
Keep it under 80 characters, write it in the message's own language, and do
not use quotes, colons, or markdown.`

// TitleGenerator derives a conversation title from the first user message,
// asking the model first and falling back to truncation.
type TitleGenerator struct {
	provider llm.Provider
	model    string
	logger   zerolog.Logger
}

// NewTitleGenerator constructs a title generator.
func NewTitleGenerator(provider llm.Provider, model string, logger zerolog.Logger) *TitleGenerator {
	return &TitleGenerator{provider: provider, model: model, logger: logger}
}

// Generate returns a title for the given first user message. It never
// returns an empty string.
func (g *TitleGenerator) Generate(ctx context.Context, firstMessage string) string {
	if g.provider != nil {
		resp, err := g.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
			Model: g.model,
			Messages: []llm.ChatMessage{
				{Role: "system", Content: titlePrompt},
				{Role: "user", Content: firstMessage},
			},
		})
		if err == nil && len(resp.Choices) > 0 {
			if title := strings.TrimSpace(resp.Choices[0].Message.Content); title != "" {
				return TruncateTitle(title)
			}
		}
		if err != nil {
			g.logger.Warn().Err(err).Msg("title generation failed, falling back to truncation")
		}
	}
	return TitleFromMessage(firstMessage)
}

// TitleFromMessage derives a title by truncating the message at a word
// boundary.
func TitleFromMessage(message string) string {
	content := strings.TrimSpace(message)
	if content == "" {
		return DefaultTitle
	}
	return TruncateTitle(content)
}

// TruncateTitle shortens a candidate title to at most 60 characters, breaking
// at the end of a word when one falls past the midpoint. Titles follow the
// message's own language, so the cut counts runes, never bytes.
func TruncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= 60 {
		return content
	}
	truncated := runes[:60]
	lastSpace := -1
	for i, r := range truncated {
		if r == ' ' {
			lastSpace = i
		}
	}
	if lastSpace > 30 {
		return string(truncated[:lastSpace]) + "..."
	}
	return string(truncated) + "..."
}

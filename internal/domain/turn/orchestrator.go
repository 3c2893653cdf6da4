package turn

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/domain/llm"
	"github.com/seoan1210/seoan-server/internal/domain/tool"
	"github.com/seoan1210/seoan-server/internal/utils/idgen"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// Store is the injected transcript handle the orchestrator persists through.
// chat.Service satisfies it.
type Store interface {
	GetOwnedConversation(ctx context.Context, owner domain.Owner, publicID string) (*chat.Conversation, error)
	CreateConversation(ctx context.Context, owner domain.Owner, publicID, title string) (*chat.Conversation, error)
	AppendMessage(ctx context.Context, conversationID uint, publicID string, role chat.Role, parts []chat.Part, attachments []chat.Attachment) (*chat.Message, error)
	Transcript(ctx context.Context, conversationID uint) ([]chat.Message, error)
}

// Entitlements gates turn admission. entitlement.Service satisfies it.
type Entitlements interface {
	Check(ctx context.Context, owner domain.Owner) error
}

// Titler names new conversations. chat.TitleGenerator satisfies it.
type Titler interface {
	Generate(ctx context.Context, firstMessage string) string
}

// Models maps variants onto provider model names.
type Models struct {
	Chat      string
	Reasoning string
}

// Resolve returns the provider model for a variant.
func (m Models) Resolve(variant llm.Variant) string {
	if variant == llm.VariantReasoning {
		return m.Reasoning
	}
	return m.Chat
}

// Options tunes orchestrator behavior.
type Options struct {
	MaxToolRounds int
	StreamTimeout time.Duration
	// PersistGuestTurns controls whether guest conversations touch storage
	// at all. When false, guest turns stream normally but leave no trace.
	PersistGuestTurns bool
}

// Orchestrator runs one conversation turn end to end: admission,
// persistence of the inbound message, streaming model invocation with
// bounded tool rounds, and finalization of the assistant message.
type Orchestrator struct {
	store        Store
	entitlements Entitlements
	provider     llm.Provider
	registry     *tool.Registry
	titler       Titler
	models       Models
	opts         Options
	logger       zerolog.Logger
}

// NewOrchestrator constructs a turn orchestrator.
func NewOrchestrator(store Store, entitlements Entitlements, provider llm.Provider, registry *tool.Registry, titler Titler, models Models, opts Options, logger zerolog.Logger) *Orchestrator {
	if opts.MaxToolRounds < 1 {
		opts.MaxToolRounds = 1
	}
	return &Orchestrator{
		store:        store,
		entitlements: entitlements,
		provider:     provider,
		registry:     registry,
		titler:       titler,
		models:       models,
		opts:         opts,
		logger:       logger,
	}
}

// Request describes one inbound turn. MessageID is the client-assigned
// public ID of the inbound message; when empty a fresh one is generated.
type Request struct {
	Owner          domain.Owner
	ConversationID string
	MessageID      string
	Text           string
	Attachments    []chat.Attachment
	Variant        llm.Variant
	Hints          llm.RequestHints
}

// Result is the durable outcome of a completed turn.
type Result struct {
	Conversation     *chat.Conversation
	UserMessage      *chat.Message
	AssistantMessage *chat.Message
	State            State
}

// RunTurn executes a turn. The observer receives live events; the returned
// result reflects what was persisted. Errors before the first streamed
// delta map cleanly onto HTTP statuses, errors after it are reported on the
// stream by the caller.
func (o *Orchestrator) RunTurn(ctx context.Context, req Request, observer Observer) (*Result, error) {
	state := StateValidating

	if err := req.Owner.Validate(); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid owner", err)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message text must not be empty", nil)
	}

	if err := o.entitlements.Check(ctx, req.Owner); err != nil {
		return nil, err
	}
	state = StateEntitled

	persist := o.opts.PersistGuestTurns || !req.Owner.IsGuest()

	conversation, history, err := o.resolveConversation(ctx, req, text, persist, &state)
	if err != nil {
		return nil, err
	}
	observer.OnConversation(conversation)

	userMessage, err := o.appendMessage(ctx, conversation, req.MessageID, chat.RoleUser, []chat.Part{chat.TextPart(text)}, req.Attachments, persist)
	if err != nil {
		return nil, err
	}

	messages := o.buildModelMessages(req, history, text)

	state = StateStreaming
	streamCtx := ctx
	var cancel context.CancelFunc
	if o.opts.StreamTimeout > 0 {
		streamCtx, cancel = context.WithTimeout(ctx, o.opts.StreamTimeout)
		defer cancel()
	}

	assistantParts, err := o.streamRounds(streamCtx, req, messages, observer)
	if err != nil {
		o.logger.Warn().Err(err).Str("conversation_id", conversation.PublicID).Msg("turn failed during streaming")
		return &Result{Conversation: conversation, UserMessage: userMessage, State: StateFailed}, err
	}

	state = StateFinalizing
	assistantMessage, err := o.appendMessage(ctx, conversation, "", chat.RoleAssistant, assistantParts, nil, persist)
	if err != nil {
		// The answer already reached the caller, so a failed final write is
		// a durability gap to reconcile, not a failed turn. The user message
		// was persisted before streaming began.
		o.logger.Warn().Err(err).Str("conversation_id", conversation.PublicID).
			Msg("assistant message not persisted")
		assistantMessage = nil
	}

	state = StateCompleted
	return &Result{
		Conversation:     conversation,
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		State:            state,
	}, nil
}

// resolveConversation loads the target conversation or creates a fresh one
// with a generated title. It also returns the prior transcript.
func (o *Orchestrator) resolveConversation(ctx context.Context, req Request, text string, persist bool, state *State) (*chat.Conversation, []chat.Message, error) {
	if req.ConversationID != "" {
		conversation, err := o.store.GetOwnedConversation(ctx, req.Owner, req.ConversationID)
		if err != nil {
			return nil, nil, err
		}
		history, err := o.store.Transcript(ctx, conversation.ID)
		if err != nil {
			return nil, nil, err
		}
		return conversation, history, nil
	}

	*state = StateTitlePending
	title := o.titler.Generate(ctx, text)

	publicID, err := idgen.NewConversationID()
	if err != nil {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"generate conversation id", err)
	}

	if !persist {
		now := time.Now().UTC()
		return &chat.Conversation{
			PublicID:   publicID,
			Owner:      req.Owner,
			Title:      title,
			Visibility: chat.VisibilityPrivate,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, nil, nil
	}

	conversation, err := o.store.CreateConversation(ctx, req.Owner, publicID, title)
	if err != nil {
		return nil, nil, err
	}
	return conversation, nil, nil
}

func (o *Orchestrator) appendMessage(ctx context.Context, conversation *chat.Conversation, publicID string, role chat.Role, parts []chat.Part, attachments []chat.Attachment, persist bool) (*chat.Message, error) {
	if publicID == "" {
		generated, err := idgen.NewMessageID()
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
				"generate message id", err)
		}
		publicID = generated
	}
	if !persist {
		return &chat.Message{
			PublicID:       publicID,
			ConversationID: conversation.ID,
			Role:           role,
			Parts:          parts,
			Attachments:    attachments,
			CreatedAt:      time.Now().UTC(),
		}, nil
	}
	return o.store.AppendMessage(ctx, conversation.ID, publicID, role, parts, attachments)
}

// buildModelMessages assembles the provider message list: system prompt,
// prior transcript text, then the new user message.
func (o *Orchestrator) buildModelMessages(req Request, history []chat.Message, text string) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{
		Role:    string(chat.RoleSystem),
		Content: llm.SystemPrompt(req.Variant, req.Hints),
	})
	for _, m := range history {
		content := m.TextContent()
		if content == "" {
			continue
		}
		messages = append(messages, llm.ChatMessage{
			Role:    string(m.Role),
			Content: content,
		})
	}
	messages = append(messages, llm.ChatMessage{Role: string(chat.RoleUser), Content: text})
	return messages
}

// streamRounds drives the model and tools until the model answers without
// requesting tools or the round budget runs out. It returns the assistant
// parts in the order they were produced. A model that keeps requesting
// tools is cut off at the budget and the turn completes with whatever was
// generated up to that point.
func (o *Orchestrator) streamRounds(ctx context.Context, req Request, messages []llm.ChatMessage, observer Observer) ([]chat.Part, error) {
	var defs []llm.ToolDefinition
	if req.Variant.SupportsTools() && o.registry != nil {
		defs = o.registry.Definitions()
	}
	model := o.models.Resolve(req.Variant)

	var parts []chat.Part

	for round := 0; round < o.opts.MaxToolRounds; round++ {
		choice, err := o.streamCompletion(ctx, llm.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
			Tools:    defs,
			Stream:   true,
		}, observer)
		if err != nil {
			return nil, err
		}

		messages = append(messages, choice.Message)

		// Text produced alongside tool calls is kept in transcript order.
		if choice.Message.Content != "" {
			parts = append(parts, chat.TextPart(choice.Message.Content))
		}

		if len(choice.Message.ToolCalls) == 0 {
			if len(parts) == 0 {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUpstream,
					"model produced no content", nil)
			}
			return parts, nil
		}

		for _, call := range choice.Message.ToolCalls {
			parts = append(parts, chat.ToolCallPartOf(call.ID, call.Function.Name, call.Function.Arguments))
			observer.OnToolCall(call.ID, call.Function.Name, call.Function.Arguments)

			result := o.registry.Execute(ctx, req.Owner, call.Function.Name, call.Function.Arguments)
			observer.OnToolResult(call.ID, call.Function.Name, result)

			parts = append(parts, chat.ToolResultPartOf(call.ID, call.Function.Name, result.Output, result.IsError))

			callID := call.ID
			messages = append(messages, llm.ChatMessage{
				Role:       string(chat.RoleTool),
				Content:    result.Output,
				ToolCallID: &callID,
			})
		}
	}

	o.logger.Warn().Int("rounds", o.opts.MaxToolRounds).
		Msg("tool round budget exhausted, completing turn with accumulated output")
	return parts, nil
}

func (o *Orchestrator) streamCompletion(ctx context.Context, req llm.ChatCompletionRequest, observer Observer) (*llm.ChatCompletionChoice, error) {
	stream, err := o.provider.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUpstream,
			"model invocation failed", err)
	}
	defer stream.Close()

	accumulator := newStreamAccumulator()

	for {
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUpstream,
				"model stream failed", err)
		}
		if delta != nil {
			for _, choice := range delta.Choices {
				if choice.Index != 0 {
					continue
				}
				if choice.Delta.Content != "" {
					observer.OnDelta(choice.Delta.Content)
				}
				if choice.Delta.ReasoningContent != "" {
					observer.OnReasoningDelta(choice.Delta.ReasoningContent)
				}
			}
			accumulator.Apply(delta)
		}
	}

	choice := accumulator.Result()
	if choice == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUpstream,
			"model stream produced no choices", nil)
	}
	return choice, nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/domain/llm"
	"github.com/seoan1210/seoan-server/internal/domain/tool"
	"github.com/seoan1210/seoan-server/internal/domain/turn"
	"github.com/seoan1210/seoan-server/internal/infrastructure/metrics"
	"github.com/seoan1210/seoan-server/internal/infrastructure/observability"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/middlewares"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/requests"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/responses"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// ChatHandler exposes the streaming turn endpoint.
type ChatHandler struct {
	orchestrator *turn.Orchestrator
	log          zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(orchestrator *turn.Orchestrator, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		log:          log.With().Str("handler", "chat").Logger(),
	}
}

// Turn handles POST /v1/chat. The response is a server-sent event stream;
// failures before the first event map onto a JSON error status, failures
// after it are reported as an error event on the stream.
func (h *ChatHandler) Turn(c *gin.Context) {
	var req requests.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if req.Message.Role != string(chat.RoleUser) {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, errors.New("inbound message role must be user"), "invalid message role")
		return
	}

	owner, ok := middlewares.OwnerFromContext(c)
	if !ok {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
		return
	}

	variant := llm.VariantChat
	if req.Variant != "" {
		parsed, err := llm.ParseVariant(req.Variant)
		if err != nil {
			responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid variant")
			return
		}
		variant = parsed
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, errors.New("streaming not supported"), "streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	observer := newSSEObserver(c.Writer, flusher, h.log)

	var text strings.Builder
	for _, part := range req.Message.Parts {
		text.WriteString(part.Text)
	}
	attachments := make([]chat.Attachment, 0, len(req.Message.Attachments))
	for _, a := range req.Message.Attachments {
		attachments = append(attachments, chat.Attachment{
			Name:        a.Name,
			URL:         a.URL,
			ContentType: a.ContentType,
		})
	}

	turnReq := turn.Request{
		Owner:          owner,
		ConversationID: req.ConversationID,
		MessageID:      req.Message.ID,
		Text:           text.String(),
		Attachments:    attachments,
		Variant:        variant,
		Hints: llm.RequestHints{
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			City:        req.City,
			Country:     req.Country,
			CurrentTime: time.Now().UTC(),
		},
	}

	spanCtx, span := observability.StartSpan(c.Request.Context(), "seoan-server", "chat.turn")
	defer span.End()
	observability.AddSpanAttributes(spanCtx,
		attribute.String("chat.variant", string(variant)),
		attribute.String("chat.owner_kind", string(owner.Kind)),
	)

	start := time.Now()
	result, err := h.orchestrator.RunTurn(spanCtx, turnReq, observer)
	h.recordTurn(owner.Kind, variant, result, err, time.Since(start))
	if err != nil {
		observability.RecordError(spanCtx, err)
	}

	if err != nil {
		if !observer.Started() {
			responses.HandleError(c, h.log, err)
			return
		}
		observer.SendError(err)
		return
	}

	if req.ConversationID == "" {
		metrics.ConversationsCreatedTotal.Inc()
	}
	observer.SendDone(result)
}

func (h *ChatHandler) recordTurn(ownerKind domain.OwnerKind, variant llm.Variant, result *turn.Result, err error, elapsed time.Duration) {
	state := turn.StateCompleted
	if result != nil {
		state = result.State
	} else if err != nil {
		state = turn.StateFailed
	}
	metrics.TurnsTotal.WithLabelValues(string(variant), string(state)).Inc()
	metrics.TurnDuration.WithLabelValues(string(variant)).Observe(elapsed.Seconds())
	if platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded) {
		metrics.QuotaRejectionsTotal.WithLabelValues(string(ownerKind)).Inc()
	}
}

// sseObserver forwards turn events to the client as server-sent events.
type sseObserver struct {
	writer         http.ResponseWriter
	flusher        http.Flusher
	log            zerolog.Logger
	mu             sync.Mutex
	started        bool
	conversationID string
}

func newSSEObserver(w http.ResponseWriter, flusher http.Flusher, log zerolog.Logger) *sseObserver {
	return &sseObserver{
		writer:  w,
		flusher: flusher,
		log:     log,
	}
}

// Started reports whether any event has been written to the stream.
func (o *sseObserver) Started() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}

func (o *sseObserver) OnConversation(conversation *chat.Conversation) {
	o.conversationID = conversation.PublicID
	o.sendEvent("conversation", responses.NewConversationResponse(conversation))
}

func (o *sseObserver) OnDelta(text string) {
	o.sendEvent("text-delta", map[string]interface{}{
		"id":    o.conversationID,
		"delta": text,
	})
}

func (o *sseObserver) OnReasoningDelta(text string) {
	o.sendEvent("reasoning-delta", map[string]interface{}{
		"id":    o.conversationID,
		"delta": text,
	})
}

func (o *sseObserver) OnToolCall(callID, name string, args json.RawMessage) {
	o.sendEvent("tool-call", map[string]interface{}{
		"id":        o.conversationID,
		"call_id":   callID,
		"name":      name,
		"arguments": args,
	})
}

func (o *sseObserver) OnToolResult(callID, name string, result *tool.Result) {
	outcome := "ok"
	if result.IsError {
		outcome = "error"
	}
	metrics.ToolExecutionsTotal.WithLabelValues(name, outcome).Inc()
	o.sendEvent("tool-result", map[string]interface{}{
		"id":      o.conversationID,
		"call_id": callID,
		"name":    name,
		"result":  result,
	})
}

// SendDone closes the stream with the durable outcome of the turn.
func (o *sseObserver) SendDone(result *turn.Result) {
	payload := map[string]interface{}{
		"id":    result.Conversation.PublicID,
		"state": string(result.State),
	}
	if result.UserMessage != nil {
		payload["user_message_id"] = result.UserMessage.PublicID
	}
	if result.AssistantMessage != nil {
		payload["assistant_message_id"] = result.AssistantMessage.PublicID
	}
	o.sendEvent("done", payload)
}

// SendError reports a mid-stream failure as an event.
func (o *sseObserver) SendError(err error) {
	message := err.Error()
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		message = platformErr.Message
	}
	o.sendEvent("error", map[string]string{
		"id":      o.conversationID,
		"message": message,
	})
}

func (o *sseObserver) sendEvent(name string, payload interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		o.log.Error().Err(err).Msg("marshal SSE payload")
		return
	}

	fmt.Fprintf(o.writer, "event: %s\n", name)
	fmt.Fprintf(o.writer, "data: %s\n\n", data)
	o.flusher.Flush()
	o.started = true
}

var _ turn.Observer = (*sseObserver)(nil)

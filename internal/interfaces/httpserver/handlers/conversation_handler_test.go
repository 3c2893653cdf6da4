package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/handlers"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// memoryRepo is an in-memory chat.Repository backing handler tests.
type memoryRepo struct {
	mu            sync.Mutex
	nextID        uint
	conversations []*chat.Conversation
	messages      []*chat.Message
	votes         []*chat.Vote
}

func (r *memoryRepo) CreateConversation(_ context.Context, conversation *chat.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	conversation.ID = r.nextID
	conversation.CreatedAt = time.Now().UTC()
	conversation.UpdatedAt = conversation.CreatedAt
	r.conversations = append(r.conversations, conversation)
	return nil
}

func (r *memoryRepo) FindConversationByPublicID(ctx context.Context, publicID string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.conversations {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil)
}

func (r *memoryRepo) ListConversationsByOwner(_ context.Context, owner domain.Owner, limit int, startingAfter, endingBefore string) (*chat.HistoryPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []chat.Conversation
	for _, conv := range r.conversations {
		if conv.Owner.Equal(owner) {
			owned = append(owned, *conv)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })
	if len(owned) > limit {
		return &chat.HistoryPage{Conversations: owned[:limit], HasMore: true}, nil
	}
	return &chat.HistoryPage{Conversations: owned}, nil
}

func (r *memoryRepo) UpdateConversationTitle(_ context.Context, id uint, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.conversations {
		if conv.ID == id {
			conv.Title = title
		}
	}
	return nil
}

func (r *memoryRepo) UpdateConversationVisibility(_ context.Context, id uint, visibility chat.Visibility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.conversations {
		if conv.ID == id {
			conv.Visibility = visibility
		}
	}
	return nil
}

func (r *memoryRepo) DeleteConversation(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.conversations[:0]
	for _, conv := range r.conversations {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	r.conversations = kept
	return nil
}

func (r *memoryRepo) CreateMessage(_ context.Context, message *chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	message.ID = r.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *memoryRepo) CreateMessages(ctx context.Context, messages []*chat.Message) error {
	for _, m := range messages {
		if err := r.CreateMessage(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryRepo) ListMessagesByConversation(_ context.Context, conversationID uint) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) FindMessageByPublicID(ctx context.Context, conversationID uint, publicID string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.PublicID == publicID {
			return m, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "message not found", nil)
}

func (r *memoryRepo) DeleteMessagesFrom(_ context.Context, conversationID uint, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ConversationID == conversationID && !m.CreatedAt.Before(ts) {
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return nil
}

func (r *memoryRepo) CountOwnerUserMessagesSince(context.Context, domain.Owner, time.Time) (int64, error) {
	return 0, nil
}

func (r *memoryRepo) UpsertVote(_ context.Context, vote *chat.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.votes {
		if v.ConversationID == vote.ConversationID && v.MessageID == vote.MessageID {
			v.Upvoted = vote.Upvoted
			return nil
		}
	}
	r.votes = append(r.votes, vote)
	return nil
}

func (r *memoryRepo) ListVotesByConversation(_ context.Context, conversationID uint) ([]chat.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Vote
	for _, v := range r.votes {
		if v.ConversationID == conversationID {
			out = append(out, *v)
		}
	}
	return out, nil
}

var _ chat.Repository = (*memoryRepo)(nil)

func conversationRouter(t *testing.T, repo *memoryRepo, principal domain.Principal) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := chat.NewService(repo, zerolog.Nop())
	handler := handlers.NewConversationHandler(service, zerolog.Nop())

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("principal", principal)
		c.Next()
	})
	engine.GET("/v1/history", handler.History)
	engine.GET("/v1/conversations/:conversation_id/messages", handler.Messages)
	engine.DELETE("/v1/conversations/:conversation_id", handler.Delete)
	engine.PATCH("/v1/conversations/:conversation_id/visibility", handler.UpdateVisibility)
	engine.POST("/v1/conversations/:conversation_id/truncate", handler.Truncate)
	engine.PATCH("/v1/conversations/:conversation_id/votes", handler.Vote)
	engine.GET("/v1/conversations/:conversation_id/votes", handler.Votes)
	return engine
}

func seedConversation(t *testing.T, repo *memoryRepo, owner domain.Owner, publicID string, visibility chat.Visibility) *chat.Conversation {
	t.Helper()
	conv := &chat.Conversation{PublicID: publicID, Owner: owner, Title: "Seeded", Visibility: visibility}
	if err := repo.CreateConversation(context.Background(), conv); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	return conv
}

func doRequest(engine *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestMessages_PublicConversationReadableByAnyone(t *testing.T) {
	repo := &memoryRepo{}
	owner := domain.RegisteredOwner("user-1")
	conv := seedConversation(t, repo, owner, "conv_pub", chat.VisibilityPublic)
	_ = repo.CreateMessage(context.Background(), &chat.Message{
		PublicID: "msg_1", ConversationID: conv.ID, Role: chat.RoleUser, Parts: []chat.Part{chat.TextPart("hi")},
	})

	engine := conversationRouter(t, repo, domain.Principal{ID: "user-2"})
	recorder := doRequest(engine, http.MethodGet, "/v1/conversations/conv_pub/messages", "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", recorder.Code, recorder.Body.String())
	}
	var payload struct {
		Data []struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Role != "user" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestMessages_PrivateForeignIs404(t *testing.T) {
	repo := &memoryRepo{}
	seedConversation(t, repo, domain.RegisteredOwner("user-1"), "conv_priv", chat.VisibilityPrivate)

	engine := conversationRouter(t, repo, domain.Principal{ID: "user-2"})
	recorder := doRequest(engine, http.MethodGet, "/v1/conversations/conv_priv/messages", "")

	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 so existence does not leak", recorder.Code)
	}
}

func TestDelete_ForeignIs403(t *testing.T) {
	repo := &memoryRepo{}
	seedConversation(t, repo, domain.RegisteredOwner("user-1"), "conv_del", chat.VisibilityPublic)

	engine := conversationRouter(t, repo, domain.Principal{ID: "user-2"})
	recorder := doRequest(engine, http.MethodDelete, "/v1/conversations/conv_del", "")

	if recorder.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", recorder.Code)
	}
	if len(repo.conversations) != 1 {
		t.Error("foreign delete must not remove the conversation")
	}
}

func TestHistory_BothCursorsIs400(t *testing.T) {
	engine := conversationRouter(t, &memoryRepo{}, domain.Principal{ID: "user-1"})
	recorder := doRequest(engine, http.MethodGet, "/v1/history?starting_after=a&ending_before=b", "")

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestUpdateVisibility_RoundTrip(t *testing.T) {
	repo := &memoryRepo{}
	owner := domain.RegisteredOwner("user-1")
	conv := seedConversation(t, repo, owner, "conv_vis", chat.VisibilityPrivate)

	engine := conversationRouter(t, repo, domain.Principal{ID: "user-1"})
	recorder := doRequest(engine, http.MethodPatch, "/v1/conversations/conv_vis/visibility", `{"visibility": "public"}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", recorder.Code, recorder.Body.String())
	}
	if conv.Visibility != chat.VisibilityPublic {
		t.Errorf("visibility = %q, want public", conv.Visibility)
	}

	recorder = doRequest(engine, http.MethodPatch, "/v1/conversations/conv_vis/visibility", `{"visibility": "secret"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an unknown visibility", recorder.Code)
	}
}

func TestTruncate_RemovesTailOfTranscript(t *testing.T) {
	repo := &memoryRepo{}
	owner := domain.RegisteredOwner("user-1")
	conv := seedConversation(t, repo, owner, "conv_trunc", chat.VisibilityPrivate)

	base := time.Now().UTC()
	for i, id := range []string{"msg_1", "msg_2", "msg_3"} {
		_ = repo.CreateMessage(context.Background(), &chat.Message{
			PublicID:       id,
			ConversationID: conv.ID,
			Role:           chat.RoleUser,
			Parts:          []chat.Part{chat.TextPart(id)},
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		})
	}

	engine := conversationRouter(t, repo, domain.Principal{ID: "user-1"})
	recorder := doRequest(engine, http.MethodPost, "/v1/conversations/conv_trunc/truncate", `{"message_id": "msg_2"}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", recorder.Code, recorder.Body.String())
	}
	remaining, _ := repo.ListMessagesByConversation(context.Background(), conv.ID)
	if len(remaining) != 1 || remaining[0].PublicID != "msg_1" {
		t.Errorf("remaining = %+v, want only msg_1", remaining)
	}
}

func TestVote_UpsertAndList(t *testing.T) {
	repo := &memoryRepo{}
	owner := domain.RegisteredOwner("user-1")
	conv := seedConversation(t, repo, owner, "conv_vote", chat.VisibilityPrivate)
	_ = repo.CreateMessage(context.Background(), &chat.Message{
		PublicID: "msg_1", ConversationID: conv.ID, Role: chat.RoleAssistant, Parts: []chat.Part{chat.TextPart("answer")},
	})

	engine := conversationRouter(t, repo, domain.Principal{ID: "user-1"})
	if recorder := doRequest(engine, http.MethodPatch, "/v1/conversations/conv_vote/votes", `{"message_id": "msg_1", "type": "up"}`); recorder.Code != http.StatusOK {
		t.Fatalf("vote status = %d: %s", recorder.Code, recorder.Body.String())
	}
	// A second vote replaces the first.
	if recorder := doRequest(engine, http.MethodPatch, "/v1/conversations/conv_vote/votes", `{"message_id": "msg_1", "type": "down"}`); recorder.Code != http.StatusOK {
		t.Fatalf("vote status = %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder := doRequest(engine, http.MethodGet, "/v1/conversations/conv_vote/votes", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("list status = %d", recorder.Code)
	}
	var payload struct {
		Data []struct {
			MessageID string `json:"message_id"`
			Upvoted   bool   `json:"is_upvoted"`
		} `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Upvoted {
		t.Errorf("votes = %+v, want one downvote", payload.Data)
	}
}

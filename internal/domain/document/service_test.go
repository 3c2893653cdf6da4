package document_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/document"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

type mockDocumentRepo struct {
	SaveVersionFunc               func(ctx context.Context, doc *document.Document) error
	ListVersionsFunc              func(ctx context.Context, publicID string) ([]document.Document, error)
	FindLatestVersionFunc         func(ctx context.Context, publicID string) (*document.Document, error)
	DeleteVersionsAfterFunc       func(ctx context.Context, publicID string, ts time.Time) error
	CreateSuggestionsFunc         func(ctx context.Context, suggestions []*document.Suggestion) error
	ListSuggestionsByDocumentFunc func(ctx context.Context, documentPublicID string) ([]document.Suggestion, error)
}

func (m *mockDocumentRepo) SaveVersion(ctx context.Context, doc *document.Document) error {
	if m.SaveVersionFunc != nil {
		return m.SaveVersionFunc(ctx, doc)
	}
	return nil
}

func (m *mockDocumentRepo) ListVersions(ctx context.Context, publicID string) ([]document.Document, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, publicID)
	}
	return nil, nil
}

func (m *mockDocumentRepo) FindLatestVersion(ctx context.Context, publicID string) (*document.Document, error) {
	if m.FindLatestVersionFunc != nil {
		return m.FindLatestVersionFunc(ctx, publicID)
	}
	return nil, nil
}

func (m *mockDocumentRepo) DeleteVersionsAfter(ctx context.Context, publicID string, ts time.Time) error {
	if m.DeleteVersionsAfterFunc != nil {
		return m.DeleteVersionsAfterFunc(ctx, publicID, ts)
	}
	return nil
}

func (m *mockDocumentRepo) CreateSuggestions(ctx context.Context, suggestions []*document.Suggestion) error {
	if m.CreateSuggestionsFunc != nil {
		return m.CreateSuggestionsFunc(ctx, suggestions)
	}
	return nil
}

func (m *mockDocumentRepo) ListSuggestionsByDocument(ctx context.Context, documentPublicID string) ([]document.Suggestion, error) {
	if m.ListSuggestionsByDocumentFunc != nil {
		return m.ListSuggestionsByDocumentFunc(ctx, documentPublicID)
	}
	return nil, nil
}

var _ document.Repository = (*mockDocumentRepo)(nil)

func latestFixture(owner domain.Owner) *document.Document {
	return &document.Document{
		ID:        1,
		PublicID:  "doc_abc",
		Owner:     owner,
		Title:     "Essay",
		Kind:      document.KindText,
		Content:   "v1",
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreate_AssignsIDAndPersists(t *testing.T) {
	var saved *document.Document
	repo := &mockDocumentRepo{
		SaveVersionFunc: func(ctx context.Context, doc *document.Document) error {
			saved = doc
			return nil
		},
	}
	service := document.NewService(repo, zerolog.Nop())

	doc, err := service.Create(context.Background(), domain.RegisteredOwner("user-1"), "Essay", document.KindText, "hello")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved != doc {
		t.Error("returned document should be the persisted one")
	}
	if doc.PublicID == "" {
		t.Error("missing generated public id")
	}
}

func TestUpdate_KeepsIdentityAndInheritsTitle(t *testing.T) {
	owner := domain.RegisteredOwner("user-1")
	var saved *document.Document
	repo := &mockDocumentRepo{
		FindLatestVersionFunc: func(ctx context.Context, publicID string) (*document.Document, error) {
			return latestFixture(owner), nil
		},
		SaveVersionFunc: func(ctx context.Context, doc *document.Document) error {
			saved = doc
			return nil
		},
	}
	service := document.NewService(repo, zerolog.Nop())

	doc, err := service.Update(context.Background(), owner, "doc_abc", "", "v2")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if doc.PublicID != "doc_abc" || doc.Kind != document.KindText {
		t.Errorf("new version = %+v, must keep the document identity", doc)
	}
	if doc.Title != "Essay" {
		t.Errorf("title = %q, want inherited title", doc.Title)
	}
	if saved.Content != "v2" {
		t.Errorf("content = %q", saved.Content)
	}
}

func TestUpdate_ForeignDocumentIsForbidden(t *testing.T) {
	repo := &mockDocumentRepo{
		FindLatestVersionFunc: func(ctx context.Context, publicID string) (*document.Document, error) {
			return latestFixture(domain.RegisteredOwner("user-1")), nil
		},
	}
	service := document.NewService(repo, zerolog.Nop())

	_, err := service.Update(context.Background(), domain.RegisteredOwner("user-2"), "doc_abc", "", "v2")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("error = %v, want FORBIDDEN", err)
	}
}

func TestRollbackAfter_PassesTimestamp(t *testing.T) {
	owner := domain.RegisteredOwner("user-1")
	cutoff := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	var deletedAfter time.Time
	repo := &mockDocumentRepo{
		FindLatestVersionFunc: func(ctx context.Context, publicID string) (*document.Document, error) {
			return latestFixture(owner), nil
		},
		DeleteVersionsAfterFunc: func(ctx context.Context, publicID string, ts time.Time) error {
			deletedAfter = ts
			return nil
		},
	}
	service := document.NewService(repo, zerolog.Nop())

	if err := service.RollbackAfter(context.Background(), owner, "doc_abc", cutoff); err != nil {
		t.Fatalf("RollbackAfter: %v", err)
	}
	if !deletedAfter.Equal(cutoff) {
		t.Errorf("deleted after %v, want %v", deletedAfter, cutoff)
	}
}

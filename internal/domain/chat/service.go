package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// Service implements conversation access control and transcript operations
// on top of the repository.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService constructs a chat service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// DefaultHistoryLimit bounds a history page when the client does not ask
// for a specific size.
const DefaultHistoryLimit = 20

// MaxHistoryLimit caps the page size a client may request.
const MaxHistoryLimit = 100

// CreateConversation stores a new private conversation for the owner.
func (s *Service) CreateConversation(ctx context.Context, owner domain.Owner, publicID, title string) (*Conversation, error) {
	conversation := &Conversation{
		PublicID:   publicID,
		Owner:      owner,
		Title:      title,
		Visibility: VisibilityPrivate,
	}
	if err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// AppendMessage stores one message at the end of a conversation.
func (s *Service) AppendMessage(ctx context.Context, conversationID uint, publicID string, role Role, parts []Part, attachments []Attachment) (*Message, error) {
	for _, part := range parts {
		if err := part.Validate(); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"invalid message part", err)
		}
	}
	message := &Message{
		PublicID:       publicID,
		ConversationID: conversationID,
		Role:           role,
		Parts:          parts,
		Attachments:    attachments,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// Transcript returns the ordered messages of a conversation without any
// access check. Callers resolve access first.
func (s *Service) Transcript(ctx context.Context, conversationID uint) ([]Message, error) {
	return s.repo.ListMessagesByConversation(ctx, conversationID)
}

// GetOwnedConversation loads a conversation for a mutation. Missing
// conversations map to NOT_FOUND and foreign ones to FORBIDDEN.
func (s *Service) GetOwnedConversation(ctx context.Context, owner domain.Owner, publicID string) (*Conversation, error) {
	conversation, err := s.repo.FindConversationByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !conversation.Owner.Equal(owner) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"conversation belongs to another owner", nil)
	}
	return conversation, nil
}

// GetReadableConversation loads a conversation for a read. Private
// conversations owned by someone else are reported as NOT_FOUND so their
// existence does not leak.
func (s *Service) GetReadableConversation(ctx context.Context, owner domain.Owner, publicID string) (*Conversation, error) {
	conversation, err := s.repo.FindConversationByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if conversation.Visibility == VisibilityPublic || conversation.Owner.Equal(owner) {
		return conversation, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"conversation not found", nil)
}

// History returns a page of the owner's conversations, newest first.
func (s *Service) History(ctx context.Context, owner domain.Owner, limit int, startingAfter, endingBefore string) (*HistoryPage, error) {
	if startingAfter != "" && endingBefore != "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"only one of starting_after and ending_before may be provided", nil)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.ListConversationsByOwner(ctx, owner, limit, startingAfter, endingBefore)
}

// Messages returns the full ordered transcript of a readable conversation.
func (s *Service) Messages(ctx context.Context, owner domain.Owner, publicID string) ([]Message, error) {
	conversation, err := s.GetReadableConversation(ctx, owner, publicID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessagesByConversation(ctx, conversation.ID)
}

// Delete removes an owned conversation together with its messages and votes.
func (s *Service) Delete(ctx context.Context, owner domain.Owner, publicID string) error {
	conversation, err := s.GetOwnedConversation(ctx, owner, publicID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteConversation(ctx, conversation.ID); err != nil {
		return err
	}
	s.logger.Info().Str("conversation_id", publicID).Msg("conversation deleted")
	return nil
}

// UpdateVisibility switches an owned conversation between private and public.
func (s *Service) UpdateVisibility(ctx context.Context, owner domain.Owner, publicID string, visibility Visibility) error {
	conversation, err := s.GetOwnedConversation(ctx, owner, publicID)
	if err != nil {
		return err
	}
	return s.repo.UpdateConversationVisibility(ctx, conversation.ID, visibility)
}

// TruncateFrom deletes the named message and everything after it in the
// conversation, votes first. The anchor message is deleted with the rest,
// so repeating the call with the same anchor reports NOT_FOUND and leaves
// the surviving history untouched.
func (s *Service) TruncateFrom(ctx context.Context, owner domain.Owner, publicID, messagePublicID string) error {
	conversation, err := s.GetOwnedConversation(ctx, owner, publicID)
	if err != nil {
		return err
	}
	message, err := s.repo.FindMessageByPublicID(ctx, conversation.ID, messagePublicID)
	if err != nil {
		return err
	}
	return s.repo.DeleteMessagesFrom(ctx, conversation.ID, message.CreatedAt)
}

// Vote records up or down feedback on a message, replacing any prior vote
// for the same message.
func (s *Service) Vote(ctx context.Context, owner domain.Owner, publicID, messagePublicID string, upvoted bool) error {
	conversation, err := s.GetOwnedConversation(ctx, owner, publicID)
	if err != nil {
		return err
	}
	message, err := s.repo.FindMessageByPublicID(ctx, conversation.ID, messagePublicID)
	if err != nil {
		return err
	}
	vote := &Vote{
		ConversationID: conversation.ID,
		MessageID:      message.ID,
		MessagePublic:  message.PublicID,
		Upvoted:        upvoted,
	}
	return s.repo.UpsertVote(ctx, vote)
}

// Votes lists the votes of a readable conversation.
func (s *Service) Votes(ctx context.Context, owner domain.Owner, publicID string) ([]Vote, error) {
	conversation, err := s.GetReadableConversation(ctx, owner, publicID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListVotesByConversation(ctx, conversation.ID)
}

package ownership

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// Transferrer reassigns every resource of one owner to another inside a
// single transaction.
type Transferrer interface {
	Transfer(ctx context.Context, from, to domain.Owner) error
}

// Service moves a guest session's conversations, documents, and suggestions
// to a registered user, typically right after sign-in.
type Service struct {
	transferrer Transferrer
	logger      zerolog.Logger
}

// NewService constructs an ownership service.
func NewService(transferrer Transferrer, logger zerolog.Logger) *Service {
	return &Service{transferrer: transferrer, logger: logger}
}

// Transfer reassigns all resources from a guest owner to a registered owner.
// Either every resource moves or none do.
func (s *Service) Transfer(ctx context.Context, from, to domain.Owner) error {
	if err := from.Validate(); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid source owner", err)
	}
	if err := to.Validate(); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid destination owner", err)
	}
	if !from.IsGuest() || to.IsGuest() {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"transfer must move resources from a guest to a registered owner", nil)
	}

	if err := s.transferrer.Transfer(ctx, from, to); err != nil {
		return err
	}

	s.logger.Info().
		Str("from_id", from.ID).
		Str("to_id", to.ID).
		Msg("ownership transferred")
	return nil
}

package entitlement

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

// UsageCounter reports how many user messages an owner produced after a
// given instant. The chat repository satisfies this.
type UsageCounter interface {
	CountOwnerUserMessagesSince(ctx context.Context, owner domain.Owner, since time.Time) (int64, error)
}

// Quotas holds the per-population message allowances for one sliding window.
type Quotas struct {
	GuestMessages      int
	RegisteredMessages int
	Window             time.Duration
}

// Service gates new conversation turns on the owner's trailing-window
// message count.
type Service struct {
	counter UsageCounter
	quotas  Quotas
	logger  zerolog.Logger
	now     func() time.Time
}

// NewService constructs an entitlement service.
func NewService(counter UsageCounter, quotas Quotas, logger zerolog.Logger) *Service {
	return &Service{counter: counter, quotas: quotas, logger: logger, now: time.Now}
}

// Check returns a QUOTA_EXCEEDED error when the owner has already used up
// their allowance for the trailing window. The message about to be sent is
// not counted; an owner exactly at the limit is rejected.
func (s *Service) Check(ctx context.Context, owner domain.Owner) error {
	quota := s.quotas.RegisteredMessages
	if owner.IsGuest() {
		quota = s.quotas.GuestMessages
	}

	since := s.now().Add(-s.quotas.Window)
	count, err := s.counter.CountOwnerUserMessagesSince(ctx, owner, since)
	if err != nil {
		return err
	}

	if count >= int64(quota) {
		s.logger.Warn().
			Str("owner_kind", string(owner.Kind)).
			Str("owner_id", owner.ID).
			Int64("count", count).
			Int("quota", quota).
			Msg("message quota exceeded")
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeQuotaExceeded,
			"message quota exceeded for the current window", nil, map[string]any{
				"quota":  quota,
				"window": s.quotas.Window.String(),
			})
	}
	return nil
}

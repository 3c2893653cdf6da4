package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/ownership"
	"github.com/seoan1210/seoan-server/internal/infrastructure/auth"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/middlewares"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/requests"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/responses"
)

// GuestTokenVerifier checks the guest-session token presented as transfer
// evidence. auth.Validator satisfies it.
type GuestTokenVerifier interface {
	Validate(ctx context.Context, rawToken string) (*auth.PrincipalClaims, error)
}

// OwnershipHandler moves a guest session's resources to the registered
// user that signed in from it.
type OwnershipHandler struct {
	service   *ownership.Service
	verifier  GuestTokenVerifier
	guestRole string
	log       zerolog.Logger
}

// NewOwnershipHandler constructs the handler.
func NewOwnershipHandler(service *ownership.Service, verifier GuestTokenVerifier, guestRole string, log zerolog.Logger) *OwnershipHandler {
	return &OwnershipHandler{
		service:   service,
		verifier:  verifier,
		guestRole: guestRole,
		log:       log.With().Str("handler", "ownership").Logger(),
	}
}

// Transfer handles POST /v1/ownership/transfer. The caller must be a
// registered user and must present the guest session's own token; the
// guest's conversations, documents, and suggestions are reassigned to the
// caller. Without the token any registered user could claim an arbitrary
// guest's data, so possession of the guest session is proven first.
func (h *OwnershipHandler) Transfer(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
		return
	}
	if principal.Guest {
		responses.HandleErrorWithStatus(c, http.StatusForbidden, errors.New("guests cannot receive ownership"), "forbidden")
		return
	}

	var req requests.TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	claims, err := h.verifier.Validate(c.Request.Context(), req.GuestToken)
	if err != nil {
		h.log.Warn().Err(err).Msg("transfer rejected, guest token invalid")
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "invalid guest token")
		return
	}
	if !hasRole(claims.Roles, h.guestRole) {
		responses.HandleErrorWithStatus(c, http.StatusForbidden, errors.New("token does not belong to a guest session"), "forbidden")
		return
	}

	from := domain.GuestOwner(claims.Subject)
	to := domain.RegisteredOwner(principal.ID)
	if err := h.service.Transfer(c.Request.Context(), from, to); err != nil {
		responses.HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": claims.Subject, "to": principal.ID, "transferred": true})
}

func hasRole(roles []string, want string) bool {
	for _, role := range roles {
		if role == want {
			return true
		}
	}
	return false
}

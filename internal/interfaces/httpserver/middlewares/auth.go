package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seoan1210/seoan-server/internal/domain"
	authvalidator "github.com/seoan1210/seoan-server/internal/infrastructure/auth"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/responses"
)

const principalContextKey = "principal"

// AuthMiddleware validates JWT bearer tokens and stores the resulting
// principal in the gin context. Tokens carrying the guest role map onto the
// guest owner population, everything else onto registered users.
func AuthMiddleware(validator *authvalidator.Validator, guestRole string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
			return
		}

		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			logger.Error().Err(err).Msg("jwt validation failed")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}

		principal := domain.Principal{
			ID:         claims.Subject,
			AuthMethod: domain.AuthMethodJWT,
			Subject:    claims.Subject,
			Issuer:     claims.Issuer,
			Username:   claims.PreferredUsername,
			Email:      claims.Email,
			Name:       claims.Name,
			Roles:      claims.Roles,
		}
		for _, role := range claims.Roles {
			if role == guestRole {
				principal.Guest = true
				break
			}
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

// OwnerFromContext derives the resource owner of the authenticated principal.
func OwnerFromContext(c *gin.Context) (domain.Owner, bool) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return domain.Owner{}, false
	}
	return domain.OwnerOf(principal), true
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_id", principal.ID)
	if len(principal.Roles) > 0 {
		c.Set("realm_roles", principal.Roles)
	}
	if principal.ID != "" {
		c.Writer.Header().Set("X-Principal-Id", principal.ID)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// PrincipalClaims represent the subset of JWT claims the server cares about.
type PrincipalClaims struct {
	Subject           string
	Issuer            string
	Audience          []string
	PreferredUsername string
	Email             string
	Name              string
	Roles             []string
	ExpiresAt         time.Time
	IssuedAt          time.Time
}

// Validator validates JWT tokens against a JWKS endpoint.
type Validator struct {
	issuer       string
	audience     string
	jwksURL      string
	logger       zerolog.Logger
	refreshEvery time.Duration
	jwks         atomic.Pointer[keyfunc.JWKS]
}

// NewValidator initialises JWKS fetching and returns a validator.
func NewValidator(ctx context.Context, jwksURL, issuer, audience string, refreshEvery time.Duration, logger zerolog.Logger) (*Validator, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url is required")
	}

	v := &Validator{
		issuer:       issuer,
		audience:     audience,
		jwksURL:      jwksURL,
		logger:       logger,
		refreshEvery: refreshEvery,
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refreshEvery,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Error().Err(err).Msg("jwks refresh failed")
		},
	}

	jwks, err := keyfunc.Get(jwksURL, options)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	v.jwks.Store(jwks)

	return v, nil
}

// Validate parses and validates the given JWT returning principal claims.
func (v *Validator) Validate(_ context.Context, rawToken string) (*PrincipalClaims, error) {
	jwks := v.jwks.Load()
	if jwks == nil {
		return nil, errors.New("jwks not initialised")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	token, err := parser.ParseWithClaims(rawToken, jwt.MapClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	iss, _ := mapClaims["iss"].(string)
	if iss != v.issuer {
		return nil, fmt.Errorf("issuer mismatch %s", iss)
	}

	audiences, err := v.checkAudience(mapClaims["aud"])
	if err != nil {
		return nil, err
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return nil, errors.New("sub claim missing")
	}

	expires := jwtNumericTime(mapClaims["exp"])
	if !expires.IsZero() && time.Now().UTC().After(expires) {
		return nil, errors.New("token expired")
	}

	var roles []string
	if realmAccess, ok := mapClaims["realm_access"].(map[string]any); ok {
		if rawRoles, ok := realmAccess["roles"].([]interface{}); ok {
			for _, role := range rawRoles {
				if s, ok := role.(string); ok {
					roles = append(roles, s)
				}
			}
		}
	}

	username, _ := mapClaims["preferred_username"].(string)
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)

	return &PrincipalClaims{
		Subject:           sub,
		Issuer:            iss,
		Audience:          audiences,
		PreferredUsername: username,
		Email:             email,
		Name:              name,
		Roles:             roles,
		ExpiresAt:         expires,
		IssuedAt:          jwtNumericTime(mapClaims["iat"]),
	}, nil
}

func (v *Validator) checkAudience(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	switch val := raw.(type) {
	case string:
		if val != v.audience {
			return nil, errors.New("audience mismatch")
		}
		return []string{val}, nil
	case []interface{}:
		var audiences []string
		found := false
		for _, item := range val {
			if s, ok := item.(string); ok {
				if s == v.audience {
					found = true
				}
				audiences = append(audiences, s)
			}
		}
		if !found {
			return nil, errors.New("audience mismatch")
		}
		return audiences, nil
	default:
		return nil, fmt.Errorf("aud claim unsupported type %T", val)
	}
}

// Ready indicates whether JWKS has been successfully loaded.
func (v *Validator) Ready() bool {
	return v.jwks.Load() != nil
}

func jwtNumericTime(value any) time.Time {
	switch timeValue := value.(type) {
	case float64:
		return time.Unix(int64(timeValue), 0).UTC()
	case int64:
		return time.Unix(timeValue, 0).UTC()
	case json.Number:
		if unixTime, err := timeValue.Int64(); err == nil {
			return time.Unix(unixTime, 0).UTC()
		}
	}
	return time.Time{}
}

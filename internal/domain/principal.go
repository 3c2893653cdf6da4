package domain

import "errors"

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT AuthMethod = "jwt"
)

// Principal captures normalized caller identity independent of auth mechanism.
type Principal struct {
	ID         string
	AuthMethod AuthMethod
	Subject    string
	Issuer     string
	Username   string
	Email      string
	Name       string
	Roles      []string
	Guest      bool
}

// HasRole checks if the principal possesses a role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// OwnerKind discriminates the two resource owner populations.
type OwnerKind string

const (
	OwnerKindGuest      OwnerKind = "guest"
	OwnerKindRegistered OwnerKind = "registered"
)

// Owner is a tagged union identifying who owns a resource. Exactly one
// population applies to a given owner; Kind selects it and ID carries the
// population scoped identifier.
type Owner struct {
	Kind OwnerKind
	ID   string
}

// GuestOwner constructs an Owner for a guest session.
func GuestOwner(id string) Owner {
	return Owner{Kind: OwnerKindGuest, ID: id}
}

// RegisteredOwner constructs an Owner for a registered user.
func RegisteredOwner(id string) Owner {
	return Owner{Kind: OwnerKindRegistered, ID: id}
}

// ErrInvalidOwner is returned when an owner value has an unknown kind or an
// empty identifier.
var ErrInvalidOwner = errors.New("invalid owner")

// Validate ensures the owner names a known population and a non empty ID.
func (o Owner) Validate() error {
	if o.ID == "" {
		return ErrInvalidOwner
	}
	switch o.Kind {
	case OwnerKindGuest, OwnerKindRegistered:
		return nil
	default:
		return ErrInvalidOwner
	}
}

// IsGuest reports whether the owner belongs to the guest population.
func (o Owner) IsGuest() bool {
	return o.Kind == OwnerKindGuest
}

// Equal reports whether two owners identify the same principal.
func (o Owner) Equal(other Owner) bool {
	return o.Kind == other.Kind && o.ID == other.ID
}

// OwnerOf derives the resource owner for a principal.
func OwnerOf(p Principal) Owner {
	if p.Guest {
		return GuestOwner(p.ID)
	}
	return RegisteredOwner(p.ID)
}

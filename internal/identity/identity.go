package identity

import (
	"errors"
	"fmt"
)

// Role is the closed set of roles the service recognizes. Tokens carrying
// anything else are rejected at the boundary instead of silently downgraded.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SentinelOwner is recorded as ownerId when a song is created without an
// authenticated caller (anonymous create is allowed by the API contract).
const SentinelOwner = "system"

var (
	ErrUnknownRole = errors.New("unrecognized role")
	ErrForbidden   = errors.New("forbidden")
)

// Identity is the authenticated caller, derived per-request from a verified
// token. It is never persisted or cached.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// ParseRole validates a raw role claim against the closed enumeration.
// An empty claim defaults to RoleUser.
func ParseRole(raw string) (Role, error) {
	switch raw {
	case "":
		return RoleUser, nil
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

// FromClaims maps verified provider claims to an Identity. The provider puts
// the role under public_metadata.role; a top-level "role" claim is accepted
// as a fallback for test tokens.
func FromClaims(claims map[string]interface{}) (*Identity, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	var rawRole string
	if meta, ok := claims["public_metadata"].(map[string]interface{}); ok {
		rawRole, _ = meta["role"].(string)
	}
	if rawRole == "" {
		rawRole, _ = claims["role"].(string)
	}
	role, err := ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	return &Identity{UserID: sub, Email: email, Name: name, Role: role}, nil
}

// Authorize passes when the identity holds one of the allowed roles.
func Authorize(id *Identity, allowed ...Role) error {
	if id == nil {
		return ErrForbidden
	}
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// AuthorizeOwnerOrAdmin passes for admins unconditionally, otherwise only
// when the identity owns the resource.
func AuthorizeOwnerOrAdmin(id *Identity, ownerID string) error {
	if id == nil {
		return ErrForbidden
	}
	if id.Role == RoleAdmin {
		return nil
	}
	if id.UserID != "" && id.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}

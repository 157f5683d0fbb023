package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	require.Equal(t, RoleUser, r)

	r, err = ParseRole("admin")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownRole))
}

func TestFromClaims(t *testing.T) {
	id, err := FromClaims(map[string]interface{}{
		"sub":   "user-1",
		"email": "u@example.com",
		"public_metadata": map[string]interface{}{
			"role": "admin",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "user-1", id.UserID)
	require.Equal(t, "u@example.com", id.Email)
	require.Equal(t, RoleAdmin, id.Role)

	// role omitted defaults to user
	id, err = FromClaims(map[string]interface{}{"sub": "user-2"})
	require.NoError(t, err)
	require.Equal(t, RoleUser, id.Role)

	// top-level role fallback
	id, err = FromClaims(map[string]interface{}{"sub": "user-3", "role": "user"})
	require.NoError(t, err)
	require.Equal(t, RoleUser, id.Role)

	// missing subject
	_, err = FromClaims(map[string]interface{}{"email": "x@example.com"})
	require.Error(t, err)

	// unknown role is rejected, not defaulted
	_, err = FromClaims(map[string]interface{}{"sub": "user-4", "role": "root"})
	require.True(t, errors.Is(err, ErrUnknownRole))
}

func TestAuthorize(t *testing.T) {
	admin := &Identity{UserID: "a", Role: RoleAdmin}
	user := &Identity{UserID: "u", Role: RoleUser}

	require.NoError(t, Authorize(admin, RoleAdmin))
	require.NoError(t, Authorize(user, RoleUser, RoleAdmin))
	require.ErrorIs(t, Authorize(user, RoleAdmin), ErrForbidden)
	require.ErrorIs(t, Authorize(nil, RoleAdmin), ErrForbidden)
}

func TestAuthorizeOwnerOrAdmin(t *testing.T) {
	admin := &Identity{UserID: "a", Role: RoleAdmin}
	owner := &Identity{UserID: "u", Role: RoleUser}
	other := &Identity{UserID: "v", Role: RoleUser}

	require.NoError(t, AuthorizeOwnerOrAdmin(admin, "anything"))
	require.NoError(t, AuthorizeOwnerOrAdmin(owner, "u"))
	require.ErrorIs(t, AuthorizeOwnerOrAdmin(other, "u"), ErrForbidden)
	require.ErrorIs(t, AuthorizeOwnerOrAdmin(nil, "u"), ErrForbidden)
}

package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClaims(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		authCtx, err := FromClaims(jwt.MapClaims{
			"sub":    "alice",
			"roles":  []interface{}{"editor"},
			"groups": []interface{}{"managers_g", "staff_g"},
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", authCtx.UserID)
		assert.Equal(t, []string{"editor"}, authCtx.Roles)
		assert.Equal(t, []string{"managers_g", "staff_g"}, authCtx.GroupIDs)
		assert.True(t, authCtx.Authenticated())
	})

	t.Run("MissingSubject", func(t *testing.T) {
		_, err := FromClaims(jwt.MapClaims{"roles": []interface{}{"admin"}})
		assert.Error(t, err)
	})

	t.Run("OptionalClaimsAbsent", func(t *testing.T) {
		authCtx, err := FromClaims(jwt.MapClaims{"sub": "bob"})
		require.NoError(t, err)
		assert.Empty(t, authCtx.Roles)
		assert.Empty(t, authCtx.GroupIDs)
	})
}

func TestParseToken(t *testing.T) {
	secret := "test-secret"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "alice",
		"roles":  []string{"editor"},
		"groups": []string{"managers_g"},
	})
	tokenStr, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		authCtx, err := ParseToken(tokenStr, secret)
		require.NoError(t, err)
		assert.Equal(t, "alice", authCtx.UserID)
		assert.Equal(t, []string{"editor"}, authCtx.Roles)
		assert.Equal(t, []string{"managers_g"}, authCtx.GroupIDs)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := ParseToken(tokenStr, "other-secret")
		assert.Error(t, err)
	})
}

func TestAuthContext_HasRole(t *testing.T) {
	authCtx := AuthContext{UserID: "alice", Roles: []string{"editor", "viewer"}}
	assert.True(t, authCtx.HasRole("editor"))
	assert.False(t, authCtx.HasRole("admin"))
	assert.False(t, AuthContext{}.Authenticated())
}

package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AuthContext carries the authenticated principal's identity into resolver
// calls. Resolution is a pure function of the context plus the identity
// graph; there is no ambient "current request" state.
type AuthContext struct {
	UserID   string
	Roles    []string
	GroupIDs []string
}

// Authenticated reports whether the context belongs to a logged-in user.
func (a AuthContext) Authenticated() bool {
	return a.UserID != ""
}

// HasRole reports whether the context carries the given role.
func (a AuthContext) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// FromClaims builds an AuthContext from JWT map claims. The subject claim
// is required; "roles" and "groups" are optional string lists.
func FromClaims(claims jwt.MapClaims) (AuthContext, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return AuthContext{}, fmt.Errorf("token has no subject claim")
	}
	return AuthContext{
		UserID:   sub,
		Roles:    stringsClaim(claims, "roles"),
		GroupIDs: stringsClaim(claims, "groups"),
	}, nil
}

// ParseToken verifies an HMAC-signed token string and extracts the
// AuthContext from its claims.
func ParseToken(tokenStr, secret string) (AuthContext, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return AuthContext{}, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthContext{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	return FromClaims(claims)
}

func stringsClaim(claims jwt.MapClaims, name string) []string {
	raw, ok := claims[name]
	if !ok {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

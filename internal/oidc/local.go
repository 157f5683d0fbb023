package oidc

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/addissongs/song-service/pkg/middleware"
)

// localToken exposes claims parsed from an HMAC-verified JWT.
type localToken struct {
	claims jwt.MapClaims
}

func (t *localToken) Claims(v interface{}) error {
	m, ok := v.(*map[string]interface{})
	if !ok {
		return errors.New("unsupported claims target")
	}
	*m = map[string]interface{}(t.claims)
	return nil
}

// LocalVerifier validates tokens against a shared signing key instead of
// running OIDC discovery. Some provider deployments hand the backend a
// verification key directly; it also serves dev and integration tests.
type LocalVerifier struct {
	key []byte
}

func NewLocalVerifier(key string) *LocalVerifier {
	return &LocalVerifier{key: []byte(key)}
}

// Verify parses and validates the raw token (signature + expiry) and returns
// its claims.
func (v *LocalVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &localToken{claims: claims}, nil
}

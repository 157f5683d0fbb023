package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/addissongs/song-service/pkg/middleware"
)

// Verifier checks bearer tokens against an OIDC provider discovered from its
// issuer URL. The underlying library caches the provider's signing keys.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier runs OIDC discovery for the issuer and prepares a token
// verifier bound to the given client ID (audience check).
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", issuer, err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// Verify checks signature, expiry and audience of the raw token.
// *oidc.IDToken satisfies middleware.Token directly.
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	tok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

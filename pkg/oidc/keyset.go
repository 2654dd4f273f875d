package oidc

import (
	"context"
	"crypto/rsa"

	jose "github.com/go-jose/go-jose/v4"
)

const (
	KeyUseSignature = "sig"
)

// KeySet provides the JSON Web Keys a token is verified against.
// Implementations decide whether the keys are fetched or already known.
type KeySet interface {
	Keys(ctx context.Context) ([]jose.JSONWebKey, error)
}

// FindRSAKeyByID returns the RSA public key with the exact key ID.
// Keys published for another use than signing are ignored
// (an empty use passes).
// A missing key results in a TokenInvalid error with reason unknown_key_id.
func FindRSAKeyByID(keyID string, keys ...jose.JSONWebKey) (*rsa.PublicKey, error) {
	if keyID == "" {
		return nil, ErrTokenInvalid(ReasonUnknownKeyID).WithDescription("token header has no kid")
	}
	for _, k := range keys {
		if k.KeyID != keyID {
			continue
		}
		if k.Use != KeyUseSignature && k.Use != "" {
			continue
		}
		switch key := k.Key.(type) {
		case *rsa.PublicKey:
			return key, nil
		case *rsa.PrivateKey:
			return &key.PublicKey, nil
		}
	}
	return nil, ErrTokenInvalid(ReasonUnknownKeyID).WithDescription("no RSA signing key with kid %q", keyID)
}

// Package testutil helps setting up required data for testing,
// such as signing keys, tokens and a fake platform server.
package testutil

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"

	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const SignatureAlgorithm = jose.RS256

// KeySet implements oidc.KeySet and
// additionally can create tokens that can be verified with it.
type KeySet struct {
	KeyID   string
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey

	Signer jose.Signer
}

func NewKeySet(keyID string) *KeySet {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: SignatureAlgorithm, Key: &jose.JSONWebKey{Key: privateKey, KeyID: keyID}},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		panic(err)
	}
	return &KeySet{
		KeyID:   keyID,
		Private: privateKey,
		Public:  &privateKey.PublicKey,
		Signer:  signer,
	}
}

// JWKS returns the public part of the key set as published by the platform.
func (k *KeySet) JWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{{
			Key:       k.Public,
			KeyID:     k.KeyID,
			Algorithm: string(SignatureAlgorithm),
			Use:       oidc.KeyUseSignature,
		}},
	}
}

// Keys implements oidc.KeySet.
func (k *KeySet) Keys(ctx context.Context) ([]jose.JSONWebKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return k.JWKS().Keys, nil
}

// Sign serializes claims into a compact JWS.
func (k *KeySet) Sign(claims any) string {
	payload, err := json.Marshal(claims)
	if err != nil {
		panic(err)
	}
	object, err := k.Signer.Sign(payload)
	if err != nil {
		panic(err)
	}
	token, err := object.CompactSerialize()
	if err != nil {
		panic(err)
	}
	return token
}

// NewAccessToken creates access token claims with the passed data and returns them signed.
func (k *KeySet) NewAccessToken(subject string, audience []string, notBefore, expiration time.Time, scope string) (string, *oidc.AccessTokenClaims) {
	claims := &oidc.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ValidIssuer,
			Subject:   subject,
			Audience:  audience,
			ExpiresAt: jwt.NewNumericDate(expiration),
			NotBefore: jwt.NewNumericDate(notBefore),
			IssuedAt:  jwt.NewNumericDate(notBefore),
			ID:        ValidJWTID,
		},
		Scope: oidc.ParseScope(scope),
	}
	if len(audience) > 0 {
		claims.ClientID = audience[0]
	}
	return k.Sign(claims), claims
}

// These variables always result in a valid token
// for the same test run.
var (
	ValidIssuer     = "https://x/oidc"
	ValidSubject    = "6201a2f3b7b6e0c1f3b1a2c3"
	ValidAppID      = "app1"
	ValidAudience   = []string{ValidAppID}
	ValidNotBefore  = time.Now().Add(-time.Minute).Truncate(time.Second)
	ValidExpiration = ValidNotBefore.Add(time.Hour)
	ValidJWTID      = "9876"
	ValidScope      = "openid profile"
)

// ValidAccessToken returns a token and the claims in it.
// It uses the Valid* global variables and the token always passes
// verification within the same test run.
func (k *KeySet) ValidAccessToken() (string, *oidc.AccessTokenClaims) {
	return k.NewAccessToken(ValidSubject, ValidAudience, ValidNotBefore, ValidExpiration, ValidScope)
}

// ExpiredAccessToken returns a token that expired an hour ago.
func (k *KeySet) ExpiredAccessToken() string {
	token, _ := k.NewAccessToken(ValidSubject, ValidAudience, ValidNotBefore.Add(-2*time.Hour), ValidNotBefore.Add(-time.Hour), ValidScope)
	return token
}

const MalformedToken = "not.a.jwt"

package rs

import (
	"context"
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

var signingMethods = []string{jwt.SigningMethodRS256.Alg()}

// VerifyAccessToken checks a JWT without asking the server:
// the kid of the header must name an RSA signing key of keys,
// the RS256 signature must verify, the token must be within its validity period,
// and appID must be part of the audience.
//
// The header is parsed before keys are requested,
// so a malformed token or one without kid never causes a JWKS download.
func VerifyAccessToken(ctx context.Context, token, appID string, keys oidc.KeySet) (*oidc.AccessTokenClaims, error) {
	ctx, span := tracer.Start(ctx, "VerifyAccessToken")
	defer span.End()

	parser := jwt.NewParser(jwt.WithValidMethods(signingMethods), jwt.WithExpirationRequired())

	unverified, _, err := parser.ParseUnverified(token, new(oidc.AccessTokenClaims))
	if err != nil {
		return nil, oidc.ErrTokenInvalid(oidc.ReasonMalformed).WithParent(err)
	}
	keyID, _ := unverified.Header["kid"].(string)
	if keyID == "" {
		return nil, oidc.ErrTokenInvalid(oidc.ReasonUnknownKeyID).WithDescription("token header has no kid")
	}

	jwks, err := keys.Keys(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	key, err := oidc.FindRSAKeyByID(keyID, jwks...)
	if err != nil {
		return nil, err
	}

	claims := new(oidc.AccessTokenClaims)
	_, err = parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return nil, oidc.ErrTokenInvalid(reasonOf(err)).WithParent(err)
	}
	if !slices.Contains(claims.Audience, appID) {
		return nil, oidc.ErrTokenInvalid(oidc.ReasonWrongAudience).WithDescription("audience %v does not contain %q", []string(claims.Audience), appID)
	}
	return claims, nil
}

func reasonOf(err error) oidc.TokenInvalidReason {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return oidc.ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return oidc.ReasonBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return oidc.ReasonExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return oidc.ReasonNotYetValid
	default:
		return oidc.ReasonMalformed
	}
}

package oidc

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/oauth2"
)

const (
	CodeChallengeMethodPlain CodeChallengeMethod = "plain"
	CodeChallengeMethodS256  CodeChallengeMethod = "S256"

	// MinCodeVerifierLength is the shortest verifier RFC 7636 allows.
	MinCodeVerifierLength = 43
)

type CodeChallengeMethod string

func (m CodeChallengeMethod) Valid() bool {
	return m == CodeChallengeMethodPlain || m == CodeChallengeMethodS256
}

// CodeChallenge is a PKCE pair. It lives for one authorization flow
// and is discarded after the code exchange.
type CodeChallenge struct {
	Verifier  string
	Challenge string
	Method    CodeChallengeMethod
}

const lowerAlphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n characters drawn uniformly from [a-z0-9].
func RandomString(n int) (string, error) {
	if n < 0 {
		return "", ErrInvalidArgument().WithDescription("random string length %d is negative", n)
	}
	// 252 is the largest multiple of 36 below 256,
	// bytes above it are rejected to keep the distribution uniform.
	const limit = 252
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4+1)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("oidc: random source: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, lowerAlphanumeric[int(b)%len(lowerAlphanumeric)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// NewCodeVerifier generates a random lowercase alphanumeric verifier.
func NewCodeVerifier(length int) (string, error) {
	if length < MinCodeVerifierLength {
		return "", ErrInvalidArgument().WithDescription("code verifier must be at least %d characters, got %d", MinCodeVerifierLength, length)
	}
	return RandomString(length)
}

// NewSHACodeChallenge returns the unpadded base64url encoded SHA-256 of the verifier.
func NewSHACodeChallenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// DeriveCodeChallenge computes the challenge of verifier under method.
func DeriveCodeChallenge(verifier string, method CodeChallengeMethod) (string, error) {
	if len(verifier) < MinCodeVerifierLength {
		return "", ErrInvalidArgument().WithDescription("code verifier must be at least %d characters, got %d", MinCodeVerifierLength, len(verifier))
	}
	switch method {
	case CodeChallengeMethodS256:
		return NewSHACodeChallenge(verifier), nil
	case CodeChallengeMethodPlain:
		return verifier, nil
	default:
		return "", ErrInvalidArgument().WithDescription("unsupported code challenge method %q", method)
	}
}

// NewCodeChallenge generates a verifier of the given length and derives its challenge.
func NewCodeChallenge(length int, method CodeChallengeMethod) (*CodeChallenge, error) {
	verifier, err := NewCodeVerifier(length)
	if err != nil {
		return nil, err
	}
	challenge, err := DeriveCodeChallenge(verifier, method)
	if err != nil {
		return nil, err
	}
	return &CodeChallenge{
		Verifier:  verifier,
		Challenge: challenge,
		Method:    method,
	}, nil
}

// VerifyCodeChallenge reports whether codeVerifier belongs to c.
func VerifyCodeChallenge(c *CodeChallenge, codeVerifier string) bool {
	if c == nil {
		return false
	}
	if c.Method == CodeChallengeMethodS256 {
		codeVerifier = NewSHACodeChallenge(codeVerifier)
	}
	return codeVerifier == c.Challenge
}

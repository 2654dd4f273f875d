package oidc

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCodeChallenge(t *testing.T) {
	const rfcVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	tests := []struct {
		name     string
		verifier string
		method   CodeChallengeMethod
		want     string
		wantErr  error
	}{
		{
			name:     "S256 RFC 7636 appendix B",
			verifier: rfcVerifier,
			method:   CodeChallengeMethodS256,
			want:     "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		},
		{
			name:     "plain",
			verifier: rfcVerifier,
			method:   CodeChallengeMethodPlain,
			want:     rfcVerifier,
		},
		{
			name:     "verifier too short",
			verifier: strings.Repeat("a", 42),
			method:   CodeChallengeMethodS256,
			wantErr:  ErrKindInvalidArgument,
		},
		{
			name:     "unknown method",
			verifier: rfcVerifier,
			method:   "S512",
			wantErr:  ErrKindInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveCodeChallenge(tt.verifier, tt.method)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveCodeChallenge_roundTrip(t *testing.T) {
	for _, length := range []int{43, 64, 100, 128} {
		verifier, err := NewCodeVerifier(length)
		require.NoError(t, err)
		require.Len(t, verifier, length)

		sum := sha256.Sum256([]byte(verifier))
		want := strings.TrimRight(base64.URLEncoding.EncodeToString(sum[:]), "=")

		got, err := DeriveCodeChallenge(verifier, CodeChallengeMethodS256)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		plain, err := DeriveCodeChallenge(verifier, CodeChallengeMethodPlain)
		require.NoError(t, err)
		assert.Equal(t, verifier, plain)
	}
}

func TestNewCodeVerifier(t *testing.T) {
	_, err := NewCodeVerifier(42)
	assert.ErrorIs(t, err, ErrKindInvalidArgument)

	verifier, err := NewCodeVerifier(43)
	require.NoError(t, err)
	for _, r := range verifier {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'), "unexpected rune %q", r)
	}

	other, err := NewCodeVerifier(43)
	require.NoError(t, err)
	assert.NotEqual(t, verifier, other)
}

func TestNewCodeChallenge(t *testing.T) {
	c, err := NewCodeChallenge(MinCodeVerifierLength, CodeChallengeMethodS256)
	require.NoError(t, err)
	assert.Equal(t, CodeChallengeMethodS256, c.Method)
	assert.True(t, VerifyCodeChallenge(c, c.Verifier))
	assert.False(t, VerifyCodeChallenge(c, c.Verifier+"x"))
	assert.False(t, VerifyCodeChallenge(nil, c.Verifier))
}

func TestRandomString(t *testing.T) {
	for _, n := range []int{0, 1, DefaultRandomLength, 300} {
		got, err := RandomString(n)
		require.NoError(t, err)
		assert.Len(t, got, n)
		assert.Empty(t, strings.Trim(got, lowerAlphanumeric))
	}
	_, err := RandomString(-1)
	assert.ErrorIs(t, err, ErrKindInvalidArgument)
}

package authentication

import (
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

var randomValue = regexp.MustCompile(`^[a-z0-9]{10}$`)

func newComposer(t *testing.T, protocol oidc.Protocol) *Client {
	t.Helper()
	c, err := NewClient(Config{
		AppID:       "app1",
		Host:        "https://x",
		Protocol:    protocol,
		RedirectURI: "https://cb",
	})
	require.NoError(t, err)
	return c
}

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestBuildAuthorizeURL_OIDCDefaults(t *testing.T) {
	got, err := newComposer(t, oidc.ProtocolOIDC).BuildAuthorizeURL()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "https://x/oidc/auth?"), got)
	assert.Contains(t, got, "client_id=app1")
	assert.Contains(t, got, "redirect_uri=https%3A%2F%2Fcb")
	assert.Contains(t, got, "response_type=code")
	assert.Contains(t, got, "scope=openid+profile+email+phone+address")

	query := parseQuery(t, got)
	assert.Regexp(t, randomValue, query.Get("state"))
	assert.Regexp(t, randomValue, query.Get("nonce"))
	assert.False(t, query.Has("prompt"))
	assert.False(t, query.Has("code_challenge"))
	assert.False(t, query.Has("response_mode"))
}

func TestBuildAuthorizeURL_offlineAccess(t *testing.T) {
	tests := []struct {
		name       string
		scopes     []string
		wantPrompt string
	}{
		{"openid offline_access", []string{"openid", "offline_access"}, "consent"},
		{"offline_access last", []string{"openid", "profile", "offline_access"}, "consent"},
		{"offline_access only", []string{"offline_access"}, "consent"},
		{"without offline_access", []string{"openid", "profile"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newComposer(t, oidc.ProtocolOIDC).BuildAuthorizeURL(WithScope(tt.scopes...))
			require.NoError(t, err)
			query := parseQuery(t, got)
			assert.Equal(t, tt.wantPrompt, query.Get("prompt"))
			assert.Equal(t, strings.Join(tt.scopes, " "), query.Get("scope"))
		})
	}
}

func TestBuildAuthorizeURL_callerValuesWin(t *testing.T) {
	got, err := newComposer(t, oidc.ProtocolOIDC).BuildAuthorizeURL(
		WithState("my-state"),
		WithNonce("my-nonce"),
		WithRedirectURI("https://other"),
		WithResponseType(oidc.ResponseTypeCodeIDToken),
		WithResponseMode(oidc.ResponseModeFormPost),
	)
	require.NoError(t, err)
	assert.Contains(t, got, "state=my-state")

	query := parseQuery(t, got)
	assert.Equal(t, "my-state", query.Get("state"))
	assert.Equal(t, "my-nonce", query.Get("nonce"))
	assert.Equal(t, "https://other", query.Get("redirect_uri"))
	assert.Equal(t, "code id_token", query.Get("response_type"))
	assert.Equal(t, "form_post", query.Get("response_mode"))
}

func TestBuildAuthorizeURL_randomState(t *testing.T) {
	c := newComposer(t, oidc.ProtocolOIDC)
	first, err := c.BuildAuthorizeURL()
	require.NoError(t, err)
	second, err := c.BuildAuthorizeURL()
	require.NoError(t, err)
	assert.NotEqual(t, parseQuery(t, first).Get("state"), parseQuery(t, second).Get("state"))
}

func TestBuildAuthorizeURL_PKCE(t *testing.T) {
	got, err := newComposer(t, oidc.ProtocolOIDC).BuildAuthorizeURL(WithCodeChallenge("E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", ""))
	require.NoError(t, err)
	query := parseQuery(t, got)
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", query.Get("code_challenge"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))

	_, err = newComposer(t, oidc.ProtocolOIDC).BuildAuthorizeURL(WithCodeChallenge("abc", "S512"))
	assert.ErrorIs(t, err, oidc.ErrKindInvalidArgument)
}

func TestBuildAuthorizeURL_OAuth(t *testing.T) {
	c := newComposer(t, oidc.ProtocolOAuth)
	got, err := c.BuildAuthorizeURL(WithCodeChallenge("abc", oidc.CodeChallengeMethodS256), WithNonce("n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://x/oauth/auth?"), got)

	query := parseQuery(t, got)
	assert.Equal(t, "user", query.Get("scope"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Regexp(t, randomValue, query.Get("state"))
	assert.False(t, query.Has("nonce"))
	assert.False(t, query.Has("code_challenge"))
	assert.False(t, query.Has("code_challenge_method"))

	got, err = c.BuildAuthorizeURL(WithResponseType(oidc.ResponseTypeToken))
	require.NoError(t, err)
	assert.Equal(t, "token", parseQuery(t, got).Get("response_type"))

	_, err = c.BuildAuthorizeURL(WithResponseType(oidc.ResponseTypeIDTokenOnly))
	assert.ErrorIs(t, err, oidc.ErrKindInvalidArgument)
}

func TestBuildAuthorizeURL_invalid(t *testing.T) {
	tests := []struct {
		name string
		opts []AuthURLOpt
	}{
		{"response type", []AuthURLOpt{WithResponseType("password")}},
		{"response mode", []AuthURLOpt{WithResponseMode("web_message")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newComposer(t, oidc.ProtocolOIDC).BuildAuthorizeURL(tt.opts...)
			assert.ErrorIs(t, err, oidc.ErrKindInvalidArgument)
		})
	}
}

func TestBuildAuthorizeURL_SAMLAndCAS(t *testing.T) {
	got, err := newComposer(t, oidc.ProtocolSAML).BuildAuthorizeURL(WithState("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "https://x/api/v2/saml-idp/app1", got)

	got, err = newComposer(t, oidc.ProtocolCAS).BuildAuthorizeURL(WithService("https://svc"))
	require.NoError(t, err)
	assert.Equal(t, "https://x/cas-idp/app1?service=https://svc", got)

	got, err = newComposer(t, oidc.ProtocolCAS).BuildAuthorizeURL()
	require.NoError(t, err)
	assert.Equal(t, "https://x/cas-idp/app1?service=", got)
}

func TestBuildLogoutURL(t *testing.T) {
	tests := []struct {
		name     string
		protocol oidc.Protocol
		opts     []LogoutURLOpt
		want     string
		wantErr  error
	}{
		{
			name:     "oidc neither",
			protocol: oidc.ProtocolOIDC,
			want:     "https://x/oidc/session/end",
		},
		{
			name:     "oidc both",
			protocol: oidc.ProtocolOIDC,
			opts:     []LogoutURLOpt{WithIDTokenHint("idt"), WithLogoutRedirectURI("https://r")},
			want:     "https://x/oidc/session/end?id_token_hint=idt&post_logout_redirect_uri=https%3A%2F%2Fr",
		},
		{
			name:     "oidc both with state",
			protocol: oidc.ProtocolOIDC,
			opts:     []LogoutURLOpt{WithIDTokenHint("idt"), WithLogoutRedirectURI("https://r"), WithLogoutState("s")},
			want:     "https://x/oidc/session/end?id_token_hint=idt&post_logout_redirect_uri=https%3A%2F%2Fr&state=s",
		},
		{
			name:     "oidc id token only",
			protocol: oidc.ProtocolOIDC,
			opts:     []LogoutURLOpt{WithIDTokenHint("idt")},
			wantErr:  oidc.ErrKindInvalidArgument,
		},
		{
			name:     "oidc redirect only",
			protocol: oidc.ProtocolOIDC,
			opts:     []LogoutURLOpt{WithLogoutRedirectURI("https://r")},
			wantErr:  oidc.ErrKindInvalidArgument,
		},
		{
			name:     "cas",
			protocol: oidc.ProtocolCAS,
			opts:     []LogoutURLOpt{WithLogoutRedirectURI("https://r")},
			want:     "https://x/cas-idp/logout?url=https%3A%2F%2Fr",
		},
		{
			name:     "oauth",
			protocol: oidc.ProtocolOAuth,
			opts:     []LogoutURLOpt{WithLogoutRedirectURI("https://r")},
			want:     "https://x/login/profile/logout?redirect_uri=https%3A%2F%2Fr",
		},
		{
			name:     "saml without redirect",
			protocol: oidc.ProtocolSAML,
			want:     "https://x/login/profile/logout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newComposer(t, tt.protocol).BuildLogoutURL(tt.opts...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildLogoutURL_configuredRedirect(t *testing.T) {
	c, err := NewClient(Config{
		AppID:             "app1",
		Host:              "https://x",
		Protocol:          oidc.ProtocolCAS,
		LogoutRedirectURI: "https://bye",
	})
	require.NoError(t, err)
	got, err := c.BuildLogoutURL()
	require.NoError(t, err)
	assert.Equal(t, "https://x/cas-idp/logout?url=https%3A%2F%2Fbye", got)
}

func TestGetCodeChallengeDigest(t *testing.T) {
	c := newComposer(t, oidc.ProtocolOIDC)
	got, err := c.GetCodeChallengeDigest("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk", oidc.CodeChallengeMethodS256)
	require.NoError(t, err)
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", got)

	verifier, err := c.GenerateCodeChallenge()
	require.NoError(t, err)
	assert.Len(t, verifier, oidc.MinCodeVerifierLength)

	_, err = c.GetCodeChallengeDigest("short", oidc.CodeChallengeMethodPlain)
	assert.ErrorIs(t, err, oidc.ErrKindInvalidArgument)
}

package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/authing/authing-go-sdk/v3/internal/testutil"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

type testCaller struct {
	host string
}

func (c testCaller) HttpClient() *http.Client { return httphelper.DefaultHTTPClient }
func (c testCaller) SDKHeaders() httphelper.SDKHeaders {
	return httphelper.SDKHeaders{AppID: "app1", Lang: language.English}
}
func (c testCaller) TokenEndpoint() string         { return c.host + "/oidc/token" }
func (c testCaller) IntrospectionEndpoint() string { return c.host + "/oidc/token/introspection" }
func (c testCaller) RevokeEndpoint() string        { return c.host + "/oidc/token/revocation" }
func (c testCaller) UserinfoEndpoint() string      { return c.host + "/oidc/me" }

func TestClientAuthentication(t *testing.T) {
	tests := []struct {
		name       string
		auth       ClientAuthentication
		wantBody   map[string]any
		wantHeader string
	}{
		{
			name: "client_secret_post",
			auth: ClientSecretPost{ClientID: "app1", ClientSecret: "s1"},
			wantBody: map[string]any{
				"token":         "t",
				"client_id":     "app1",
				"client_secret": "s1",
			},
		},
		{
			name: "client_secret_basic",
			auth: ClientSecretBasic{ClientID: "app1", ClientSecret: "s1"},
			wantBody: map[string]any{
				"token": "t",
			},
			wantHeader: "Basic YXBwMTpzMQ==",
		},
		{
			name: "none",
			auth: NoClientAuthentication{ClientID: "app1"},
			wantBody: map[string]any{
				"token":     "t",
				"client_id": "app1",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewServer(t)
			srv.Router.Post("/oidc/token/revocation", testutil.Status(http.StatusOK))

			err := CallRevokeEndpoint(context.Background(), &oidc.RevocationRequest{Token: "t"}, tt.auth.AuthFn(), testCaller{srv.URL})
			require.NoError(t, err)

			got := srv.Last()
			assert.Equal(t, tt.wantBody, got.Body)
			assert.Equal(t, tt.wantHeader, got.Header.Get("Authorization"))
		})
	}
}

func TestNewClientAuthentication(t *testing.T) {
	tests := []struct {
		name    string
		method  oidc.AuthMethod
		id      string
		secret  string
		want    ClientAuthentication
		wantErr error
	}{
		{"post", oidc.AuthMethodPost, "app1", "s1", ClientSecretPost{"app1", "s1"}, nil},
		{"basic", oidc.AuthMethodBasic, "app1", "s1", ClientSecretBasic{"app1", "s1"}, nil},
		{"none", oidc.AuthMethodNone, "app1", "", NoClientAuthentication{"app1"}, nil},
		{"none ignores secret", oidc.AuthMethodNone, "app1", "s1", NoClientAuthentication{"app1"}, nil},
		{"post without secret", oidc.AuthMethodPost, "app1", "", nil, oidc.ErrKindMissingSecret},
		{"basic without secret", oidc.AuthMethodBasic, "app1", "", nil, oidc.ErrKindMissingSecret},
		{"unknown", "private_key_jwt", "app1", "s1", nil, oidc.ErrKindInvalidArgument},
		{"no client id", oidc.AuthMethodPost, "", "s1", nil, oidc.ErrKindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClientAuthentication(tt.method, tt.id, tt.secret)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
			if got != nil {
				assert.Equal(t, tt.method, got.Method())
			}
		})
	}
}

func TestCallTokenEndpoint(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.Router.Post("/oidc/token", testutil.JSON(map[string]any{
		"access_token":  "at",
		"token_type":    "Bearer",
		"expires_in":    1209600,
		"id_token":      "idt",
		"refresh_token": "rt",
		"scope":         "openid offline_access",
	}))

	auth := ClientSecretPost{ClientID: "app1", ClientSecret: "s1"}
	tokens, err := CallTokenEndpoint(context.Background(), oidc.NewAccessTokenRequest("abc", "https://cb", ""), auth.AuthFn(), testCaller{srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "at", tokens.AccessToken)
	assert.Equal(t, "rt", tokens.RefreshToken)
	assert.Equal(t, "idt", tokens.IDToken)
	assert.True(t, tokens.Scope.Contains(oidc.ScopeOfflineAccess))
	assert.False(t, tokens.Expiry.IsZero())

	got := srv.Last()
	assert.Equal(t, map[string]any{
		"grant_type":    "authorization_code",
		"code":          "abc",
		"redirect_uri":  "https://cb",
		"client_id":     "app1",
		"client_secret": "s1",
	}, got.Body)
	assert.Equal(t, "app1", got.Header.Get(httphelper.HeaderAppID))
	assert.Equal(t, "en", got.Header.Get(httphelper.HeaderLang))
	assert.Equal(t, "sdk", got.Header.Get(httphelper.HeaderRequestFrom))
}

func TestCallTokenEndpoint_error(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.Router.Post("/oidc/token", func(w http.ResponseWriter, r *http.Request) {
		httphelper.MarshalJSONWithStatus(w, map[string]string{"error": "invalid_grant", "error_description": "code expired"}, http.StatusBadRequest)
	})

	_, err := CallTokenEndpoint(context.Background(), oidc.NewRefreshTokenRequest("rt"), nil, testCaller{srv.URL})
	assert.ErrorIs(t, err, &oidc.Error{Kind: oidc.APIError, Code: http.StatusBadRequest})
}

func TestCallIntrospectionEndpoint(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.Router.Post("/oidc/token/introspection", testutil.JSON(map[string]any{
		"active":    true,
		"sub":       "u1",
		"client_id": "app1",
		"scope":     "openid",
	}))

	resp, err := CallIntrospectionEndpoint(context.Background(), &oidc.IntrospectionRequest{Token: "at", TokenTypeHint: "access_token"}, nil, testCaller{srv.URL})
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Equal(t, "u1", resp.Subject)
	assert.Equal(t, "access_token", srv.Last().Body["token_type_hint"])
}

func TestCallRevokeEndpoint_status(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusOK, nil},
		{http.StatusNoContent, nil},
		{http.StatusBadRequest, oidc.ErrKindAPI},
		{http.StatusInternalServerError, oidc.ErrKindAPI},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := testutil.NewServer(t)
			srv.Router.Post("/oidc/token/revocation", testutil.Status(tt.status))
			err := CallRevokeEndpoint(context.Background(), &oidc.RevocationRequest{Token: "t"}, nil, testCaller{srv.URL})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCallUserinfoEndpoint(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.Router.Post("/oidc/me", testutil.JSON(map[string]any{"sub": "u1", "email": "a@b.c"}))

	info, err := CallUserinfoEndpoint(context.Background(), "at", testCaller{srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "u1", info.Subject)
	assert.Equal(t, "Bearer at", srv.Last().Header.Get("Authorization"))
}

func TestCallTextEndpoint(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.Router.Get("/cas-idp/app1/validate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("yes\nalice\n"))
	})

	body, err := CallTextEndpoint(context.Background(), srv.URL+"/cas-idp/app1/validate?ticket=t", testCaller{srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "yes\nalice\n", body)
	assert.Equal(t, []string{"t"}, srv.Last().Query["ticket"])
}

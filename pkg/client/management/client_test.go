package management

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tu "github.com/authing/authing-go-sdk/v3/internal/testutil"
	"github.com/authing/authing-go-sdk/v3/pkg/crypto"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const tokenPath = "/api/v3/get-management-token"

func newTestClient(t *testing.T, srv *tu.Server, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(Config{
		UserPoolID:  "pool1",
		Secret:      "poolsecret",
		Host:        srv.URL,
		EncryptType: crypto.EncryptionNone,
	}, opts...)
	require.NoError(t, err)
	return c
}

func managementServer(t *testing.T, expiresIn int) *tu.Server {
	srv := tu.NewServer(t)
	srv.Router.Post(tokenPath, tu.Envelope(map[string]any{"access_token": "mt", "expires_in": expiresIn}))
	srv.Router.Get("/api/v3/get-user", tu.Envelope(map[string]any{"userId": "u1", "email": "u1@example.com"}))
	return srv
}

func handshakes(srv *tu.Server) int {
	var n int
	for _, req := range srv.Requests() {
		if req.Path == tokenPath {
			n++
		}
	}
	return n
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"missing user pool", Config{Secret: "s"}, oidc.ErrKindInvalidArgument},
		{"missing secret", Config{UserPoolID: "pool1"}, oidc.ErrKindMissingSecret},
		{"encrypt type", Config{UserPoolID: "pool1", Secret: "s", EncryptType: "aes"}, oidc.ErrKindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	c, err := NewClient(Config{UserPoolID: "pool1", Secret: "s"})
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, c.Config().Host)
	assert.Equal(t, httphelper.DefaultTimeout, c.HttpClient().Timeout)
}

func TestClient_handshakeOnce(t *testing.T) {
	srv := managementServer(t, 7200)
	c := newTestClient(t, srv)
	ctx := context.Background()
	assert.Zero(t, srv.Count(), "no request before the first call")

	for i := 0; i < 3; i++ {
		user, err := c.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
	}
	assert.Equal(t, 1, handshakes(srv))
	assert.Equal(t, 4, srv.Count())

	requests := srv.Requests()
	assert.Equal(t, map[string]any{"userPoolId": "pool1", "secret": "poolsecret"}, requests[0].Body)
	assert.Empty(t, requests[0].Header.Get("Authorization"))
	assert.Equal(t, "pool1", requests[0].Header.Get(httphelper.HeaderUserPoolID))

	last := srv.Last()
	assert.Equal(t, "Bearer mt", last.Header.Get("Authorization"))
	assert.Equal(t, []string{"u1"}, last.Query["userId"])
	assert.Equal(t, "pool1", last.Header.Get(httphelper.HeaderUserPoolID))
}

func TestClient_refreshPolicy(t *testing.T) {
	tests := []struct {
		name           string
		policy         RefreshPolicy
		expiresIn      int
		advance        time.Duration
		wantHandshakes int
	}{
		{"never", RefreshNever, 60, 2 * time.Hour, 1},
		{"before expiry, fresh", RefreshBeforeExpiry(time.Minute), 3600, 30 * time.Minute, 1},
		{"before expiry, within skew", RefreshBeforeExpiry(time.Minute), 3600, 59*time.Minute + time.Second, 2},
		{"before expiry, expired", RefreshBeforeExpiry(time.Minute), 3600, 2 * time.Hour, 2},
		{"before expiry, unknown lifetime", RefreshBeforeExpiry(time.Minute), 0, 24 * time.Hour, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := managementServer(t, tt.expiresIn)
			c := newTestClient(t, srv, WithRefreshPolicy(tt.policy))
			now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			c.now = func() time.Time { return now }

			_, err := c.GetUser(context.Background(), "u1")
			require.NoError(t, err)
			now = now.Add(tt.advance)
			_, err = c.GetUser(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantHandshakes, handshakes(srv))
		})
	}
}

func TestClient_handshakeError(t *testing.T) {
	srv := tu.NewServer(t)
	srv.Router.Post(tokenPath, tu.EnvelopeError(2004, "invalid secret"))
	c := newTestClient(t, srv)

	_, err := c.GetUser(context.Background(), "u1")
	assert.ErrorIs(t, err, oidc.ErrAPI(2004, "invalid secret"))
	assert.Equal(t, 1, srv.Count(), "the api call is not attempted")

	_, err = c.GetUser(context.Background(), "u1")
	assert.ErrorIs(t, err, oidc.ErrKindAPI)
	assert.Equal(t, 2, handshakes(srv), "failed handshakes are not cached")
}

func TestClient_emptyToken(t *testing.T) {
	srv := tu.NewServer(t)
	srv.Router.Post(tokenPath, tu.Envelope(map[string]any{"expires_in": 7200}))
	c := newTestClient(t, srv)

	_, err := c.AccessToken(context.Background())
	assert.ErrorIs(t, err, oidc.ErrKindAPI)
}

func TestClient_SetAccessToken(t *testing.T) {
	srv := managementServer(t, 7200)
	c := newTestClient(t, srv)
	c.SetAccessToken("cached", time.Time{})

	_, err := c.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, handshakes(srv))
	assert.Equal(t, "Bearer cached", srv.Last().Header.Get("Authorization"))
}

func TestClient_apiError(t *testing.T) {
	srv := managementServer(t, 7200)
	srv.Router.Post("/api/v3/delete-users-batch", func(w http.ResponseWriter, r *http.Request) {
		httphelper.MarshalJSONWithStatus(w, httphelper.Envelope{Code: 403, Message: "forbidden"}, http.StatusForbidden)
	})
	c := newTestClient(t, srv)

	err := c.DeleteUsersBatch(context.Background(), []string{"u1"})
	assert.ErrorIs(t, err, oidc.ErrAPI(403, "forbidden"))
}

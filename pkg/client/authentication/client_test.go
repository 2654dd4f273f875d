package authentication

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zitadel/logging"
	"golang.org/x/text/language"

	"github.com/authing/authing-go-sdk/v3/pkg/client/rs"
	"github.com/authing/authing-go-sdk/v3/pkg/crypto"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

func TestNewClient_defaults(t *testing.T) {
	c, err := NewClient(Config{AppID: "app1"})
	require.NoError(t, err)

	config := c.Config()
	assert.Equal(t, DefaultHost, config.Host)
	assert.Equal(t, oidc.ProtocolOIDC, config.Protocol)
	assert.Equal(t, oidc.AuthMethodPost, config.TokenEndpointAuthMethod)
	assert.Equal(t, oidc.AuthMethodPost, config.IntrospectionEndpointAuthMethod)
	assert.Equal(t, oidc.AuthMethodPost, config.RevocationEndpointAuthMethod)
	assert.Equal(t, crypto.EncryptionRSA, config.EncryptType)
	assert.Equal(t, language.MustParse("zh-CN"), config.Lang)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 10*time.Second, c.HttpClient().Timeout)
	assert.Equal(t, DefaultWebsocketHost, c.WebsocketEndpoint())
	assert.Empty(t, c.AccessToken())
	assert.False(t, c.IsPKCE())
}

func TestNewClient_endpoints(t *testing.T) {
	c, err := NewClient(Config{AppID: "app1", Host: "https://x/", Protocol: oidc.ProtocolOAuth, AccessToken: "seed"})
	require.NoError(t, err)

	assert.Equal(t, "https://x/oauth/token", c.TokenEndpoint())
	assert.Equal(t, "https://x/oauth/token/introspection", c.IntrospectionEndpoint())
	assert.Equal(t, "https://x/oauth/token/revocation", c.RevokeEndpoint())
	assert.Equal(t, "https://x/oauth/me", c.UserinfoEndpoint())
	assert.Equal(t, rs.NewRemoteKeySet(c.HttpClient(), "https://x"+rs.JWKSPath), c.KeySet())
	assert.Equal(t, "seed", c.AccessToken())
}

func TestNewClient_invalid(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"missing app id", Config{}, oidc.ErrKindInvalidArgument},
		{"protocol", Config{AppID: "app1", Protocol: "ldap"}, oidc.ErrKindInvalidArgument},
		{"auth method", Config{AppID: "app1", RevocationEndpointAuthMethod: "private_key_jwt"}, oidc.ErrKindInvalidArgument},
		{"encrypt type", Config{AppID: "app1", EncryptType: "aes"}, oidc.ErrKindInvalidArgument},
		{"public key", Config{AppID: "app1", PublicKey: []byte("not a key")}, oidc.ErrKindCrypto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Logger(t *testing.T) {
	own := slog.Default()
	c, err := NewClient(Config{AppID: "app1"}, WithLogger(own))
	require.NoError(t, err)

	logger, ok := c.Logger(context.Background())
	assert.True(t, ok)
	assert.Equal(t, own, logger)

	fromCtx := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger, ok = c.Logger(logging.ToContext(context.Background(), fromCtx))
	assert.True(t, ok)
	assert.Equal(t, fromCtx, logger)

	c, err = NewClient(Config{AppID: "app1"})
	require.NoError(t, err)
	_, ok = c.Logger(context.Background())
	assert.False(t, ok)
}

package authentication

import (
	"context"
	"net/http"
	"net/url"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/authing/authing-go-sdk/v3/pkg/client"
	"github.com/authing/authing-go-sdk/v3/pkg/client/rs"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

type codeExchangeParams struct {
	redirectURI  string
	codeVerifier string
}

type CodeExchangeOpt func(*codeExchangeParams)

// WithCodeVerifier sends the PKCE verifier of the authorize URL.
func WithCodeVerifier(codeVerifier string) CodeExchangeOpt {
	return func(p *codeExchangeParams) {
		p.codeVerifier = codeVerifier
	}
}

// WithCodeRedirectURI overrides the configured redirect URI,
// it must equal the one of the authorize URL.
func WithCodeRedirectURI(redirectURI string) CodeExchangeOpt {
	return func(p *codeExchangeParams) {
		p.redirectURI = redirectURI
	}
}

// GetAccessTokenByCode exchanges an authorization code for tokens.
// The session is left untouched, the tokens belong to the caller.
func (c *Client) GetAccessTokenByCode(ctx context.Context, code string, opts ...CodeExchangeOpt) (*oidc.Tokens, error) {
	ctx = c.logCtxWithClientData(ctx, "GetAccessTokenByCode")
	ctx, span := client.Tracer.Start(ctx, "GetAccessTokenByCode")
	defer span.End()

	auth, err := c.TokenAuth()
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("code must not be empty")
	}
	p := &codeExchangeParams{redirectURI: c.config.RedirectURI}
	for _, opt := range opts {
		opt(p)
	}
	return client.CallTokenEndpoint(ctx, oidc.NewAccessTokenRequest(code, p.redirectURI, p.codeVerifier), auth.AuthFn(), c)
}

// GetNewAccessTokenByRefreshToken uses refreshToken for a new token set.
// The new access token replaces the session token.
func (c *Client) GetNewAccessTokenByRefreshToken(ctx context.Context, refreshToken string) (*oidc.Tokens, error) {
	ctx = c.logCtxWithClientData(ctx, "GetNewAccessTokenByRefreshToken")
	ctx, span := client.Tracer.Start(ctx, "GetNewAccessTokenByRefreshToken")
	defer span.End()

	auth, err := c.TokenAuth()
	if err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("refresh token must not be empty")
	}
	tokens, err := client.CallTokenEndpoint(ctx, oidc.NewRefreshTokenRequest(refreshToken), auth.AuthFn(), c)
	if err != nil {
		return nil, err
	}
	c.session.SetAccessToken(tokens.AccessToken)
	return tokens, nil
}

type clientCredentialsParams struct {
	accessKey    string
	accessSecret string
}

type ClientCredentialsOpt func(*clientCredentialsParams)

// WithAccessKey authenticates with a programmatic access key
// instead of the app id and secret.
func WithAccessKey(accessKey, accessSecret string) ClientCredentialsOpt {
	return func(p *clientCredentialsParams) {
		p.accessKey = accessKey
		p.accessSecret = accessSecret
	}
}

// GetAccessTokenByClientCredentials requests a machine to machine token for scope.
func (c *Client) GetAccessTokenByClientCredentials(ctx context.Context, scope string, opts ...ClientCredentialsOpt) (*oidc.Tokens, error) {
	ctx = c.logCtxWithClientData(ctx, "GetAccessTokenByClientCredentials")
	ctx, span := client.Tracer.Start(ctx, "GetAccessTokenByClientCredentials")
	defer span.End()

	p := new(clientCredentialsParams)
	for _, opt := range opts {
		opt(p)
	}
	var (
		auth client.ClientAuthentication
		err  error
	)
	if p.accessKey == "" {
		auth, err = c.TokenAuth()
	} else if err = c.config.Protocol.CheckTokenEndpoint(); err == nil {
		auth, err = client.NewClientAuthentication(c.config.TokenEndpointAuthMethod, p.accessKey, p.accessSecret)
	}
	if err != nil {
		return nil, err
	}
	scopes := oidc.ParseScope(scope)
	if len(scopes) == 0 {
		return nil, oidc.ErrInvalidArgument().WithDescription("scope must not be empty")
	}
	return client.CallTokenEndpoint(ctx, oidc.NewClientCredentialsRequest(scopes), auth.AuthFn(), c)
}

// IntrospectToken asks the platform whether token is active.
func (c *Client) IntrospectToken(ctx context.Context, token string) (*oidc.IntrospectionResponse, error) {
	ctx = c.logCtxWithClientData(ctx, "IntrospectToken")
	return rs.Introspect(ctx, c, token)
}

// IntrospectTokenOffline verifies token locally.
// Without jwks the key set of the client is used,
// which downloads the JWKS unless WithKeySet was given.
func (c *Client) IntrospectTokenOffline(ctx context.Context, token string, jwks ...jose.JSONWebKey) (*oidc.AccessTokenClaims, error) {
	ctx = c.logCtxWithClientData(ctx, "IntrospectTokenOffline")
	if len(jwks) > 0 {
		return rs.VerifyAccessToken(ctx, token, c.config.AppID, rs.StaticKeySet(jwks))
	}
	return rs.IntrospectOffline(ctx, c, token)
}

// RevokeToken revokes an access or refresh token.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	ctx = c.logCtxWithClientData(ctx, "RevokeToken")
	return rs.Revoke(ctx, c, token, "")
}

// ValidateTokenParams names the token to validate, exactly one must be set.
type ValidateTokenParams struct {
	AccessToken string
	IDToken     string
}

// ValidateToken checks a token at the platform and returns its claims.
func (c *Client) ValidateToken(ctx context.Context, params ValidateTokenParams) (map[string]any, error) {
	ctx = c.logCtxWithClientData(ctx, "ValidateToken")
	ctx, span := client.Tracer.Start(ctx, "ValidateToken")
	defer span.End()

	query := url.Values{}
	switch {
	case params.AccessToken != "" && params.IDToken == "":
		query.Set("access_token", params.AccessToken)
	case params.IDToken != "" && params.AccessToken == "":
		query.Set("id_token", params.IDToken)
	default:
		return nil, oidc.ErrInvalidArgument().WithDescription("exactly one of access token and id token must be given")
	}
	claims := make(map[string]any)
	endpoint := httphelper.JoinURL(c.config.Host, "/api/v2/oidc/validate_token", query)
	if err := client.Do(ctx, c, http.MethodGet, endpoint, nil, nil, &claims); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return claims, nil
}

// GetUserInfoByAccessToken returns the claims of the owner of accessToken.
func (c *Client) GetUserInfoByAccessToken(ctx context.Context, accessToken string) (*oidc.UserInfo, error) {
	ctx = c.logCtxWithClientData(ctx, "GetUserInfoByAccessToken")
	if err := c.config.Protocol.CheckTokenEndpoint(); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("access token must not be empty")
	}
	return client.CallUserinfoEndpoint(ctx, accessToken, c)
}

package rs

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/authing/authing-go-sdk/v3/internal/otel"
	"github.com/authing/authing-go-sdk/v3/pkg/client"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

var tracer = otel.Tracer("client/rs")

// ResourceServer is everything token validation needs to know about an application.
// The authentication client implements it,
// NewResourceServer returns a standalone implementation.
type ResourceServer interface {
	client.IntrospectionCaller
	client.RevokeCaller
	AppID() string
	// KeySet returns the keys for offline introspection.
	KeySet() oidc.KeySet
	// IntrospectionAuth and RevocationAuth fail with UnsupportedProtocol
	// or MissingSecret when the endpoint cannot be called.
	IntrospectionAuth() (client.ClientAuthentication, error)
	RevocationAuth() (client.ClientAuthentication, error)
}

type resourceServer struct {
	host          string
	appID         string
	appSecret     string
	protocol      oidc.Protocol
	introspectURL string
	revokeURL     string
	jwksURL       string
	httpClient    *http.Client
	headers       httphelper.SDKHeaders
	keySet        oidc.KeySet

	introspectionMethod oidc.AuthMethod
	revocationMethod    oidc.AuthMethod
}

func (r *resourceServer) HttpClient() *http.Client {
	return r.httpClient
}

func (r *resourceServer) SDKHeaders() httphelper.SDKHeaders {
	return r.headers
}

func (r *resourceServer) IntrospectionEndpoint() string {
	return r.introspectURL
}

func (r *resourceServer) RevokeEndpoint() string {
	return r.revokeURL
}

func (r *resourceServer) AppID() string {
	return r.appID
}

func (r *resourceServer) KeySet() oidc.KeySet {
	if r.keySet != nil {
		return r.keySet
	}
	return NewRemoteKeySet(r.httpClient, r.jwksURL)
}

func (r *resourceServer) IntrospectionAuth() (client.ClientAuthentication, error) {
	if err := r.protocol.CheckTokenEndpoint(); err != nil {
		return nil, err
	}
	return client.NewClientAuthentication(r.introspectionMethod, r.appID, r.appSecret)
}

func (r *resourceServer) RevocationAuth() (client.ClientAuthentication, error) {
	if err := r.protocol.CheckTokenEndpoint(); err != nil {
		return nil, err
	}
	return client.NewClientAuthentication(r.revocationMethod, r.appID, r.appSecret)
}

// NewResourceServer creates a ResourceServer for the application appID on host.
// Without options it talks OIDC and authenticates with client_secret_post.
func NewResourceServer(host, appID, appSecret string, options ...Option) (ResourceServer, error) {
	if appID == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("app id must not be empty")
	}
	host = strings.TrimSuffix(host, "/")
	rs := &resourceServer{
		host:                host,
		appID:               appID,
		appSecret:           appSecret,
		protocol:            oidc.ProtocolOIDC,
		httpClient:          httphelper.DefaultHTTPClient,
		introspectionMethod: oidc.AuthMethodPost,
		revocationMethod:    oidc.AuthMethodPost,
	}
	for _, optFunc := range options {
		optFunc(rs)
	}
	if !rs.protocol.Valid() {
		return nil, oidc.ErrInvalidArgument().WithDescription("unknown protocol %q", rs.protocol)
	}
	prefix := rs.protocol.PathPrefix()
	if rs.introspectURL == "" {
		rs.introspectURL = host + prefix + "/token/introspection"
	}
	if rs.revokeURL == "" {
		rs.revokeURL = host + prefix + "/token/revocation"
	}
	if rs.jwksURL == "" {
		rs.jwksURL = host + JWKSPath
	}
	rs.headers.AppID = appID
	if rs.headers.Lang == language.Und {
		rs.headers.Lang = httphelper.DefaultLang
	}
	return rs, nil
}

type Option func(*resourceServer)

// WithClient provides the ability to set an http client to be used for the resource server
func WithClient(client *http.Client) Option {
	return func(server *resourceServer) {
		server.httpClient = client
	}
}

func WithProtocol(protocol oidc.Protocol) Option {
	return func(server *resourceServer) {
		server.protocol = protocol
	}
}

// WithAuthMethods sets the client authentication of the introspection and revocation endpoint.
func WithAuthMethods(introspection, revocation oidc.AuthMethod) Option {
	return func(server *resourceServer) {
		server.introspectionMethod = introspection
		server.revocationMethod = revocation
	}
}

// WithStaticEndpoints overrides the endpoints derived from the host.
// Empty values keep the default.
func WithStaticEndpoints(introspectURL, revokeURL, jwksURL string) Option {
	return func(server *resourceServer) {
		server.introspectURL = introspectURL
		server.revokeURL = revokeURL
		server.jwksURL = jwksURL
	}
}

// WithKeySet uses keys instead of downloading the JWKS for offline introspection.
func WithKeySet(keys oidc.KeySet) Option {
	return func(server *resourceServer) {
		server.keySet = keys
	}
}

// WithLang sets the `x-authing-lang` header of every call.
func WithLang(lang language.Tag) Option {
	return func(server *resourceServer) {
		server.headers.Lang = lang
	}
}

func WithSDKHeaders(headers httphelper.SDKHeaders) Option {
	return func(server *resourceServer) {
		server.headers = headers
	}
}

// Introspect asks the introspection endpoint about token.
// The token is valid only when the response is Active.
func Introspect(ctx context.Context, rp ResourceServer, token string) (*oidc.IntrospectionResponse, error) {
	ctx, span := tracer.Start(ctx, "Introspect")
	defer span.End()

	auth, err := rp.IntrospectionAuth()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("token must not be empty")
	}
	return client.CallIntrospectionEndpoint(ctx, &oidc.IntrospectionRequest{Token: token}, auth.AuthFn(), rp)
}

// Revoke revokes token. Success means the server answered with a 2xx status.
func Revoke(ctx context.Context, rp ResourceServer, token, tokenTypeHint string) error {
	ctx, span := tracer.Start(ctx, "Revoke")
	defer span.End()

	auth, err := rp.RevocationAuth()
	if err != nil {
		return err
	}
	if token == "" {
		return oidc.ErrInvalidArgument().WithDescription("token must not be empty")
	}
	return client.CallRevokeEndpoint(ctx, &oidc.RevocationRequest{Token: token, TokenTypeHint: tokenTypeHint}, auth.AuthFn(), rp)
}

// IntrospectOffline verifies token against the key set of rp,
// see VerifyAccessToken.
func IntrospectOffline(ctx context.Context, rp ResourceServer, token string) (*oidc.AccessTokenClaims, error) {
	return VerifyAccessToken(ctx, token, rp.AppID(), rp.KeySet())
}

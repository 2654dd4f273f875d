// Package authentication is the client for end-user facing applications:
// it builds protocol URLs, exchanges and validates tokens, signs users in
// and keeps the resulting access token as the session of the client.
//
// A Client is not safe for concurrent use when its session is mutated,
// use one client per goroutine or wrap the session with NewSyncSession.
package authentication

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zitadel/logging"
	"golang.org/x/text/language"

	"github.com/authing/authing-go-sdk/v3/pkg/client"
	"github.com/authing/authing-go-sdk/v3/pkg/client/rs"
	"github.com/authing/authing-go-sdk/v3/pkg/crypto"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const (
	DefaultHost          = "https://core.authing.cn"
	DefaultWebsocketHost = "wss://events.authing.com"
)

// DefaultLang is sent as `x-authing-lang` unless configured otherwise.
var DefaultLang = httphelper.DefaultLang

// Config is the immutable configuration of a Client.
// Zero values are replaced by the defaults documented on each field.
type Config struct {
	AppID     string
	AppSecret string
	// Host is the application host, default DefaultHost.
	Host       string
	UserPoolID string
	// Protocol defaults to oidc.
	Protocol          oidc.Protocol
	RedirectURI       string
	LogoutRedirectURI string

	// The client authentication of each token endpoint, default client_secret_post.
	TokenEndpointAuthMethod         oidc.AuthMethod
	IntrospectionEndpointAuthMethod oidc.AuthMethod
	RevocationEndpointAuthMethod    oidc.AuthMethod

	// PublicKey encrypts passwords before they are sent, PEM or hex for SM2.
	PublicKey []byte
	// EncryptType defaults to rsa.
	EncryptType crypto.EncryptionType

	// Lang defaults to DefaultLang.
	Lang language.Tag
	// RealIP is sent as `x-real-ip` with every request.
	RealIP string
	// Timeout per request, default 10 seconds.
	Timeout            time.Duration
	InsecureSkipVerify bool
	// WebsocketHost defaults to DefaultWebsocketHost.
	WebsocketHost string

	// AccessToken seeds the session.
	AccessToken string
}

// Client is the authentication client of one application.
type Client struct {
	config     Config
	httpClient *http.Client
	encrypter  crypto.PasswordEncrypter
	session    Session
	keySet     oidc.KeySet
	logger     *slog.Logger

	cookieHandler       *httphelper.CookieHandler
	pkce                bool
	errorHandler        ErrorHandler
	unauthorizedHandler UnauthorizedHandler
}

type Option func(*Client) error

// WithHTTPClient replaces the client built from Timeout and InsecureSkipVerify.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = client
		return nil
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithSession replaces the default in-memory session.
func WithSession(session Session) Option {
	return func(c *Client) error {
		c.session = session
		return nil
	}
}

// WithPasswordEncrypter replaces the encrypter built from PublicKey and EncryptType.
func WithPasswordEncrypter(encrypter crypto.PasswordEncrypter) Option {
	return func(c *Client) error {
		c.encrypter = encrypter
		return nil
	}
}

// WithKeySet verifies tokens offline against keys instead of downloading the JWKS.
func WithKeySet(keys oidc.KeySet) Option {
	return func(c *Client) error {
		c.keySet = keys
		return nil
	}
}

// WithCookieHandler stores the state of the redirect flow in cookies.
func WithCookieHandler(cookieHandler *httphelper.CookieHandler) Option {
	return func(c *Client) error {
		c.cookieHandler = cookieHandler
		return nil
	}
}

// WithPKCE sets the RP to use PKCE (oauth2 code challenge)
// it also sets a `CookieHandler` for securing the various redirects
// and exchanging the code challenge
func WithPKCE(cookieHandler *httphelper.CookieHandler) Option {
	return func(c *Client) error {
		c.pkce = true
		c.cookieHandler = cookieHandler
		return nil
	}
}

func WithErrorHandler(errorHandler ErrorHandler) Option {
	return func(c *Client) error {
		c.errorHandler = errorHandler
		return nil
	}
}

func WithUnauthorizedHandler(unauthorizedHandler UnauthorizedHandler) Option {
	return func(c *Client) error {
		c.unauthorizedHandler = unauthorizedHandler
		return nil
	}
}

// NewClient validates config, fills in the defaults and applies the options.
func NewClient(config Config, options ...Option) (*Client, error) {
	if config.AppID == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("app id must not be empty")
	}
	config.Host = strings.TrimSuffix(config.Host, "/")
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Protocol == "" {
		config.Protocol = oidc.ProtocolOIDC
	}
	if !config.Protocol.Valid() {
		return nil, oidc.ErrInvalidArgument().WithDescription("unknown protocol %q", config.Protocol)
	}
	for _, method := range []*oidc.AuthMethod{
		&config.TokenEndpointAuthMethod,
		&config.IntrospectionEndpointAuthMethod,
		&config.RevocationEndpointAuthMethod,
	} {
		if *method == "" {
			*method = oidc.AuthMethodPost
		}
		if !method.Valid() {
			return nil, oidc.ErrInvalidArgument().WithDescription("unknown client authentication method %q", *method)
		}
	}
	if config.EncryptType == "" {
		config.EncryptType = crypto.EncryptionRSA
	}
	if !config.EncryptType.Valid() {
		return nil, oidc.ErrInvalidArgument().WithDescription("unknown password encryption type %q", config.EncryptType)
	}
	if config.Lang == language.Und {
		config.Lang = DefaultLang
	}
	if config.Timeout <= 0 {
		config.Timeout = httphelper.DefaultTimeout
	}
	if config.WebsocketHost == "" {
		config.WebsocketHost = DefaultWebsocketHost
	}

	c := &Client{
		config:       config,
		session:      NewMemorySession(config.AccessToken),
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.httpClient == nil {
		c.httpClient = httphelper.NewHTTPClient(config.Timeout, config.InsecureSkipVerify)
	}
	if c.encrypter == nil && (len(config.PublicKey) > 0 || config.EncryptType == crypto.EncryptionNone) {
		encrypter, err := crypto.NewPasswordEncrypter(config.EncryptType, config.PublicKey)
		if err != nil {
			return nil, err
		}
		c.encrypter = encrypter
	}
	return c, nil
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

func (c *Client) AppID() string {
	return c.config.AppID
}

func (c *Client) Protocol() oidc.Protocol {
	return c.config.Protocol
}

func (c *Client) HttpClient() *http.Client {
	return c.httpClient
}

func (c *Client) SDKHeaders() httphelper.SDKHeaders {
	return httphelper.SDKHeaders{
		AppID:      c.config.AppID,
		UserPoolID: c.config.UserPoolID,
		Lang:       c.config.Lang,
		RealIP:     c.config.RealIP,
	}
}

func (c *Client) endpoint(path string) string {
	return c.config.Host + path
}

func (c *Client) protocolEndpoint(path string) string {
	return c.config.Host + c.config.Protocol.PathPrefix() + path
}

func (c *Client) TokenEndpoint() string {
	return c.protocolEndpoint("/token")
}

func (c *Client) IntrospectionEndpoint() string {
	return c.protocolEndpoint("/token/introspection")
}

func (c *Client) RevokeEndpoint() string {
	return c.protocolEndpoint("/token/revocation")
}

func (c *Client) UserinfoEndpoint() string {
	return c.protocolEndpoint("/me")
}

// WebsocketEndpoint is the base URL of the event subscription.
func (c *Client) WebsocketEndpoint() string {
	return c.config.WebsocketHost
}

// KeySet returns the keys tokens are verified against offline.
func (c *Client) KeySet() oidc.KeySet {
	if c.keySet != nil {
		return c.keySet
	}
	return rs.NewRemoteKeySet(c.httpClient, c.endpoint(rs.JWKSPath))
}

func (c *Client) TokenAuth() (client.ClientAuthentication, error) {
	return c.endpointAuth(c.config.TokenEndpointAuthMethod)
}

func (c *Client) IntrospectionAuth() (client.ClientAuthentication, error) {
	return c.endpointAuth(c.config.IntrospectionEndpointAuthMethod)
}

func (c *Client) RevocationAuth() (client.ClientAuthentication, error) {
	return c.endpointAuth(c.config.RevocationEndpointAuthMethod)
}

// endpointAuth checks the preconditions of every token endpoint call.
func (c *Client) endpointAuth(method oidc.AuthMethod) (client.ClientAuthentication, error) {
	if err := c.config.Protocol.CheckTokenEndpoint(); err != nil {
		return nil, err
	}
	return client.NewClientAuthentication(method, c.config.AppID, c.config.AppSecret)
}

func (c *Client) CookieHandler() *httphelper.CookieHandler {
	return c.cookieHandler
}

func (c *Client) IsPKCE() bool {
	return c.pkce
}

// Logger returns the logger of ctx, falling back to the one of the client.
func (c *Client) Logger(ctx context.Context) (logger *slog.Logger, ok bool) {
	logger, ok = logging.FromContext(ctx)
	if ok {
		return logger, ok
	}
	return c.logger, c.logger != nil
}

var _ rs.ResourceServer = (*Client)(nil)

// Package management is the client for backend services administering a user pool.
// It authenticates with the user pool secret, exchanging it for a management token
// on the first call.
package management

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zitadel/logging"
	"golang.org/x/text/language"

	"github.com/authing/authing-go-sdk/v3/pkg/client"
	"github.com/authing/authing-go-sdk/v3/pkg/crypto"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const DefaultHost = "https://core.authing.cn"

// Config is the immutable configuration of a Client.
type Config struct {
	UserPoolID string
	Secret     string
	// Host defaults to DefaultHost.
	Host string
	// Lang defaults to httphelper.DefaultLang.
	Lang               language.Tag
	RealIP             string
	Timeout            time.Duration
	InsecureSkipVerify bool

	// PublicKey and EncryptType protect passwords of created users,
	// see the authentication client.
	PublicKey   []byte
	EncryptType crypto.EncryptionType
}

// Client calls the management API of one user pool.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	encrypter  crypto.PasswordEncrypter
	refresh    RefreshPolicy
	now        func() time.Time

	mu    sync.Mutex
	token *managementToken
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRefreshPolicy decides when the management token is exchanged again.
// The default is RefreshNever.
func WithRefreshPolicy(policy RefreshPolicy) Option {
	return func(c *Client) {
		c.refresh = policy
	}
}

func WithPasswordEncrypter(encrypter crypto.PasswordEncrypter) Option {
	return func(c *Client) {
		c.encrypter = encrypter
	}
}

// NewClient creates a management client.
// No request is sent until the first API call.
func NewClient(config Config, options ...Option) (*Client, error) {
	if config.UserPoolID == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("user pool id must not be empty")
	}
	if config.Secret == "" {
		return nil, oidc.ErrMissingSecret().WithDescription("the management client requires the user pool secret")
	}
	config.Host = strings.TrimSuffix(config.Host, "/")
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Lang == language.Und {
		config.Lang = httphelper.DefaultLang
	}
	if config.Timeout <= 0 {
		config.Timeout = httphelper.DefaultTimeout
	}
	if config.EncryptType == "" {
		config.EncryptType = crypto.EncryptionRSA
	}
	if !config.EncryptType.Valid() {
		return nil, oidc.ErrInvalidArgument().WithDescription("unknown password encryption type %q", config.EncryptType)
	}

	c := &Client{
		config:  config,
		refresh: RefreshNever,
		now:     time.Now,
	}
	for _, opt := range options {
		opt(c)
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

func (c *Client) Config() Config {
	return c.config
}

func (c *Client) HttpClient() *http.Client {
	return c.httpClient
}

func (c *Client) SDKHeaders() httphelper.SDKHeaders {
	return httphelper.SDKHeaders{
		UserPoolID: c.config.UserPoolID,
		Lang:       c.config.Lang,
		RealIP:     c.config.RealIP,
	}
}

func (c *Client) endpoint(path string) string {
	return c.config.Host + path
}

func (c *Client) logCtx(ctx context.Context, function string) context.Context {
	logger, ok := logging.FromContext(ctx)
	if !ok {
		if c.logger == nil {
			return ctx
		}
		logger = c.logger
	}
	logger = logger.With(slog.Group("client",
		"function", function,
		"user_pool_id", c.config.UserPoolID,
	))
	return logging.ToContext(ctx, logger)
}

// call sends an authenticated request, performing the token handshake first when needed.
func (c *Client) call(ctx context.Context, function, method, endpoint string, request, response any) error {
	ctx = c.logCtx(ctx, function)
	ctx, span := client.Tracer.Start(ctx, function)
	defer span.End()

	token, err := c.AccessToken(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := client.Do(ctx, c, method, endpoint, request, httphelper.AuthorizeBearer(token), response); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

var _ client.Caller = (*Client)(nil)

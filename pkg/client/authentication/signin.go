package authentication

import (
	"context"
	"net/http"
	"time"

	"github.com/muhlemmer/gu"

	"github.com/authing/authing-go-sdk/v3/pkg/client"
	"github.com/authing/authing-go-sdk/v3/pkg/crypto"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const ConnectionPassword = "PASSWORD"

type passwordPayload struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Account  string `json:"account,omitempty"`
	Password string `json:"password"`
}

type signInOptions struct {
	PasswordEncryptType crypto.EncryptionType `json:"passwordEncryptType"`
	Scope               *string               `json:"scope,omitempty"`
	ClientIP            *string               `json:"clientIp,omitempty"`
}

type signInRequest struct {
	Connection      string           `json:"connection"`
	PasswordPayload *passwordPayload `json:"passwordPayload"`
	Options         *signInOptions   `json:"options"`
}

type SignInOpt func(*signInOptions)

// WithSignInScope sets the scope of the issued tokens.
func WithSignInScope(scopes ...string) SignInOpt {
	return func(o *signInOptions) {
		o.Scope = gu.Ptr(oidc.SpaceDelimitedArray(scopes).String())
	}
}

// WithClientIP passes the IP of the end user for risk checks.
func WithClientIP(ip string) SignInOpt {
	return func(o *signInOptions) {
		o.ClientIP = gu.Ptr(ip)
	}
}

// SignInByEmailPassword signs in with email and password.
func (c *Client) SignInByEmailPassword(ctx context.Context, email, password string, opts ...SignInOpt) (*oidc.Tokens, error) {
	if email == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("email must not be empty")
	}
	return c.signInByPassword(ctx, "SignInByEmailPassword", &passwordPayload{Email: email}, password, opts)
}

// SignInByUsernamePassword signs in with username and password.
func (c *Client) SignInByUsernamePassword(ctx context.Context, username, password string, opts ...SignInOpt) (*oidc.Tokens, error) {
	if username == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("username must not be empty")
	}
	return c.signInByPassword(ctx, "SignInByUsernamePassword", &passwordPayload{Username: username}, password, opts)
}

// SignInByPhonePassword signs in with phone number and password.
func (c *Client) SignInByPhonePassword(ctx context.Context, phone, password string, opts ...SignInOpt) (*oidc.Tokens, error) {
	if phone == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("phone must not be empty")
	}
	return c.signInByPassword(ctx, "SignInByPhonePassword", &passwordPayload{Phone: phone}, password, opts)
}

// SignInByAccountPassword signs in with any of email, username or phone and password.
func (c *Client) SignInByAccountPassword(ctx context.Context, account, password string, opts ...SignInOpt) (*oidc.Tokens, error) {
	if account == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("account must not be empty")
	}
	return c.signInByPassword(ctx, "SignInByAccountPassword", &passwordPayload{Account: account}, password, opts)
}

// signInByPassword encrypts the password and posts the sign-in request.
// On success the access token becomes the session token.
func (c *Client) signInByPassword(ctx context.Context, function string, payload *passwordPayload, password string, opts []SignInOpt) (*oidc.Tokens, error) {
	ctx = c.logCtxWithClientData(ctx, function)
	ctx, span := client.Tracer.Start(ctx, function)
	defer span.End()

	if password == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("password must not be empty")
	}
	auth, err := client.NewClientAuthentication(c.config.TokenEndpointAuthMethod, c.config.AppID, c.config.AppSecret)
	if err != nil {
		return nil, err
	}
	if c.encrypter == nil {
		return nil, oidc.ErrCrypto().WithParent(crypto.ErrNoPublicKey)
	}
	if payload.Password, err = c.encrypter.Encrypt(password); err != nil {
		return nil, err
	}
	options := &signInOptions{PasswordEncryptType: c.encrypter.Type()}
	for _, opt := range opts {
		opt(options)
	}
	request := &signInRequest{
		Connection:      ConnectionPassword,
		PasswordPayload: payload,
		Options:         options,
	}

	tokenRes := new(oidc.AccessTokenResponse)
	if err := client.Do(ctx, c, http.MethodPost, c.endpoint("/api/v3/signin"), request, auth.AuthFn(), tokenRes); err != nil {
		span.RecordError(err)
		return nil, err
	}
	tokens := tokenRes.Tokens(time.Now())
	c.session.SetAccessToken(tokens.AccessToken)
	return tokens, nil
}

// Profile is the user record returned by GetProfile.
type Profile struct {
	UserID        string `json:"userId"`
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PhoneVerified bool   `json:"phoneVerified,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Photo         string `json:"photo,omitempty"`
	Status        string `json:"status,omitempty"`
}

// GetProfile returns the profile of the signed in user.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	ctx = c.logCtxWithClientData(ctx, "GetProfile")
	ctx, span := client.Tracer.Start(ctx, "GetProfile")
	defer span.End()

	token, err := c.bearer()
	if err != nil {
		return nil, err
	}
	profile := new(Profile)
	if err := client.Do(ctx, c, http.MethodGet, c.endpoint("/api/v3/get-profile"), nil, httphelper.AuthorizeBearer(token), profile); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return profile, nil
}

// Logout ends the session of the signed in user at the platform and clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	ctx = c.logCtxWithClientData(ctx, "Logout")
	ctx, span := client.Tracer.Start(ctx, "Logout")
	defer span.End()

	token, err := c.bearer()
	if err != nil {
		return err
	}
	if err := client.Do(ctx, c, http.MethodPost, c.endpoint("/api/v2/logout/current"), map[string]any{}, httphelper.AuthorizeBearer(token), nil); err != nil {
		span.RecordError(err)
		return err
	}
	c.session.Clear()
	return nil
}

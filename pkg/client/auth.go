package client

import (
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

// ClientAuthentication is how a client proves its identity to the
// token, introspection and revocation endpoints.
// The variants are ClientSecretPost, ClientSecretBasic and NoClientAuthentication.
type ClientAuthentication interface {
	Method() oidc.AuthMethod
	// AuthFn returns the authorization for httphelper.JSONRequest.
	AuthFn() any

	clientAuthentication()
}

// ClientSecretPost sends client_id and client_secret in the request body.
type ClientSecretPost struct {
	ClientID     string
	ClientSecret string
}

func (ClientSecretPost) Method() oidc.AuthMethod { return oidc.AuthMethodPost }

func (c ClientSecretPost) AuthFn() any {
	return httphelper.BodyAuthorization(func(body map[string]any) {
		body["client_id"] = c.ClientID
		body["client_secret"] = c.ClientSecret
	})
}

func (ClientSecretPost) clientAuthentication() {}

// ClientSecretBasic sends the credentials as HTTP Basic authorization
// and leaves them out of the body.
type ClientSecretBasic struct {
	ClientID     string
	ClientSecret string
}

func (ClientSecretBasic) Method() oidc.AuthMethod { return oidc.AuthMethodBasic }

func (c ClientSecretBasic) AuthFn() any {
	return httphelper.AuthorizeBasic(c.ClientID, c.ClientSecret)
}

func (ClientSecretBasic) clientAuthentication() {}

// NoClientAuthentication identifies a public client by client_id only.
type NoClientAuthentication struct {
	ClientID string
}

func (NoClientAuthentication) Method() oidc.AuthMethod { return oidc.AuthMethodNone }

func (c NoClientAuthentication) AuthFn() any {
	return httphelper.BodyAuthorization(func(body map[string]any) {
		body["client_id"] = c.ClientID
	})
}

func (NoClientAuthentication) clientAuthentication() {}

// NewClientAuthentication returns the variant for method.
// It fails with MissingSecret when the method needs a secret and none is given.
func NewClientAuthentication(method oidc.AuthMethod, clientID, clientSecret string) (ClientAuthentication, error) {
	if !method.Valid() {
		return nil, oidc.ErrInvalidArgument().WithDescription("unsupported client authentication method %q", method)
	}
	if clientID == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("client id must not be empty")
	}
	if method.RequiresSecret() && clientSecret == "" {
		return nil, oidc.ErrMissingSecret()
	}
	switch method {
	case oidc.AuthMethodBasic:
		return ClientSecretBasic{ClientID: clientID, ClientSecret: clientSecret}, nil
	case oidc.AuthMethodNone:
		return NoClientAuthentication{ClientID: clientID}, nil
	default:
		return ClientSecretPost{ClientID: clientID, ClientSecret: clientSecret}, nil
	}
}

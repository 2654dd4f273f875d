package oidc

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Protocol selects the identity protocol an application speaks.
// Only OIDC and OAuth 2.0 have token endpoints.
type Protocol string

const (
	ProtocolOIDC  Protocol = "oidc"
	ProtocolOAuth Protocol = "oauth"
	ProtocolSAML  Protocol = "saml"
	ProtocolCAS   Protocol = "cas"
)

func (p Protocol) Valid() bool {
	switch p {
	case ProtocolOIDC, ProtocolOAuth, ProtocolSAML, ProtocolCAS:
		return true
	}
	return false
}

// HasTokenEndpoint reports whether token exchange, refresh,
// introspection and revocation are defined for the protocol.
func (p Protocol) HasTokenEndpoint() bool {
	return p == ProtocolOIDC || p == ProtocolOAuth
}

// PathPrefix is the endpoint prefix of the protocol, e.g. `/oidc`.
func (p Protocol) PathPrefix() string {
	return "/" + string(p)
}

// CheckTokenEndpoint returns an UnsupportedProtocol error
// if the protocol has no token endpoint.
func (p Protocol) CheckTokenEndpoint() error {
	if !p.HasTokenEndpoint() {
		return ErrUnsupportedProtocol().WithDescription("protocol %q has no token endpoint, use %q or %q", p, ProtocolOIDC, ProtocolOAuth)
	}
	return nil
}

// AuthMethod is the client authentication method of a token endpoint.
type AuthMethod string

const (
	AuthMethodPost  AuthMethod = "client_secret_post"
	AuthMethodBasic AuthMethod = "client_secret_basic"
	AuthMethodNone  AuthMethod = "none"
)

func (a AuthMethod) Valid() bool {
	switch a {
	case AuthMethodPost, AuthMethodBasic, AuthMethodNone:
		return true
	}
	return false
}

// RequiresSecret is true for every method but `none`.
func (a AuthMethod) RequiresSecret() bool {
	return a != AuthMethodNone
}

const (
	//ScopeOpenID defines the scope `openid`
	//OpenID Connect requests MUST contain the `openid` scope value
	ScopeOpenID = "openid"

	//ScopeProfile defines the scope `profile`
	ScopeProfile = "profile"

	//ScopeEmail defines the scope `email`
	ScopeEmail = "email"

	//ScopePhone defines the scope `phone`
	ScopePhone = "phone"

	//ScopeAddress defines the scope `address`
	ScopeAddress = "address"

	//ScopeOfflineAccess defines the scope `offline_access`
	//Only a request containing it is answered with a refresh token.
	ScopeOfflineAccess = "offline_access"

	//ScopeUser is the default scope of OAuth 2.0 applications
	ScopeUser = "user"

	BearerToken = "Bearer"
)

// DefaultOIDCScopes is the scope requested by OIDC authorize URLs when the caller sets none.
var DefaultOIDCScopes = SpaceDelimitedArray{ScopeOpenID, ScopeProfile, ScopeEmail, ScopePhone, ScopeAddress}

// DefaultOAuthScopes is the scope requested by OAuth 2.0 authorize URLs when the caller sets none.
var DefaultOAuthScopes = SpaceDelimitedArray{ScopeUser}

type ResponseType string

const (
	ResponseTypeCode        ResponseType = "code"
	ResponseTypeToken       ResponseType = "token"
	ResponseTypeIDToken     ResponseType = "id_token token"
	ResponseTypeIDTokenOnly ResponseType = "id_token"
	ResponseTypeCodeIDToken ResponseType = "code id_token"
	ResponseTypeCodeToken   ResponseType = "code token"
	ResponseTypeCodeAll     ResponseType = "code id_token token"
	ResponseTypeNone        ResponseType = "none"
)

var oidcResponseTypes = []ResponseType{
	ResponseTypeCode,
	ResponseTypeToken,
	ResponseTypeIDToken,
	ResponseTypeIDTokenOnly,
	ResponseTypeCodeIDToken,
	ResponseTypeCodeToken,
	ResponseTypeCodeAll,
	ResponseTypeNone,
}

// ValidFor reports whether the response type is defined for the protocol.
// OAuth 2.0 only knows `code` and `token`.
func (r ResponseType) ValidFor(p Protocol) bool {
	if p == ProtocolOAuth {
		return r == ResponseTypeCode || r == ResponseTypeToken
	}
	return slices.Contains(oidcResponseTypes, r)
}

type ResponseMode string

const (
	ResponseModeQuery    ResponseMode = "query"
	ResponseModeFragment ResponseMode = "fragment"
	ResponseModeFormPost ResponseMode = "form_post"
)

func (r ResponseMode) Valid() bool {
	switch r {
	case "", ResponseModeQuery, ResponseModeFragment, ResponseModeFormPost:
		return true
	}
	return false
}

type Prompt string

const (
	PromptNone    Prompt = "none"
	PromptLogin   Prompt = "login"
	PromptConsent Prompt = "consent"
)

type GrantType string

const (
	//GrantTypeCode defines the grant_type `authorization_code` used for the Token Request in the Authorization Code Flow
	GrantTypeCode GrantType = "authorization_code"

	//GrantTypeRefreshToken defines the grant_type `refresh_token` used for the Token Request in the Refresh Token Flow
	GrantTypeRefreshToken GrantType = "refresh_token"

	//GrantTypeClientCredentials defines the grant_type `client_credentials` used for the Token Request in the Client Credentials Token Flow
	GrantTypeClientCredentials GrantType = "client_credentials"
)

// SpaceDelimitedArray is a string list encoded as one space separated string,
// the representation of `scope` on the wire.
type SpaceDelimitedArray []string

// ParseScope splits a space separated scope string,
// dropping empty elements.
func ParseScope(scope string) SpaceDelimitedArray {
	return strings.Fields(scope)
}

func (s SpaceDelimitedArray) String() string {
	return strings.Join(s, " ")
}

func (s SpaceDelimitedArray) Contains(scope string) bool {
	return slices.Contains(s, scope)
}

func (s SpaceDelimitedArray) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SpaceDelimitedArray) UnmarshalText(text []byte) error {
	*s = ParseScope(string(text))
	return nil
}

func (s SpaceDelimitedArray) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SpaceDelimitedArray) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("oidc: %w", err)
	}
	*s = ParseScope(str)
	return nil
}

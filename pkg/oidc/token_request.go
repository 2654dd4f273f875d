package oidc

// TokenRequest is the body of a token endpoint call.
// Client identity is not part of it, it is added by the client authentication.
type TokenRequest interface {
	GrantType() GrantType
}

type AccessTokenRequest struct {
	Grant        GrantType `json:"grant_type"`
	Code         string    `json:"code"`
	RedirectURI  string    `json:"redirect_uri"`
	CodeVerifier string    `json:"code_verifier,omitempty"`
}

func NewAccessTokenRequest(code, redirectURI, codeVerifier string) *AccessTokenRequest {
	return &AccessTokenRequest{
		Grant:        GrantTypeCode,
		Code:         code,
		RedirectURI:  redirectURI,
		CodeVerifier: codeVerifier,
	}
}

func (a *AccessTokenRequest) GrantType() GrantType {
	return GrantTypeCode
}

type RefreshTokenRequest struct {
	Grant        GrantType `json:"grant_type"`
	RefreshToken string    `json:"refresh_token"`
}

func NewRefreshTokenRequest(refreshToken string) *RefreshTokenRequest {
	return &RefreshTokenRequest{
		Grant:        GrantTypeRefreshToken,
		RefreshToken: refreshToken,
	}
}

func (r *RefreshTokenRequest) GrantType() GrantType {
	return GrantTypeRefreshToken
}

type ClientCredentialsRequest struct {
	Grant GrantType           `json:"grant_type"`
	Scope SpaceDelimitedArray `json:"scope"`
}

func NewClientCredentialsRequest(scope SpaceDelimitedArray) *ClientCredentialsRequest {
	return &ClientCredentialsRequest{
		Grant: GrantTypeClientCredentials,
		Scope: scope,
	}
}

func (c *ClientCredentialsRequest) GrantType() GrantType {
	return GrantTypeClientCredentials
}

type IntrospectionRequest struct {
	Token         string `json:"token"`
	TokenTypeHint string `json:"token_type_hint,omitempty"`
}

type RevocationRequest struct {
	Token         string `json:"token"`
	TokenTypeHint string `json:"token_type_hint,omitempty"`
}

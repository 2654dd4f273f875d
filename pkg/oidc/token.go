package oidc

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/muhlemmer/gu"
	"golang.org/x/oauth2"
)

const idTokenKey = "id_token"

// AccessTokenResponse is the token endpoint response.
// RefreshToken is only issued when the authorization request asked for `offline_access`.
type AccessTokenResponse struct {
	AccessToken  string              `json:"access_token,omitempty"`
	TokenType    string              `json:"token_type,omitempty"`
	RefreshToken string              `json:"refresh_token,omitempty"`
	ExpiresIn    uint64              `json:"expires_in,omitempty"`
	IDToken      string              `json:"id_token,omitempty"`
	Scope        SpaceDelimitedArray `json:"scope,omitempty"`
}

// Tokens converts the response into a token set,
// with the expiry computed relative to now.
func (a *AccessTokenResponse) Tokens(now time.Time) *Tokens {
	token := &oauth2.Token{
		AccessToken:  a.AccessToken,
		TokenType:    a.TokenType,
		RefreshToken: a.RefreshToken,
	}
	if a.ExpiresIn > 0 {
		token.Expiry = now.UTC().Add(time.Duration(a.ExpiresIn) * time.Second)
	}
	if a.IDToken != "" {
		token = token.WithExtra(map[string]any{
			idTokenKey: a.IDToken,
		})
	}
	return &Tokens{
		Token:   token,
		IDToken: a.IDToken,
		Scope:   a.Scope,
	}
}

// Tokens is the token set returned by the token endpoint.
type Tokens struct {
	*oauth2.Token
	IDToken string
	Scope   SpaceDelimitedArray
}

// AccessTokenClaims are the claims of a JWT access or id token
// as returned by offline introspection.
// Claims holds every claim, including the registered ones.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Scope    SpaceDelimitedArray `json:"scope,omitempty"`
	ClientID string              `json:"azp,omitempty"`
	Nonce    string              `json:"nonce,omitempty"`

	Claims map[string]any `json:"-"`
}

type accessTokenClaimsAlias AccessTokenClaims

func (a *AccessTokenClaims) MarshalJSON() ([]byte, error) {
	return mergeAndMarshalClaims((*accessTokenClaimsAlias)(a), a.Claims)
}

func (a *AccessTokenClaims) UnmarshalJSON(data []byte) error {
	return unmarshalClaims(data, (*accessTokenClaimsAlias)(a), &a.Claims)
}

// UserInfo is the response of the userinfo (`/me`) endpoint.
type UserInfo struct {
	Subject           string `json:"sub,omitempty"`
	Name              string `json:"name,omitempty"`
	Nickname          string `json:"nickname,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Picture           string `json:"picture,omitempty"`
	Email             string `json:"email,omitempty"`
	EmailVerified     bool   `json:"email_verified,omitempty"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	PhoneVerified     bool   `json:"phone_number_verified,omitempty"`

	Claims map[string]any `json:"-"`
}

func (u *UserInfo) GetSubject() string {
	return u.Subject
}

type userInfoAlias UserInfo

func (u *UserInfo) MarshalJSON() ([]byte, error) {
	return mergeAndMarshalClaims((*userInfoAlias)(u), u.Claims)
}

func (u *UserInfo) UnmarshalJSON(data []byte) error {
	return unmarshalClaims(data, (*userInfoAlias)(u), &u.Claims)
}

// Copy returns a deep enough copy for the caller to mutate Claims.
func (u *UserInfo) Copy() *UserInfo {
	c := *u
	c.Claims = gu.MapCopy(u.Claims)
	return &c
}

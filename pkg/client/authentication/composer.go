package authentication

import (
	"net/url"

	"github.com/zitadel/schema"

	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

var encoder = schema.NewEncoder()

// authURLParams are the caller supplied values of an authorize URL.
// Empty values are replaced by the configuration or generated.
type authURLParams struct {
	redirectURI         string
	responseType        oidc.ResponseType
	responseMode        oidc.ResponseMode
	scope               oidc.SpaceDelimitedArray
	state               string
	nonce               string
	codeChallenge       string
	codeChallengeMethod oidc.CodeChallengeMethod
	service             string
}

type AuthURLOpt func(*authURLParams)

func WithRedirectURI(redirectURI string) AuthURLOpt {
	return func(p *authURLParams) {
		p.redirectURI = redirectURI
	}
}

func WithResponseType(responseType oidc.ResponseType) AuthURLOpt {
	return func(p *authURLParams) {
		p.responseType = responseType
	}
}

func WithResponseMode(responseMode oidc.ResponseMode) AuthURLOpt {
	return func(p *authURLParams) {
		p.responseMode = responseMode
	}
}

// WithScope requests scopes instead of the protocol default.
func WithScope(scopes ...string) AuthURLOpt {
	return func(p *authURLParams) {
		p.scope = scopes
	}
}

func WithState(state string) AuthURLOpt {
	return func(p *authURLParams) {
		p.state = state
	}
}

func WithNonce(nonce string) AuthURLOpt {
	return func(p *authURLParams) {
		p.nonce = nonce
	}
}

// WithCodeChallenge adds PKCE to an OIDC authorize URL.
// An empty method means S256.
func WithCodeChallenge(challenge string, method oidc.CodeChallengeMethod) AuthURLOpt {
	return func(p *authURLParams) {
		p.codeChallenge = challenge
		p.codeChallengeMethod = method
	}
}

// WithService is the service URL of a CAS authorize URL.
func WithService(service string) AuthURLOpt {
	return func(p *authURLParams) {
		p.service = service
	}
}

// BuildAuthorizeURL returns the URL the browser is redirected to for sign-in.
// The query depends on the protocol of the client:
// SAML URLs carry none, CAS URLs only the service.
func (c *Client) BuildAuthorizeURL(opts ...AuthURLOpt) (string, error) {
	p := &authURLParams{}
	for _, opt := range opts {
		opt(p)
	}
	switch c.config.Protocol {
	case oidc.ProtocolSAML:
		return c.endpoint("/api/v2/saml-idp/" + c.config.AppID), nil
	case oidc.ProtocolCAS:
		// service is passed through as given
		return c.endpoint("/cas-idp/"+c.config.AppID) + "?service=" + p.service, nil
	case oidc.ProtocolOAuth:
		return c.buildOAuthAuthorizeURL(p)
	default:
		return c.buildOIDCAuthorizeURL(p)
	}
}

func (c *Client) buildOIDCAuthorizeURL(p *authURLParams) (string, error) {
	req, err := c.newAuthRequest(p, oidc.DefaultOIDCScopes)
	if err != nil {
		return "", err
	}
	if req.Nonce == "" {
		if req.Nonce, err = oidc.RandomString(oidc.DefaultRandomLength); err != nil {
			return "", err
		}
	}
	if req.CodeChallenge = p.codeChallenge; req.CodeChallenge != "" {
		req.CodeChallengeMethod = p.codeChallengeMethod
		if req.CodeChallengeMethod == "" {
			req.CodeChallengeMethod = oidc.CodeChallengeMethodS256
		}
		if !req.CodeChallengeMethod.Valid() {
			return "", oidc.ErrInvalidArgument().WithDescription("unsupported code challenge method %q", req.CodeChallengeMethod)
		}
	}
	if p.scope.Contains(oidc.ScopeOfflineAccess) {
		req.Prompt = oidc.PromptConsent
	}
	return c.encodeURL("/oidc/auth", req)
}

func (c *Client) buildOAuthAuthorizeURL(p *authURLParams) (string, error) {
	req, err := c.newAuthRequest(p, oidc.DefaultOAuthScopes)
	if err != nil {
		return "", err
	}
	req.Nonce = ""
	return c.encodeURL("/oauth/auth", req)
}

// newAuthRequest merges p with the defaults shared by OIDC and OAuth 2.0.
func (c *Client) newAuthRequest(p *authURLParams, defaultScopes oidc.SpaceDelimitedArray) (*oidc.AuthRequest, error) {
	if p.responseType == "" {
		p.responseType = oidc.ResponseTypeCode
	}
	if !p.responseType.ValidFor(c.config.Protocol) {
		return nil, oidc.ErrInvalidArgument().WithDescription("response type %q is not supported by %s", p.responseType, c.config.Protocol)
	}
	if !p.responseMode.Valid() {
		return nil, oidc.ErrInvalidArgument().WithDescription("unknown response mode %q", p.responseMode)
	}
	if len(p.scope) == 0 {
		p.scope = defaultScopes
	}
	if p.redirectURI == "" {
		p.redirectURI = c.config.RedirectURI
	}
	req := &oidc.AuthRequest{
		ClientID:     c.config.AppID,
		RedirectURI:  p.redirectURI,
		ResponseType: p.responseType,
		ResponseMode: p.responseMode,
		Scope:        p.scope.String(),
		State:        p.state,
		Nonce:        p.nonce,
	}
	if req.State == "" {
		var err error
		if req.State, err = oidc.RandomString(oidc.DefaultRandomLength); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (c *Client) encodeURL(path string, request any) (string, error) {
	params := make(map[string][]string)
	if err := encoder.Encode(request, params); err != nil {
		return "", oidc.ErrInvalidArgument().WithParent(err)
	}
	return httphelper.JoinURL(c.config.Host, path, params), nil
}

type logoutURLParams struct {
	redirectURI string
	idToken     string
	state       string
}

type LogoutURLOpt func(*logoutURLParams)

// WithLogoutRedirectURI is where the browser lands after logout.
func WithLogoutRedirectURI(redirectURI string) LogoutURLOpt {
	return func(p *logoutURLParams) {
		p.redirectURI = redirectURI
	}
}

// WithIDTokenHint identifies the OIDC session to end.
func WithIDTokenHint(idToken string) LogoutURLOpt {
	return func(p *logoutURLParams) {
		p.idToken = idToken
	}
}

func WithLogoutState(state string) LogoutURLOpt {
	return func(p *logoutURLParams) {
		p.state = state
	}
}

// BuildLogoutURL returns the URL that ends the session of the user at the platform.
//
// For OIDC the id token and redirect URI must be given together or not at all.
// The other protocols fall back to the configured LogoutRedirectURI.
func (c *Client) BuildLogoutURL(opts ...LogoutURLOpt) (string, error) {
	p := &logoutURLParams{}
	for _, opt := range opts {
		opt(p)
	}
	if c.config.Protocol == oidc.ProtocolOIDC {
		if (p.idToken == "") != (p.redirectURI == "") {
			return "", oidc.ErrInvalidArgument().WithDescription("id token and redirect uri must be supplied together")
		}
		return c.encodeURL("/oidc/session/end", &oidc.EndSessionRequest{
			IDTokenHint:           p.idToken,
			PostLogoutRedirectURI: p.redirectURI,
			State:                 p.state,
		})
	}

	if p.redirectURI == "" {
		p.redirectURI = c.config.LogoutRedirectURI
	}
	if c.config.Protocol == oidc.ProtocolCAS {
		return httphelper.JoinURL(c.config.Host, "/cas-idp/logout", queryIfSet("url", p.redirectURI)), nil
	}
	return httphelper.JoinURL(c.config.Host, "/login/profile/logout", queryIfSet("redirect_uri", p.redirectURI)), nil
}

func queryIfSet(key, value string) url.Values {
	if value == "" {
		return nil
	}
	return url.Values{key: {value}}
}

// GenerateCodeChallenge returns a new random code verifier of the minimal length.
func (c *Client) GenerateCodeChallenge() (string, error) {
	return oidc.NewCodeVerifier(oidc.MinCodeVerifierLength)
}

// GetCodeChallengeDigest derives the challenge sent in the authorize URL from verifier.
func (c *Client) GetCodeChallengeDigest(verifier string, method oidc.CodeChallengeMethod) (string, error) {
	return oidc.DeriveCodeChallenge(verifier, method)
}

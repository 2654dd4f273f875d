package authentication

import (
	"net/http"

	"github.com/authing/authing-go-sdk/v3/pkg/client"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const (
	stateParam = "state"
	pkceCode   = "pkce"
)

type ErrorHandler func(w http.ResponseWriter, r *http.Request, errorType string, errorDesc string, state string)
type UnauthorizedHandler func(w http.ResponseWriter, r *http.Request, desc string, state string)

var DefaultErrorHandler ErrorHandler = func(w http.ResponseWriter, r *http.Request, errorType string, errorDesc string, state string) {
	http.Error(w, errorType+": "+errorDesc, http.StatusInternalServerError)
}
var DefaultUnauthorizedHandler UnauthorizedHandler = func(w http.ResponseWriter, r *http.Request, desc string, state string) {
	http.Error(w, desc, http.StatusUnauthorized)
}

// AuthURLHandler redirects the browser to the authorize URL.
// The state is stored in a secure cookie when the client has a CookieHandler,
// with PKCE the code verifier is stored next to it.
func AuthURLHandler(stateFn func() string, c *Client, opts ...AuthURLOpt) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := stateFn()
		if err := c.trySetStateCookie(w, state); err != nil {
			c.unauthorizedError(w, r, "failed to create state cookie: "+err.Error(), state)
			return
		}
		urlOpts := append(opts[:len(opts):len(opts)], WithState(state))
		if c.IsPKCE() {
			codeChallenge, err := GenerateAndStoreCodeChallenge(w, c)
			if err != nil {
				c.unauthorizedError(w, r, "failed to create code challenge: "+err.Error(), state)
				return
			}
			urlOpts = append(urlOpts, WithCodeChallenge(codeChallenge, oidc.CodeChallengeMethodS256))
		}
		authURL, err := c.BuildAuthorizeURL(urlOpts...)
		if err != nil {
			c.unauthorizedError(w, r, "failed to build authorize url: "+err.Error(), state)
			return
		}
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// GenerateAndStoreCodeChallenge generates a PKCE code challenge and stores its verifier into a secure cookie
func GenerateAndStoreCodeChallenge(w http.ResponseWriter, c *Client) (string, error) {
	challenge, err := oidc.NewCodeChallenge(oidc.MinCodeVerifierLength, oidc.CodeChallengeMethodS256)
	if err != nil {
		return "", err
	}
	if err := c.CookieHandler().Set(w, pkceCode, challenge.Verifier); err != nil {
		return "", err
	}
	return challenge.Challenge, nil
}

type CodeExchangeCallback func(w http.ResponseWriter, r *http.Request, tokens *oidc.Tokens, state string, c *Client)

// CodeExchangeHandler handles the redirect back from the platform:
// it checks the state cookie, exchanges the code and hands the tokens to callback.
// The IP of the browser is forwarded to the platform as `x-real-ip`.
func CodeExchangeHandler(callback CodeExchangeCallback, c *Client, opts ...CodeExchangeOpt) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := client.Tracer.Start(r.Context(), "CodeExchangeHandler")
		r = r.WithContext(ctx)
		defer span.End()

		state, err := c.tryReadStateCookie(w, r)
		if err != nil {
			c.unauthorizedError(w, r, "failed to get state: "+err.Error(), state)
			return
		}
		if errValue := r.FormValue("error"); errValue != "" {
			c.errorHandler(w, r, errValue, r.FormValue("error_description"), state)
			return
		}
		codeOpts := opts[:len(opts):len(opts)]
		if c.IsPKCE() {
			codeVerifier, err := c.CookieHandler().Get(r, pkceCode)
			if err != nil {
				c.unauthorizedError(w, r, "failed to get code verifier: "+err.Error(), state)
				return
			}
			codeOpts = append(codeOpts, WithCodeVerifier(codeVerifier))
			c.CookieHandler().Delete(w, pkceCode)
		}
		ctx = httphelper.WithRealIP(r.Context(), httphelper.RealIP(r))
		tokens, err := c.GetAccessTokenByCode(ctx, r.FormValue("code"), codeOpts...)
		if err != nil {
			c.unauthorizedError(w, r, "failed to exchange token: "+err.Error(), state)
			return
		}
		callback(w, r, tokens, state, c)
	}
}

// UserinfoCallback wraps the callback function of the CodeExchangeHandler
// and calls the userinfo endpoint with the access token
func UserinfoCallback(f func(w http.ResponseWriter, r *http.Request, tokens *oidc.Tokens, state string, c *Client, info *oidc.UserInfo)) CodeExchangeCallback {
	return func(w http.ResponseWriter, r *http.Request, tokens *oidc.Tokens, state string, c *Client) {
		ctx, span := client.Tracer.Start(r.Context(), "UserinfoCallback")
		r = r.WithContext(ctx)
		defer span.End()

		info, err := c.GetUserInfoByAccessToken(httphelper.WithRealIP(ctx, httphelper.RealIP(r)), tokens.AccessToken)
		if err != nil {
			c.unauthorizedError(w, r, "userinfo failed: "+err.Error(), state)
			return
		}
		f(w, r, tokens, state, c, info)
	}
}

func (c *Client) trySetStateCookie(w http.ResponseWriter, state string) error {
	if c.cookieHandler != nil {
		if err := c.cookieHandler.Set(w, stateParam, state); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) tryReadStateCookie(w http.ResponseWriter, r *http.Request) (state string, err error) {
	if c.cookieHandler == nil {
		return r.FormValue(stateParam), nil
	}
	state, err = c.cookieHandler.Compare(r, stateParam)
	if err != nil {
		return "", err
	}
	c.cookieHandler.Delete(w, stateParam)
	return state, nil
}

func (c *Client) unauthorizedError(w http.ResponseWriter, r *http.Request, desc string, state string) {
	if c.unauthorizedHandler != nil {
		c.unauthorizedHandler(w, r, desc, state)
		return
	}
	DefaultUnauthorizedHandler(w, r, desc, state)
}

package http

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

// CookieHandler keeps short lived flow values, such as state and
// the PKCE verifier, in signed and encrypted cookies between the
// redirect to the authorize endpoint and the callback.
type CookieHandler struct {
	codec    *securecookie.SecureCookie
	secure   bool
	sameSite http.SameSite
	lifetime time.Duration
	domain   string
	path     string
}

// DefaultCookieLifetime is long enough for a user to finish the hosted login.
const DefaultCookieLifetime = 15 * time.Minute

func NewCookieHandler(hashKey, encryptKey []byte, opts ...CookieOption) *CookieHandler {
	c := &CookieHandler{
		codec:    securecookie.New(hashKey, encryptKey),
		secure:   true,
		sameSite: http.SameSiteLaxMode,
		lifetime: DefaultCookieLifetime,
		path:     "/",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.codec.MaxAge(int(c.lifetime.Seconds()))
	return c
}

type CookieOption func(*CookieHandler)

// WithInsecureCookies allows the cookies over plain http, for local development.
func WithInsecureCookies() CookieOption {
	return func(c *CookieHandler) {
		c.secure = false
	}
}

func WithCookieSameSite(sameSite http.SameSite) CookieOption {
	return func(c *CookieHandler) {
		c.sameSite = sameSite
	}
}

func WithCookieLifetime(lifetime time.Duration) CookieOption {
	return func(c *CookieHandler) {
		c.lifetime = lifetime
	}
}

func WithCookieDomain(domain string) CookieOption {
	return func(c *CookieHandler) {
		c.domain = domain
	}
}

func WithCookiePath(path string) CookieOption {
	return func(c *CookieHandler) {
		c.path = path
	}
}

// Get returns the decoded value of the named cookie.
func (c *CookieHandler) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", oidc.ErrInvalidArgument().WithParent(err).WithDescription("cookie %q missing", name)
	}
	var value string
	if err := c.codec.Decode(name, cookie.Value, &value); err != nil {
		return "", oidc.ErrInvalidArgument().WithParent(err).WithDescription("cookie %q invalid", name)
	}
	return value, nil
}

// Compare returns the value of the named cookie
// if it equals the query or form parameter of the same name.
func (c *CookieHandler) Compare(r *http.Request, name string) (string, error) {
	value, err := c.Get(r, name)
	if err != nil {
		return "", err
	}
	if value != r.FormValue(name) {
		return "", oidc.ErrInvalidArgument().WithDescription("%s does not compare", name)
	}
	return value, nil
}

func (c *CookieHandler) Set(w http.ResponseWriter, name, value string) error {
	encoded, err := c.codec.Encode(name, value)
	if err != nil {
		return oidc.ErrCrypto().WithParent(err)
	}
	http.SetCookie(w, c.cookie(name, encoded, int(c.lifetime.Seconds())))
	return nil
}

func (c *CookieHandler) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, c.cookie(name, "", -1))
}

func (c *CookieHandler) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.domain,
		Path:     c.path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	}
}

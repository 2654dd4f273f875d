package authentication

import (
	"sync"

	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

// Session holds the access token that authorizes the calls made on behalf of the user.
// It is replaced after every successful sign-in or refresh and cleared on logout.
type Session interface {
	AccessToken() string
	SetAccessToken(token string)
	Clear()
}

type memorySession struct {
	accessToken string
}

// NewMemorySession returns a session seeded with accessToken, which may be empty.
// It must not be shared between goroutines, see NewSyncSession.
func NewMemorySession(accessToken string) Session {
	return &memorySession{accessToken: accessToken}
}

func (s *memorySession) AccessToken() string {
	return s.accessToken
}

func (s *memorySession) SetAccessToken(token string) {
	s.accessToken = token
}

func (s *memorySession) Clear() {
	s.accessToken = ""
}

type syncSession struct {
	mu      sync.RWMutex
	session Session
}

// NewSyncSession makes session safe for concurrent use.
func NewSyncSession(session Session) Session {
	return &syncSession{session: session}
}

func (s *syncSession) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken()
}

func (s *syncSession) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.SetAccessToken(token)
}

func (s *syncSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Clear()
}

// AccessToken returns the token of the current session, empty when signed out.
func (c *Client) AccessToken() string {
	return c.session.AccessToken()
}

// SetAccessToken replaces the session token, e.g. with one stored by the application.
func (c *Client) SetAccessToken(token string) {
	c.session.SetAccessToken(token)
}

// bearer returns the session token or an InvalidArgument error when signed out.
func (c *Client) bearer() (string, error) {
	token := c.session.AccessToken()
	if token == "" {
		return "", oidc.ErrInvalidArgument().WithDescription("no access token, sign in first")
	}
	return token, nil
}

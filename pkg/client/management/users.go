package management

import (
	"context"
	"net/http"
	"net/url"

	"github.com/authing/authing-go-sdk/v3/pkg/crypto"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

type User struct {
	UserID        string `json:"userId"`
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PhoneVerified bool   `json:"phoneVerified,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Photo         string `json:"photo,omitempty"`
	Status        string `json:"status,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// CreateUserRequest describes a new user. At least one of
// Username, Email and Phone must be set.
type CreateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	// Password is encrypted before it is sent.
	Password string `json:"password,omitempty"`
}

type createUserOptions struct {
	PasswordEncryptType crypto.EncryptionType `json:"passwordEncryptType,omitempty"`
}

type createUserBody struct {
	*CreateUserRequest
	Options *createUserOptions `json:"options,omitempty"`
}

// GetUser returns the user with the given id.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("user id must not be empty")
	}
	user := new(User)
	endpoint := httphelper.JoinURL(c.config.Host, "/api/v3/get-user", url.Values{"userId": {userID}})
	if err := c.call(ctx, "GetUser", http.MethodGet, endpoint, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser creates a user, encrypting the password with the configured encrypter.
func (c *Client) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req == nil || (req.Username == "" && req.Email == "" && req.Phone == "") {
		return nil, oidc.ErrInvalidArgument().WithDescription("one of username, email and phone is required")
	}
	body := &createUserBody{CreateUserRequest: req}
	if req.Password != "" {
		if c.encrypter == nil {
			return nil, oidc.ErrCrypto().WithParent(crypto.ErrNoPublicKey)
		}
		encrypted, err := c.encrypter.Encrypt(req.Password)
		if err != nil {
			return nil, err
		}
		copied := *req
		copied.Password = encrypted
		body.CreateUserRequest = &copied
		body.Options = &createUserOptions{PasswordEncryptType: c.encrypter.Type()}
	}
	user := new(User)
	if err := c.call(ctx, "CreateUser", http.MethodPost, c.endpoint("/api/v3/create-user"), body, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUsersBatch deletes the users with the given ids.
func (c *Client) DeleteUsersBatch(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return oidc.ErrInvalidArgument().WithDescription("user ids must not be empty")
	}
	return c.call(ctx, "DeleteUsersBatch", http.MethodPost, c.endpoint("/api/v3/delete-users-batch"), map[string]any{
		"userIds": userIDs,
	}, nil)
}

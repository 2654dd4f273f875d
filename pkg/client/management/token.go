package management

import (
	"context"
	"net/http"
	"time"

	"github.com/authing/authing-go-sdk/v3/pkg/client"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

type managementToken struct {
	accessToken string
	// expiry is zero when the platform did not say.
	expiry time.Time
}

// RefreshPolicy reports whether a cached management token
// with the given expiry must be exchanged again at now.
// A zero expiry means the lifetime is unknown.
type RefreshPolicy func(expiry, now time.Time) bool

// RefreshNever keeps the first management token for the lifetime of the client.
func RefreshNever(time.Time, time.Time) bool {
	return false
}

// RefreshBeforeExpiry exchanges the secret again once the token
// is within skew of its expiry. Tokens of unknown lifetime are kept.
func RefreshBeforeExpiry(skew time.Duration) RefreshPolicy {
	return func(expiry, now time.Time) bool {
		if expiry.IsZero() {
			return false
		}
		return !now.Before(expiry.Add(-skew))
	}
}

type tokenRequest struct {
	UserPoolID string `json:"userPoolId"`
	Secret     string `json:"secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AccessToken returns the management token,
// exchanging the user pool secret when there is none or the refresh policy asks for it.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != nil && !c.refresh(c.token.expiry, c.now()) {
		return c.token.accessToken, nil
	}
	token, err := c.exchangeSecret(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token.accessToken, nil
}

// SetAccessToken replaces the management token, e.g. with one cached by the application.
func (c *Client) SetAccessToken(accessToken string, expiry time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = &managementToken{accessToken: accessToken, expiry: expiry}
}

func (c *Client) exchangeSecret(ctx context.Context) (*managementToken, error) {
	ctx, span := client.Tracer.Start(ctx, "GetManagementToken")
	defer span.End()

	issued := c.now()
	resp := new(tokenResponse)
	err := client.Do(ctx, c, http.MethodPost, c.endpoint("/api/v3/get-management-token"), &tokenRequest{
		UserPoolID: c.config.UserPoolID,
		Secret:     c.config.Secret,
	}, nil, resp)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, oidc.ErrAPI(http.StatusOK, "response carries no management token")
	}
	token := &managementToken{accessToken: resp.AccessToken}
	if resp.ExpiresIn > 0 {
		token.expiry = issued.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return token, nil
}

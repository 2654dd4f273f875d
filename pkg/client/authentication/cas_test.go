package authentication

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tu "github.com/authing/authing-go-sdk/v3/internal/testutil"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	}
}

func TestValidateTicketV1(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *oidc.TicketValidation
	}{
		{
			name: "valid",
			body: "yes\nalice\n",
			want: &oidc.TicketValidation{Valid: true, Username: "alice"},
		},
		{
			name: "invalid",
			body: "no\n\n",
			want: &oidc.TicketValidation{Message: oidc.TicketInvalidMessage},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tu.NewServer(t)
			srv.Router.Get("/cas-idp/app1/validate", text(tt.body))
			c := newTestClient(t, srv, func(config *Config) {
				config.Protocol = oidc.ProtocolCAS
			})

			got, err := c.ValidateTicketV1(context.Background(), "ST-1", "https://svc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			req := srv.Last()
			assert.Equal(t, []string{"https://svc"}, req.Query["service"])
			assert.Equal(t, []string{"ST-1"}, req.Query["ticket"])
		})
	}
}

func TestValidateTicketV2(t *testing.T) {
	srv := tu.NewServer(t)
	srv.Router.Get("/cas-idp/app1/serviceValidate", tu.JSON(map[string]any{
		"serviceResponse": map[string]any{
			"authenticationSuccess": map[string]any{
				"user":       "alice",
				"attributes": map[string]any{"email": "alice@example.com"},
			},
		},
	}))
	c := newTestClient(t, srv, func(config *Config) {
		config.Protocol = oidc.ProtocolCAS
	})

	got, err := c.ValidateTicketV2(context.Background(), "ST-1", "https://svc")
	require.NoError(t, err)
	assert.True(t, got.Valid())
	assert.Equal(t, "alice", got.ServiceResponse.AuthenticationSuccess.User)
	assert.Equal(t, []string{"JSON"}, srv.Last().Query["format"])
}

func TestValidateTicket_emptyTicket(t *testing.T) {
	srv := tu.NewServer(t)
	c := newTestClient(t, srv, nil)

	_, err := c.ValidateTicketV1(context.Background(), "", "https://svc")
	assert.ErrorIs(t, err, oidc.ErrKindInvalidArgument)
	_, err = c.ValidateTicketV2(context.Background(), "", "https://svc")
	assert.ErrorIs(t, err, oidc.ErrKindInvalidArgument)
	assert.Zero(t, srv.Count())
}

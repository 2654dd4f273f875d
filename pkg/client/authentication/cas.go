package authentication

import (
	"context"
	"net/http"
	"net/url"

	"github.com/authing/authing-go-sdk/v3/pkg/client"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

func (c *Client) casEndpoint(path, ticket, service string, extra url.Values) (string, error) {
	if ticket == "" {
		return "", oidc.ErrInvalidArgument().WithDescription("ticket must not be empty")
	}
	query := url.Values{
		"service": {service},
		"ticket":  {ticket},
	}
	for k, v := range extra {
		query[k] = v
	}
	return httphelper.JoinURL(c.config.Host, "/cas-idp/"+c.config.AppID+path, query), nil
}

// ValidateTicketV1 validates a CAS ticket with the CAS 1.0 protocol.
// A rejected ticket is no error, check Valid of the result.
func (c *Client) ValidateTicketV1(ctx context.Context, ticket, service string) (*oidc.TicketValidation, error) {
	ctx = c.logCtxWithClientData(ctx, "ValidateTicketV1")
	endpoint, err := c.casEndpoint("/validate", ticket, service, nil)
	if err != nil {
		return nil, err
	}
	body, err := client.CallTextEndpoint(ctx, endpoint, c)
	if err != nil {
		return nil, err
	}
	return oidc.ParseTicketValidation(body), nil
}

// ValidateTicketV2 validates a CAS ticket with the CAS 2.0 protocol, asking for a JSON answer.
func (c *Client) ValidateTicketV2(ctx context.Context, ticket, service string) (*oidc.ServiceValidation, error) {
	ctx = c.logCtxWithClientData(ctx, "ValidateTicketV2")
	ctx, span := client.Tracer.Start(ctx, "ValidateTicketV2")
	defer span.End()

	endpoint, err := c.casEndpoint("/serviceValidate", ticket, service, url.Values{"format": {"JSON"}})
	if err != nil {
		return nil, err
	}
	validation := new(oidc.ServiceValidation)
	if err := client.Do(ctx, c, http.MethodGet, endpoint, nil, nil, validation); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return validation, nil
}

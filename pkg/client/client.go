package client

import (
	"context"
	"net/http"
	"time"

	"github.com/authing/authing-go-sdk/v3/internal/otel"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

var Tracer = otel.Tracer("client")

// Caller is the transport of a client:
// its HTTP client and the headers sent with every request.
type Caller interface {
	HttpClient() *http.Client
	SDKHeaders() httphelper.SDKHeaders
}

type TokenEndpointCaller interface {
	Caller
	TokenEndpoint() string
}

type IntrospectionCaller interface {
	Caller
	IntrospectionEndpoint() string
}

type RevokeCaller interface {
	Caller
	RevokeEndpoint() string
}

type UserinfoCaller interface {
	Caller
	UserinfoEndpoint() string
}

// Do sends request as JSON to endpoint and decodes the response into response.
// authFn is passed to httphelper.JSONRequest.
func Do(ctx context.Context, caller Caller, method, endpoint string, request, authFn, response any) error {
	req, err := httphelper.JSONRequest(ctx, method, endpoint, request, authFn)
	if err != nil {
		return err
	}
	caller.SDKHeaders().Apply(req)
	return httphelper.HttpRequest(caller.HttpClient(), req, response)
}

// CallTokenEndpoint exchanges request at the token endpoint.
// Client credentials are added by authFn, see ClientAuthentication.
func CallTokenEndpoint(ctx context.Context, request oidc.TokenRequest, authFn any, caller TokenEndpointCaller) (*oidc.Tokens, error) {
	ctx, span := Tracer.Start(ctx, "CallTokenEndpoint")
	defer span.End()

	tokenRes := new(oidc.AccessTokenResponse)
	if err := Do(ctx, caller, http.MethodPost, caller.TokenEndpoint(), request, authFn, tokenRes); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return tokenRes.Tokens(time.Now()), nil
}

// CallIntrospectionEndpoint asks the server about a token.
// An inactive token is not an error: check the Active field.
func CallIntrospectionEndpoint(ctx context.Context, request *oidc.IntrospectionRequest, authFn any, caller IntrospectionCaller) (*oidc.IntrospectionResponse, error) {
	ctx, span := Tracer.Start(ctx, "CallIntrospectionEndpoint")
	defer span.End()

	resp := new(oidc.IntrospectionResponse)
	if err := Do(ctx, caller, http.MethodPost, caller.IntrospectionEndpoint(), request, authFn, resp); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return resp, nil
}

// CallRevokeEndpoint revokes a token.
// According to RFC 7009, section 2.2 the response body carries no information,
// so success is signaled by a 2xx status only.
func CallRevokeEndpoint(ctx context.Context, request *oidc.RevocationRequest, authFn any, caller RevokeCaller) error {
	ctx, span := Tracer.Start(ctx, "CallRevokeEndpoint")
	defer span.End()

	if err := Do(ctx, caller, http.MethodPost, caller.RevokeEndpoint(), request, authFn, nil); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// CallUserinfoEndpoint fetches the claims of the user the access token was issued to.
func CallUserinfoEndpoint(ctx context.Context, accessToken string, caller UserinfoCaller) (*oidc.UserInfo, error) {
	ctx, span := Tracer.Start(ctx, "CallUserinfoEndpoint")
	defer span.End()

	info := new(oidc.UserInfo)
	err := Do(ctx, caller, http.MethodPost, caller.UserinfoEndpoint(), map[string]any{}, httphelper.AuthorizeBearer(accessToken), info)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return info, nil
}

// CallTextEndpoint sends a GET request to endpoint and returns the raw body,
// for the CAS 1.0 validation endpoint that answers in plain text.
func CallTextEndpoint(ctx context.Context, endpoint string, caller Caller) (string, error) {
	ctx, span := Tracer.Start(ctx, "CallTextEndpoint")
	defer span.End()

	req, err := httphelper.JSONRequest(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	caller.SDKHeaders().Apply(req)
	body, err := httphelper.TextRequest(caller.HttpClient(), req)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return string(body), nil
}

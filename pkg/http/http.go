package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zitadel/logging"

	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

// DefaultTimeout bounds every request of a client created without an explicit timeout.
const DefaultTimeout = 10 * time.Second

var DefaultHTTPClient = &http.Client{
	Timeout: DefaultTimeout,
}

// NewHTTPClient returns a client with the given timeout.
// When insecureSkipVerify is set, server certificates are not verified.
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{
		Timeout: timeout,
	}
	if insecureSkipVerify {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		client.Transport = transport
	}
	return client
}

// BodyAuthorization adds credentials to the JSON body of a request.
type BodyAuthorization func(map[string]any)

// RequestAuthorization adds credentials to the request, usually as a header.
type RequestAuthorization func(*http.Request)

// AuthorizeBasic sets `Authorization: Basic base64(user:password)`.
// User and password are used as is, without URL escaping.
func AuthorizeBasic(user, password string) RequestAuthorization {
	return func(req *http.Request) {
		req.SetBasicAuth(user, password)
	}
}

// AuthorizeBearer sets `Authorization: Bearer token`.
func AuthorizeBearer(token string) RequestAuthorization {
	return func(req *http.Request) {
		req.Header.Set("Authorization", oidc.BearerToken+" "+token)
	}
}

// JSONRequest builds a request with request encoded as a JSON object body.
// Fields that encode to null are left out.
// authFn may be a BodyAuthorization, a RequestAuthorization or nil.
// A nil request results in a request without body, e.g. for GET.
func JSONRequest(ctx context.Context, method, endpoint string, request any, authFn any) (*http.Request, error) {
	var body io.Reader
	if request != nil {
		fields, err := toFields(request)
		if err != nil {
			return nil, err
		}
		if fn, ok := authFn.(BodyAuthorization); ok {
			fn(fields)
		}
		data, err := json.Marshal(fields)
		if err != nil {
			return nil, oidc.ErrInvalidArgument().WithParent(err).WithDescription("request body cannot be encoded")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, oidc.ErrInvalidArgument().WithParent(err).WithDescription("invalid endpoint %q", endpoint)
	}
	if fn, ok := authFn.(RequestAuthorization); ok {
		fn(req)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func toFields(request any) (map[string]any, error) {
	if fields, ok := request.(map[string]any); ok {
		out := make(map[string]any, len(fields))
		for k, v := range fields {
			if v != nil {
				out[k] = v
			}
		}
		return out, nil
	}
	data, err := json.Marshal(request)
	if err != nil {
		return nil, oidc.ErrInvalidArgument().WithParent(err).WithDescription("request body cannot be encoded")
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	fields := make(map[string]any)
	if err := decoder.Decode(&fields); err != nil {
		return nil, oidc.ErrInvalidArgument().WithParent(err).WithDescription("request body must encode to a JSON object")
	}
	for k, v := range fields {
		if v == nil {
			delete(fields, k)
		}
	}
	return fields, nil
}

// HttpRequest sends req and decodes the JSON response into response.
// A nil response discards the body after the status check.
//
// Errors are classified by kind: Timeout when the deadline elapsed,
// Transport for any other failure to get a response,
// APIError for a non 2xx status or an envelope with a code other than 200.
// The `data` member of an envelope is unwrapped before decoding.
func HttpRequest(client *http.Client, req *http.Request, response any) error {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}
	logExchange(req, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp, body)
	}
	if response == nil {
		return nil
	}
	payload, err := unwrapEnvelope(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, response); err != nil {
		return oidc.ErrTransport().WithParent(err).WithDescription("failed to unmarshal response: %s", truncate(body))
	}
	return nil
}

// TextRequest sends req and returns the raw body of a 2xx response.
func TextRequest(client *http.Client, req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	logExchange(req, resp.StatusCode, time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp, body)
	}
	return body, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return oidc.ErrTimeout().WithParent(err)
	}
	return oidc.ErrTransport().WithParent(err)
}

// envelope is the platform response shape.
// Some endpoints name the code `statusCode`.
type envelope struct {
	Code       *int            `json:"code"`
	StatusCode *int            `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func (e *envelope) code() (int, bool) {
	if e.Code != nil {
		return *e.Code, true
	}
	if e.StatusCode != nil {
		return *e.StatusCode, true
	}
	return 0, false
}

// oauthError is the RFC 6749 error response of the protocol endpoints.
type oauthError struct {
	ErrorType   string `json:"error"`
	Description string `json:"error_description"`
}

func unwrapEnvelope(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return body, nil
	}
	code, ok := env.code()
	if !ok {
		return body, nil
	}
	if code != http.StatusOK {
		return nil, oidc.ErrAPI(code, env.Message)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return body, nil
	}
	return env.Data, nil
}

func statusError(resp *http.Response, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if code, ok := env.code(); ok && code != http.StatusOK {
			return oidc.ErrAPI(code, env.Message)
		}
	}
	var oauthErr oauthError
	if err := json.Unmarshal(body, &oauthErr); err == nil && oauthErr.ErrorType != "" {
		message := oauthErr.ErrorType
		if oauthErr.Description != "" {
			message += ": " + oauthErr.Description
		}
		return oidc.ErrAPI(resp.StatusCode, message)
	}
	return oidc.ErrAPI(resp.StatusCode, fmt.Sprintf("http status not ok: %s %s", resp.Status, truncate(body)))
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

func logExchange(req *http.Request, status int, took time.Duration) {
	logger, ok := logging.FromContext(req.Context())
	if !ok {
		return
	}
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	logger.LogAttrs(req.Context(), slog.LevelDebug, "http exchange",
		slog.String("method", req.Method),
		slog.String("url", u.String()),
		slog.Int("status", status),
		slog.Duration("duration", took),
	)
}

// JoinURL joins path to the host base URL and sets query when not empty.
func JoinURL(host, path string, query url.Values) string {
	u := strings.TrimSuffix(host, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

package oidc

const (
	// DefaultRandomLength is the length of generated `state` and `nonce` values.
	DefaultRandomLength = 10
)

// AuthRequest holds the query parameters of an authorize URL
// https://openid.net/specs/openid-connect-core-1_0.html#AuthRequest
type AuthRequest struct {
	ClientID     string       `schema:"client_id"`
	RedirectURI  string       `schema:"redirect_uri,omitempty"`
	ResponseType ResponseType `schema:"response_type"`
	ResponseMode ResponseMode `schema:"response_mode,omitempty"`
	Scope        string       `schema:"scope"`
	State        string       `schema:"state"`
	Nonce        string       `schema:"nonce,omitempty"`
	Prompt       Prompt       `schema:"prompt,omitempty"`

	CodeChallenge       string              `schema:"code_challenge,omitempty"`
	CodeChallengeMethod CodeChallengeMethod `schema:"code_challenge_method,omitempty"`
}

// EndSessionRequest holds the query parameters of the OIDC end session endpoint
// https://openid.net/specs/openid-connect-rpinitiated-1_0.html#RPLogout
type EndSessionRequest struct {
	IDTokenHint           string `schema:"id_token_hint,omitempty"`
	PostLogoutRedirectURI string `schema:"post_logout_redirect_uri,omitempty"`
	State                 string `schema:"state,omitempty"`
}

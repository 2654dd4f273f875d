package oidc

import (
	"encoding/json"
	"time"

	"github.com/muhlemmer/gu"
)

// IntrospectionResponse implements RFC 7662, section 2.2.
// https://www.rfc-editor.org/rfc/rfc7662.html#section-2.2.
// A response with Active false means the token is not valid.
type IntrospectionResponse struct {
	Active     bool                `json:"active"`
	Scope      SpaceDelimitedArray `json:"scope,omitempty"`
	ClientID   string              `json:"client_id,omitempty"`
	TokenType  string              `json:"token_type,omitempty"`
	Expiration Time                `json:"exp,omitempty"`
	IssuedAt   Time                `json:"iat,omitempty"`
	NotBefore  Time                `json:"nbf,omitempty"`
	Subject    string              `json:"sub,omitempty"`
	Audience   Audience            `json:"aud,omitempty"`
	Issuer     string              `json:"iss,omitempty"`
	JWTID      string              `json:"jti,omitempty"`
	Username   string              `json:"username,omitempty"`

	Claims map[string]any `json:"-"`
}

// introspectionResponseAlias prevents loops on the JSON methods
type introspectionResponseAlias IntrospectionResponse

func (i *IntrospectionResponse) MarshalJSON() ([]byte, error) {
	return mergeAndMarshalClaims((*introspectionResponseAlias)(i), i.Claims)
}

func (i *IntrospectionResponse) UnmarshalJSON(data []byte) error {
	return unmarshalClaims(data, (*introspectionResponseAlias)(i), &i.Claims)
}

// ClaimsCopy returns a copy of all claims of the response.
func (i *IntrospectionResponse) ClaimsCopy() map[string]any {
	return gu.MapCopy(i.Claims)
}

// Audience accepts both a single string and a list of strings.
type Audience []string

func (a *Audience) UnmarshalJSON(text []byte) error {
	var i any
	if err := json.Unmarshal(text, &i); err != nil {
		return err
	}
	switch aud := i.(type) {
	case []any:
		*a = make([]string, 0, len(aud))
		for _, audience := range aud {
			if s, ok := audience.(string); ok {
				*a = append(*a, s)
			}
		}
	case string:
		*a = []string{aud}
	}
	return nil
}

// Time is a time encoded as seconds since the epoch.
type Time int64

func FromTime(tt time.Time) Time {
	if tt.IsZero() {
		return 0
	}
	return Time(tt.Unix())
}

func (ts Time) AsTime() time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(int64(ts), 0)
}

func (ts *Time) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch n := v.(type) {
	case float64:
		*ts = Time(n)
	default:
		*ts = 0
	}
	return nil
}

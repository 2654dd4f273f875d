package rs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	jose "github.com/go-jose/go-jose/v4"

	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

// JWKSPath is where the platform publishes its signing keys.
const JWKSPath = "/oidc/.well-known/jwks.json"

// NewRemoteKeySet returns a key set that downloads jwksURL on every call to Keys.
// Keys are not cached between verifications.
func NewRemoteKeySet(client *http.Client, jwksURL string) oidc.KeySet {
	if client == nil {
		client = httphelper.DefaultHTTPClient
	}
	return &remoteKeySet{httpClient: client, jwksURL: jwksURL}
}

type remoteKeySet struct {
	jwksURL    string
	httpClient *http.Client
}

func (r *remoteKeySet) Keys(ctx context.Context) ([]jose.JSONWebKey, error) {
	ctx, span := tracer.Start(ctx, "FetchKeys")
	defer span.End()

	req, err := httphelper.JSONRequest(ctx, http.MethodGet, r.jwksURL, nil, nil)
	if err != nil {
		return nil, err
	}
	keySet := new(jsonWebKeySet)
	if err = httphelper.HttpRequest(r.httpClient, req, keySet); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return keySet.Keys, nil
}

// StaticKeySet holds keys the caller fetched earlier.
type StaticKeySet []jose.JSONWebKey

func (s StaticKeySet) Keys(context.Context) ([]jose.JSONWebKey, error) {
	return s, nil
}

// ParseKeySet decodes a JWKS document into a StaticKeySet.
// Keys of unknown type are skipped.
func ParseKeySet(data []byte) (StaticKeySet, error) {
	keySet := new(jsonWebKeySet)
	if err := json.Unmarshal(data, keySet); err != nil {
		return nil, oidc.ErrInvalidArgument().WithParent(err).WithDescription("invalid JWKS")
	}
	return keySet.Keys, nil
}

// jsonWebKeySet is an alias for jose.JSONWebKeySet which ignores unknown key types (kty)
type jsonWebKeySet jose.JSONWebKeySet

// UnmarshalJSON overrides the default jose.JSONWebKeySet method to ignore any error
// which might occur because of unknown key types (kty)
func (k *jsonWebKeySet) UnmarshalJSON(data []byte) (err error) {
	var raw rawJSONWebKeySet
	err = json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("rs: failed to unmarshal key set: %w", err)
	}
	for i, key := range raw.Keys {
		webKey := new(jose.JSONWebKey)
		if err = webKey.UnmarshalJSON(key); err != nil {
			if errors.Is(err, jose.ErrUnsupportedKeyType) {
				continue
			}
			return fmt.Errorf("rs: failed to unmarshal key %d from set: %w", i, err)
		}
		k.Keys = append(k.Keys, *webKey)
	}
	return nil
}

type rawJSONWebKeySet struct {
	Keys []json.RawMessage `json:"keys"`
}

package oidc

import (
	"encoding/json"
	"fmt"
	"maps"
)

// mergeAndMarshalClaims encodes registered as a JSON object
// with the custom claims of extra added to it.
// A registered field wins over a custom claim of the same name.
func mergeAndMarshalClaims(registered any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(registered)
	if err != nil {
		return nil, fmt.Errorf("oidc registered claims: %w", err)
	}
	if len(extra) == 0 {
		return data, nil
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("oidc registered claims: %w", err)
	}
	merged := make(map[string]any, len(extra)+len(fields))
	maps.Copy(merged, extra)
	for k, v := range fields {
		merged[k] = v
	}
	data, err = json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("oidc custom claims: %w", err)
	}
	return data, nil
}

// unmarshalClaims decodes data into the typed claims dst
// and collects every member, registered or not, into all.
func unmarshalClaims(data []byte, dst any, all *map[string]any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("oidc: %w into %T", err, dst)
	}
	if err := json.Unmarshal(data, all); err != nil {
		return fmt.Errorf("oidc: %w into claims", err)
	}
	return nil
}

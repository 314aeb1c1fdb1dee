package secrets

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Ref is a parsed secret key of the form name[@version][#field].
//
//	jwt-signing-key           latest version, whole value
//	jwt-signing-key@3         version 3
//	player-keys#private_pem   field private_pem of a JSON secret
type Ref struct {
	Name    string
	Version string
	Field   string
}

// ParseRef splits key into its parts.
func ParseRef(key string) (Ref, error) {
	var r Ref
	r.Name, r.Field, _ = strings.Cut(key, "#")
	r.Name, r.Version, _ = strings.Cut(r.Name, "@")
	if r.Name == "" {
		return Ref{}, fmt.Errorf("%w: empty secret name in %q", ErrProviderError, key)
	}
	return r, nil
}

// extractField returns raw unchanged when field is empty, otherwise the
// named string member of the JSON object in raw.
func extractField(raw []byte, field string) (string, error) {
	if field == "" {
		return string(raw), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("%w: secret is not a JSON object, cannot select %q", ErrProviderError, field)
	}
	return stringField(obj, field)
}

func stringField(obj map[string]any, field string) (string, error) {
	v, ok := obj[field]
	if !ok {
		return "", ErrSecretNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrProviderError, field)
	}
	return s, nil
}

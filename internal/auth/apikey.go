package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

const (
	// APIKeyHeader carries the device key on REST requests.
	APIKeyHeader = "X-API-Key"

	// APIKeyQueryParam carries the device key on the WebSocket upgrade,
	// since browsers cannot set headers on it.
	APIKeyQueryParam = "api_key"
)

// APIKeyAuthenticator authenticates shared device keys, e.g. a tablet
// mounted in the kitchen.
type APIKeyAuthenticator struct {
	devices map[string]string // key -> device name
}

// NewAPIKeyAuthenticator parses "key1:device1,key2:device2".
func NewAPIKeyAuthenticator(keysConfig string) (*APIKeyAuthenticator, error) {
	devices, err := parsePairs(keysConfig, "apikey auth", "key:device")
	if err != nil {
		return nil, err
	}
	return &APIKeyAuthenticator{devices: devices}, nil
}

// Authenticate reads the key from the header, falling back to the query
// parameter, and compares it in constant time against every known key.
func (a *APIKeyAuthenticator) Authenticate(r *http.Request) (*Member, error) {
	apiKey := r.Header.Get(APIKeyHeader)
	if apiKey == "" {
		apiKey = r.URL.Query().Get(APIKeyQueryParam)
	}
	if apiKey == "" {
		return nil, ErrUnauthenticated
	}

	var device string
	for key, name := range a.devices {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
			device = name
		}
	}
	if device == "" {
		return nil, ErrInvalidAPIKey
	}

	return &Member{Method: MethodAPIKey, Name: device}, nil
}

// Method implements Authenticator.
func (a *APIKeyAuthenticator) Method() Method {
	return MethodAPIKey
}

// parsePairs splits a "left:right,left:right" list on the first colon of
// every entry. Empty entries are skipped.
func parsePairs(config, prefix, format string) (map[string]string, error) {
	trimmed := strings.TrimSpace(config)
	if trimmed == "" {
		return nil, fmt.Errorf("%s: config must not be empty", prefix)
	}

	pairs := make(map[string]string)
	for entry := range strings.SplitSeq(trimmed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		left, right, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("%s: invalid entry format, expected %s", prefix, format)
		}

		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if left == "" || right == "" {
			return nil, fmt.Errorf("%s: both sides of %s must be set", prefix, format)
		}

		pairs[left] = right
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s: no valid entries found", prefix)
	}

	return pairs, nil
}

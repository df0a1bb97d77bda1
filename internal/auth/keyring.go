package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// KeyringStore persists one token per API host in the OS keyring
// (macOS Keychain, Secret Service, Windows Credential Manager).
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store under the default service name.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: constants.KeyringService}
}

// Save stores token for baseURL.
func (s *KeyringStore) Save(baseURL, token string) error {
	if token == "" {
		return constants.ErrTokenRequired
	}

	err := keyring.Set(s.service, hostKey(baseURL), token)
	if err != nil {
		return fmt.Errorf("%w: %w", constants.ErrKeyringUnavailable, err)
	}

	return nil
}

// Load returns the token stored for baseURL.
func (s *KeyringStore) Load(baseURL string) (string, error) {
	token, err := keyring.Get(s.service, hostKey(baseURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", constants.ErrNoKeyringEntry
		}

		return "", fmt.Errorf("%w: %w", constants.ErrKeyringUnavailable, err)
	}

	return token, nil
}

// Delete removes the token stored for baseURL. A missing entry is not an error.
func (s *KeyringStore) Delete(baseURL string) error {
	err := keyring.Delete(s.service, hostKey(baseURL))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %w", constants.ErrKeyringUnavailable, err)
	}

	return nil
}

// hostKey reduces a base URL to its host so trailing paths and schemes do
// not split entries.
func hostKey(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return strings.TrimSuffix(baseURL, "/")
	}

	return strings.ToLower(parsed.Host)
}

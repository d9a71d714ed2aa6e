// Package secrets resolves the generation service API key.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	KeyringService = "jobmatch"
	KeyringAccount = "gemini-api-key"

	EnvAPIKey       = "JOBMATCH_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Origin names where a resolved credential came from.
type Origin string

const (
	OriginNone    Origin = ""
	OriginFlag    Origin = "flag"
	OriginEnv     Origin = "env"
	OriginKeyring Origin = "keyring"
)

var ErrNotFound = errors.New("API key not found (use --api-key, JOBMATCH_API_KEY, or `jobmatch credential set`)")

// Resolve returns the first non-empty key from the flag value, the
// environment, and then the OS keyring.
func Resolve(flagValue string) (string, Origin, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, OriginFlag, nil
	}
	for _, name := range []string{EnvAPIKey, EnvGeminiAPIKey} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key, OriginEnv, nil
		}
	}

	key, err := keyring.Get(KeyringService, KeyringAccount)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), OriginKeyring, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", OriginNone, fmt.Errorf("read keyring: %w", err)
	}
	return "", OriginNone, ErrNotFound
}

// Store saves key in the OS keyring.
func Store(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, KeyringAccount, key)
}

// Clear removes the keyring entry. A missing entry is not an error.
func Clear() error {
	err := keyring.Delete(KeyringService, KeyringAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

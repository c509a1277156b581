// Package auth resolves and stores the Google Programmable Search
// credentials used by the discovery source.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "leadctl"
	keyringUser    = "google_cse"
	credsFileName  = "credentials.json"
	fileMode       = 0600

	// EnvAPIKey and EnvCX override any stored credentials.
	EnvAPIKey = "CSE_API_KEY"
	EnvCX     = "CSE_CX"
)

// ErrNotFound indicates no credentials in the environment, the OS
// keychain, or the credentials file.
var ErrNotFound = errors.New("search credentials not found, run leadctl auth")

// Credentials holds the Google Programmable Search API key and engine ID.
type Credentials struct {
	APIKey string `json:"api_key"`
	CX     string `json:"cx"`
}

// Resolve returns credentials from the environment, the OS keychain,
// or the credentials file under home, in that order.
func Resolve(home string) (*Credentials, error) {
	if key, cx := os.Getenv(EnvAPIKey), os.Getenv(EnvCX); key != "" && cx != "" {
		return &Credentials{APIKey: key, CX: cx}, nil
	}

	// Try keychain first
	if raw, err := keyring.Get(keyringService, keyringUser); err == nil && raw != "" {
		var c Credentials
		if err := json.Unmarshal([]byte(raw), &c); err == nil && c.APIKey != "" && c.CX != "" {
			return &c, nil
		}
	}

	// Fall back to file
	c, err := readCredsFile(home)
	if err != nil {
		return nil, ErrNotFound
	}

	// Migrate to keychain
	if raw, err := json.Marshal(c); err == nil {
		if migrateErr := keyring.Set(keyringService, keyringUser, string(raw)); migrateErr == nil {
			slog.Info("migrated credentials from file to OS keychain")
			os.Remove(credsPath(home))
		}
	}

	return c, nil
}

// Save stores credentials in the OS keychain, falling back to a file
// under home when the keychain is unavailable.
func Save(home string, c *Credentials) error {
	if c == nil || c.APIKey == "" || c.CX == "" {
		return errors.New("api key and cx are required")
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := keyring.Set(keyringService, keyringUser, string(raw)); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return os.WriteFile(credsPath(home), raw, fileMode)
	}

	// Clean up legacy file if it exists
	os.Remove(credsPath(home))

	return nil
}

// Clear removes stored credentials from both the keychain and the file.
func Clear(home string) error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("keychain delete failed", "error", err)
	}
	if err := os.Remove(credsPath(home)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

func credsPath(home string) string {
	return path.Join(home, credsFileName)
}

func readCredsFile(home string) (*Credentials, error) {
	b, err := os.ReadFile(credsPath(home))
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	if c.APIKey == "" || c.CX == "" {
		return nil, errors.New("credentials file incomplete")
	}

	return &c, nil
}

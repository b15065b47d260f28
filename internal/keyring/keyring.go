package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitvault/internal/constants"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring
	ErrNotFound = errors.New("token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetToken retrieves the API token from the OS keyring.
// Returns ErrNotFound if no token is stored.
func GetToken() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the API token in the OS keyring.
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the API token from the OS keyring.
func DeleteToken() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}

// Session resolves the API token for the current run. An explicit token
// (from --token or HABITVAULT_TOKEN) wins over the keyring and is never
// written back to it.
type Session struct {
	explicit string
}

// NewSession creates a Session. Pass "" to rely on the keyring alone.
func NewSession(explicit string) *Session {
	return &Session{explicit: strings.TrimSpace(explicit)}
}

// Token returns the current token, or "" if none is available. Keyring
// failures other than "not found" are returned so callers can log them.
func (s *Session) Token() (string, error) {
	if s.explicit != "" {
		return s.explicit, nil
	}
	token, err := GetToken()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// Login stores token in the keyring for future runs.
func (s *Session) Login(token string) error {
	if err := SetToken(token); err != nil {
		return err
	}
	s.explicit = ""
	return nil
}

// Logout forgets the token. A missing keyring entry is not an error.
func (s *Session) Logout() error {
	s.explicit = ""
	if err := DeleteToken(); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

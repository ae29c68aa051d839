package validation

import (
	"errors"
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

// ValidateUsername restricts usernames to a URL- and log-safe alphabet.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return errors.New("username must be 3-32 characters of letters, digits, underscore or dash")
	}
	return nil
}

// ValidateTokenName checks an upload token's human name. Uniqueness per
// owner is enforced by the store.
func ValidateTokenName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("token name is required")
	}
	if len(name) > 64 {
		return errors.New("token name must not exceed 64 characters")
	}
	return nil
}

// ValidateDisplayName checks a user's display name.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("display name is required")
	}
	if len(name) > 64 {
		return errors.New("display name must not exceed 64 characters")
	}
	return nil
}

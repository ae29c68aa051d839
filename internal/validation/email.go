package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail checks email format using the standard library parser.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address")
	}

	// Reject "Name <addr>" forms, only the bare address is acceptable
	if addr.Address != email {
		return errors.New("invalid email address")
	}

	return nil
}

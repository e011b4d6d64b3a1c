package validation

import (
	"errors"
)

// ValidateEmail validates email format and length
// (RFC 5321: total max 254 with @)
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	err := validate.Var(email, "email")
	if err != nil {
		return errors.New("invalid email address format")
	}

	return nil
}

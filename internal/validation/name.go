package validation

import (
	"errors"
	"strings"
)

// MaxNameLength bounds folder and file names.
const MaxNameLength = 255

// ValidateName validates a folder or file name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	err := validate.Var(trimmed, "max=255,excludesall=/\\")
	if err != nil {
		if len(trimmed) > MaxNameLength {
			return errors.New("name is too long (max 255 characters)")
		}
		return errors.New("name must not contain slashes")
	}

	return nil
}

package service

import (
	"errors"
	"fmt"

	"github.com/templui/drivebox/internal/repository"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else;
	// callers cannot tell the two apart.
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidShareTarget = errors.New("cannot share a file with its owner")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
)

// invalid wraps a validation failure so errors.Is matches kind while the
// message keeps the detail.
func invalid(kind, err error) error {
	return fmt.Errorf("%w: %s", kind, err.Error())
}

// notFound maps repository lookups onto ErrNotFound and passes anything else
// through unchanged.
func notFound(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrFileNotFound),
		errors.Is(err, repository.ErrFolderNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrShareNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	default:
		return err
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// Repositories bundles every repository bound to the same handle. Pass a
// *sqlx.DB for single statements or a *sqlx.Tx to run several repositories
// inside one transaction.
type Repositories struct {
	Users   UserRepository
	Folders FolderRepository
	Files   FileRepository
	Shares  ShareRepository
}

func New(q sqlx.ExtContext) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(q),
		Folders: NewFolderRepository(q),
		Files:   NewFileRepository(q),
		Shares:  NewShareRepository(q),
	}
}

// isUniqueViolation checks for unique constraint violations (works for both SQLite and PostgreSQL)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

package model

import (
	"time"
)

// Share grants read visibility of one file to another user. Ownership stays
// with OwnerID.
type Share struct {
	ID               string    `db:"id" json:"id"`
	FileID           string    `db:"file_id" json:"file_id"`
	OwnerID          string    `db:"owner_id" json:"owner_id"`
	SharedWithUserID string    `db:"shared_with_user_id" json:"shared_with_user_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

package model

import (
	"time"
)

// FileState is the lifecycle position of a file record. There is no purged
// state: blobs are never reclaimed, a trashed file can always be restored.
type FileState string

const (
	FileStateActive  FileState = "active"
	FileStateTrashed FileState = "trashed"
)

type File struct {
	ID         string    `db:"id" json:"id"`
	Filename   string    `db:"filename" json:"filename"`
	BlobPath   string    `db:"blob_path" json:"-"`
	Size       int64     `db:"size_bytes" json:"size"`
	UploadedAt time.Time `db:"uploaded_at" json:"upload_time"`
	OwnerID    string    `db:"owner_id" json:"owner_id"`
	FolderID   *string   `db:"folder_id" json:"folder_id"` // nil = root
	IsDeleted  bool      `db:"is_deleted" json:"is_deleted"`
	IsStarred  bool      `db:"is_starred" json:"is_starred"`
}

func (f *File) State() FileState {
	if f.IsDeleted {
		return FileStateTrashed
	}
	return FileStateActive
}

func (f *File) AtRoot() bool {
	return f.FolderID == nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

// FileRepository lookups and mutations are scoped by owner, like folders.
type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	ByID(ctx context.Context, ownerID, fileID string) (*model.File, error)
	Files(ctx context.Context, ownerID string, folderID *string) ([]*model.File, error)
	Trashed(ctx context.Context, ownerID string) ([]*model.File, error)
	Starred(ctx context.Context, ownerID string) ([]*model.File, error)
	Rename(ctx context.Context, ownerID, fileID, name string) error
	Move(ctx context.Context, ownerID, fileID string, folderID *string) error
	SetDeleted(ctx context.Context, ownerID, fileID string, deleted bool) error
	TrashFolder(ctx context.Context, ownerID, folderID string) (int64, error)
	ToggleStar(ctx context.Context, ownerID, fileID string) error
	UsedBytes(ctx context.Context, ownerID string) (int64, error)
}

type fileRepository struct {
	db sqlx.ExtContext
}

func NewFileRepository(db sqlx.ExtContext) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	query := `INSERT INTO files (id, filename, blob_path, size_bytes, uploaded_at, owner_id, folder_id, is_deleted, is_starred)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.Filename,
		file.BlobPath,
		file.Size,
		file.UploadedAt,
		file.OwnerID,
		file.FolderID,
		file.IsDeleted,
		file.IsStarred,
	)

	return err
}

func (r *fileRepository) ByID(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1 AND owner_id = $2`

	err := sqlx.GetContext(ctx, r.db, file, query, fileID, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

// Files lists active files at root (folderID nil) or inside one folder.
func (r *fileRepository) Files(ctx context.Context, ownerID string, folderID *string) ([]*model.File, error) {
	files := []*model.File{}

	var err error
	if folderID == nil {
		query := `SELECT * FROM files WHERE owner_id = $1 AND folder_id IS NULL AND is_deleted = FALSE ORDER BY uploaded_at DESC, id`
		err = sqlx.SelectContext(ctx, r.db, &files, query, ownerID)
	} else {
		query := `SELECT * FROM files WHERE owner_id = $1 AND folder_id = $2 AND is_deleted = FALSE ORDER BY uploaded_at DESC, id`
		err = sqlx.SelectContext(ctx, r.db, &files, query, ownerID, *folderID)
	}
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Trashed(ctx context.Context, ownerID string) ([]*model.File, error) {
	files := []*model.File{}
	query := `SELECT * FROM files WHERE owner_id = $1 AND is_deleted = TRUE ORDER BY uploaded_at DESC, id`

	err := sqlx.SelectContext(ctx, r.db, &files, query, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Starred(ctx context.Context, ownerID string) ([]*model.File, error) {
	files := []*model.File{}
	query := `SELECT * FROM files WHERE owner_id = $1 AND is_starred = TRUE AND is_deleted = FALSE ORDER BY uploaded_at DESC, id`

	err := sqlx.SelectContext(ctx, r.db, &files, query, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Rename(ctx context.Context, ownerID, fileID, name string) error {
	query := `UPDATE files SET filename = $1 WHERE id = $2 AND owner_id = $3`

	result, err := r.db.ExecContext(ctx, query, name, fileID, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFileNotFound)
}

func (r *fileRepository) Move(ctx context.Context, ownerID, fileID string, folderID *string) error {
	query := `UPDATE files SET folder_id = $1 WHERE id = $2 AND owner_id = $3`

	result, err := r.db.ExecContext(ctx, query, folderID, fileID, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFileNotFound)
}

func (r *fileRepository) SetDeleted(ctx context.Context, ownerID, fileID string, deleted bool) error {
	query := `UPDATE files SET is_deleted = $1 WHERE id = $2 AND owner_id = $3`

	result, err := r.db.ExecContext(ctx, query, deleted, fileID, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFileNotFound)
}

// TrashFolder marks every file in the folder as deleted and reports how many
// rows it touched.
func (r *fileRepository) TrashFolder(ctx context.Context, ownerID, folderID string) (int64, error) {
	query := `UPDATE files SET is_deleted = TRUE WHERE folder_id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, folderID, ownerID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *fileRepository) ToggleStar(ctx context.Context, ownerID, fileID string) error {
	query := `UPDATE files SET is_starred = NOT is_starred WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, fileID, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFileNotFound)
}

// UsedBytes sums the sizes of the owner's active files.
func (r *fileRepository) UsedBytes(ctx context.Context, ownerID string) (int64, error) {
	var used int64
	query := `SELECT CAST(COALESCE(SUM(size_bytes), 0) AS BIGINT) FROM files WHERE owner_id = $1 AND is_deleted = FALSE`

	err := sqlx.GetContext(ctx, r.db, &used, query, ownerID)
	return used, err
}

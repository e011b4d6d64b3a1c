package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/model"
)

var (
	ErrShareNotFound = errors.New("share not found")
)

type ShareRepository interface {
	Create(ctx context.Context, share *model.Share) (bool, error)
	Delete(ctx context.Context, ownerID, fileID, sharedWithUserID string) error
	Shares(ctx context.Context, ownerID, fileID string) ([]*model.Share, error)
	SharedWith(ctx context.Context, userID string) ([]*model.File, error)
	SharedFile(ctx context.Context, userID, fileID string) (*model.File, error)
}

type shareRepository struct {
	db sqlx.ExtContext
}

func NewShareRepository(db sqlx.ExtContext) ShareRepository {
	return &shareRepository{db: db}
}

// Create inserts the grant unless the recipient already has one for the
// file, and reports whether a row was written.
func (r *shareRepository) Create(ctx context.Context, share *model.Share) (bool, error) {
	query := `INSERT INTO shares (id, file_id, owner_id, shared_with_user_id, created_at) VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (file_id, shared_with_user_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, share.ID, share.FileID, share.OwnerID, share.SharedWithUserID, share.CreatedAt)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *shareRepository) Delete(ctx context.Context, ownerID, fileID, sharedWithUserID string) error {
	query := `DELETE FROM shares WHERE file_id = $1 AND owner_id = $2 AND shared_with_user_id = $3`

	result, err := r.db.ExecContext(ctx, query, fileID, ownerID, sharedWithUserID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrShareNotFound)
}

func (r *shareRepository) Shares(ctx context.Context, ownerID, fileID string) ([]*model.Share, error) {
	shares := []*model.Share{}
	query := `SELECT * FROM shares WHERE owner_id = $1 AND file_id = $2 ORDER BY created_at, id`

	err := sqlx.SelectContext(ctx, r.db, &shares, query, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	return shares, nil
}

// SharedWith lists the active files other users granted to userID. The join
// also requires the grant's owner to still own the file.
func (r *shareRepository) SharedWith(ctx context.Context, userID string) ([]*model.File, error) {
	files := []*model.File{}
	query := `SELECT f.* FROM files f
	          JOIN shares s ON s.file_id = f.id AND s.owner_id = f.owner_id
	          WHERE s.shared_with_user_id = $1 AND f.is_deleted = FALSE
	          ORDER BY s.created_at DESC, f.id`

	err := sqlx.SelectContext(ctx, r.db, &files, query, userID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *shareRepository) SharedFile(ctx context.Context, userID, fileID string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT f.* FROM files f
	          JOIN shares s ON s.file_id = f.id AND s.owner_id = f.owner_id
	          WHERE s.shared_with_user_id = $1 AND f.id = $2 AND f.is_deleted = FALSE`

	err := sqlx.GetContext(ctx, r.db, file, query, userID, fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

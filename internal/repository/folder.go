package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/model"
)

var (
	ErrFolderNotFound = errors.New("folder not found")
)

// FolderRepository lookups and mutations are scoped by owner: a folder that
// belongs to someone else behaves exactly like one that does not exist.
type FolderRepository interface {
	Create(ctx context.Context, folder *model.Folder) error
	ByID(ctx context.Context, ownerID, folderID string) (*model.Folder, error)
	Folders(ctx context.Context, ownerID string) ([]*model.Folder, error)
	Rename(ctx context.Context, ownerID, folderID, name string) error
	Delete(ctx context.Context, ownerID, folderID string) error
}

type folderRepository struct {
	db sqlx.ExtContext
}

func NewFolderRepository(db sqlx.ExtContext) FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) Create(ctx context.Context, folder *model.Folder) error {
	query := `INSERT INTO folders (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, folder.ID, folder.Name, folder.OwnerID, folder.CreatedAt)
	return err
}

func (r *folderRepository) ByID(ctx context.Context, ownerID, folderID string) (*model.Folder, error) {
	folder := &model.Folder{}
	query := `SELECT * FROM folders WHERE id = $1 AND owner_id = $2`

	err := sqlx.GetContext(ctx, r.db, folder, query, folderID, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}

	return folder, nil
}

func (r *folderRepository) Folders(ctx context.Context, ownerID string) ([]*model.Folder, error) {
	folders := []*model.Folder{}
	query := `SELECT * FROM folders WHERE owner_id = $1 ORDER BY created_at, id`

	err := sqlx.SelectContext(ctx, r.db, &folders, query, ownerID)
	if err != nil {
		return nil, err
	}

	return folders, nil
}

func (r *folderRepository) Rename(ctx context.Context, ownerID, folderID, name string) error {
	query := `UPDATE folders SET name = $1 WHERE id = $2 AND owner_id = $3`

	result, err := r.db.ExecContext(ctx, query, name, folderID, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFolderNotFound)
}

func (r *folderRepository) Delete(ctx context.Context, ownerID, folderID string) error {
	query := `DELETE FROM folders WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, folderID, ownerID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrFolderNotFound)
}

// expectRows returns notFound when a statement touched no rows.
func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}

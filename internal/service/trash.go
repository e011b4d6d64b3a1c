package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/db"
	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/repository"
)

// TrashService owns the file lifecycle: active -> trashed (soft delete,
// directly or through a folder delete) -> active (restore). Files are never
// purged.
type TrashService struct {
	db    *sqlx.DB
	quota *QuotaService
}

func NewTrashService(db *sqlx.DB, quota *QuotaService) *TrashService {
	return &TrashService{
		db:    db,
		quota: quota,
	}
}

// List returns the caller's trashed files, starred or not.
func (s *TrashService) List(ctx context.Context, ownerID string) ([]*model.File, error) {
	return repository.NewFileRepository(s.db).Trashed(ctx, ownerID)
}

// Trash soft-deletes a file. Trashing a trashed file is a no-op.
func (s *TrashService) Trash(ctx context.Context, ownerID, fileID string) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		file, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}

		if file.State() == model.FileStateTrashed {
			return nil
		}

		return repos.Files.SetDeleted(ctx, ownerID, fileID, true)
	})
}

// Restore brings a trashed file back. Restoring an active file is a no-op.
// A file whose folder was deleted in the meantime comes back at root, and the
// restore is refused if the file no longer fits in the owner's quota.
func (s *TrashService) Restore(ctx context.Context, ownerID, fileID string) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		file, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}

		if file.State() == model.FileStateActive {
			return nil
		}

		if !file.AtRoot() {
			_, err = requireFolder(ctx, repos, ownerID, *file.FolderID)
			if err != nil {
				if !isNotFound(err) {
					return err
				}
				err = repos.Files.Move(ctx, ownerID, fileID, nil)
				if err != nil {
					return fmt.Errorf("failed to re-home file at root: %w", err)
				}
				slog.Info("restored file re-homed at root", "user_id", ownerID, "file_id", fileID, "folder_id", *file.FolderID)
			}
		}

		err = s.quota.reserve(ctx, repos.Files, ownerID, file.Size)
		if err != nil {
			return err
		}

		return repos.Files.SetDeleted(ctx, ownerID, fileID, false)
	})
}

// trashFolder moves every file of a folder to the trash. It runs inside the
// folder delete transaction.
func (s *TrashService) trashFolder(ctx context.Context, repos *repository.Repositories, ownerID, folderID string) (int64, error) {
	n, err := repos.Files.TrashFolder(ctx, ownerID, folderID)
	if err != nil {
		return 0, fmt.Errorf("failed to trash folder contents: %w", err)
	}
	return n, nil
}

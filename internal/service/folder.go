package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/db"
	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/repository"
	"github.com/templui/drivebox/internal/validation"
)

type FolderService struct {
	db    *sqlx.DB
	trash *TrashService
}

func NewFolderService(db *sqlx.DB, trash *TrashService) *FolderService {
	return &FolderService{
		db:    db,
		trash: trash,
	}
}

// Create adds a folder. Names are not unique; two folders may share one.
func (s *FolderService) Create(ctx context.Context, ownerID, name string) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	err := validation.ValidateName(name)
	if err != nil {
		return nil, invalid(ErrInvalidName, err)
	}

	folder := &model.Folder{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}

	err = repository.NewFolderRepository(s.db).Create(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return folder, nil
}

func (s *FolderService) List(ctx context.Context, ownerID string) ([]*model.Folder, error) {
	return repository.NewFolderRepository(s.db).Folders(ctx, ownerID)
}

func (s *FolderService) Rename(ctx context.Context, ownerID, folderID, name string) error {
	name = strings.TrimSpace(name)
	err := validation.ValidateName(name)
	if err != nil {
		return invalid(ErrInvalidName, err)
	}

	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		_, err := requireFolder(ctx, repos, ownerID, folderID)
		if err != nil {
			return err
		}

		return notFound(repos.Folders.Rename(ctx, ownerID, folderID, name))
	})
}

// Delete trashes every file in the folder and removes the folder in one
// transaction; no reader sees the folder gone with its files still active.
func (s *FolderService) Delete(ctx context.Context, ownerID, folderID string) error {
	var trashed int64

	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		_, err := requireFolder(ctx, repos, ownerID, folderID)
		if err != nil {
			return err
		}

		trashed, err = s.trash.trashFolder(ctx, repos, ownerID, folderID)
		if err != nil {
			return err
		}

		return notFound(repos.Folders.Delete(ctx, ownerID, folderID))
	})
	if err != nil {
		return err
	}

	slog.Info("folder deleted", "user_id", ownerID, "folder_id", folderID, "files_trashed", trashed)
	return nil
}

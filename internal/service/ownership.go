package service

import (
	"context"

	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/repository"
)

// Ownership is the only predicate guarding mutations. Each mutating operation
// loads its target through one of these helpers before touching it, inside
// the same transaction as the mutation.

func requireFile(ctx context.Context, repos *repository.Repositories, ownerID, fileID string) (*model.File, error) {
	file, err := repos.Files.ByID(ctx, ownerID, fileID)
	if err != nil {
		return nil, notFound(err)
	}
	return file, nil
}

func requireFolder(ctx context.Context, repos *repository.Repositories, ownerID, folderID string) (*model.Folder, error) {
	folder, err := repos.Folders.ByID(ctx, ownerID, folderID)
	if err != nil {
		return nil, notFound(err)
	}
	return folder, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/db"
	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/repository"
	"github.com/templui/drivebox/internal/storage"
	"github.com/templui/drivebox/internal/validation"
)

type FileService struct {
	db      *sqlx.DB
	storage storage.Storage
	quota   *QuotaService
	trash   *TrashService
}

func NewFileService(db *sqlx.DB, storage storage.Storage, quota *QuotaService, trash *TrashService) *FileService {
	return &FileService{
		db:      db,
		storage: storage,
		quota:   quota,
		trash:   trash,
	}
}

// blobPath derives a collision-free blob location; the display name lives
// only in metadata.
func blobPath(ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("users", ownerID, uuid.New().String()+ext)
}

// cleanFilename drops any client-side directory components.
func cleanFilename(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	return strings.TrimSpace(path.Base(strings.TrimSpace(filename)))
}

// Upload writes the blob first and commits metadata second. A failure after
// the blob is written leaves at most an orphaned blob, never a record that
// points at missing bytes.
func (s *FileService) Upload(ctx context.Context, ownerID string, folderID *string, r io.Reader, filename string) (*model.File, error) {
	filename = cleanFilename(filename)
	err := validation.ValidateName(filename)
	if err != nil {
		return nil, invalid(ErrInvalidName, err)
	}

	repos := repository.New(s.db)

	if folderID != nil {
		_, err = requireFolder(ctx, repos, ownerID, *folderID)
		if err != nil {
			return nil, err
		}
	}

	usage, err := s.quota.usage(ctx, repos.Files, ownerID)
	if err != nil {
		return nil, err
	}

	// Stop reading one byte past the remaining quota.
	limited := &io.LimitedReader{R: r, N: usage.Available() + 1}

	blob := blobPath(ownerID, filename)
	err = s.storage.Save(ctx, blob, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	if limited.N == 0 {
		s.discardBlob(ctx, blob)
		return nil, fmt.Errorf("%w: file is larger than the remaining %s",
			ErrQuotaExceeded, humanize.IBytes(uint64(usage.Available())))
	}

	file, err := s.commitUpload(ctx, ownerID, folderID, filename, blob)
	if err != nil {
		s.discardBlob(ctx, blob)
		return nil, err
	}

	slog.Info("file uploaded", "user_id", ownerID, "file_id", file.ID, "size", humanize.IBytes(uint64(file.Size)))
	return file, nil
}

// discardBlob removes a blob that never got a metadata record. Failure only
// leaves an orphan behind, so it is logged and swallowed.
func (s *FileService) discardBlob(ctx context.Context, blob string) {
	err := s.storage.Delete(context.WithoutCancel(ctx), blob)
	if err != nil {
		slog.Error("failed to delete blob during cleanup", "error", err, "path", blob)
	}
}

func (s *FileService) commitUpload(ctx context.Context, ownerID string, folderID *string, filename, blob string) (*model.File, error) {
	size, err := s.storage.Size(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to read back blob size: %w", err)
	}

	file := &model.File{
		ID:         uuid.New().String(),
		Filename:   filename,
		BlobPath:   blob,
		Size:       size,
		UploadedAt: time.Now(),
		OwnerID:    ownerID,
		FolderID:   folderID,
	}

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		// The folder may have been deleted while the bytes were streaming.
		if folderID != nil {
			_, err := requireFolder(ctx, repos, ownerID, *folderID)
			if err != nil {
				return err
			}
		}

		err := s.quota.reserve(ctx, repos.Files, ownerID, size)
		if err != nil {
			return err
		}

		return repos.Files.Create(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	return file, nil
}

// List returns active files at root (folderID nil) or in one of the caller's
// folders. A folder the caller cannot see is ErrNotFound.
func (s *FileService) List(ctx context.Context, ownerID string, folderID *string) ([]*model.File, error) {
	repos := repository.New(s.db)

	if folderID != nil {
		_, err := requireFolder(ctx, repos, ownerID, *folderID)
		if err != nil {
			return nil, err
		}
	}

	return repos.Files.Files(ctx, ownerID, folderID)
}

func (s *FileService) Starred(ctx context.Context, ownerID string) ([]*model.File, error) {
	return repository.NewFileRepository(s.db).Starred(ctx, ownerID)
}

func (s *FileService) Rename(ctx context.Context, ownerID, fileID, name string) error {
	name = strings.TrimSpace(name)
	err := validation.ValidateName(name)
	if err != nil {
		return invalid(ErrInvalidName, err)
	}

	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		_, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}

		return notFound(repos.Files.Rename(ctx, ownerID, fileID, name))
	})
}

// Move places a file in one of the caller's folders, or at root when
// folderID is nil.
func (s *FileService) Move(ctx context.Context, ownerID, fileID string, folderID *string) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		_, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}

		if folderID != nil {
			_, err = requireFolder(ctx, repos, ownerID, *folderID)
			if err != nil {
				return err
			}
		}

		return notFound(repos.Files.Move(ctx, ownerID, fileID, folderID))
	})
}

func (s *FileService) SoftDelete(ctx context.Context, ownerID, fileID string) error {
	return s.trash.Trash(ctx, ownerID, fileID)
}

func (s *FileService) Restore(ctx context.Context, ownerID, fileID string) error {
	return s.trash.Restore(ctx, ownerID, fileID)
}

// ToggleStar flips the star flag and returns the new value. Two calls cancel
// out. Concurrent toggles are not serialized: the last commit wins.
func (s *FileService) ToggleStar(ctx context.Context, ownerID, fileID string) (bool, error) {
	var starred bool

	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		_, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}

		err = repos.Files.ToggleStar(ctx, ownerID, fileID)
		if err != nil {
			return notFound(err)
		}

		file, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}
		starred = file.IsStarred
		return nil
	})

	return starred, err
}

// Download streams one of the caller's files. Trashed files stay
// downloadable by their owner.
func (s *FileService) Download(ctx context.Context, ownerID, fileID string) (*model.File, io.ReadCloser, error) {
	file, err := requireFile(ctx, repository.New(s.db), ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	body, err := openBlob(ctx, s.storage, file)
	if err != nil {
		return nil, nil, err
	}

	return file, body, nil
}

func (s *FileService) StorageUsage(ctx context.Context, ownerID string) (model.StorageUsage, error) {
	return s.quota.Usage(ctx, ownerID)
}

// openBlob opens the bytes behind a record. A record whose blob has gone
// missing is reported as not found.
func openBlob(ctx context.Context, store storage.Storage, file *model.File) (io.ReadCloser, error) {
	body, err := store.Open(ctx, file.BlobPath)
	if errors.Is(err, storage.ErrBlobNotFound) {
		slog.Warn("file record without blob", "file_id", file.ID, "path", file.BlobPath)
		return nil, fmt.Errorf("%w: blob missing", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return body, nil
}

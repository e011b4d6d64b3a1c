package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/db"
	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/repository"
	"github.com/templui/drivebox/internal/storage"
)

// ShareService grants other users read visibility of a file. A grant never
// transfers ownership and never allows mutation.
type ShareService struct {
	db      *sqlx.DB
	storage storage.Storage
}

func NewShareService(db *sqlx.DB, storage storage.Storage) *ShareService {
	return &ShareService{
		db:      db,
		storage: storage,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Share grants the file to the user registered under email. Repeating a
// grant is a no-op.
func (s *ShareService) Share(ctx context.Context, ownerID, fileID, email string) error {
	email = normalizeEmail(email)

	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		_, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}

		target, err := repos.Users.ByEmail(ctx, email)
		if err != nil {
			return notFound(err)
		}

		if target.ID == ownerID {
			return ErrInvalidShareTarget
		}

		created, err := repos.Shares.Create(ctx, &model.Share{
			ID:               uuid.New().String(),
			FileID:           fileID,
			OwnerID:          ownerID,
			SharedWithUserID: target.ID,
			CreatedAt:        time.Now(),
		})
		if err != nil {
			return err
		}

		if created {
			slog.Info("file shared", "user_id", ownerID, "file_id", fileID, "shared_with", target.ID)
		}
		return nil
	})
}

// Revoke removes the grant of a file to the user registered under email.
func (s *ShareService) Revoke(ctx context.Context, ownerID, fileID, email string) error {
	email = normalizeEmail(email)

	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repos := repository.New(tx)

		_, err := requireFile(ctx, repos, ownerID, fileID)
		if err != nil {
			return err
		}

		target, err := repos.Users.ByEmail(ctx, email)
		if err != nil {
			return notFound(err)
		}

		return notFound(repos.Shares.Delete(ctx, ownerID, fileID, target.ID))
	})
}

// Recipients lists the grants on one of the caller's files.
func (s *ShareService) Recipients(ctx context.Context, ownerID, fileID string) ([]*model.Share, error) {
	repos := repository.New(s.db)

	_, err := requireFile(ctx, repos, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	return repos.Shares.Shares(ctx, ownerID, fileID)
}

// SharedWithMe lists files other users granted to the caller.
//
// Policy: a grant only exposes a file while its owner keeps it active. Once
// the owner trashes it, it drops out of this list and DownloadShared refuses
// it; the grant itself is kept and the file reappears on restore.
func (s *ShareService) SharedWithMe(ctx context.Context, callerID string) ([]*model.File, error) {
	return repository.NewShareRepository(s.db).SharedWith(ctx, callerID)
}

// DownloadShared streams a file granted to the caller.
func (s *ShareService) DownloadShared(ctx context.Context, callerID, fileID string) (*model.File, io.ReadCloser, error) {
	file, err := repository.NewShareRepository(s.db).SharedFile(ctx, callerID, fileID)
	if err != nil {
		return nil, nil, notFound(err)
	}

	body, err := openBlob(ctx, s.storage, file)
	if err != nil {
		return nil, nil, err
	}

	return file, body, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/repository"
)

// QuotaService tracks per-user storage against a fixed ceiling. Usage is
// recomputed from the metadata store on every call; nothing is cached.
type QuotaService struct {
	db    *sqlx.DB
	total int64
}

func NewQuotaService(db *sqlx.DB, total int64) *QuotaService {
	return &QuotaService{
		db:    db,
		total: total,
	}
}

func (s *QuotaService) Total() int64 {
	return s.total
}

func (s *QuotaService) Usage(ctx context.Context, ownerID string) (model.StorageUsage, error) {
	return s.usage(ctx, repository.NewFileRepository(s.db), ownerID)
}

func (s *QuotaService) usage(ctx context.Context, files repository.FileRepository, ownerID string) (model.StorageUsage, error) {
	used, err := files.UsedBytes(ctx, ownerID)
	if err != nil {
		return model.StorageUsage{}, fmt.Errorf("failed to compute storage usage: %w", err)
	}

	return model.StorageUsage{Used: used, Total: s.total}, nil
}

// reserve fails with ErrQuotaExceeded when additional bytes would push the
// owner past the ceiling. Run it inside the transaction that activates the
// bytes so the check and the write commit together.
func (s *QuotaService) reserve(ctx context.Context, files repository.FileRepository, ownerID string, additional int64) error {
	usage, err := s.usage(ctx, files, ownerID)
	if err != nil {
		return err
	}

	if usage.Used+additional > usage.Total {
		return fmt.Errorf("%w: %s used of %s, %s requested",
			ErrQuotaExceeded,
			humanize.IBytes(uint64(usage.Used)),
			humanize.IBytes(uint64(usage.Total)),
			humanize.IBytes(uint64(additional)),
		)
	}

	return nil
}

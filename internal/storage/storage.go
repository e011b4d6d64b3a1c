package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/templui/drivebox/internal/config"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidPath  = errors.New("invalid blob path")
)

// Storage is the blob store behind file records. The metadata layer never
// looks inside a blob; it only writes, sizes, streams and removes them.
type Storage interface {
	// Save stores the stream at path, replacing nothing: callers pick unique paths
	Save(ctx context.Context, path string, r io.Reader) error

	// Open streams the blob at path; the caller closes the reader
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Size reports the stored size of the blob at path
	Size(ctx context.Context, path string) (int64, error)

	// Delete removes the blob at path
	Delete(ctx context.Context, path string) error
}

// New creates the blob store selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageDriverLocal:
		slog.Info("initializing local storage", "path", c.StoragePath)
		return NewLocalStorage(c.StoragePath)
	case cfg.StorageDriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

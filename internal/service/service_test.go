package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/drivebox/internal/config"
	"github.com/templui/drivebox/internal/db/dbtest"
	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/repository"
	"github.com/templui/drivebox/internal/storage"
)

const testPassword = "correct horse battery staple"

type harness struct {
	ctx     context.Context
	db      *sqlx.DB
	storage *storage.LocalStorage
	auth    *AuthService
	quota   *QuotaService
	trash   *TrashService
	folders *FolderService
	files   *FileService
	shares  *ShareService
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithQuota(t, config.DefaultQuotaBytes)
}

func newHarnessWithQuota(t *testing.T, quotaBytes int64) *harness {
	t.Helper()

	database := dbtest.New(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	quota := NewQuotaService(database, quotaBytes)
	trash := NewTrashService(database, quota)

	return &harness{
		ctx:     context.Background(),
		db:      database,
		storage: store,
		auth:    NewAuthService(repository.NewUserRepository(database), "test-secret", time.Hour),
		quota:   quota,
		trash:   trash,
		folders: NewFolderService(database, trash),
		files:   NewFileService(database, store, quota, trash),
		shares:  NewShareService(database, store),
	}
}

func (h *harness) user(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := h.auth.Signup(h.ctx, email, testPassword)
	require.NoError(t, err)
	return u
}

func (h *harness) folder(t *testing.T, ownerID, name string) *model.Folder {
	t.Helper()
	f, err := h.folders.Create(h.ctx, ownerID, name)
	require.NoError(t, err)
	return f
}

func (h *harness) upload(t *testing.T, ownerID string, folderID *string, name string, size int) *model.File {
	t.Helper()
	f, err := h.files.Upload(h.ctx, ownerID, folderID, strings.NewReader(strings.Repeat("x", size)), name)
	require.NoError(t, err)
	return f
}

// file reads a record straight from the store, bypassing service rules.
func (h *harness) file(t *testing.T, ownerID, fileID string) *model.File {
	t.Helper()
	f, err := repository.NewFileRepository(h.db).ByID(h.ctx, ownerID, fileID)
	require.NoError(t, err)
	return f
}

func (h *harness) used(t *testing.T, ownerID string) int64 {
	t.Helper()
	usage, err := h.files.StorageUsage(h.ctx, ownerID)
	require.NoError(t, err)
	return usage.Used
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func ids(files []*model.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}

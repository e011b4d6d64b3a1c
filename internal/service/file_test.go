package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_UploadAndList(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	work := h.folder(t, alice.ID, "Work")

	root := h.upload(t, alice.ID, nil, "notes.txt", 12)
	nested := h.upload(t, alice.ID, &work.ID, `C:\Users\alice\report.pdf`, 40)

	assert.Equal(t, int64(12), root.Size)
	assert.True(t, root.AtRoot())
	assert.Equal(t, "report.pdf", nested.Filename)
	require.NotNil(t, nested.FolderID)
	assert.Equal(t, work.ID, *nested.FolderID)

	atRoot, err := h.files.List(h.ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{root.ID}, ids(atRoot))

	inWork, err := h.files.List(h.ctx, alice.ID, &work.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{nested.ID}, ids(inWork))

	assert.Equal(t, int64(52), h.used(t, alice.ID))
}

func TestFileService_UploadIntoForeignFolder(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	work := h.folder(t, alice.ID, "Work")

	_, err := h.files.Upload(h.ctx, bob.ID, &work.ID, strings.NewReader("sneaky"), "x.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, int64(0), h.used(t, bob.ID))
}

func TestFileService_UploadRejectsInvalidName(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")

	_, err := h.files.Upload(h.ctx, alice.ID, nil, strings.NewReader("data"), "  ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFileService_UploadOverQuota(t *testing.T) {
	h := newHarnessWithQuota(t, 100)
	alice := h.user(t, "alice@example.com")

	h.upload(t, alice.ID, nil, "a.bin", 60)

	_, err := h.files.Upload(h.ctx, alice.ID, nil, strings.NewReader(strings.Repeat("x", 41)), "b.bin")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Exactly filling the quota is allowed.
	h.upload(t, alice.ID, nil, "c.bin", 40)
	assert.Equal(t, int64(100), h.used(t, alice.ID))

	files, err := h.files.List(h.ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFileService_QuotaScenario(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")

	a := h.upload(t, alice.ID, nil, "a.bin", 100)
	h.upload(t, alice.ID, nil, "b.bin", 200)

	usage, err := h.files.StorageUsage(h.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), usage.Used)
	assert.Equal(t, int64(1<<30), usage.Total)

	require.NoError(t, h.files.SoftDelete(h.ctx, alice.ID, a.ID))
	assert.Equal(t, int64(200), h.used(t, alice.ID))

	require.NoError(t, h.files.Restore(h.ctx, alice.ID, a.ID))
	assert.Equal(t, int64(300), h.used(t, alice.ID))
}

func TestFileService_RenameAndMove(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	work := h.folder(t, alice.ID, "Work")
	file := h.upload(t, alice.ID, nil, "draft.txt", 3)

	require.NoError(t, h.files.Rename(h.ctx, alice.ID, file.ID, "final.txt"))
	require.NoError(t, h.files.Move(h.ctx, alice.ID, file.ID, &work.ID))

	got := h.file(t, alice.ID, file.ID)
	assert.Equal(t, "final.txt", got.Filename)
	require.NotNil(t, got.FolderID)
	assert.Equal(t, work.ID, *got.FolderID)

	require.NoError(t, h.files.Move(h.ctx, alice.ID, file.ID, nil))
	assert.True(t, h.file(t, alice.ID, file.ID).AtRoot())

	err := h.files.Rename(h.ctx, alice.ID, file.ID, "bad/name")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFileService_MoveIntoForeignFolder(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	bobs := h.folder(t, bob.ID, "Bob's")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	err := h.files.Move(h.ctx, alice.ID, file.ID, &bobs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, h.file(t, alice.ID, file.ID).AtRoot())
}

func TestFileService_MutationsOnForeignFile(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	assert.ErrorIs(t, h.files.Rename(h.ctx, bob.ID, file.ID, "pwned.txt"), ErrNotFound)
	assert.ErrorIs(t, h.files.Move(h.ctx, bob.ID, file.ID, nil), ErrNotFound)
	assert.ErrorIs(t, h.files.SoftDelete(h.ctx, bob.ID, file.ID), ErrNotFound)
	assert.ErrorIs(t, h.files.Restore(h.ctx, bob.ID, file.ID), ErrNotFound)
	_, err := h.files.ToggleStar(h.ctx, bob.ID, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = h.files.Download(h.ctx, bob.ID, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got := h.file(t, alice.ID, file.ID)
	assert.Equal(t, "a.txt", got.Filename)
	assert.False(t, got.IsDeleted)
	assert.False(t, got.IsStarred)
}

func TestFileService_ToggleStar(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	starred, err := h.files.ToggleStar(h.ctx, alice.ID, file.ID)
	require.NoError(t, err)
	assert.True(t, starred)

	list, err := h.files.Starred(h.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{file.ID}, ids(list))

	starred, err = h.files.ToggleStar(h.ctx, alice.ID, file.ID)
	require.NoError(t, err)
	assert.False(t, starred)

	list, err = h.files.Starred(h.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileService_StarredHidesTrashed(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	_, err := h.files.ToggleStar(h.ctx, alice.ID, file.ID)
	require.NoError(t, err)
	require.NoError(t, h.files.SoftDelete(h.ctx, alice.ID, file.ID))

	list, err := h.files.Starred(h.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	trash, err := h.trash.List(h.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.True(t, trash[0].IsStarred)

	require.NoError(t, h.files.Restore(h.ctx, alice.ID, file.ID))
	list, err = h.files.Starred(h.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{file.ID}, ids(list))
}

func TestFileService_Download(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")

	file, err := h.files.Upload(h.ctx, alice.ID, nil, strings.NewReader("hello drive"), "hello.txt")
	require.NoError(t, err)

	got, body, err := h.files.Download(h.ctx, alice.ID, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", got.Filename)
	assert.Equal(t, "hello drive", readAll(t, body))

	// Owners can still fetch the bytes of a trashed file.
	require.NoError(t, h.files.SoftDelete(h.ctx, alice.ID, file.ID))
	_, body, err = h.files.Download(h.ctx, alice.ID, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello drive", readAll(t, body))
}

func TestFileService_DownloadMissingBlob(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	require.NoError(t, h.storage.Delete(h.ctx, h.file(t, alice.ID, file.ID).BlobPath))

	_, _, err := h.files.Download(h.ctx, alice.ID, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileService_ListUnknownFolder(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	missing := "does-not-exist"

	_, err := h.files.List(h.ctx, alice.ID, &missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Walks one file through every lifecycle transition and checks it shows up
// in exactly the listings its state allows.
func TestFileService_ListingsFollowState(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	check := func(active, trashed, starred bool) {
		t.Helper()
		listed, err := h.files.List(h.ctx, alice.ID, nil)
		require.NoError(t, err)
		trash, err := h.trash.List(h.ctx, alice.ID)
		require.NoError(t, err)
		stars, err := h.files.Starred(h.ctx, alice.ID)
		require.NoError(t, err)

		assert.Equal(t, active, len(listed) == 1, "active listing")
		assert.Equal(t, trashed, len(trash) == 1, "trash listing")
		assert.Equal(t, starred, len(stars) == 1, "starred listing")
		assert.False(t, len(listed) == 1 && len(trash) == 1, "file in both listings")
	}

	check(true, false, false)

	_, err := h.files.ToggleStar(h.ctx, alice.ID, file.ID)
	require.NoError(t, err)
	check(true, false, true)

	require.NoError(t, h.files.SoftDelete(h.ctx, alice.ID, file.ID))
	check(false, true, false)

	require.NoError(t, h.files.SoftDelete(h.ctx, alice.ID, file.ID))
	check(false, true, false)

	require.NoError(t, h.files.Restore(h.ctx, alice.ID, file.ID))
	check(true, false, true)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareService_ShareScenario(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	file := h.upload(t, alice.ID, nil, "report.pdf", 8)

	require.NoError(t, h.shares.Share(h.ctx, alice.ID, file.ID, "Bob@Example.com"))

	shared, err := h.shares.SharedWithMe(h.ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, file.ID, shared[0].ID)
	assert.Equal(t, alice.ID, shared[0].OwnerID)

	// Visibility is not ownership.
	assert.ErrorIs(t, h.files.Rename(h.ctx, bob.ID, file.ID, "mine.pdf"), ErrNotFound)
	assert.ErrorIs(t, h.files.SoftDelete(h.ctx, bob.ID, file.ID), ErrNotFound)
	assert.ErrorIs(t, h.shares.Share(h.ctx, bob.ID, file.ID, "alice@example.com"), ErrNotFound)

	mine, err := h.files.List(h.ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, mine)

	got := h.file(t, alice.ID, file.ID)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.False(t, got.IsDeleted)
}

func TestShareService_ShareIsIdempotent(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	require.NoError(t, h.shares.Share(h.ctx, alice.ID, file.ID, "bob@example.com"))
	require.NoError(t, h.shares.Share(h.ctx, alice.ID, file.ID, "bob@example.com"))

	recipients, err := h.shares.Recipients(h.ctx, alice.ID, file.ID)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, bob.ID, recipients[0].SharedWithUserID)

	shared, err := h.shares.SharedWithMe(h.ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, shared, 1)
}

func TestShareService_ShareRejectsBadTargets(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	err := h.shares.Share(h.ctx, alice.ID, file.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	err = h.shares.Share(h.ctx, alice.ID, file.ID, "alice@example.com")
	assert.ErrorIs(t, err, ErrInvalidShareTarget)

	err = h.shares.Share(h.ctx, alice.ID, "missing", "alice@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_Revoke(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)

	require.NoError(t, h.shares.Share(h.ctx, alice.ID, file.ID, "bob@example.com"))
	require.NoError(t, h.shares.Revoke(h.ctx, alice.ID, file.ID, "bob@example.com"))

	shared, err := h.shares.SharedWithMe(h.ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)

	err = h.shares.Revoke(h.ctx, alice.ID, file.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_TrashedFilesAreHidden(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)
	require.NoError(t, h.shares.Share(h.ctx, alice.ID, file.ID, "bob@example.com"))

	require.NoError(t, h.files.SoftDelete(h.ctx, alice.ID, file.ID))

	shared, err := h.shares.SharedWithMe(h.ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)

	_, _, err = h.shares.DownloadShared(h.ctx, bob.ID, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The grant survives and reappears on restore.
	require.NoError(t, h.files.Restore(h.ctx, alice.ID, file.ID))
	shared, err = h.shares.SharedWithMe(h.ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, shared, 1)
}

func TestShareService_DownloadShared(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	carol := h.user(t, "carol@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 5)
	require.NoError(t, h.shares.Share(h.ctx, alice.ID, file.ID, "bob@example.com"))

	got, body, err := h.shares.DownloadShared(h.ctx, bob.ID, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Filename)
	assert.Equal(t, "xxxxx", readAll(t, body))

	_, _, err = h.shares.DownloadShared(h.ctx, carol.ID, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_RecipientsOwnerOnly(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice@example.com")
	bob := h.user(t, "bob@example.com")
	file := h.upload(t, alice.ID, nil, "a.txt", 3)
	require.NoError(t, h.shares.Share(h.ctx, alice.ID, file.ID, "bob@example.com"))

	_, err := h.shares.Recipients(h.ctx, bob.ID, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

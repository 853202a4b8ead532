package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	name := StoredFileName(42, "My CV (final).PDF", now)
	parts := strings.SplitN(name, "-", 4)
	require.Len(t, parts, 4)
	assert.Equal(t, "1700000000123", parts[0])
	assert.Equal(t, "42", parts[1])
	assert.Len(t, parts[2], 13)
	assert.Equal(t, "My_CV_final.PDF", parts[3])

	assert.NotEqual(t, name, StoredFileName(42, "My CV (final).PDF", now))
}

func TestStoredFileNameStripsDirectories(t *testing.T) {
	name := StoredFileName(1, "../../etc/passwd.pdf", time.Now())
	assert.True(t, strings.HasSuffix(name, "-passwd.pdf"))
	assert.NotContains(t, name, "/")
}

func TestStoredFileNameLength(t *testing.T) {
	name := StoredFileName(123456, strings.Repeat("a", 300)+".pdf", time.Now())
	assert.Len(t, name, MaxNameLength)
	assert.True(t, strings.HasSuffix(name, "aaa.pdf"))

	name = StoredFileName(1, "cv."+strings.Repeat("x", 40), time.Now())
	assert.LessOrEqual(t, len(name), MaxNameLength)
	assert.True(t, strings.HasSuffix(name, "-cv."+strings.Repeat("x", 15)))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "pdf", FileType("resume.PDF"))
	assert.Equal(t, "docx", FileType("a.b.docx"))
	assert.Equal(t, "", FileType("README"))
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	path, err := store.Save(ctx, "1-1-abc-cv.pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Open(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, path), "deleting twice is not an error")
}

func TestLocalStoreRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(ctx, "../evil.pdf", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.Open(ctx, "/etc/passwd")
	assert.Error(t, err)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open when the blob does not exist.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists uploaded document bytes. Paths returned by Save are
// opaque to callers and are passed back unchanged to Open and Delete.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Name() string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const (
	// MaxNameLength is the common per-component limit of local filesystems
	// and S3 key segments, in bytes.
	MaxNameLength = 255
	maxExtLength  = 16
)

// StoredFileName builds "{unixMillis}-{candidateId}-{token}-{base}{ext}" from
// the client supplied name. The token keeps concurrent uploads of the same
// file apart. base is shortened so the result never exceeds MaxNameLength.
func StoredFileName(candidateID int64, originalName string, now time.Time) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(filepath.ToSlash(originalName)), ext)
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "document"
	}
	ext = unsafeChars.ReplaceAllString(ext, "")
	if len(ext) > maxExtLength {
		ext = ext[:maxExtLength]
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	prefix := fmt.Sprintf("%d-%d-%s-", now.UnixMilli(), candidateID, token)
	if room := MaxNameLength - len(prefix) - len(ext); len(base) > room {
		base = base[:room]
	}
	return prefix + base + ext
}

// FileType is the lowercased extension of name without the dot.
func FileType(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

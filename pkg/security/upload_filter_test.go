package security

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"go-ats-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func sampleDOCX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "word/document.xml"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("<xml/>"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestValidateDocument(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

	tests := []struct {
		name     string
		filename string
		mime     string
		data     []byte
		valid    bool
	}{
		{"pdf", "resume.pdf", domain.MIMETypePDF, samplePDF, true},
		{"pdf with charset param", "resume.PDF", "application/pdf; charset=binary", samplePDF, true},
		{"docx", "resume.docx", domain.MIMETypeDOCX, sampleDOCX(t), true},
		{"png declared", "photo.png", "image/png", png, false},
		{"png renamed to pdf", "photo.pdf", domain.MIMETypePDF, png, false},
		{"pdf declared as docx", "resume.pdf", domain.MIMETypeDOCX, samplePDF, false},
		{"legacy doc extension", "resume.doc", domain.MIMETypeDOCX, sampleDOCX(t), false},
		{"docx extension with pdf bytes", "resume.docx", domain.MIMETypeDOCX, samplePDF, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateDocument(tt.filename, tt.mime, tt.data)
			assert.Equal(t, tt.valid, res.Valid, res.Error)
			if !tt.valid {
				assert.NotEmpty(t, res.Error)
			}
		})
	}
}

func TestUploadLimiterDisabledWithoutRedis(t *testing.T) {
	limiter := NewUploadLimiter(nil, 0)
	assert.False(t, limiter.Enabled())

	for i := 0; i < 50; i++ {
		allowed, retry, err := limiter.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Zero(t, retry)
	}
}

func newRedisLimiter(t *testing.T, perMinute int) (*UploadLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	return NewUploadLimiter(rdb, perMinute), mr
}

func TestUploadLimiterSlidingWindow(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newRedisLimiter(t, 2)
	require.True(t, limiter.Enabled())

	now := time.UnixMilli(1700000000000)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retry, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 60, retry)

	allowed, _, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	now = now.Add(time.Minute + time.Millisecond)
	allowed, _, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestUploadLimiterFailsOpen(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 1)
	mr.Close()

	allowed, retry, err := limiter.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retry)
}

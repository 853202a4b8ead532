package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func pdfMeta(name string) domain.FileMeta {
	return domain.FileMeta{
		FileName:     "1700000000000-1-abc-" + name,
		OriginalName: name,
		FilePath:     "uploads/candidates/1700000000000-1-abc-" + name,
		FileType:     ".pdf",
		FileSize:     2048,
		MimeType:     domain.MIMETypePDF,
	}
}

func TestUploadDocument(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.candidates.Create(ctx, validInput("docs@example.com"))
	require.NoError(t, err)

	doc, err := f.documents.Upload(ctx, c.ID, pdfMeta("cv.pdf"), "")
	require.NoError(t, err)
	assert.NotZero(t, doc.ID)
	assert.Equal(t, domain.DefaultDocumentType, doc.DocumentType)
	assert.Equal(t, c.ID, doc.CandidateID)

	letter, err := f.documents.Upload(ctx, c.ID, pdfMeta("letter.pdf"), "cover_letter")
	require.NoError(t, err)
	assert.Equal(t, "cover_letter", letter.DocumentType)

	docs, err := f.documents.List(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	got, err := f.candidates.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.Documents, 2)

	assert.Contains(t, f.events.Subjects(), events.SubjectDocumentUploaded)
}

func TestUploadDocumentRejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.candidates.Create(ctx, validInput("reject@example.com"))
	require.NoError(t, err)

	png := pdfMeta("photo.png")
	png.MimeType = "image/png"
	png.FileType = ".png"

	big := pdfMeta("huge.pdf")
	big.FileSize = 6 << 20

	empty := pdfMeta("empty.pdf")
	empty.FileSize = 0

	tests := []struct {
		name    string
		meta    domain.FileMeta
		message string
	}{
		{"image", png, "Invalid file type"},
		{"oversize", big, "File too large"},
		{"empty", empty, "File is empty"},
		{"missing", domain.FileMeta{}, "No file provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.documents.Upload(ctx, c.ID, tt.meta, "cv")
			appErr := requireKind(t, err, apperror.KindFileUpload)
			assert.Contains(t, appErr.Message, tt.message)
		})
	}

	docs, err := f.documents.List(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUploadDocumentUnknownCandidate(t *testing.T) {
	f := newFixture()
	_, err := f.documents.Upload(context.Background(), 404, pdfMeta("cv.pdf"), "cv")
	requireKind(t, err, apperror.KindNotFound)

	_, err = f.documents.List(context.Background(), 404)
	requireKind(t, err, apperror.KindNotFound)
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner, err := f.candidates.Create(ctx, validInput("owner@example.com"))
	require.NoError(t, err)
	other, err := f.candidates.Create(ctx, validInput("other@example.com"))
	require.NoError(t, err)

	doc, err := f.documents.Upload(ctx, owner.ID, pdfMeta("cv.pdf"), "cv")
	require.NoError(t, err)

	_, err = f.documents.Delete(ctx, other.ID, doc.ID)
	requireKind(t, err, apperror.KindNotFound)

	_, err = f.documents.Get(ctx, other.ID, doc.ID)
	requireKind(t, err, apperror.KindNotFound)

	res, err := f.documents.Delete(ctx, owner.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.DocumentDeletedMessage, res.Message)
	assert.Equal(t, doc.FilePath, res.FilePath)

	_, err = f.documents.Delete(ctx, owner.ID, doc.ID)
	requireKind(t, err, apperror.KindNotFound)
}

func TestExportCSV(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.candidates.Create(ctx, domain.CreateCandidateInput{
		FirstName:  "Linus",
		LastName:   "Torvalds, Jr",
		Email:      "linus@example.com",
		Experience: []domain.ExperienceInput{{Company: "Transmeta", Position: "Engineer"}},
	})
	require.NoError(t, err)
	_, err = f.candidates.Create(ctx, validInput("grace@example.com"))
	require.NoError(t, err)

	file, err := f.exports.Export(ctx, domain.CandidateFilter{Search: "linus", Limit: 1}, domain.ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, file.Rows)
	assert.True(t, strings.HasSuffix(file.FileName, ".csv"))
	assert.Contains(t, file.ContentType, "text/csv")

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "EMAIL", records[0][3])
	assert.Equal(t, "Torvalds, Jr", records[1][2])
	assert.Equal(t, "Engineer", records[1][6])
}

func TestExportXLSX(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := f.candidates.Create(ctx, validInput(email))
		require.NoError(t, err)
	}

	file, err := f.exports.Export(ctx, domain.CandidateFilter{Limit: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, 3, file.Rows)

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Candidates")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "ID", rows[0][0])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	f := newFixture()
	_, err := f.exports.Export(context.Background(), domain.CandidateFilter{}, "pdf")
	requireKind(t, err, apperror.KindValidation)
}

func TestHealthCheck(t *testing.T) {
	ok := usecase.NewHealthUsecase("memory", nil).Check(context.Background())
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, usecase.Version, ok.Version)
	assert.Equal(t, "memory", ok.Storage)
	assert.NotEmpty(t, ok.Timestamp)

	down := usecase.NewHealthUsecase("postgres", func(ctx context.Context) error {
		return errors.New("pool closed")
	}).Check(context.Background())
	assert.Equal(t, "degraded", down.Status)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

type documentRepository struct {
	db DB
}

func NewDocumentRepository(db DB) domain.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO candidate_documents
			(candidate_id, file_name, original_name, file_path, file_type, file_size, mime_type, document_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, uploaded_at
	`, doc.CandidateID, doc.FileName, doc.OriginalName, doc.FilePath, doc.FileType, doc.FileSize,
		doc.MimeType, doc.DocumentType).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		// Candidate removed between the existence check and the insert.
		if isForeignKeyViolation(err) {
			return apperror.NotFound("Candidate")
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *documentRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	return queryDocuments(ctx, r.db,
		"SELECT "+documentColumns+" FROM candidate_documents WHERE candidate_id = $1 ORDER BY uploaded_at DESC, id DESC",
		candidateID)
}

func (r *documentRepository) GetForCandidate(ctx context.Context, candidateID, documentID int64) (*domain.Document, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+documentColumns+" FROM candidate_documents WHERE id = $1 AND candidate_id = $2",
		documentID, candidateID)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

func (r *documentRepository) Delete(ctx context.Context, candidateID, documentID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM candidate_documents WHERE id = $1 AND candidate_id = $2", documentID, candidateID)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

package usecase

import (
	"context"
	"strings"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/events"
	"go-ats-backend/pkg/telemetry"
	"go-ats-backend/pkg/validation"

	"go.uber.org/zap"
)

const DocumentDeletedMessage = "Document deleted successfully"

type documentUsecase struct {
	candidates domain.CandidateRepository
	documents  domain.DocumentRepository
	publisher  events.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewDocumentUsecase manages document metadata only. Blob bytes are stored
// and removed by the caller.
func NewDocumentUsecase(candidates domain.CandidateRepository, documents domain.DocumentRepository, publisher events.Publisher, logger *zap.Logger) domain.DocumentUsecase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentUsecase{
		candidates: candidates,
		documents:  documents,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (u *documentUsecase) Upload(ctx context.Context, candidateID int64, meta domain.FileMeta, documentType string) (*domain.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentUsecase.Upload")
	defer span.End()
	span.SetAttributes(telemetry.Int64("candidate.id", candidateID))

	if err := validation.ValidateUpload(meta); err != nil {
		return nil, err
	}

	if err := u.requireCandidate(ctx, candidateID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	documentType = strings.TrimSpace(documentType)
	if documentType == "" {
		documentType = domain.DefaultDocumentType
	}

	doc := &domain.Document{
		CandidateID:  candidateID,
		FileName:     meta.FileName,
		OriginalName: meta.OriginalName,
		FilePath:     meta.FilePath,
		FileType:     meta.FileType,
		FileSize:     meta.FileSize,
		MimeType:     meta.MimeType,
		DocumentType: documentType,
		UploadedAt:   u.now().UTC(),
	}
	if err := u.documents.Create(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to save document")
	}

	publishEvent(ctx, u.publisher, u.logger, events.SubjectDocumentUploaded, events.DocumentEvent{
		CandidateID:  candidateID,
		DocumentID:   doc.ID,
		DocumentType: doc.DocumentType,
		FilePath:     doc.FilePath,
		OccurredAt:   doc.UploadedAt,
	})
	return doc, nil
}

func (u *documentUsecase) List(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentUsecase.List")
	defer span.End()

	if err := u.requireCandidate(ctx, candidateID); err != nil {
		return nil, err
	}

	docs, err := u.documents.ListByCandidate(ctx, candidateID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to fetch documents")
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

func (u *documentUsecase) Get(ctx context.Context, candidateID, documentID int64) (*domain.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentUsecase.Get")
	defer span.End()

	doc, err := u.documents.GetForCandidate(ctx, candidateID, documentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to fetch document")
	}
	if doc == nil {
		return nil, apperror.NotFound("Document")
	}
	return doc, nil
}

func (u *documentUsecase) Delete(ctx context.Context, candidateID, documentID int64) (*domain.DocumentDeletion, error) {
	ctx, span := tracer.Start(ctx, "DocumentUsecase.Delete")
	defer span.End()

	doc, err := u.documents.GetForCandidate(ctx, candidateID, documentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to delete document")
	}
	if doc == nil {
		return nil, apperror.NotFound("Document")
	}

	deleted, err := u.documents.Delete(ctx, candidateID, documentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to delete document")
	}
	if !deleted {
		return nil, apperror.NotFound("Document")
	}

	publishEvent(ctx, u.publisher, u.logger, events.SubjectDocumentDeleted, events.DocumentEvent{
		CandidateID:  candidateID,
		DocumentID:   documentID,
		DocumentType: doc.DocumentType,
		FilePath:     doc.FilePath,
		OccurredAt:   u.now().UTC(),
	})
	return &domain.DocumentDeletion{
		Message:  DocumentDeletedMessage,
		FilePath: doc.FilePath,
	}, nil
}

func (u *documentUsecase) requireCandidate(ctx context.Context, candidateID int64) error {
	exists, err := u.candidates.Exists(ctx, candidateID)
	if err != nil {
		return apperror.Wrap(err, "Failed to fetch candidate")
	}
	if !exists {
		return apperror.NotFound("Candidate")
	}
	return nil
}

package domain

import (
	"context"
	"time"
)

const (
	MaxUploadSize       int64 = 5 << 20
	DefaultDocumentType       = "cv"

	// MaxOriginalNameLength matches documents.original_name VARCHAR(255).
	MaxOriginalNameLength = 255

	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var AllowedDocumentMIMETypes = []string{MIMETypePDF, MIMETypeDOCX}

type Document struct {
	ID           int64     `json:"id"`
	CandidateID  int64     `json:"candidateId"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	FilePath     string    `json:"filePath"`
	FileType     string    `json:"fileType"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	DocumentType string    `json:"documentType"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// FileMeta describes a blob that has already been stored.
type FileMeta struct {
	FileName     string
	OriginalName string
	FilePath     string
	FileType     string
	FileSize     int64
	MimeType     string
}

type DocumentDeletion struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath"`
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	ListByCandidate(ctx context.Context, candidateID int64) ([]Document, error)
	// GetForCandidate returns nil, nil unless the document belongs to the candidate.
	GetForCandidate(ctx context.Context, candidateID, documentID int64) (*Document, error)
	Delete(ctx context.Context, candidateID, documentID int64) (bool, error)
}

type DocumentUsecase interface {
	Upload(ctx context.Context, candidateID int64, meta FileMeta, documentType string) (*Document, error)
	List(ctx context.Context, candidateID int64) ([]Document, error)
	Get(ctx context.Context, candidateID, documentID int64) (*Document, error)
	Delete(ctx context.Context, candidateID, documentID int64) (*DocumentDeletion, error)
}

package memory

import (
	"context"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
)

type documentRepository struct {
	store *Store
}

func NewDocumentRepository(store *Store) domain.DocumentRepository {
	return &documentRepository{store: store}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.candidates[doc.CandidateID]; !ok {
		return apperror.NotFound("Candidate")
	}
	s.lastDocumentID++
	doc.ID = s.lastDocumentID
	doc.UploadedAt = s.now()
	s.documents[doc.ID] = *doc
	return nil
}

func (r *documentRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documentsOf(candidateID), nil
}

func (r *documentRepository) GetForCandidate(ctx context.Context, candidateID, documentID int64) (*domain.Document, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[documentID]
	if !ok || d.CandidateID != candidateID {
		return nil, nil
	}
	return &d, nil
}

func (r *documentRepository) Delete(ctx context.Context, candidateID, documentID int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[documentID]
	if !ok || d.CandidateID != candidateID {
		return false, nil
	}
	delete(s.documents, documentID)
	return true, nil
}

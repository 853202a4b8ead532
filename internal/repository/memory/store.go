package memory

import (
	"sort"
	"sync"
	"time"

	"go-ats-backend/internal/domain"
)

// Store holds candidates and documents in process memory. It backs both
// repositories so that candidate deletes cascade to documents.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	lastCandidateID  int64
	lastEducationID  int64
	lastExperienceID int64
	lastDocumentID   int64

	candidates map[int64]*candidateRecord
	emails     map[string]int64
	documents  map[int64]domain.Document
}

type candidateRecord struct {
	candidate  domain.Candidate
	education  []domain.Education
	experience []domain.Experience
}

type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:        time.Now,
		candidates: make(map[int64]*candidateRecord),
		emails:     make(map[string]int64),
		documents:  make(map[int64]domain.Document),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// detail builds the full view of a record. Callers hold at least a read lock.
func (s *Store) detail(rec *candidateRecord) *domain.Candidate {
	c := rec.candidate
	c.Education = append([]domain.Education{}, rec.education...)
	c.Experience = append([]domain.Experience{}, rec.experience...)
	c.Documents = s.documentsOf(c.ID)
	return &c
}

// listView keeps the latest education/experience and the newest cv.
func (s *Store) listView(rec *candidateRecord) domain.Candidate {
	c := rec.candidate
	c.Education = []domain.Education{}
	c.Experience = []domain.Experience{}
	c.Documents = []domain.Document{}
	if len(rec.education) > 0 {
		c.Education = append(c.Education, rec.education[0])
	}
	if len(rec.experience) > 0 {
		c.Experience = append(c.Experience, rec.experience[0])
	}
	for _, d := range s.documentsOf(c.ID) {
		if d.DocumentType == domain.DefaultDocumentType {
			c.Documents = append(c.Documents, d)
			break
		}
	}
	return c
}

// documentsOf returns a candidate's documents, newest first.
func (s *Store) documentsOf(candidateID int64) []domain.Document {
	docs := []domain.Document{}
	for _, d := range s.documents {
		if d.CandidateID == candidateID {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].ID > docs[j].ID
	})
	return docs
}

// startDateFirst orders by start date descending with missing dates last,
// then by id descending.
func startDateFirst(a, b *string, aID, bID int64) bool {
	switch {
	case a == nil && b == nil:
		return aID > bID
	case a == nil:
		return false
	case b == nil:
		return true
	case *a != *b:
		return *a > *b
	default:
		return aID > bID
	}
}

func sortEducation(rows []domain.Education) {
	sort.Slice(rows, func(i, j int) bool {
		return startDateFirst(rows[i].StartDate, rows[j].StartDate, rows[i].ID, rows[j].ID)
	})
}

func sortExperience(rows []domain.Experience) {
	sort.Slice(rows, func(i, j int) bool {
		return startDateFirst(rows[i].StartDate, rows[j].StartDate, rows[i].ID, rows[j].ID)
	})
}

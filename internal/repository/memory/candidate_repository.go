package memory

import (
	"context"
	"sort"
	"strings"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
)

type candidateRepository struct {
	store *Store
}

func NewCandidateRepository(store *Store) domain.CandidateRepository {
	return &candidateRepository{store: store}
}

func (r *candidateRepository) Create(ctx context.Context, in domain.CreateCandidateInput) (*domain.Candidate, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(in.Email)
	if _, taken := s.emails[key]; taken {
		return nil, apperror.Duplicate("email")
	}

	now := s.now()
	s.lastCandidateID++
	rec := &candidateRecord{
		candidate: domain.Candidate{
			ID:        s.lastCandidateID,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
			Address:   in.Address,
			Notes:     in.Notes,
			Status:    domain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		},
		education:  []domain.Education{},
		experience: []domain.Experience{},
	}

	for _, e := range in.Education {
		s.lastEducationID++
		rec.education = append(rec.education, domain.Education{
			ID:           s.lastEducationID,
			CandidateID:  rec.candidate.ID,
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			IsCurrent:    e.IsCurrent,
			GPA:          e.GPA,
			Description:  e.Description,
		})
	}
	for _, x := range in.Experience {
		s.lastExperienceID++
		rec.experience = append(rec.experience, domain.Experience{
			ID:          s.lastExperienceID,
			CandidateID: rec.candidate.ID,
			Company:     x.Company,
			Position:    x.Position,
			Department:  x.Department,
			Location:    x.Location,
			Description: x.Description,
			StartDate:   x.StartDate,
			EndDate:     x.EndDate,
			IsCurrent:   x.IsCurrent,
			Salary:      x.Salary,
			Currency:    x.Currency,
		})
	}
	sortEducation(rec.education)
	sortExperience(rec.experience)

	s.candidates[rec.candidate.ID] = rec
	s.emails[key] = rec.candidate.ID
	return s.detail(rec), nil
}

func (r *candidateRepository) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]*candidateRecord, 0, len(s.candidates))
	for _, rec := range s.candidates {
		c := rec.candidate
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.FirstName), search) &&
			!strings.Contains(strings.ToLower(c.LastName), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		matched = append(matched, rec)
	}

	desc := filter.SortOrder != domain.SortAsc
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].candidate, matched[j].candidate
		cmp := compareBy(filter.SortBy, a, b)
		if cmp == 0 {
			cmp = compareInt64(a.ID, b.ID)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]domain.Candidate, 0, end-start)
	for _, rec := range matched[start:end] {
		items = append(items, s.listView(rec))
	}
	return items, total, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	return s.detail(rec), nil
}

func (r *candidateRepository) FindIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	return id, ok, nil
}

func (r *candidateRepository) Update(ctx context.Context, id int64, patch domain.UpdateCandidateInput) (*domain.Candidate, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	if patch.IsEmpty() {
		return s.detail(rec), nil
	}

	c := &rec.candidate
	if patch.Email != nil {
		key := strings.ToLower(*patch.Email)
		if owner, taken := s.emails[key]; taken && owner != id {
			return nil, apperror.Duplicate("email")
		}
		delete(s.emails, strings.ToLower(c.Email))
		s.emails[key] = id
		c.Email = *patch.Email
	}
	if patch.FirstName != nil {
		c.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		c.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		c.Phone = patch.Phone
	}
	if patch.Address != nil {
		c.Address = patch.Address
	}
	if patch.Notes != nil {
		c.Notes = patch.Notes
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	c.UpdatedAt = s.now()
	return s.detail(rec), nil
}

func (r *candidateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.candidates[id]
	if !ok {
		return false, nil
	}
	delete(s.candidates, id)
	delete(s.emails, strings.ToLower(rec.candidate.Email))
	for docID, d := range s.documents {
		if d.CandidateID == id {
			delete(s.documents, docID)
		}
	}
	return true, nil
}

func (r *candidateRepository) Exists(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.candidates[id]
	return ok, nil
}

func compareBy(field domain.SortField, a, b domain.Candidate) int {
	switch field {
	case domain.SortByLastName:
		return strings.Compare(a.LastName, b.LastName)
	case domain.SortByEmail:
		return strings.Compare(a.Email, b.Email)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

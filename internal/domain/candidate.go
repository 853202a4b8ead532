package domain

import (
	"context"
	"time"
)

type CandidateStatus string

const (
	StatusActive   CandidateStatus = "active"
	StatusInReview CandidateStatus = "in_review"
	StatusHired    CandidateStatus = "hired"
	StatusRejected CandidateStatus = "rejected"
	StatusArchived CandidateStatus = "archived"
)

var CandidateStatuses = []CandidateStatus{StatusActive, StatusInReview, StatusHired, StatusRejected, StatusArchived}

func (s CandidateStatus) Valid() bool {
	for _, st := range CandidateStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Candidate is the aggregate root. In list views Education, Experience and
// Documents hold at most one entry each (latest education/experience, the cv).
type Candidate struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	Phone      *string         `json:"phone"`
	Address    *string         `json:"address"`
	Notes      *string         `json:"notes"`
	Status     CandidateStatus `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Education  []Education     `json:"education"`
	Experience []Experience    `json:"experience"`
	Documents  []Document      `json:"documents"`
}

func (c *Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Dates are calendar dates rendered as YYYY-MM-DD.
type Education struct {
	ID           int64    `json:"id"`
	CandidateID  int64    `json:"candidateId"`
	Institution  string   `json:"institution"`
	Degree       *string  `json:"degree"`
	FieldOfStudy *string  `json:"fieldOfStudy"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	IsCurrent    bool     `json:"isCurrent"`
	GPA          *float64 `json:"gpa"`
	Description  *string  `json:"description"`
}

type Experience struct {
	ID          int64    `json:"id"`
	CandidateID int64    `json:"candidateId"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Department  *string  `json:"department"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	IsCurrent   bool     `json:"isCurrent"`
	Salary      *float64 `json:"salary"`
	Currency    *string  `json:"currency"`
}

type EducationInput struct {
	Institution  string   `json:"institution" validate:"required,max=255"`
	Degree       *string  `json:"degree" validate:"omitempty,max=255"`
	FieldOfStudy *string  `json:"fieldOfStudy" validate:"omitempty,max=255"`
	StartDate    *string  `json:"startDate" validate:"omitempty,calendar_date"`
	EndDate      *string  `json:"endDate" validate:"omitempty,calendar_date"`
	IsCurrent    bool     `json:"isCurrent"`
	GPA          *float64 `json:"gpa" validate:"omitempty,min=0,max=4"`
	Description  *string  `json:"description"`
}

type ExperienceInput struct {
	Company     string   `json:"company" validate:"required,max=255"`
	Position    string   `json:"position" validate:"required,max=255"`
	Department  *string  `json:"department" validate:"omitempty,max=255"`
	Location    *string  `json:"location" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	StartDate   *string  `json:"startDate" validate:"omitempty,calendar_date"`
	EndDate     *string  `json:"endDate" validate:"omitempty,calendar_date"`
	IsCurrent   bool     `json:"isCurrent"`
	Salary      *float64 `json:"salary" validate:"omitempty,min=0,max=9999999999.99"`
	Currency    *string  `json:"currency" validate:"omitempty,len=3"`
}

type CreateCandidateInput struct {
	FirstName  string            `json:"firstName" validate:"required,max=100"`
	LastName   string            `json:"lastName" validate:"required,max=100"`
	Email      string            `json:"email" validate:"required,email,max=255"`
	Phone      *string           `json:"phone" validate:"omitempty,max=20"`
	Address    *string           `json:"address" validate:"omitempty,max=1000"`
	Notes      *string           `json:"notes" validate:"omitempty,max=2000"`
	Education  []EducationInput  `json:"education" validate:"dive"`
	Experience []ExperienceInput `json:"experience" validate:"dive"`
}

// UpdateCandidateInput is a partial patch: nil fields are left untouched.
// Nested education/experience are not part of the update contract.
type UpdateCandidateInput struct {
	FirstName *string          `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string          `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email     *string          `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string          `json:"phone" validate:"omitempty,max=20"`
	Address   *string          `json:"address" validate:"omitempty,max=1000"`
	Notes     *string          `json:"notes" validate:"omitempty,max=2000"`
	Status    *CandidateStatus `json:"status" validate:"omitempty,candidate_status"`
}

func (in UpdateCandidateInput) IsEmpty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Email == nil &&
		in.Phone == nil && in.Address == nil && in.Notes == nil && in.Status == nil
}

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByLastName  SortField = "lastName"
	SortByEmail     SortField = "email"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// ExportLimit caps the rows rendered by a single export.
	ExportLimit = 10000
)

// CandidateFilter is the normalized list query.
type CandidateFilter struct {
	Page      int
	Limit     int
	Search    string
	Status    CandidateStatus
	SortBy    SortField
	SortOrder SortOrder
}

func (f CandidateFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type CandidateRepository interface {
	// Create persists the candidate and its nested rows atomically and
	// returns the detail view.
	Create(ctx context.Context, input CreateCandidateInput) (*Candidate, error)
	// List returns one page of list views plus the total matching count.
	List(ctx context.Context, filter CandidateFilter) ([]Candidate, int64, error)
	// GetByID returns nil, nil when the candidate does not exist.
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	// FindIDByEmail matches case-insensitively.
	FindIDByEmail(ctx context.Context, email string) (int64, bool, error)
	// Update applies non-nil fields and returns nil, nil if the row is gone.
	Update(ctx context.Context, id int64, patch UpdateCandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type CandidateUsecase interface {
	Create(ctx context.Context, input CreateCandidateInput) (*Candidate, error)
	List(ctx context.Context, filter CandidateFilter) (*PaginatedResult[Candidate], error)
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	Update(ctx context.Context, id int64, input UpdateCandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id int64) error
}

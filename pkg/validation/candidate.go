package validation

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const invalidDataMessage = "Invalid input data"

type CandidateValidator struct {
	validate *validator.Validate
}

func NewCandidateValidator(v *validator.Validate) *CandidateValidator {
	return &CandidateValidator{validate: v}
}

// ValidateCreate normalizes and checks a create payload. Names and optional
// text are trimmed, blank optional values become absent, the email is
// lowercased and nested arrays default to empty.
func (cv *CandidateValidator) ValidateCreate(in domain.CreateCandidateInput) (domain.CreateCandidateInput, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = blankToNil(in.Phone)
	in.Address = blankToNil(in.Address)
	in.Notes = blankToNil(in.Notes)

	if in.Education == nil {
		in.Education = []domain.EducationInput{}
	}
	if in.Experience == nil {
		in.Experience = []domain.ExperienceInput{}
	}
	for i := range in.Education {
		e := &in.Education[i]
		e.Institution = strings.TrimSpace(e.Institution)
		e.Degree = blankToNil(e.Degree)
		e.FieldOfStudy = blankToNil(e.FieldOfStudy)
		e.StartDate = blankToNil(e.StartDate)
		e.EndDate = blankToNil(e.EndDate)
		e.Description = blankToNil(e.Description)
	}
	for i := range in.Experience {
		x := &in.Experience[i]
		x.Company = strings.TrimSpace(x.Company)
		x.Position = strings.TrimSpace(x.Position)
		x.Department = blankToNil(x.Department)
		x.Location = blankToNil(x.Location)
		x.Description = blankToNil(x.Description)
		x.StartDate = blankToNil(x.StartDate)
		x.EndDate = blankToNil(x.EndDate)
		x.Currency = blankToNil(x.Currency)
	}

	if err := cv.validate.Struct(in); err != nil {
		return in, apperror.Validation(invalidDataMessage, FormatValidationErrors(err)...)
	}

	for i := range in.Education {
		in.Education[i].StartDate = normalizeDatePtr(in.Education[i].StartDate)
		in.Education[i].EndDate = normalizeDatePtr(in.Education[i].EndDate)
	}
	for i := range in.Experience {
		in.Experience[i].StartDate = normalizeDatePtr(in.Experience[i].StartDate)
		in.Experience[i].EndDate = normalizeDatePtr(in.Experience[i].EndDate)
		if c := in.Experience[i].Currency; c != nil {
			upper := strings.ToUpper(*c)
			in.Experience[i].Currency = &upper
		}
	}
	return in, nil
}

// ValidateUpdate checks a partial patch. An empty patch is valid.
func (cv *CandidateValidator) ValidateUpdate(in domain.UpdateCandidateInput) (domain.UpdateCandidateInput, error) {
	in.FirstName = trimPtr(in.FirstName)
	in.LastName = trimPtr(in.LastName)
	in.Phone = trimPtr(in.Phone)
	in.Address = trimPtr(in.Address)
	in.Notes = trimPtr(in.Notes)
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}

	if err := cv.validate.Struct(in); err != nil {
		return in, apperror.Validation(invalidDataMessage, FormatValidationErrors(err)...)
	}
	return in, nil
}

// ValidateFilters turns a raw list query into a normalized filter. Page and
// limit never fail: unparsable values fall back to defaults and limit is
// clamped to [1, MaxLimit]. Unknown enum values are rejected.
func ValidateFilters(q url.Values) (domain.CandidateFilter, error) {
	f := domain.CandidateFilter{
		Page:      domain.DefaultPage,
		Limit:     domain.DefaultLimit,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortDesc,
	}

	if p, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil && p > 0 {
		f.Page = p
	}
	if l, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil {
		f.Limit = clamp(l, 1, domain.MaxLimit)
	}

	var details []apperror.FieldError
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		if !domain.CandidateStatus(s).Valid() {
			details = append(details, apperror.FieldError{Field: "status", Message: "must be one of: active, in_review, hired, rejected, archived"})
		}
		f.Status = domain.CandidateStatus(s)
	}
	if s := strings.TrimSpace(q.Get("sortBy")); s != "" {
		switch domain.SortField(s) {
		case domain.SortByCreatedAt, domain.SortByLastName, domain.SortByEmail:
			f.SortBy = domain.SortField(s)
		default:
			details = append(details, apperror.FieldError{Field: "sortBy", Message: "must be one of: createdAt, lastName, email"})
		}
	}
	if s := strings.ToLower(strings.TrimSpace(q.Get("sortOrder"))); s != "" {
		switch domain.SortOrder(s) {
		case domain.SortAsc, domain.SortDesc:
			f.SortOrder = domain.SortOrder(s)
		default:
			details = append(details, apperror.FieldError{Field: "sortOrder", Message: "must be one of: asc, desc"})
		}
	}

	if len(details) > 0 {
		return f, apperror.Validation("Invalid query parameters", details...)
	}
	return f, nil
}

// NormalizeFilter applies the same defaults and bounds as ValidateFilters to
// a filter built in code.
func NormalizeFilter(f domain.CandidateFilter) domain.CandidateFilter {
	if f.Page < 1 {
		f.Page = domain.DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = domain.DefaultLimit
	}
	f.Limit = clamp(f.Limit, 1, domain.MaxLimit)
	if f.SortBy == "" {
		f.SortBy = domain.SortByCreatedAt
	}
	if f.SortOrder == "" {
		f.SortOrder = domain.SortDesc
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// ValidateUpload checks stored-file metadata against the document rules.
func ValidateUpload(meta domain.FileMeta) error {
	if meta.OriginalName == "" {
		return apperror.FileUpload("No file provided")
	}
	if utf8.RuneCountInString(meta.OriginalName) > domain.MaxOriginalNameLength {
		return apperror.FileUpload("File name too long. Maximum length is 255 characters")
	}
	if !IsAllowedDocumentType(meta.MimeType) {
		return apperror.FileUpload("Invalid file type. Only PDF and DOCX files are allowed")
	}
	if meta.FileSize <= 0 {
		return apperror.FileUpload("File is empty")
	}
	if meta.FileSize > domain.MaxUploadSize {
		return apperror.FileUpload("File too large. Maximum size is 5MB")
	}
	return nil
}

func IsAllowedDocumentType(mimeType string) bool {
	for _, allowed := range domain.AllowedDocumentMIMETypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func blankToNil(s *string) *string {
	s = trimPtr(s)
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func normalizeDatePtr(s *string) *string {
	if s == nil {
		return nil
	}
	if d, ok := NormalizeDate(*s); ok {
		return &d
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

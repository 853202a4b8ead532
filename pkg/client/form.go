package client

import (
	"math"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with 1024-based units and at most two
// decimals, e.g. 1536 -> "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(fileSizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + fileSizeUnits[i]
}

func IsValidFileType(contentType string) bool {
	return contentType == MIMETypePDF || contentType == MIMETypeDOCX
}

// ContentTypeFor maps a file name to the MIME type sent with an upload.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MIMETypePDF
	case ".docx":
		return MIMETypeDOCX
	default:
		return "application/octet-stream"
	}
}

// FilterState is the list query a browsing UI keeps between requests.
// Changing search, status or sort returns to the first page.
type FilterState struct {
	Page      int
	Limit     int
	Search    string
	Status    CandidateStatus
	SortBy    SortField
	SortOrder SortOrder
}

func NewFilterState() FilterState {
	return FilterState{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}
}

func (f *FilterState) SetSearch(search string) {
	f.Search = search
	f.Page = 1
}

func (f *FilterState) SetStatus(status CandidateStatus) {
	f.Status = status
	f.Page = 1
}

func (f *FilterState) SetSort(by SortField, order SortOrder) {
	f.SortBy = by
	f.SortOrder = order
	f.Page = 1
}

// NextPage advances unless already on the last page.
func (f *FilterState) NextPage(totalPages int) bool {
	if f.Page >= totalPages {
		return false
	}
	f.Page++
	return true
}

func (f *FilterState) PrevPage() bool {
	if f.Page <= 1 {
		return false
	}
	f.Page--
	return true
}

func (f *FilterState) Clear() {
	*f = FilterState{Page: DefaultPage, Limit: DefaultLimit}
}

func (f FilterState) HasActiveFilters() bool {
	return f.Search != "" || f.Status != ""
}

// Query encodes the non-empty fields as list query parameters.
func (f FilterState) Query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.SortBy != "" {
		q.Set("sortBy", string(f.SortBy))
	}
	if f.SortOrder != "" {
		q.Set("sortOrder", string(f.SortOrder))
	}
	return q
}

type EducationRow struct {
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    string
	EndDate      string
	IsCurrent    bool
}

type ExperienceRow struct {
	Company     string
	Position    string
	Department  string
	Location    string
	Description string
	StartDate   string
	EndDate     string
	IsCurrent   bool
}

// CandidateForm holds the editable create form. It starts with one blank
// education row and one blank experience row.
type CandidateForm struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	Notes      string
	Education  []EducationRow
	Experience []ExperienceRow
}

func NewCandidateForm() *CandidateForm {
	return &CandidateForm{
		Education:  []EducationRow{{}},
		Experience: []ExperienceRow{{}},
	}
}

func (f *CandidateForm) AddEducation() {
	f.Education = append(f.Education, EducationRow{})
}

func (f *CandidateForm) RemoveEducation(i int) {
	if i < 0 || i >= len(f.Education) {
		return
	}
	f.Education = append(f.Education[:i], f.Education[i+1:]...)
}

func (f *CandidateForm) AddExperience() {
	f.Experience = append(f.Experience, ExperienceRow{})
}

func (f *CandidateForm) RemoveExperience(i int) {
	if i < 0 || i >= len(f.Experience) {
		return
	}
	f.Experience = append(f.Experience[:i], f.Experience[i+1:]...)
}

// ApplyCurrentFlags clears the end date of rows marked current.
func (f *CandidateForm) ApplyCurrentFlags() {
	for i := range f.Education {
		if f.Education[i].IsCurrent {
			f.Education[i].EndDate = ""
		}
	}
	for i := range f.Experience {
		if f.Experience[i].IsCurrent {
			f.Experience[i].EndDate = ""
		}
	}
}

// Input builds the create payload. Education rows without an institution
// and experience rows without company and position are dropped.
func (f *CandidateForm) Input() CreateCandidateInput {
	f.ApplyCurrentFlags()

	in := CreateCandidateInput{
		FirstName:  strings.TrimSpace(f.FirstName),
		LastName:   strings.TrimSpace(f.LastName),
		Email:      strings.TrimSpace(f.Email),
		Phone:      optional(f.Phone),
		Address:    optional(f.Address),
		Notes:      optional(f.Notes),
		Education:  []EducationInput{},
		Experience: []ExperienceInput{},
	}
	for _, row := range f.Education {
		if strings.TrimSpace(row.Institution) == "" {
			continue
		}
		in.Education = append(in.Education, EducationInput{
			Institution:  strings.TrimSpace(row.Institution),
			Degree:       optional(row.Degree),
			FieldOfStudy: optional(row.FieldOfStudy),
			StartDate:    optional(row.StartDate),
			EndDate:      optional(row.EndDate),
			IsCurrent:    row.IsCurrent,
		})
	}
	for _, row := range f.Experience {
		if strings.TrimSpace(row.Company) == "" || strings.TrimSpace(row.Position) == "" {
			continue
		}
		in.Experience = append(in.Experience, ExperienceInput{
			Company:     strings.TrimSpace(row.Company),
			Position:    strings.TrimSpace(row.Position),
			Department:  optional(row.Department),
			Location:    optional(row.Location),
			Description: optional(row.Description),
			StartDate:   optional(row.StartDate),
			EndDate:     optional(row.EndDate),
			IsCurrent:   row.IsCurrent,
		})
	}
	return in
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

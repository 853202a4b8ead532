package validation_test

import (
	"net/url"
	"strings"
	"testing"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func newValidator() *validation.CandidateValidator {
	return validation.NewCandidateValidator(validation.New())
}

func validCreate() domain.CreateCandidateInput {
	return domain.CreateCandidateInput{
		FirstName: "  Ada ",
		LastName:  "Lovelace",
		Email:     " Ada@Example.COM ",
		Phone:     strPtr(""),
		Education: []domain.EducationInput{{
			Institution: "University of London",
			StartDate:   strPtr("2015-09-01"),
			EndDate:     strPtr("2019-06-30T00:00:00Z"),
			GPA:         floatPtr(3.8),
		}},
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.AppError, got %v", err)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	fields := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	return fields
}

func TestValidateCreate(t *testing.T) {
	cv := newValidator()

	t.Run("normalizes a valid payload", func(t *testing.T) {
		out, err := cv.ValidateCreate(validCreate())
		require.NoError(t, err)

		assert.Equal(t, "Ada", out.FirstName)
		assert.Equal(t, "ada@example.com", out.Email)
		assert.Nil(t, out.Phone)
		assert.NotNil(t, out.Experience)
		assert.Empty(t, out.Experience)
		require.Len(t, out.Education, 1)
		assert.Equal(t, "2019-06-30", *out.Education[0].EndDate)
	})

	t.Run("reports nested field paths", func(t *testing.T) {
		in := validCreate()
		in.Education[0].Institution = "   "
		in.Experience = []domain.ExperienceInput{{Company: "Acme", Position: "Engineer", Currency: strPtr("EURO")}}

		_, err := cv.ValidateCreate(in)
		fields := fieldsOf(t, err)
		assert.Contains(t, fields, "education[0].institution")
		assert.Contains(t, fields, "experience[0].currency")
	})

	t.Run("rejects malformed email and long names", func(t *testing.T) {
		in := validCreate()
		in.Email = "not-an-email"
		in.LastName = strings.Repeat("x", 101)

		_, err := cv.ValidateCreate(in)
		fields := fieldsOf(t, err)
		assert.ElementsMatch(t, []string{"email", "lastName"}, fields)
	})

	t.Run("rejects gpa out of range and bad dates", func(t *testing.T) {
		in := validCreate()
		in.Education[0].GPA = floatPtr(4.5)
		in.Education[0].StartDate = strPtr("01/09/2015")

		_, err := cv.ValidateCreate(in)
		fields := fieldsOf(t, err)
		assert.ElementsMatch(t, []string{"education[0].gpa", "education[0].startDate"}, fields)
	})

	t.Run("rejects negative salary", func(t *testing.T) {
		in := validCreate()
		in.Experience = []domain.ExperienceInput{{Company: "Acme", Position: "Engineer", Salary: floatPtr(-1)}}

		_, err := cv.ValidateCreate(in)
		assert.Equal(t, []string{"experience[0].salary"}, fieldsOf(t, err))
	})

	t.Run("rejects salary beyond numeric(12,2)", func(t *testing.T) {
		in := validCreate()
		in.Experience = []domain.ExperienceInput{{Company: "Acme", Position: "Engineer", Salary: floatPtr(1e10)}}

		_, err := cv.ValidateCreate(in)
		assert.Equal(t, []string{"experience[0].salary"}, fieldsOf(t, err))

		in.Experience[0].Salary = floatPtr(9999999999.99)
		_, err = cv.ValidateCreate(in)
		assert.NoError(t, err)
	})
}

func TestValidateUpdate(t *testing.T) {
	cv := newValidator()

	t.Run("empty patch is valid", func(t *testing.T) {
		out, err := cv.ValidateUpdate(domain.UpdateCandidateInput{})
		require.NoError(t, err)
		assert.True(t, out.IsEmpty())
	})

	t.Run("lowercases email", func(t *testing.T) {
		out, err := cv.ValidateUpdate(domain.UpdateCandidateInput{Email: strPtr("New@Mail.io")})
		require.NoError(t, err)
		assert.Equal(t, "new@mail.io", *out.Email)
	})

	t.Run("rejects blank name and unknown status", func(t *testing.T) {
		status := domain.CandidateStatus("ghosted")
		_, err := cv.ValidateUpdate(domain.UpdateCandidateInput{FirstName: strPtr("  "), Status: &status})
		assert.ElementsMatch(t, []string{"firstName", "status"}, fieldsOf(t, err))
	})
}

func TestValidateFilters(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f, err := validation.ValidateFilters(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, domain.CandidateFilter{
			Page: 1, Limit: 10, SortBy: domain.SortByCreatedAt, SortOrder: domain.SortDesc,
		}, f)
	})

	t.Run("clamps and falls back", func(t *testing.T) {
		f, err := validation.ValidateFilters(url.Values{"page": {"-3"}, "limit": {"500"}})
		require.NoError(t, err)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 100, f.Limit)

		f, err = validation.ValidateFilters(url.Values{"page": {"abc"}, "limit": {"0"}})
		require.NoError(t, err)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 1, f.Limit)
	})

	t.Run("accepts known enums", func(t *testing.T) {
		f, err := validation.ValidateFilters(url.Values{
			"status": {"hired"}, "sortBy": {"lastName"}, "sortOrder": {"ASC"}, "search": {" ada "},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusHired, f.Status)
		assert.Equal(t, domain.SortByLastName, f.SortBy)
		assert.Equal(t, domain.SortAsc, f.SortOrder)
		assert.Equal(t, "ada", f.Search)
	})

	t.Run("rejects unknown enums", func(t *testing.T) {
		_, err := validation.ValidateFilters(url.Values{"status": {"ghosted"}, "sortBy": {"salary"}})
		assert.ElementsMatch(t, []string{"status", "sortBy"}, fieldsOf(t, err))
	})
}

func TestValidateUpload(t *testing.T) {
	base := domain.FileMeta{OriginalName: "cv.pdf", MimeType: domain.MIMETypePDF, FileSize: 1024}

	assert.NoError(t, validation.ValidateUpload(base))

	png := base
	png.MimeType = "image/png"
	assert.True(t, apperror.IsKind(validation.ValidateUpload(png), apperror.KindFileUpload))

	big := base
	big.FileSize = 6 << 20
	assert.True(t, apperror.IsKind(validation.ValidateUpload(big), apperror.KindFileUpload))

	longName := base
	longName.OriginalName = strings.Repeat("é", 252) + ".pdf"
	assert.True(t, apperror.IsKind(validation.ValidateUpload(longName), apperror.KindFileUpload))
	longName.OriginalName = strings.Repeat("é", 251) + ".pdf"
	assert.NoError(t, validation.ValidateUpload(longName))

	docx := base
	docx.MimeType = domain.MIMETypeDOCX
	docx.FileSize = domain.MaxUploadSize
	assert.NoError(t, validation.ValidateUpload(docx))
}

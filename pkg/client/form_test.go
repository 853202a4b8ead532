package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{5 << 20, "5 MB"},
		{1234567, "1.18 MB"},
		{3 << 30, "3 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.in), "bytes=%d", tt.in)
	}
}

func TestContentTypes(t *testing.T) {
	assert.True(t, IsValidFileType(ContentTypeFor("CV.PDF")))
	assert.True(t, IsValidFileType(ContentTypeFor("cv.docx")))
	assert.False(t, IsValidFileType(ContentTypeFor("cv.doc")))
	assert.False(t, IsValidFileType("image/png"))
}

func TestFilterState(t *testing.T) {
	f := NewFilterState()
	assert.Equal(t, "1", f.Query().Get("page"))
	assert.Equal(t, "createdAt", f.Query().Get("sortBy"))
	assert.False(t, f.HasActiveFilters())

	assert.True(t, f.NextPage(3))
	assert.True(t, f.NextPage(3))
	assert.False(t, f.NextPage(3))
	assert.Equal(t, 3, f.Page)

	f.SetStatus(StatusHired)
	assert.Equal(t, 1, f.Page)
	assert.False(t, f.PrevPage())

	f.Page = 2
	f.SetSearch("  ada ")
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, "ada", f.Query().Get("search"))
	assert.Equal(t, "hired", f.Query().Get("status"))
	assert.True(t, f.HasActiveFilters())

	f.Clear()
	q := f.Query()
	assert.Equal(t, "10", q.Get("limit"))
	assert.False(t, q.Has("search"))
	assert.False(t, q.Has("status"))
	assert.False(t, q.Has("sortBy"))
}

func TestCandidateForm_Input(t *testing.T) {
	form := NewCandidateForm()
	require.Len(t, form.Education, 1)
	require.Len(t, form.Experience, 1)

	form.FirstName = " Grace "
	form.LastName = "Hopper"
	form.Email = "grace@example.com"
	form.Phone = "   "
	form.Education[0] = EducationRow{Institution: "Yale", EndDate: "1934-06-01", IsCurrent: true}
	form.AddEducation()
	form.AddExperience()
	form.Experience[1] = ExperienceRow{Company: "US Navy", Position: "Rear Admiral", EndDate: "1986-08-14"}

	in := form.Input()
	assert.Equal(t, "Grace", in.FirstName)
	assert.Nil(t, in.Phone)
	require.Len(t, in.Education, 1)
	assert.Nil(t, in.Education[0].EndDate)
	require.Len(t, in.Experience, 1)
	assert.Equal(t, "US Navy", in.Experience[0].Company)
	require.NotNil(t, in.Experience[0].EndDate)
	assert.Equal(t, "1986-08-14", *in.Experience[0].EndDate)

	form.RemoveExperience(0)
	form.RemoveExperience(5)
	assert.Len(t, form.Experience, 1)
}

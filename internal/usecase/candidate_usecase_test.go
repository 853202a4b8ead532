package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/repository/memory"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/events"
	"go-ats-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) Create(ctx context.Context, input domain.CreateCandidateInput) (*domain.Candidate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Candidate), args.Get(1).(int64), args.Error(2)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) FindIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCandidateRepo) Update(ctx context.Context, id int64, patch domain.UpdateCandidateInput) (*domain.Candidate, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCandidateRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func newValidator() *validation.CandidateValidator {
	return validation.NewCandidateValidator(validation.New())
}

type fixture struct {
	candidates domain.CandidateUsecase
	documents  domain.DocumentUsecase
	exports    domain.ExportUsecase
	repo       domain.CandidateRepository
	events     *events.RecordingPublisher
}

func newFixture() *fixture {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		start = start.Add(time.Second)
		return start
	}
	store := memory.NewStore(memory.WithClock(clock))
	candRepo := memory.NewCandidateRepository(store)
	docRepo := memory.NewDocumentRepository(store)
	pub := &events.RecordingPublisher{}

	return &fixture{
		candidates: usecase.NewCandidateUsecase(candRepo, newValidator(), pub, nil),
		documents:  usecase.NewDocumentUsecase(candRepo, docRepo, pub, nil),
		exports:    usecase.NewExportUsecase(candRepo),
		repo:       candRepo,
		events:     pub,
	}
}

func validInput(email string) domain.CreateCandidateInput {
	return domain.CreateCandidateInput{
		FirstName: "  Grace ",
		LastName:  "Hopper",
		Email:     email,
		Phone:     strPtr("+34 600 000 000"),
	}
}

func requireKind(t *testing.T, err error, kind apperror.Kind) *apperror.AppError {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	require.Equal(t, kind, appErr.Kind)
	return appErr
}

func TestCreateCandidate(t *testing.T) {
	f := newFixture()

	c, err := f.candidates.Create(context.Background(), domain.CreateCandidateInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "Grace@Example.COM",
		Education: []domain.EducationInput{
			{Institution: "Yale", Degree: strPtr("PhD"), StartDate: strPtr("1930-09-01")},
			{Institution: "Vassar", StartDate: strPtr("1924-09-01")},
		},
		Experience: []domain.ExperienceInput{{Company: "US Navy", Position: "Rear Admiral"}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, c.Status)
	assert.Equal(t, "grace@example.com", c.Email)
	assert.Len(t, c.Education, 2)
	assert.Len(t, c.Experience, 1)
	assert.Empty(t, c.Documents)
	assert.Equal(t, []string{events.SubjectCandidateCreated}, f.events.Subjects())

	got, err := f.candidates.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yale", got.Education[0].Institution)
	assert.Equal(t, "Vassar", got.Education[1].Institution)
}

func TestCreateCandidateValidation(t *testing.T) {
	f := newFixture()

	_, err := f.candidates.Create(context.Background(), domain.CreateCandidateInput{
		FirstName: " ",
		LastName:  "Hopper",
		Email:     "not-an-email",
		Education: []domain.EducationInput{{Institution: ""}},
	})
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	fields := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "firstName")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "education[0].institution")
	assert.Empty(t, f.events.Events)
}

func TestCreateCandidateDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.candidates.Create(ctx, validInput("dup@example.com"))
	require.NoError(t, err)

	_, err = f.candidates.Create(ctx, validInput("DUP@Example.com"))
	appErr := requireKind(t, err, apperror.KindDuplicate)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "email", appErr.Details[0].Field)
}

func TestCreateCandidateConcurrentDuplicates(t *testing.T) {
	f := newFixture()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	uc := usecase.NewCandidateUsecase(f.repo, newValidator(), nil, nil)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(context.Background(), validInput("race@example.com"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperror.IsKind(err, apperror.KindDuplicate):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestTypedRepositoryErrorsPassThrough(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(repo, newValidator(), nil, nil)

	repo.On("GetByID", mock.Anything, int64(7)).Return(nil, apperror.NotFound("Candidate"))

	_, err := uc.GetByID(context.Background(), 7)
	appErr := requireKind(t, err, apperror.KindNotFound)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	repo.AssertExpectations(t)
}

func TestUntypedRepositoryErrorsBecomeDatabaseErrors(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(repo, newValidator(), nil, nil)

	cause := errors.New("connection reset by peer")
	repo.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), cause)

	_, err := uc.List(context.Background(), domain.CandidateFilter{})
	appErr := requireKind(t, err, apperror.KindDatabase)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, appErr.Message, "connection reset")
}

func TestGetCandidateNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.candidates.GetByID(context.Background(), 999)
	requireKind(t, err, apperror.KindNotFound)
}

func TestListCandidatesPagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		_, err := f.candidates.Create(ctx, validInput(fmt.Sprintf("p%02d@example.com", i)))
		require.NoError(t, err)
	}

	res, err := f.candidates.List(ctx, domain.CandidateFilter{
		Page: 2, Limit: 5, SortBy: domain.SortByEmail, SortOrder: domain.SortAsc,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 5, res.Limit)
	require.Len(t, res.Items, 5)
	assert.Equal(t, "p06@example.com", res.Items[0].Email)
	assert.Equal(t, "p10@example.com", res.Items[4].Email)
}

func TestListCandidatesFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.candidates.Create(ctx, domain.CreateCandidateInput{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"})
	require.NoError(t, err)
	_, err = f.candidates.Create(ctx, domain.CreateCandidateInput{FirstName: "Barbara", LastName: "Liskov", Email: "barbara@example.com"})
	require.NoError(t, err)

	hired := domain.StatusHired
	_, err = f.candidates.Update(ctx, a.ID, domain.UpdateCandidateInput{Status: &hired})
	require.NoError(t, err)

	res, err := f.candidates.List(ctx, domain.CandidateFilter{Status: domain.StatusHired})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, a.ID, res.Items[0].ID)

	res, err = f.candidates.List(ctx, domain.CandidateFilter{Search: "LISK"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Barbara", res.Items[0].FirstName)
	assert.Equal(t, 1, res.TotalPages)
}

func TestUpdateCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty patch returns the candidate unchanged", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, newValidator(), nil, nil)
		existing := &domain.Candidate{ID: 3, FirstName: "Ada", Email: "ada@example.com", Status: domain.StatusActive}
		repo.On("GetByID", mock.Anything, int64(3)).Return(existing, nil)

		got, err := uc.Update(ctx, 3, domain.UpdateCandidateInput{})
		require.NoError(t, err)
		assert.Equal(t, existing, got)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same email in different case is not a conflict", func(t *testing.T) {
		f := newFixture()
		c, err := f.candidates.Create(ctx, validInput("same@example.com"))
		require.NoError(t, err)

		got, err := f.candidates.Update(ctx, c.ID, domain.UpdateCandidateInput{
			Email: strPtr("SAME@example.com"),
			Notes: strPtr("second round"),
		})
		require.NoError(t, err)
		assert.Equal(t, "same@example.com", got.Email)
		require.NotNil(t, got.Notes)
		assert.Equal(t, "second round", *got.Notes)
		assert.False(t, got.UpdatedAt.Before(c.UpdatedAt))
	})

	t.Run("email owned by another candidate", func(t *testing.T) {
		f := newFixture()
		_, err := f.candidates.Create(ctx, validInput("first@example.com"))
		require.NoError(t, err)
		second, err := f.candidates.Create(ctx, validInput("second@example.com"))
		require.NoError(t, err)

		_, err = f.candidates.Update(ctx, second.ID, domain.UpdateCandidateInput{Email: strPtr("First@example.com")})
		requireKind(t, err, apperror.KindDuplicate)
	})

	t.Run("missing candidate", func(t *testing.T) {
		f := newFixture()
		_, err := f.candidates.Update(ctx, 42, domain.UpdateCandidateInput{FirstName: strPtr("X")})
		requireKind(t, err, apperror.KindNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newFixture()
		c, err := f.candidates.Create(ctx, validInput("status@example.com"))
		require.NoError(t, err)

		bogus := domain.CandidateStatus("pending")
		_, err = f.candidates.Update(ctx, c.ID, domain.UpdateCandidateInput{Status: &bogus})
		requireKind(t, err, apperror.KindValidation)
	})
}

func TestDeleteCandidate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.candidates.Create(ctx, validInput("gone@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.candidates.Delete(ctx, c.ID))

	_, err = f.candidates.GetByID(ctx, c.ID)
	requireKind(t, err, apperror.KindNotFound)

	err = f.candidates.Delete(ctx, c.ID)
	requireKind(t, err, apperror.KindNotFound)

	assert.Equal(t, []string{events.SubjectCandidateCreated, events.SubjectCandidateDeleted}, f.events.Subjects())
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, subject string, payload any) error {
	return errors.New("nats: connection closed")
}

func (failingPublisher) Close() {}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCandidateUsecase(memory.NewCandidateRepository(store), newValidator(), failingPublisher{}, nil)

	c, err := uc.Create(context.Background(), validInput("events@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
}

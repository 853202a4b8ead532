package usecase

import (
	"context"
	"strings"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/events"
	"go-ats-backend/pkg/telemetry"
	"go-ats-backend/pkg/validation"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("go-ats-backend/usecase")

type candidateUsecase struct {
	repo      domain.CandidateRepository
	validator *validation.CandidateValidator
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewCandidateUsecase(repo domain.CandidateRepository, validator *validation.CandidateValidator, publisher events.Publisher, logger *zap.Logger) domain.CandidateUsecase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &candidateUsecase{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (u *candidateUsecase) Create(ctx context.Context, input domain.CreateCandidateInput) (*domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "CandidateUsecase.Create")
	defer span.End()

	input, err := u.validator.ValidateCreate(input)
	if err != nil {
		return nil, err
	}

	if _, taken, err := u.repo.FindIDByEmail(ctx, input.Email); err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to check email uniqueness")
	} else if taken {
		return nil, apperror.Duplicate("email")
	}

	// The unique index still decides concurrent inserts; the repository maps
	// that violation to the same duplicate error.
	candidate, err := u.repo.Create(ctx, input)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to create candidate")
	}

	span.SetAttributes(telemetry.Int64("candidate.id", candidate.ID))
	u.publish(ctx, events.SubjectCandidateCreated, u.candidateEvent(candidate))
	return candidate, nil
}

func (u *candidateUsecase) List(ctx context.Context, filter domain.CandidateFilter) (*domain.PaginatedResult[domain.Candidate], error) {
	ctx, span := tracer.Start(ctx, "CandidateUsecase.List")
	defer span.End()

	filter = validation.NormalizeFilter(filter)

	items, total, err := u.repo.List(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to fetch candidates")
	}
	if items == nil {
		items = []domain.Candidate{}
	}

	span.SetAttributes(telemetry.Int64("candidates.total", total))
	return &domain.PaginatedResult[domain.Candidate]{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: domain.TotalPages(total, filter.Limit),
	}, nil
}

func (u *candidateUsecase) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "CandidateUsecase.GetByID")
	defer span.End()

	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to fetch candidate")
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate")
	}
	return candidate, nil
}

func (u *candidateUsecase) Update(ctx context.Context, id int64, input domain.UpdateCandidateInput) (*domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "CandidateUsecase.Update")
	defer span.End()

	input, err := u.validator.ValidateUpdate(input)
	if err != nil {
		return nil, err
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to fetch candidate")
	}
	if existing == nil {
		return nil, apperror.NotFound("Candidate")
	}

	if input.Email != nil && !strings.EqualFold(*input.Email, existing.Email) {
		ownerID, taken, err := u.repo.FindIDByEmail(ctx, *input.Email)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, apperror.Wrap(err, "Failed to check email uniqueness")
		}
		if taken && ownerID != id {
			return nil, apperror.Duplicate("email")
		}
	}

	if input.IsEmpty() {
		return existing, nil
	}

	updated, err := u.repo.Update(ctx, id, input)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to update candidate")
	}
	if updated == nil {
		return nil, apperror.NotFound("Candidate")
	}

	u.publish(ctx, events.SubjectCandidateUpdated, u.candidateEvent(updated))
	return updated, nil
}

func (u *candidateUsecase) Delete(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "CandidateUsecase.Delete")
	defer span.End()

	exists, err := u.repo.Exists(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return apperror.Wrap(err, "Failed to delete candidate")
	}
	if !exists {
		return apperror.NotFound("Candidate")
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return apperror.Wrap(err, "Failed to delete candidate")
	}
	if !deleted {
		return apperror.NotFound("Candidate")
	}

	u.publish(ctx, events.SubjectCandidateDeleted, events.CandidateEvent{CandidateID: id, OccurredAt: u.now().UTC()})
	return nil
}

func (u *candidateUsecase) candidateEvent(c *domain.Candidate) events.CandidateEvent {
	return events.CandidateEvent{
		CandidateID: c.ID,
		Email:       c.Email,
		Status:      string(c.Status),
		OccurredAt:  u.now().UTC(),
	}
}

func (u *candidateUsecase) publish(ctx context.Context, subject string, payload any) {
	publishEvent(ctx, u.publisher, u.logger, subject, payload)
}

// publishEvent never fails the caller; the write has already committed.
func publishEvent(ctx context.Context, p events.Publisher, logger *zap.Logger, subject string, payload any) {
	if err := p.Publish(ctx, subject, payload); err != nil {
		logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

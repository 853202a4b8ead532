package usecase

import (
	"context"
	"time"

	"go-ats-backend/internal/domain"
)

const Version = "1.0.0"

// StoragePinger reports whether the backing store is reachable.
type StoragePinger func(ctx context.Context) error

type healthUsecase struct {
	storage string
	ping    StoragePinger
	now     func() time.Time
}

func NewHealthUsecase(storage string, ping StoragePinger) domain.HealthUsecase {
	return &healthUsecase{
		storage: storage,
		ping:    ping,
		now:     time.Now,
	}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		Status:    "ok",
		Timestamp: u.now().UTC().Format(time.RFC3339),
		Version:   Version,
		Storage:   u.storage,
	}
	if u.ping != nil {
		if err := u.ping(ctx); err != nil {
			status.Status = "degraded"
		}
	}
	return status
}

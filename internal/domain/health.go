package domain

import "context"

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Storage   string `json:"storage"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}

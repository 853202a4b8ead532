package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-ats-backend/pkg/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("go-ats-backend/events")

const (
	SubjectCandidateCreated  = "candidates.created"
	SubjectCandidateUpdated  = "candidates.updated"
	SubjectCandidateDeleted  = "candidates.deleted"
	SubjectDocumentUploaded  = "candidates.documents.uploaded"
	SubjectDocumentDeleted   = "candidates.documents.deleted"
	defaultConnectTimeout    = 10 * time.Second
	defaultReconnectInterval = time.Second
)

// CandidateEvent is the payload of every candidate subject.
type CandidateEvent struct {
	CandidateID int64     `json:"candidateId"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// DocumentEvent is the payload of the document subjects.
type DocumentEvent struct {
	CandidateID  int64     `json:"candidateId"`
	DocumentID   int64     `json:"documentId"`
	DocumentType string    `json:"documentType,omitempty"`
	FilePath     string    `json:"filePath"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(url string, logger *zap.Logger) (Publisher, error) {
	opts := []nats.Option{
		nats.Name("go-ats-backend"),
		nats.Timeout(defaultConnectTimeout),
		nats.ReconnectWait(defaultReconnectInterval),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, payload any) error {
	_, span := tracer.Start(ctx, "events.Publish")
	defer span.End()

	data, err := json.Marshal(payload)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("marshaling %s event: %w", subject, err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("publishing %s: %w", subject, err)
	}

	p.logger.Debug("published event", zap.String("subject", subject), zap.Int("size", len(data)))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
	}
}

// NoopPublisher discards events. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, payload any) error { return nil }

func (NoopPublisher) Close() {}

// RecordingPublisher keeps published events in memory.
type RecordingPublisher struct {
	Events []Recorded
}

type Recorded struct {
	Subject string
	Payload any
}

func (r *RecordingPublisher) Publish(ctx context.Context, subject string, payload any) error {
	r.Events = append(r.Events, Recorded{Subject: subject, Payload: payload})
	return nil
}

func (r *RecordingPublisher) Close() {}

func (r *RecordingPublisher) Subjects() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Subject)
	}
	return out
}

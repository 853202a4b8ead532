package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventUploadRejected     EventType = "upload_rejected"
	EventMalwareDetected    EventType = "malware_detected"
	EventScannerUnavailable EventType = "scanner_unavailable"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventDataExport         EventType = "data_export"
	EventDocumentDeleted    EventType = "document_deleted"
	EventCandidateDeleted   EventType = "candidate_deleted"
)

// Severity is derived from EventType, never supplied by callers.
type Severity string

const (
	SeverityINFO     Severity = "INFO"
	SeverityMEDIUM   Severity = "MEDIUM"
	SeverityWARN     Severity = "WARN"
	SeverityHIGH     Severity = "HIGH"
	SeverityCRITICAL Severity = "CRITICAL"
)

var eventSeverity = map[EventType]Severity{
	EventDocumentDeleted:    SeverityINFO,
	EventCandidateDeleted:   SeverityMEDIUM,
	EventDataExport:         SeverityMEDIUM,
	EventUploadRejected:     SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,
	EventScannerUnavailable: SeverityHIGH,
	EventMalwareDetected:    SeverityCRITICAL,
}

// GetSeverity returns the severity for an event type, MEDIUM if unmapped.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := eventSeverity[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time      `json:"timestamp"`
	Service      string         `json:"service"`
	Environment  string         `json:"env"`
	Level        string         `json:"level"`
	Severity     Severity       `json:"severity"`
	Event        EventType      `json:"event"`
	SubjectType  string         `json:"subject_type,omitempty"`  // "candidate", "document", "ip"
	SubjectValue string         `json:"subject_value,omitempty"` // hashed unless it is an id or ip
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// RequestInfo carries the request attributes attached to every event.
type RequestInfo struct {
	IP        string
	UserAgent string
	RequestID string
}

// PersistFunc stores one event, e.g. SecurityEventRepository.PersistEvent.
type PersistFunc func(ctx context.Context, event SecurityEvent) error

// SecurityLogger writes audit events to zap and optionally persists them.
// A nil *SecurityLogger discards everything.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	persistFunc PersistFunc
	persistWait time.Duration
}

func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityLogger{
		zapLogger:   logger.Named("security"),
		serviceName: serviceName,
		environment: environment,
		persistWait: 5 * time.Second,
	}
}

// SetPersistFunc sets the function used to store events.
func (sl *SecurityLogger) SetPersistFunc(f PersistFunc) {
	if sl == nil {
		return
	}
	sl.persistFunc = f
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment
	event.Severity = GetSeverity(event.Event)

	level := zapcore.WarnLevel
	switch event.Severity {
	case SeverityINFO, SeverityMEDIUM:
		level = zapcore.InfoLevel
	case SeverityHIGH, SeverityCRITICAL:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)

	if sl.persistFunc != nil {
		// detached from the request context, which may already be canceled
		go func(e SecurityEvent) {
			ctx, cancel := context.WithTimeout(context.Background(), sl.persistWait)
			defer cancel()

			if err := sl.persistFunc(ctx, e); err != nil {
				sl.zapLogger.Error("Failed to persist security event", zap.Error(err))
			}
		}(event)
	}
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, req RequestInfo, candidateID int64, filename, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadRejected,
		SubjectType:  "candidate",
		SubjectValue: strconv.FormatInt(candidateID, 10),
		IP:           req.IP,
		UserAgent:    req.UserAgent,
		RequestID:    req.RequestID,
		Details:      map[string]any{"file": HashValue(filename), "reason": reason},
	})
}

func (sl *SecurityLogger) LogMalwareDetected(ctx context.Context, req RequestInfo, candidateID int64, scanner, threat string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventMalwareDetected,
		SubjectType:  "candidate",
		SubjectValue: strconv.FormatInt(candidateID, 10),
		IP:           req.IP,
		UserAgent:    req.UserAgent,
		RequestID:    req.RequestID,
		Details:      map[string]any{"scanner": scanner, "threat": threat},
	})
}

func (sl *SecurityLogger) LogScannerUnavailable(ctx context.Context, req RequestInfo, scanner string, err error) {
	details := map[string]any{"scanner": scanner}
	if err != nil {
		details["error"] = err.Error()
	}
	sl.Log(ctx, SecurityEvent{
		Event:     EventScannerUnavailable,
		IP:        req.IP,
		RequestID: req.RequestID,
		Details:   details,
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, req RequestInfo, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: req.IP,
		IP:           req.IP,
		UserAgent:    req.UserAgent,
		RequestID:    req.RequestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogDataExport(ctx context.Context, req RequestInfo, format string, rows int) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventDataExport,
		IP:        req.IP,
		UserAgent: req.UserAgent,
		RequestID: req.RequestID,
		Details:   map[string]any{"format": format, "rows": rows},
	})
}

func (sl *SecurityLogger) LogCandidateDeleted(ctx context.Context, req RequestInfo, candidateID int64) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventCandidateDeleted,
		SubjectType:  "candidate",
		SubjectValue: strconv.FormatInt(candidateID, 10),
		IP:           req.IP,
		RequestID:    req.RequestID,
	})
}

func (sl *SecurityLogger) LogDocumentDeleted(ctx context.Context, req RequestInfo, candidateID, documentID int64) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventDocumentDeleted,
		SubjectType:  "document",
		SubjectValue: strconv.FormatInt(documentID, 10),
		IP:           req.IP,
		RequestID:    req.RequestID,
		Details:      map[string]any{"candidate_id": candidateID},
	})
}

// HashValue creates a short SHA256 fingerprint of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

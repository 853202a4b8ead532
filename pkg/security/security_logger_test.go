package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetSeverity(t *testing.T) {
	assert.Equal(t, SeverityCRITICAL, GetSeverity(EventMalwareDetected))
	assert.Equal(t, SeverityWARN, GetSeverity(EventUploadRejected))
	assert.Equal(t, SeverityMEDIUM, GetSeverity(EventType("unknown")))
}

func TestSecurityLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "ats-test", "test")
	req := RequestInfo{IP: "10.0.0.1", RequestID: "req-1"}

	sl.LogUploadRejected(context.Background(), req, 7, "resume.exe", "File extension not allowed: .exe")
	sl.LogMalwareDetected(context.Background(), req, 7, "clamav", "Eicar-Test-Signature")
	sl.LogDataExport(context.Background(), req, "csv", 3)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "upload_rejected", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "7", fields["subject_value"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.NotContains(t, fields["details"], "resume.exe")

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "CRITICAL", entries[1].ContextMap()["severity"])

	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
}

func TestSecurityLogger_Persist(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "ats-test", "test")

	got := make(chan SecurityEvent, 1)
	sl.SetPersistFunc(func(ctx context.Context, e SecurityEvent) error {
		got <- e
		return errors.New("db down")
	})

	sl.LogCandidateDeleted(context.Background(), RequestInfo{IP: "10.0.0.2"}, 42)

	select {
	case e := <-got:
		assert.Equal(t, EventCandidateDeleted, e.Event)
		assert.Equal(t, SeverityMEDIUM, e.Severity)
		assert.Equal(t, "ats-test", e.Service)
		assert.False(t, e.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event was not persisted")
	}

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Failed to persist security event").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSecurityLogger_NilIsNoop(t *testing.T) {
	var sl *SecurityLogger
	assert.NotPanics(t, func() {
		sl.SetPersistFunc(nil)
		sl.LogRateLimitTriggered(context.Background(), RequestInfo{}, "/api/candidates/:id/documents")
	})
}

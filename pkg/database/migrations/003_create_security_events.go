package migrations

import "go-ats-backend/pkg/database"

var CreateSecurityEventsTable = database.Migration{
	Version:     3,
	Description: "Create security_events audit table",
	Up: []string{
		`CREATE TABLE IF NOT EXISTS security_events (
			id BIGSERIAL PRIMARY KEY,
			event_type VARCHAR(50) NOT NULL,
			severity VARCHAR(10) NOT NULL,
			service VARCHAR(100) NOT NULL,
			environment VARCHAR(20) NOT NULL,
			level VARCHAR(10) NOT NULL,
			subject_type VARCHAR(20),
			subject_value VARCHAR(255),
			ip_address INET,
			user_agent TEXT,
			request_id VARCHAR(64),
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS security_events_created_idx
			ON security_events (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS security_events_type_idx
			ON security_events (event_type, created_at DESC)`,
	},
	Down: []string{
		`DROP TABLE IF EXISTS security_events`,
	},
}

package migrations

import "go-ats-backend/pkg/database"

var CreateCandidatesTable = database.Migration{
	Version:     1,
	Description: "Create candidates table",
	Up: []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			id BIGSERIAL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(20),
			address TEXT,
			notes TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'active'
				CHECK (status IN ('active', 'in_review', 'hired', 'rejected', 'archived')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS candidates_email_lower_key ON candidates (LOWER(email))`,
		`CREATE INDEX IF NOT EXISTS candidates_status_idx ON candidates (status)`,
		`CREATE INDEX IF NOT EXISTS candidates_created_at_idx ON candidates (created_at DESC, id DESC)`,
	},
	Down: []string{
		`DROP TABLE IF EXISTS candidates`,
	},
}

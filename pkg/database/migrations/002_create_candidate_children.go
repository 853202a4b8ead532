package migrations

import "go-ats-backend/pkg/database"

var CreateCandidateChildTables = database.Migration{
	Version:     2,
	Description: "Create candidate education, experience and documents tables",
	Up: []string{
		`CREATE TABLE IF NOT EXISTS candidate_education (
			id BIGSERIAL PRIMARY KEY,
			candidate_id BIGINT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
			institution VARCHAR(255) NOT NULL,
			degree VARCHAR(255),
			field_of_study VARCHAR(255),
			start_date DATE,
			end_date DATE,
			is_current BOOLEAN NOT NULL DEFAULT FALSE,
			gpa NUMERIC(3,2) CHECK (gpa >= 0 AND gpa <= 4),
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS candidate_education_candidate_idx
			ON candidate_education (candidate_id, start_date DESC NULLS LAST, id DESC)`,
		`CREATE TABLE IF NOT EXISTS candidate_experience (
			id BIGSERIAL PRIMARY KEY,
			candidate_id BIGINT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
			company VARCHAR(255) NOT NULL,
			position VARCHAR(255) NOT NULL,
			department VARCHAR(255),
			location VARCHAR(255),
			description TEXT,
			start_date DATE,
			end_date DATE,
			is_current BOOLEAN NOT NULL DEFAULT FALSE,
			salary NUMERIC(12,2) CHECK (salary >= 0),
			currency CHAR(3),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS candidate_experience_candidate_idx
			ON candidate_experience (candidate_id, start_date DESC NULLS LAST, id DESC)`,
		`CREATE TABLE IF NOT EXISTS candidate_documents (
			id BIGSERIAL PRIMARY KEY,
			candidate_id BIGINT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
			file_name VARCHAR(255) NOT NULL,
			original_name VARCHAR(255) NOT NULL,
			file_path VARCHAR(512) NOT NULL,
			file_type VARCHAR(10) NOT NULL,
			file_size BIGINT NOT NULL,
			mime_type VARCHAR(100) NOT NULL,
			document_type VARCHAR(50) NOT NULL DEFAULT 'cv',
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS candidate_documents_candidate_idx
			ON candidate_documents (candidate_id, uploaded_at DESC)`,
	},
	Down: []string{
		`DROP TABLE IF EXISTS candidate_documents`,
		`DROP TABLE IF EXISTS candidate_experience`,
		`DROP TABLE IF EXISTS candidate_education`,
	},
}

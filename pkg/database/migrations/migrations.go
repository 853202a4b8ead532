package migrations

import "go-ats-backend/pkg/database"

// All lists every migration in version order.
var All = []database.Migration{
	CreateCandidatesTable,
	CreateCandidateChildTables,
	CreateSecurityEventsTable,
}

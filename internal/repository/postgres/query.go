package postgres

import (
	"fmt"
	"strings"

	"go-ats-backend/internal/domain"

	"github.com/lib/pq"
)

const (
	candidateColumns  = "id, first_name, last_name, email, phone, address, notes, status, created_at, updated_at"
	educationColumns  = "id, candidate_id, institution, degree, field_of_study, start_date, end_date, is_current, gpa, description"
	experienceColumns = "id, candidate_id, company, position, department, location, description, start_date, end_date, is_current, salary, currency"
	documentColumns   = "id, candidate_id, file_name, original_name, file_path, file_type, file_size, mime_type, document_type, uploaded_at"
)

var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByLastName:  "last_name",
	domain.SortByEmail:     "email",
}

// buildCandidateWhere renders the list predicate: a case-insensitive
// substring match on first name, last name or email, AND an exact status.
func buildCandidateWhere(filter domain.CandidateFilter) (string, []any) {
	var conditions []string
	args := []any{}
	argIndex := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIndex++
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(filter.Status))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause sorts by the requested column with id as tie-break.
func orderClause(filter domain.CandidateFilter) string {
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[domain.SortByCreatedAt]
	}
	dir := "DESC"
	if filter.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, id %s", pq.QuoteIdentifier(column), dir, dir)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildCandidateUpdate renders SET clauses for the non-nil fields of patch.
// The returned args are positional starting at $1.
func buildCandidateUpdate(patch domain.UpdateCandidateInput) ([]string, []any) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	return sets, args
}

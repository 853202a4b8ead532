package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

type candidateRepository struct {
	db DB
}

func NewCandidateRepository(db DB) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, in domain.CreateCandidateInput) (*domain.Candidate, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO candidates (first_name, last_name, email, phone, address, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, in.FirstName, in.LastName, in.Email, in.Phone, in.Address, in.Notes, string(domain.StatusActive)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Duplicate("email")
		}
		return nil, fmt.Errorf("insert candidate: %w", err)
	}

	for _, e := range in.Education {
		_, err := tx.Exec(ctx, `
			INSERT INTO candidate_education
				(candidate_id, institution, degree, field_of_study, start_date, end_date, is_current, gpa, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, id, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.IsCurrent, e.GPA, e.Description)
		if err != nil {
			return nil, fmt.Errorf("insert education: %w", err)
		}
	}

	for _, x := range in.Experience {
		_, err := tx.Exec(ctx, `
			INSERT INTO candidate_experience
				(candidate_id, company, position, department, location, description, start_date, end_date, is_current, salary, currency)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, id, x.Company, x.Position, x.Department, x.Location, x.Description, x.StartDate, x.EndDate, x.IsCurrent, x.Salary, x.Currency)
		if err != nil {
			return nil, fmt.Errorf("insert experience: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Duplicate("email")
		}
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *candidateRepository) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	where, args := buildCandidateWhere(filter)

	var (
		items []domain.Candidate
		total int64
	)
	err := snapshot(ctx, r.db, func(q querier) error {
		if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM candidates"+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("count candidates: %w", err)
		}

		query := fmt.Sprintf("SELECT %s FROM candidates%s ORDER BY %s LIMIT $%d OFFSET $%d",
			candidateColumns, where, orderClause(filter), len(args)+1, len(args)+2)
		pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset())

		rows, err := q.Query(ctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("list candidates: %w", err)
		}
		items, err = collectCandidates(rows)
		if err != nil {
			return err
		}
		return attachListChildren(ctx, q, items)
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	var c *domain.Candidate
	err := snapshot(ctx, r.db, func(q querier) error {
		row := q.QueryRow(ctx, "SELECT "+candidateColumns+" FROM candidates WHERE id = $1", id)
		found, err := scanCandidate(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("get candidate: %w", err)
		}
		c = &found

		if c.Education, err = queryEducation(ctx, q,
			"SELECT "+educationColumns+" FROM candidate_education WHERE candidate_id = $1 ORDER BY start_date DESC NULLS LAST, id DESC", id); err != nil {
			return err
		}
		if c.Experience, err = queryExperience(ctx, q,
			"SELECT "+experienceColumns+" FROM candidate_experience WHERE candidate_id = $1 ORDER BY start_date DESC NULLS LAST, id DESC", id); err != nil {
			return err
		}
		c.Documents, err = queryDocuments(ctx, q,
			"SELECT "+documentColumns+" FROM candidate_documents WHERE candidate_id = $1 ORDER BY uploaded_at DESC, id DESC", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *candidateRepository) FindIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, "SELECT id FROM candidates WHERE LOWER(email) = LOWER($1)", email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find candidate by email: %w", err)
	}
	return id, true, nil
}

func (r *candidateRepository) Update(ctx context.Context, id int64, patch domain.UpdateCandidateInput) (*domain.Candidate, error) {
	sets, args := buildCandidateUpdate(patch)
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE candidates SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Duplicate("email")
		}
		return nil, fmt.Errorf("update candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *candidateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM candidates WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete candidate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *candidateRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)", id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check candidate: %w", err)
	}
	return exists, nil
}

// attachListChildren loads the latest education and experience and the most
// recent cv document for every candidate on the page.
func attachListChildren(ctx context.Context, q querier, items []domain.Candidate) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]int64, len(items))
	index := make(map[int64]int, len(items))
	for i, c := range items {
		ids[i] = c.ID
		index[c.ID] = i
	}

	education, err := queryEducation(ctx, q, `
		SELECT DISTINCT ON (candidate_id) `+educationColumns+`
		FROM candidate_education WHERE candidate_id = ANY($1)
		ORDER BY candidate_id, start_date DESC NULLS LAST, id DESC`, ids)
	if err != nil {
		return err
	}
	for _, e := range education {
		i := index[e.CandidateID]
		items[i].Education = append(items[i].Education, e)
	}

	experience, err := queryExperience(ctx, q, `
		SELECT DISTINCT ON (candidate_id) `+experienceColumns+`
		FROM candidate_experience WHERE candidate_id = ANY($1)
		ORDER BY candidate_id, start_date DESC NULLS LAST, id DESC`, ids)
	if err != nil {
		return err
	}
	for _, x := range experience {
		i := index[x.CandidateID]
		items[i].Experience = append(items[i].Experience, x)
	}

	documents, err := queryDocuments(ctx, q, `
		SELECT DISTINCT ON (candidate_id) `+documentColumns+`
		FROM candidate_documents WHERE candidate_id = ANY($1) AND document_type = $2
		ORDER BY candidate_id, uploaded_at DESC, id DESC`, ids, domain.DefaultDocumentType)
	if err != nil {
		return err
	}
	for _, d := range documents {
		i := index[d.CandidateID]
		items[i].Documents = append(items[i].Documents, d)
	}
	return nil
}

func scanCandidate(row pgx.Row) (domain.Candidate, error) {
	var c domain.Candidate
	var status string
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.Notes,
		&status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Status = domain.CandidateStatus(status)
	c.Education = []domain.Education{}
	c.Experience = []domain.Experience{}
	c.Documents = []domain.Document{}
	return c, nil
}

func collectCandidates(rows pgx.Rows) ([]domain.Candidate, error) {
	defer rows.Close()

	items := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func queryEducation(ctx context.Context, q querier, sql string, args ...any) ([]domain.Education, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query education: %w", err)
	}
	defer rows.Close()

	out := []domain.Education{}
	for rows.Next() {
		var e domain.Education
		var start, end *time.Time
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Institution, &e.Degree, &e.FieldOfStudy,
			&start, &end, &e.IsCurrent, &e.GPA, &e.Description); err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		e.StartDate, e.EndDate = formatDate(start), formatDate(end)
		out = append(out, e)
	}
	return out, rows.Err()
}

func queryExperience(ctx context.Context, q querier, sql string, args ...any) ([]domain.Experience, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query experience: %w", err)
	}
	defer rows.Close()

	out := []domain.Experience{}
	for rows.Next() {
		var x domain.Experience
		var start, end *time.Time
		if err := rows.Scan(&x.ID, &x.CandidateID, &x.Company, &x.Position, &x.Department, &x.Location,
			&x.Description, &start, &end, &x.IsCurrent, &x.Salary, &x.Currency); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		x.StartDate, x.EndDate = formatDate(start), formatDate(end)
		out = append(out, x)
	}
	return out, rows.Err()
}

func queryDocuments(ctx context.Context, q querier, sql string, args ...any) ([]domain.Document, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	out := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDocument(row pgx.Row) (domain.Document, error) {
	var d domain.Document
	err := row.Scan(&d.ID, &d.CandidateID, &d.FileName, &d.OriginalName, &d.FilePath, &d.FileType,
		&d.FileSize, &d.MimeType, &d.DocumentType, &d.UploadedAt)
	return d, err
}

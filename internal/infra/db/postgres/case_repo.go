package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/cases"
)

type CaseRepository struct {
	db *sql.DB
}

const caseColumns = `id, case_date, title, analysis_status, location, cause,
       image_url, ocr_text, source, hash, alerted_at, created_at`

// Save insert/update Case record
func (r *CaseRepository) Save(ctx context.Context, c *domain.Case) error {
	const q = `
INSERT INTO disaster_cases
  (id, case_date, title, analysis_status, location, cause,
   image_url, ocr_text, source, hash, alerted_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  case_date = EXCLUDED.case_date,
  title = EXCLUDED.title,
  analysis_status = EXCLUDED.analysis_status,
  location = EXCLUDED.location,
  cause = EXCLUDED.cause,
  image_url = EXCLUDED.image_url,
  ocr_text = EXCLUDED.ocr_text,
  source = EXCLUDED.source,
  hash = EXCLUDED.hash,
  alerted_at = EXCLUDED.alerted_at;`
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.Date, c.Title, string(c.AnalysisStatus), stringOrDash(c.Location), c.Cause,
		nullString(c.ImageURL), nullString(c.OCRText), stringOrDash(c.Source), nullString(c.Hash),
		nullTime(c.AlertedAt), created,
	)
	return err
}

func (r *CaseRepository) Get(ctx context.Context, id domain.CaseID) (*domain.Case, error) {
	q := `SELECT ` + caseColumns + ` FROM disaster_cases WHERE id=$1 LIMIT 1;`
	c, err := scanCase(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

// caseFilter WHERE clause untuk search + status
func caseFilter(q domain.Query, a *args) string {
	var conds []string
	if q.Status != "" {
		conds = append(conds, "analysis_status = "+a.add(string(q.Status)))
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		p := a.add(likeTerm(term))
		conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR location ILIKE %[1]s OR cause ILIKE %[1]s)", p))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Paginate with offset + limit (classic pagination)
func (r *CaseRepository) Paginate(ctx context.Context, q domain.Query) (domain.PaginatedResult, error) {
	q = q.Normalize()
	var a args
	where := caseFilter(q, &a)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disaster_cases`+where, a.vals...).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("counting cases: %w", err)
	}

	query := `SELECT ` + caseColumns + ` FROM disaster_cases` + where +
		fmt.Sprintf("\n ORDER BY case_date DESC, created_at DESC, id DESC LIMIT %s OFFSET %s", a.add(q.PageSize), a.add(q.Offset()))
	rows, err := r.db.QueryContext(ctx, query, a.vals...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var out []*domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}
	return domain.NewPaginatedResult(out, q, total), nil
}

func (r *CaseRepository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM disaster_cases WHERE hash=$1)`, hash).Scan(&exists)
	return exists, err
}

func (r *CaseRepository) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM disaster_cases WHERE created_at >= $1 AND created_at < $2`,
		from, to).Scan(&n)
	return n, err
}

func (r *CaseRepository) PendingAlerts(ctx context.Context, limit int) ([]*domain.Case, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + caseColumns + ` FROM disaster_cases
WHERE analysis_status=$1 AND alerted_at IS NULL
ORDER BY created_at ASC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, string(domain.StatusCompleted), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var c domain.Case
	var image, ocr, hash sql.NullString
	var alerted sql.NullTime
	if err := row.Scan(
		&c.ID, &c.Date, &c.Title, &c.AnalysisStatus, &c.Location, &c.Cause,
		&image, &ocr, &c.Source, &hash, &alerted, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.ImageURL, c.OCRText, c.Hash = image.String, ocr.String, hash.String
	c.AlertedAt = timePtr(alerted)
	return &c, nil
}

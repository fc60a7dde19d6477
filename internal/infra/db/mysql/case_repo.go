package mysql

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
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  case_date=VALUES(case_date), title=VALUES(title), analysis_status=VALUES(analysis_status),
  location=VALUES(location), cause=VALUES(cause), image_url=VALUES(image_url),
  ocr_text=VALUES(ocr_text), source=VALUES(source), hash=VALUES(hash),
  alerted_at=VALUES(alerted_at);
`
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
	q := `SELECT ` + caseColumns + ` FROM disaster_cases WHERE id=? LIMIT 1;`
	c, err := scanCase(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

// caseFilter WHERE clause untuk search + status
func caseFilter(q domain.Query) (string, []any) {
	var conds []string
	var args []any
	if q.Status != "" {
		conds = append(conds, "analysis_status = ?")
		args = append(args, string(q.Status))
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		like := likeTerm(term)
		conds = append(conds, "(title LIKE ? OR location LIKE ? OR cause LIKE ?)")
		args = append(args, like, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Paginate with offset + limit (classic pagination)
func (r *CaseRepository) Paginate(ctx context.Context, q domain.Query) (domain.PaginatedResult, error) {
	q = q.Normalize()
	where, args := caseFilter(q)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disaster_cases`+where, args...).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("counting cases: %w", err)
	}

	query := `SELECT ` + caseColumns + ` FROM disaster_cases` + where +
		"\n ORDER BY case_date DESC, created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.PageSize, q.Offset())...)
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
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disaster_cases WHERE hash=?`, hash).Scan(&n)
	return n > 0, err
}

func (r *CaseRepository) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM disaster_cases WHERE created_at >= ? AND created_at < ?`,
		from.UTC(), to.UTC()).Scan(&n)
	return n, err
}

func (r *CaseRepository) PendingAlerts(ctx context.Context, limit int) ([]*domain.Case, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + caseColumns + ` FROM disaster_cases
WHERE analysis_status=? AND alerted_at IS NULL
ORDER BY created_at ASC LIMIT ?;`
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

package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/failures"
)

type FailureRepository struct {
	db *sql.DB
}

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO analysis_failures
  (case_id, phase, message, details_json, created_at)
VALUES (?,?,?,?,?)
`
	msg := f.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := r.db.ExecContext(ctx, q, stringOrDash(f.CaseID), stringOrDash(string(f.Phase)), msg, jsonOrNull(f.DetailsJSON), created)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		f.ID = id
	}
	return nil
}

func (r *FailureRepository) ListByCase(ctx context.Context, caseID string, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, case_id, phase, message, details_json, created_at
FROM analysis_failures
WHERE case_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, caseID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Failure{}
	for rows.Next() {
		var f domain.Failure
		var details sql.NullString
		if err := rows.Scan(&f.ID, &f.CaseID, &f.Phase, &f.Message, &details, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.DetailsJSON = details.String
		out = append(out, &f)
	}
	return out, rows.Err()
}

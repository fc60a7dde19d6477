package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/alerts"
)

type AlertRepository struct {
	db *sql.DB
}

const alertColumns = `id, sent_at, case_id, group_name, target_group, subject, status, fail_reason, details_json`

func (r *AlertRepository) Save(ctx context.Context, a *domain.AlertHistory) error {
	const q = `
INSERT INTO alert_history
  (id, sent_at, case_id, group_name, target_group, subject, status, fail_reason, details_json)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  fail_reason = EXCLUDED.fail_reason,
  details_json = EXCLUDED.details_json;`
	var details sql.NullString
	if a.Details != nil {
		b, err := json.Marshal(a.Details)
		if err != nil {
			return err
		}
		details = sql.NullString{String: string(b), Valid: true}
	}
	sent := a.SentAt
	if sent.IsZero() {
		sent = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		a.ID, sent, nullString(a.CaseID), a.Group, a.TargetGroup, a.Subject,
		string(a.Status), nullString(a.FailReason), details,
	)
	return err
}

func (r *AlertRepository) Get(ctx context.Context, id domain.AlertID) (*domain.AlertHistory, error) {
	a, err := scanAlert(r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alert_history WHERE id=$1 LIMIT 1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *AlertRepository) Paginate(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alert_history`).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("counting alerts: %w", err)
	}
	list, err := r.query(ctx, `SELECT `+alertColumns+` FROM alert_history
ORDER BY sent_at DESC, id DESC LIMIT $1 OFFSET $2;`, pageSize, (page-1)*pageSize)
	if err != nil {
		return domain.PaginatedResult{}, err
	}
	return domain.PaginatedResult{
		Data:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (r *AlertRepository) Latest(ctx context.Context, limit int) ([]*domain.AlertHistory, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.query(ctx, `SELECT `+alertColumns+` FROM alert_history ORDER BY sent_at DESC, id DESC LIMIT $1;`, limit)
}

func (r *AlertRepository) CountSent(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alert_history WHERE status=$1 AND sent_at >= $2 AND sent_at < $3`,
		string(domain.StatusSuccess), from, to).Scan(&n)
	return n, err
}

func (r *AlertRepository) query(ctx context.Context, q string, args ...any) ([]*domain.AlertHistory, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()
	out := []*domain.AlertHistory{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAlert(row rowScanner) (*domain.AlertHistory, error) {
	var a domain.AlertHistory
	var caseID, reason, details sql.NullString
	if err := row.Scan(&a.ID, &a.SentAt, &caseID, &a.Group, &a.TargetGroup, &a.Subject, &a.Status, &reason, &details); err != nil {
		return nil, err
	}
	a.CaseID, a.FailReason = caseID.String, reason.String
	if details.Valid && details.String != "" {
		var d domain.Details
		if err := json.Unmarshal([]byte(details.String), &d); err != nil {
			return nil, fmt.Errorf("decode alert details: %w", err)
		}
		a.Details = &d
	}
	return &a, nil
}

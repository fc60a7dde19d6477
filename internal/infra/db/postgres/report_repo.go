package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

// Save inserts an analysis report
func (r *ReportRepository) Save(ctx context.Context, rp *domain.Report) error {
	const q = `
INSERT INTO analysis_reports
  (id, case_id, ocr_text, result_json, model, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  ocr_text = EXCLUDED.ocr_text,
  result_json = EXCLUDED.result_json,
  model = EXCLUDED.model;
`
	result, err := json.Marshal(rp.Result)
	if err != nil {
		return err
	}
	createdAt := rp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q, rp.ID, rp.CaseID, nullString(rp.OCRText), string(result), stringOrDash(rp.Model), createdAt)
	return err
}

// LatestByCase returns nil, nil when the case has no report.
func (r *ReportRepository) LatestByCase(ctx context.Context, caseID string) (*domain.Report, error) {
	const q = `
SELECT id, case_id, ocr_text, result_json, model, created_at
FROM analysis_reports
WHERE case_id=$1
ORDER BY created_at DESC, id DESC
LIMIT 1;
`
	var rp domain.Report
	var ocr sql.NullString
	var result []byte
	err := r.db.QueryRowContext(ctx, q, caseID).Scan(&rp.ID, &rp.CaseID, &ocr, &result, &rp.Model, &rp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rp.OCRText = ocr.String
	if err := json.Unmarshal(result, &rp.Result); err != nil {
		return nil, err
	}
	return &rp, nil
}

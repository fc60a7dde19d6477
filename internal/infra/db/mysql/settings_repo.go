package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/settings"
)

// SettingsRepository simpan dokumen settings di satu baris (id=1)
type SettingsRepository struct {
	db *sql.DB
}

func (r *SettingsRepository) Load(ctx context.Context) (*domain.Settings, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM system_settings WHERE id=1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var st domain.Settings
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *SettingsRepository) Save(ctx context.Context, st *domain.Settings) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return err
	}
	updated := st.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO system_settings (id, doc, updated_at) VALUES (1,?,?)
ON DUPLICATE KEY UPDATE doc=VALUES(doc), updated_at=VALUES(updated_at);`, string(doc), updated)
	return err
}

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/recipients"
)

type RecipientRepository struct {
	db *sql.DB
}

func (r *RecipientRepository) Save(ctx context.Context, rc *domain.Recipient) error {
	const q = `
INSERT INTO recipients (id, name, email, group_name)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE name=VALUES(name), email=VALUES(email), group_name=VALUES(group_name);
`
	_, err := r.db.ExecContext(ctx, q, rc.ID, rc.Name, rc.Email, rc.Group)
	return err
}

func (r *RecipientRepository) Get(ctx context.Context, id domain.RecipientID) (*domain.Recipient, error) {
	var rc domain.Recipient
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, group_name FROM recipients WHERE id=? LIMIT 1;`, id,
	).Scan(&rc.ID, &rc.Name, &rc.Email, &rc.Group)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *RecipientRepository) Delete(ctx context.Context, id domain.RecipientID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipients WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecipientRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Recipient, error) {
	query := `SELECT id, name, email, group_name FROM recipients WHERE 1=1`
	var args []any
	if f.Group != "" {
		query += " AND group_name = ?"
		args = append(args, f.Group)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := likeTerm(term)
		query += " AND (name LIKE ? OR email LIKE ? OR group_name LIKE ?)"
		args = append(args, like, like, like)
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Recipient{}
	for rows.Next() {
		var rc domain.Recipient
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.Email, &rc.Group); err != nil {
			return nil, err
		}
		out = append(out, &rc)
	}
	return out, rows.Err()
}

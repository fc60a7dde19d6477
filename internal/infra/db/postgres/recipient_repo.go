package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/recipients"
)

type RecipientRepository struct {
	db *sql.DB
}

func (r *RecipientRepository) Save(ctx context.Context, rc *domain.Recipient) error {
	const q = `
INSERT INTO recipients (id, name, email, group_name)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name, email = EXCLUDED.email, group_name = EXCLUDED.group_name;`
	_, err := r.db.ExecContext(ctx, q, rc.ID, rc.Name, rc.Email, rc.Group)
	return err
}

func (r *RecipientRepository) Get(ctx context.Context, id domain.RecipientID) (*domain.Recipient, error) {
	var rc domain.Recipient
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, group_name FROM recipients WHERE id=$1 LIMIT 1;`, id,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipients WHERE id=$1`, id)
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
	var a args
	if f.Group != "" {
		query += " AND group_name = " + a.add(f.Group)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := a.add(likeTerm(term))
		query += fmt.Sprintf(" AND (name ILIKE %[1]s OR email ILIKE %[1]s OR group_name ILIKE %[1]s)", p)
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, a.vals...)
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

package repository

import (
	"context"
	"database/sql"
)

// FormRepo handles the forms catalog.
type FormRepo struct {
	db *sql.DB
}

func NewFormRepo(db *sql.DB) *FormRepo {
	return &FormRepo{db: db}
}

func (r *FormRepo) Upsert(ctx context.Context, f Form) error {
	esign := 0
	if f.RequiresESignature {
		esign = 1
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO forms(code, name, category, requires_esignature, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(code) DO UPDATE SET
	 name=excluded.name,
	 category=excluded.category,
	 requires_esignature=excluded.requires_esignature,
	 updated_at=CURRENT_TIMESTAMP;
	`, f.Code, f.Name, f.Category, esign)
	return err
}

func (r *FormRepo) List(ctx context.Context) ([]Form, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT code, name, category, requires_esignature, updated_at FROM forms ORDER BY category, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Form
	for rows.Next() {
		var f Form
		var esign int
		if err := rows.Scan(&f.Code, &f.Name, &f.Category, &esign, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.RequiresESignature = esign != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

// Get returns a form by code, or (nil, nil) when absent.
func (r *FormRepo) Get(ctx context.Context, code string) (*Form, error) {
	var f Form
	var esign int
	err := r.db.QueryRowContext(ctx, `
	SELECT code, name, category, requires_esignature, updated_at FROM forms WHERE code = ?`, code).
		Scan(&f.Code, &f.Name, &f.Category, &esign, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.RequiresESignature = esign != 0
	return &f, nil
}

func (r *FormRepo) Delete(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE code = ?`, code)
	return err
}

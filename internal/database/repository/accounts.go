package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/timbranthover/envelopedesk/internal/database"
)

// AccountRepo handles account and signer reference data.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Upsert writes the account row and replaces its signer list.
func (r *AccountRepo) Upsert(ctx context.Context, a Account) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts(account_number, account_name, account_type_key, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(account_number) DO UPDATE SET
		 account_name=excluded.account_name,
		 account_type_key=excluded.account_type_key,
		 updated_at=CURRENT_TIMESTAMP;
		`, a.AccountNumber, a.AccountName, a.AccountTypeKey)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM signers WHERE account_number = ?`, a.AccountNumber); err != nil {
			return err
		}
		for i, s := range a.Signers {
			id := s.ID
			if id == "" {
				id = uuid.NewString()
			}
			_, err := tx.ExecContext(ctx, `
			INSERT INTO signers(id, account_number, name, role, sign_order)
			VALUES (?, ?, ?, ?, ?);
			`, id, a.AccountNumber, s.Name, s.Role, i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns all accounts with signers attached, ordered by account number.
func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT account_number, account_name, account_type_key, created_at, updated_at
	FROM accounts ORDER BY account_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	index := map[string]int{}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.AccountNumber, &a.AccountName, &a.AccountTypeKey, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		index[a.AccountNumber] = len(out)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := r.db.QueryContext(ctx, `
	SELECT id, account_number, name, role, sign_order
	FROM signers ORDER BY account_number, sign_order`)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s Signer
		if err := srows.Scan(&s.ID, &s.AccountNumber, &s.Name, &s.Role, &s.SignOrder); err != nil {
			return nil, err
		}
		if i, ok := index[s.AccountNumber]; ok {
			out[i].Signers = append(out[i].Signers, s)
		}
	}
	return out, srows.Err()
}

// Get returns a single account with signers, or (nil, nil) when absent.
func (r *AccountRepo) Get(ctx context.Context, accountNumber string) (*Account, error) {
	var a Account
	err := r.db.QueryRowContext(ctx, `
	SELECT account_number, account_name, account_type_key, created_at, updated_at
	FROM accounts WHERE account_number = ?`, accountNumber).
		Scan(&a.AccountNumber, &a.AccountName, &a.AccountTypeKey, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, account_number, name, role, sign_order
	FROM signers WHERE account_number = ? ORDER BY sign_order`, accountNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s Signer
		if err := rows.Scan(&s.ID, &s.AccountNumber, &s.Name, &s.Role, &s.SignOrder); err != nil {
			return nil, err
		}
		a.Signers = append(a.Signers, s)
	}
	return &a, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/blog-server/internal/model"
)

const uniqueViolation = "23505"

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

const accountColumns = `id, first_name, last_name, username, email, password_hash, phone_number,
			  two_step_enabled, avatar_key, avatar_url, refresh_token, created_at, updated_at`

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" && email == "" {
		return model.Account{}, model.ErrNotFound
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE (username = $1 AND $1 <> '') OR (email = $2 AND $2 <> '')
			  ORDER BY (username = $1) DESC
			  LIMIT 1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by username or email: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (id, first_name, last_name, username, email, password_hash, phone_number, avatar_key, avatar_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + accountColumns

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	saved, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, account.FirstName, account.LastName, account.Username,
		strings.ToLower(strings.TrimSpace(account.Email)), account.PasswordHash, account.PhoneNumber,
		account.Avatar.Key, account.Avatar.URL,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Account{}, model.ErrConflict
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

func (r *AccountRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	const query = `
        UPDATE accounts SET refresh_token = $2, updated_at = NOW()
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, id, token); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

func (r *AccountRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, presented, next string) error {
	const query = `
        UPDATE accounts SET refresh_token = $3, updated_at = NOW()
        WHERE id = $1 AND refresh_token = $2
    `
	tag, err := r.db.Exec(ctx, query, id, presented, next)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStaleRefreshToken
	}
	return nil
}

func (r *AccountRepository) SetTwoStepEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	const query = `
        UPDATE accounts SET two_step_enabled = $2, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id, enabled)
	if err != nil {
		return fmt.Errorf("failed to update two-step flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdatePassword stores a new password hash and drops the refresh token in
// the same statement.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `
        UPDATE accounts SET password_hash = $2, refresh_token = NULL, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePhoneNumber(ctx context.Context, id uuid.UUID, phoneNumber string) error {
	const query = `
        UPDATE accounts SET phone_number = $2, two_step_enabled = FALSE, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id, phoneNumber)
	if err != nil {
		return fmt.Errorf("failed to update phone number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var account model.Account

	err := row.Scan(
		&account.ID, &account.FirstName, &account.LastName, &account.Username, &account.Email,
		&account.PasswordHash, &account.PhoneNumber, &account.TwoStepEnabled,
		&account.Avatar.Key, &account.Avatar.URL, &account.RefreshToken,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}

	return account, nil
}

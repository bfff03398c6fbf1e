package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, external_id, handle, given_name, family_name, phone, language, balance, agreement_accepted, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var balance string
	err := row.Scan(&u.ID, &u.ExternalID, &u.Handle, &u.GivenName, &u.FamilyName,
		&u.Phone, &u.Language, &balance, &u.AgreementAccepted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	return &u, nil
}

func (r *userRepository) GetOrCreate(ctx context.Context, externalID int64, handle, given, family string) (*domain.User, error) {
	query := `
		INSERT INTO users (external_id, handle, given_name, family_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE SET
			handle = EXCLUDED.handle,
			given_name = EXCLUDED.given_name,
			family_name = EXCLUDED.family_name,
			updated_at = NOW()
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, externalID, handle, given, family))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *userRepository) SetLanguage(ctx context.Context, externalID int64, lang string) error {
	query := `UPDATE users SET language = $2, updated_at = NOW() WHERE external_id = $1`

	res, err := r.db.ExecContext(ctx, query, externalID, lang)
	if err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetAgreementAccepted(ctx context.Context, externalID int64) error {
	query := `UPDATE users SET agreement_accepted = TRUE, updated_at = NOW() WHERE external_id = $1`

	res, err := r.db.ExecContext(ctx, query, externalID)
	if err != nil {
		return fmt.Errorf("failed to set agreement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustBalance relies on the balance >= 0 check constraint: a debit below
// zero rolls back the single-row update.
func (r *userRepository) AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) error {
	query := `UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, delta.StringFixed(2))
	if err != nil {
		// 23514 is Postgres check_violation.
		if pqErr := pqCode(err); pqErr == "23514" {
			return domain.ErrInsufficientBalance
		}
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/domain"
)

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Upsert(ctx context.Context, a *domain.Admin) error {
	query := `
		INSERT INTO admins (user_id, added_by, is_superadmin)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, a.UserID, a.AddedBy, a.IsSuperadmin); err != nil {
		return fmt.Errorf("failed to upsert admin: %w", err)
	}
	return nil
}

// Remove refuses to touch the superadmin row.
func (r *adminRepository) Remove(ctx context.Context, userID int64) error {
	a, err := r.Get(ctx, userID)
	if err != nil {
		return err
	}
	if a.IsSuperadmin {
		return apperr.New(apperr.KindPermissionDenied, "admin.superadmin_locked")
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to remove admin: %w", err)
	}
	return nil
}

func (r *adminRepository) Get(ctx context.Context, userID int64) (*domain.Admin, error) {
	query := `SELECT user_id, added_by, added_at, is_superadmin FROM admins WHERE user_id = $1`

	var a domain.Admin
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&a.UserID, &a.AddedBy, &a.AddedAt, &a.IsSuperadmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

func (r *adminRepository) List(ctx context.Context) ([]*domain.Admin, error) {
	query := `SELECT user_id, added_by, added_at, is_superadmin FROM admins ORDER BY added_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var out []*domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.UserID, &a.AddedBy, &a.AddedAt, &a.IsSuperadmin); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

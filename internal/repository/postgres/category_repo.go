package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"classifieds-bot-backend/internal/domain"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

// Seed upserts the fixed active-root list: missing entries are inserted,
// existing ones get icon and sort order refreshed. Nothing is deleted.
func (r *categoryRepository) Seed(ctx context.Context, categories []domain.Category) error {
	query := `
		INSERT INTO categories (name, icon, sort_order, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			icon = EXCLUDED.icon,
			sort_order = EXCLUDED.sort_order`

	for _, c := range categories {
		if _, err := r.db.ExecContext(ctx, query, c.Name, c.Icon, c.SortOrder, c.IsActive); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
	}
	return nil
}

func (r *categoryRepository) ListActiveRoots(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, icon, parent_id, sort_order, is_active, created_at
		FROM categories
		WHERE is_active AND parent_id IS NULL
		ORDER BY sort_order`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.ParentID, &c.SortOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, icon, parent_id, sort_order, is_active, created_at
		FROM categories WHERE id = $1`

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Icon, &c.ParentID, &c.SortOrder, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

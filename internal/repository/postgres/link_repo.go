package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"classifieds-bot-backend/internal/domain"
)

type linkRepository struct {
	db *sql.DB
}

func NewLinkRepository(db *sql.DB) domain.LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) List(ctx context.Context) ([]*domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, url, click_count FROM links ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var out []*domain.Link
	for rows.Next() {
		var l domain.Link
		if err := rows.Scan(&l.ID, &l.Name, &l.URL, &l.ClickCount); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *linkRepository) Create(ctx context.Context, name, url string) (*domain.Link, error) {
	query := `INSERT INTO links (name, url) VALUES ($1, $2) RETURNING id`

	l := &domain.Link{Name: name, URL: url}
	if err := r.db.QueryRowContext(ctx, query, name, url).Scan(&l.ID); err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return l, nil
}

func (r *linkRepository) IncrementClick(ctx context.Context, linkID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE links SET click_count = click_count + 1 WHERE id = $1`, linkID)
	if err != nil {
		return fmt.Errorf("failed to increment click: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *linkRepository) RecordVisit(ctx context.Context, v *domain.LinkVisit) error {
	query := `INSERT INTO link_visits (source_kind, source_id, visitor_external_id) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, v.SourceKind, v.SourceID, v.VisitorExternalID); err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/domain"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) domain.ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, user_id, title, description, price, price_display, currency,
	category_id, location, region, images_json, status, moderation_status, rejection_reason,
	publication_tariffs_json, payment_status, channel_message_ids_json,
	published_at, moderated_at, moderated_by, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (*domain.Listing, error) {
	var l domain.Listing
	var price, imagesJSON, tariffsJSON, idsJSON string
	err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.Description, &price, &l.PriceDisplay,
		&l.Currency, &l.CategoryID, &l.Location, &l.Region, &imagesJSON,
		&l.Status, &l.ModerationStatus, &l.RejectionReason, &tariffsJSON,
		&l.PaymentStatus, &idsJSON, &l.PublishedAt, &l.ModeratedAt, &l.ModeratedBy,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if l.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	if l.Media, err = domain.DecodeMedia(imagesJSON); err != nil {
		return nil, err
	}
	if l.Tariffs, err = domain.DecodeTariffs(tariffsJSON); err != nil {
		return nil, err
	}
	if l.ChannelMessageIDs, l.LegacyScalarIDs, err = domain.DecodeMessageIDs(idsJSON); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) (int64, error) {
	query := `
		INSERT INTO listings (user_id, title, description, price, price_display, currency,
			category_id, location, region, images_json, status, moderation_status,
			publication_tariffs_json, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		l.UserID, l.Title, l.Description, l.Price.StringFixed(2), l.PriceDisplay, l.Currency,
		l.CategoryID, l.Location, l.Region, domain.EncodeMedia(l.Media),
		domain.ListingPendingModeration, domain.ModerationPending,
		domain.EncodeTariffs(l.Tariffs), domain.PaymentPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create listing: %w", err)
	}
	return id, nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

func (r *listingRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE user_id = $1 AND status <> 'deleted'
		ORDER BY created_at DESC`

	return r.queryListings(ctx, query, userID)
}

func (r *listingRepository) ListLivePublishedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE status IN ('approved', 'published') AND published_at < $1
		ORDER BY published_at`

	return r.queryListings(ctx, query, cutoff)
}

func (r *listingRepository) queryListings(ctx context.Context, query string, args ...any) ([]*domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var out []*domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *listingRepository) CountApprovedByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM listings WHERE user_id = $1 AND status IN ('approved', 'published')`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count approved listings: %w", err)
	}
	return n, nil
}

func (r *listingRepository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	query := `UPDATE listings SET payment_status = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, id, status)
}

func (r *listingRepository) SetTariffs(ctx context.Context, id int64, tariffs []domain.Tariff) error {
	query := `UPDATE listings SET publication_tariffs_json = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, id, domain.EncodeTariffs(tariffs))
}

// MarkApproved guards on the current status so that in a concurrent
// approve/reject race the first writer wins and the second sees
// ErrStateConflict.
func (r *listingRepository) MarkApproved(ctx context.Context, id, moderatedBy int64, messageIDs []int, publishedAt time.Time) error {
	query := `
		UPDATE listings
		SET status = 'approved', moderation_status = 'approved',
			channel_message_ids_json = $2, published_at = $3,
			moderated_at = NOW(), moderated_by = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending_moderation'`

	return r.execGuarded(ctx, query, id, domain.EncodeMessageIDs(messageIDs), publishedAt, moderatedBy)
}

func (r *listingRepository) MarkRejected(ctx context.Context, id, moderatedBy int64, reason string) error {
	query := `
		UPDATE listings
		SET status = 'rejected', moderation_status = 'rejected', rejection_reason = $2,
			moderated_at = NOW(), moderated_by = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending_moderation'`

	return r.execGuarded(ctx, query, id, reason, moderatedBy)
}

func (r *listingRepository) SetPublished(ctx context.Context, id int64, messageIDs []int, publishedAt time.Time) error {
	query := `
		UPDATE listings
		SET channel_message_ids_json = $2, published_at = $3, updated_at = NOW()
		WHERE id = $1 AND status IN ('approved', 'published')`

	return r.execGuarded(ctx, query, id, domain.EncodeMessageIDs(messageIDs), publishedAt)
}

func (r *listingRepository) MarkExpired(ctx context.Context, id int64) error {
	query := `
		UPDATE listings
		SET status = 'expired', moderation_status = 'expired', payment_status = 'pending',
			channel_message_ids_json = '[]', updated_at = NOW()
		WHERE id = $1 AND status IN ('approved', 'published')`

	return r.execGuarded(ctx, query, id)
}

func (r *listingRepository) Close(ctx context.Context, id int64, status domain.ListingStatus) error {
	if status != domain.ListingSold && status != domain.ListingDeleted {
		return fmt.Errorf("close listing: unsupported status %q", status)
	}
	query := `
		UPDATE listings
		SET status = $2, channel_message_ids_json = '[]', updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, query, id, status)
}

func (r *listingRepository) ClearChannelMessages(ctx context.Context, id int64) error {
	query := `UPDATE listings SET channel_message_ids_json = '[]', updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *listingRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// execGuarded distinguishes a missing row from one whose status guard did
// not match.
func (r *listingRepository) execGuarded(ctx context.Context, query string, id int64, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check listing: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrStateConflict
}

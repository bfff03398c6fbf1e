package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"classifieds-bot-backend/internal/domain"
)

type referralRepository struct {
	db *sql.DB
}

func NewReferralRepository(db *sql.DB) domain.ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, referrerExternalID, referredExternalID int64) error {
	query := `
		INSERT INTO referrals (referrer_external_id, referred_external_id)
		VALUES ($1, $2)
		ON CONFLICT (referred_external_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, referrerExternalID, referredExternalID); err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

func (r *referralRepository) GetByReferred(ctx context.Context, referredExternalID int64) (*domain.Referral, error) {
	query := `
		SELECT id, referrer_external_id, referred_external_id, reward_paid, created_at, reward_paid_at
		FROM referrals WHERE referred_external_id = $1`

	var ref domain.Referral
	err := r.db.QueryRowContext(ctx, query, referredExternalID).Scan(
		&ref.ID, &ref.ReferrerExternalID, &ref.ReferredExternalID,
		&ref.RewardPaid, &ref.CreatedAt, &ref.RewardPaidAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get referral: %w", err)
	}
	return &ref, nil
}

// MarkRewardPaid flips the flag exactly once; the WHERE guard makes a replay
// report false instead of crediting twice.
func (r *referralRepository) MarkRewardPaid(ctx context.Context, referredExternalID int64, at time.Time) (bool, error) {
	query := `
		UPDATE referrals SET reward_paid = TRUE, reward_paid_at = $2
		WHERE referred_external_id = $1 AND reward_paid = FALSE`

	res, err := r.db.ExecContext(ctx, query, referredExternalID, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark reward paid: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *referralRepository) CountByReferrer(ctx context.Context, referrerExternalID int64) (int, error) {
	query := `SELECT COUNT(*) FROM referrals WHERE referrer_external_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, referrerExternalID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return n, nil
}

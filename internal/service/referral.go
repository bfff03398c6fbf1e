package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
)

// ReferralService records invitations and pays the one-time referrer reward
// when the referred user's first listing is approved. Crediting is
// idempotent: the reward flag flips exactly once.
type ReferralService struct {
	referrals domain.ReferralRepository
	users     domain.UserRepository
	reward    decimal.Decimal
	log       zerolog.Logger
}

func NewReferralService(referrals domain.ReferralRepository, users domain.UserRepository, reward decimal.Decimal) *ReferralService {
	return &ReferralService{
		referrals: referrals,
		users:     users,
		reward:    reward,
		log:       logger.With("referral"),
	}
}

// Register stores who invited whom. Self-referrals and repeat visits are
// silent no-ops.
func (s *ReferralService) Register(ctx context.Context, referrerExternalID, referredExternalID int64) error {
	if referrerExternalID == referredExternalID {
		return nil
	}
	return s.referrals.Create(ctx, referrerExternalID, referredExternalID)
}

// CreditIfApplicable pays the referrer of ownerExternalID if a reward is
// still due. Returns whether the reward has been paid (now or earlier).
func (s *ReferralService) CreditIfApplicable(ctx context.Context, ownerExternalID int64) (bool, error) {
	ref, err := s.referrals.GetByReferred(ctx, ownerExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if ref.RewardPaid {
		return true, nil
	}

	flipped, err := s.referrals.MarkRewardPaid(ctx, ownerExternalID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if !flipped {
		// A concurrent caller won the flip.
		return true, nil
	}

	referrer, err := s.users.GetByExternalID(ctx, ref.ReferrerExternalID)
	if err != nil {
		return true, err
	}
	if err := s.users.AdjustBalance(ctx, referrer.ID, s.reward); err != nil {
		return true, err
	}

	s.log.Info().
		Int64("referrer", ref.ReferrerExternalID).
		Int64("referred", ownerExternalID).
		Str("reward", s.reward.StringFixed(2)).
		Msg("Referral reward credited")
	return true, nil
}

// Count returns how many users the referrer has invited.
func (s *ReferralService) Count(ctx context.Context, referrerExternalID int64) (int, error) {
	return s.referrals.CountByReferrer(ctx, referrerExternalID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
)

// LifecyclePolicy carries the tunable rules of the listing state machine.
type LifecyclePolicy struct {
	RetentionDays         int
	RefreshMinAge         time.Duration
	RefundPackageOnReject bool
}

// Lifecycle owns the listing state machine: moderation decisions, owner
// actions, refresh and expiration. Every transition is guarded by the
// listing row, so concurrent writers resolve first-come.
type Lifecycle struct {
	listings  domain.ListingRepository
	users     domain.UserRepository
	publisher *Publisher
	referrals *ReferralService
	notifier  Notifier
	policy    LifecyclePolicy
	log       zerolog.Logger
}

func NewLifecycle(listings domain.ListingRepository, users domain.UserRepository,
	publisher *Publisher, referrals *ReferralService, notifier Notifier, policy LifecyclePolicy) *Lifecycle {
	return &Lifecycle{
		listings:  listings,
		users:     users,
		publisher: publisher,
		referrals: referrals,
		notifier:  notifier,
		policy:    policy,
		log:       logger.With("lifecycle"),
	}
}

// Approve publishes a paid, pending listing. Preconditions: status is
// pending_moderation and the payment is settled.
func (s *Lifecycle) Approve(ctx context.Context, listingID, moderatorUserID int64) error {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if l.Status != domain.ListingPendingModeration {
		return apperr.New(apperr.KindPreconditionFailed, "moderation.already_decided")
	}
	if l.PaymentStatus != domain.PaymentPaid {
		return apperr.New(apperr.KindPreconditionFailed, "moderation.payment_pending")
	}

	owner, err := s.users.GetByID(ctx, l.UserID)
	if err != nil {
		return err
	}

	ids, err := s.publisher.Publish(ctx, l, owner)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.listings.MarkApproved(ctx, listingID, moderatorUserID, ids, now); err != nil {
		if errors.Is(err, domain.ErrStateConflict) {
			// Another moderator decided first; take the orphaned post down.
			l.ChannelMessageIDs = ids
			if delErr := s.publisher.Delete(ctx, l); delErr != nil {
				s.log.Error().Err(delErr).Int64("listing_id", listingID).Msg("Failed to remove orphaned post")
			}
			return apperr.Wrap(apperr.KindPreconditionFailed, "moderation.already_decided", err)
		}
		return err
	}
	l.ChannelMessageIDs = ids
	l.Status = domain.ListingApproved
	l.PublishedAt = &now

	// Referral credit fires on first approval; failures never block the
	// transition.
	if _, err := s.referrals.CreditIfApplicable(ctx, owner.ExternalID); err != nil {
		s.log.Error().Err(err).Int64("owner", owner.ExternalID).Msg("Referral credit check failed")
	}

	text := i18n.T(owner.Language, "listing.approved_notice", map[string]string{"title": l.Title})
	button := Button{Text: i18n.T(owner.Language, "listing.view_button", nil), URL: s.publisher.PostURL(l)}
	if err := s.notifier.Notify(owner.ExternalID, text, button); err != nil {
		s.log.Error().Err(err).Int64("owner", owner.ExternalID).Msg("Failed to notify owner of approval")
	}

	s.log.Info().Int64("listing_id", listingID).Int64("moderator", moderatorUserID).Msg("Listing approved")
	return nil
}

// Reject declines a pending listing and refunds the add-on tariffs to the
// owner's balance.
func (s *Lifecycle) Reject(ctx context.Context, listingID, moderatorUserID int64, reason string) error {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if l.Status != domain.ListingPendingModeration {
		return apperr.New(apperr.KindPreconditionFailed, "moderation.already_decided")
	}

	if err := s.listings.MarkRejected(ctx, listingID, moderatorUserID, reason); err != nil {
		if errors.Is(err, domain.ErrStateConflict) {
			return apperr.Wrap(apperr.KindPreconditionFailed, "moderation.already_decided", err)
		}
		return err
	}

	refund := s.rejectionRefund(l)
	if refund.IsPositive() && l.PaymentStatus == domain.PaymentPaid {
		if err := s.users.AdjustBalance(ctx, l.UserID, refund); err != nil {
			s.log.Error().Err(err).Int64("listing_id", listingID).Msg("Failed to refund rejected listing")
		}
	} else {
		refund = decimal.Zero
	}

	owner, err := s.users.GetByID(ctx, l.UserID)
	if err != nil {
		return err
	}

	text := i18n.T(owner.Language, "listing.rejected_notice", map[string]string{
		"title":  l.Title,
		"reason": reason,
		"refund": refund.StringFixed(2),
	})
	button := Button{
		Text:         i18n.T(owner.Language, "listing.edit_button", nil),
		CallbackData: fmt.Sprintf("edit_listing_%d", l.ID),
	}
	if err := s.notifier.Notify(owner.ExternalID, text, button); err != nil {
		s.log.Error().Err(err).Int64("owner", owner.ExternalID).Msg("Failed to notify owner of rejection")
	}

	s.log.Info().Int64("listing_id", listingID).Str("reason", reason).Msg("Listing rejected")
	return nil
}

// rejectionRefund sums the non-standard add-on prices. The package flag is
// kept for the day the base package stops being free.
func (s *Lifecycle) rejectionRefund(l *domain.Listing) decimal.Decimal {
	refund := decimal.Zero
	for _, t := range l.Tariffs {
		if t == domain.TariffStandard && !s.policy.RefundPackageOnReject {
			continue
		}
		refund = refund.Add(domain.TariffPrice(t))
	}
	return refund
}

// CloseByOwner ends a live listing as sold or deleted and removes its
// channel artifacts.
func (s *Lifecycle) CloseByOwner(ctx context.Context, listingID, ownerExternalID int64, status domain.ListingStatus) error {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	owner, err := s.users.GetByExternalID(ctx, ownerExternalID)
	if err != nil {
		return err
	}
	if l.UserID != owner.ID {
		return apperr.New(apperr.KindPermissionDenied, "errors.permission_denied")
	}

	if l.IsLive() {
		if err := s.publisher.Delete(ctx, l); err != nil {
			s.log.Error().Err(err).Int64("listing_id", listingID).Msg("Channel cleanup failed on close")
		}
	}
	return s.listings.Close(ctx, listingID, status)
}

// CanRefresh checks the paid-refresh precondition: the listing is live and
// at least RefreshMinAge old.
func (s *Lifecycle) CanRefresh(l *domain.Listing) error {
	if !l.IsLive() || l.PublishedAt == nil {
		return apperr.New(apperr.KindPreconditionFailed, "errors.precondition_failed")
	}
	if time.Since(*l.PublishedAt) < s.policy.RefreshMinAge {
		return apperr.New(apperr.KindPreconditionFailed, "listing.refresh_too_soon")
	}
	return nil
}

// CompleteRefresh re-publishes a live listing: old artifacts deleted, new
// ids stored, retention clock restarted. Moderation is not repeated.
func (s *Lifecycle) CompleteRefresh(ctx context.Context, listingID int64) error {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !l.IsLive() {
		return apperr.New(apperr.KindPreconditionFailed, "errors.precondition_failed")
	}

	owner, err := s.users.GetByID(ctx, l.UserID)
	if err != nil {
		return err
	}

	if err := s.publisher.Delete(ctx, l); err != nil {
		s.log.Error().Err(err).Int64("listing_id", listingID).Msg("Failed to delete old post on refresh")
	}

	ids, err := s.publisher.Publish(ctx, l, owner)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.listings.SetPublished(ctx, listingID, ids, now); err != nil {
		return err
	}
	l.ChannelMessageIDs = ids
	l.PublishedAt = &now

	text := i18n.T(owner.Language, "listing.refreshed_notice", map[string]string{"title": l.Title})
	button := Button{Text: i18n.T(owner.Language, "listing.view_button", nil), URL: s.publisher.PostURL(l)}
	if err := s.notifier.Notify(owner.ExternalID, text, button); err != nil {
		s.log.Error().Err(err).Int64("owner", owner.ExternalID).Msg("Failed to notify owner of refresh")
	}

	s.log.Info().Int64("listing_id", listingID).Msg("Listing refreshed")
	return nil
}

// Expire takes a listing past its retention window out of the channel.
// Deletion failures are logged; the listing is expired regardless.
func (s *Lifecycle) Expire(ctx context.Context, l *domain.Listing) error {
	if err := s.publisher.Delete(ctx, l); err != nil {
		s.log.Error().Err(err).Int64("listing_id", l.ID).Msg("Channel cleanup failed on expiration")
	}
	if err := s.listings.MarkExpired(ctx, l.ID); err != nil {
		return err
	}
	s.log.Info().Int64("listing_id", l.ID).Msg("Listing expired")
	return nil
}

// RetentionCutoff returns the publishedAt threshold for the sweep.
func (s *Lifecycle) RetentionCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -s.policy.RetentionDays)
}

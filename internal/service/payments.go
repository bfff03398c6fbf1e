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
)

// Payments implements the two checkout paths. The balance path settles
// immediately; the card path creates a gateway invoice reconciled later by
// the poller.
type Payments struct {
	payments    domain.PaymentRepository
	listings    domain.ListingRepository
	users       domain.UserRepository
	gateway     Gateway
	dispatcher  ModerationDispatcher
	refresher   Refresher
	botUsername string
	log         zerolog.Logger
}

func NewPayments(payments domain.PaymentRepository, listings domain.ListingRepository,
	users domain.UserRepository, gateway Gateway, dispatcher ModerationDispatcher,
	refresher Refresher, botUsername string) *Payments {
	return &Payments{
		payments:    payments,
		listings:    listings,
		users:       users,
		gateway:     gateway,
		dispatcher:  dispatcher,
		refresher:   refresher,
		botUsername: botUsername,
		log:         logger.With("payments"),
	}
}

// PayPublicationFromBalance debits the tariff total atomically and hands the
// listing to moderation. A zero total is treated as paid without a debit.
func (p *Payments) PayPublicationFromBalance(ctx context.Context, listingID int64) error {
	l, err := p.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if l.PaymentStatus == domain.PaymentPaid {
		return apperr.New(apperr.KindPreconditionFailed, "errors.precondition_failed")
	}

	total := domain.TariffTotal(l.Tariffs)
	if total.IsPositive() {
		if err := p.users.AdjustBalance(ctx, l.UserID, total.Neg()); err != nil {
			if errors.Is(err, domain.ErrInsufficientBalance) {
				return apperr.New(apperr.KindInputInvalid, "payment.insufficient")
			}
			return err
		}
	}

	if err := p.listings.SetPaymentStatus(ctx, listingID, domain.PaymentPaid); err != nil {
		return err
	}

	if err := p.dispatcher.Dispatch(ctx, listingID, domain.SourceTelegram); err != nil {
		// The listing is paid and stored; moderation can be re-dispatched.
		p.log.Error().Err(err).Int64("listing_id", listingID).Msg("Failed to dispatch moderation card")
	}

	p.log.Info().Int64("listing_id", listingID).Str("total", total.StringFixed(2)).Msg("Publication paid from balance")
	return nil
}

// PayRefreshFromBalance debits the refresh price and re-publishes the
// listing right away.
func (p *Payments) PayRefreshFromBalance(ctx context.Context, listingID int64) error {
	l, err := p.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}

	price := domain.TariffPrice(domain.TariffRefresh)
	if err := p.users.AdjustBalance(ctx, l.UserID, price.Neg()); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return apperr.New(apperr.KindInputInvalid, "payment.insufficient")
		}
		return err
	}

	p.log.Info().Int64("listing_id", listingID).Str("price", price.StringFixed(2)).Msg("Refresh paid from balance")
	return p.refresher.CompleteRefresh(ctx, listingID)
}

// CreateInvoice opens a gateway invoice for a publication or refresh and
// stores the pending payment row keyed by invoice id.
func (p *Payments) CreateInvoice(ctx context.Context, purpose domain.PaymentPurpose, l *domain.Listing, amount decimal.Decimal) (pageURL string, err error) {
	owner, err := p.users.GetByID(ctx, l.UserID)
	if err != nil {
		return "", err
	}

	localID := domain.NewLocalID(purpose, l.ID, owner.ID, time.Now().UTC())
	redirectURL := fmt.Sprintf("https://t.me/%s", p.botUsername)
	description := fmt.Sprintf("%s #%d", purpose, l.ID)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()

	invoiceID, pageURL, err := p.gateway.CreateInvoice(ctx, amountCents, description, localID, redirectURL)
	if err != nil {
		return "", err
	}

	payment := &domain.Payment{
		LocalID:         localID,
		InvoiceID:       invoiceID,
		UserID:          owner.ID,
		TargetListingID: l.ID,
		Amount:          amount,
		Status:          domain.PaymentStatePending,
		Purpose:         purpose,
	}
	if err := p.payments.Create(ctx, payment); err != nil {
		return "", err
	}

	p.log.Info().
		Str("invoice_id", invoiceID).
		Str("local_id", localID).
		Str("amount", amount.StringFixed(2)).
		Msg("Invoice created")
	return pageURL, nil
}

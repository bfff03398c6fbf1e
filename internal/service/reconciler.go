package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
	"classifieds-bot-backend/internal/monobank"
)

// Reconciler polls pending invoices against the gateway. One instance runs
// per process; an overrunning tick makes the next one skip instead of
// overlapping.
type Reconciler struct {
	payments   domain.PaymentRepository
	listings   domain.ListingRepository
	users      domain.UserRepository
	gateway    Gateway
	dispatcher ModerationDispatcher
	lifecycle  *Lifecycle
	notifier   Notifier

	interval time.Duration
	lookback time.Duration

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	ticking sync.Mutex
	log     zerolog.Logger
}

func NewReconciler(payments domain.PaymentRepository, listings domain.ListingRepository,
	users domain.UserRepository, gateway Gateway, dispatcher ModerationDispatcher,
	lifecycle *Lifecycle, notifier Notifier, interval, lookback time.Duration) *Reconciler {
	return &Reconciler{
		payments:   payments,
		listings:   listings,
		users:      users,
		gateway:    gateway,
		dispatcher: dispatcher,
		lifecycle:  lifecycle,
		notifier:   notifier,
		interval:   interval,
		lookback:   lookback,
		log:        logger.With("reconciler"),
	}
}

func (r *Reconciler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !r.ticking.TryLock() {
					r.log.Warn().Msg("Previous reconcile tick still running, skipping")
					continue
				}
				r.Tick(ctx)
				r.ticking.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	r.log.Info().Dur("interval", r.interval).Msg("Payment reconciler started")
}

func (r *Reconciler) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.log.Info().Msg("Payment reconciler stopped")
}

// Tick polls every pending invoice inside the lookback window. The stop
// signal is honoured between invoices.
func (r *Reconciler) Tick(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.lookback)
	pending, err := r.payments.ListPendingSince(ctx, cutoff)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list pending payments")
		return
	}

	for _, p := range pending {
		if ctx.Err() != nil {
			return
		}
		if err := r.reconcile(ctx, p); err != nil {
			r.log.Error().Err(err).Str("invoice_id", p.InvoiceID).Msg("Reconcile failed")
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context, p *domain.Payment) error {
	callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	status, err := r.gateway.GetInvoiceStatus(callCtx, p.InvoiceID)
	cancel()
	if err != nil {
		// Transient gateway trouble: leave the payment pending, the next
		// tick revisits it.
		return err
	}

	switch status {
	case monobank.StatusSuccess:
		flipped, err := r.payments.SetStatusIf(ctx, p.InvoiceID, domain.PaymentStatePending, domain.PaymentStateSuccess)
		if err != nil {
			return err
		}
		if !flipped {
			// Already settled: replays must not re-trigger side effects.
			return nil
		}
		return r.applySuccess(ctx, p)

	case monobank.StatusFailure:
		return r.markTerminal(ctx, p, domain.PaymentStateFailed)

	case monobank.StatusExpired:
		return r.markTerminal(ctx, p, domain.PaymentStateExpired)

	default:
		// created / processing: untouched until the next tick.
		return nil
	}
}

// applySuccess fires the single downstream effect of a settled payment.
func (r *Reconciler) applySuccess(ctx context.Context, p *domain.Payment) error {
	purpose, err := domain.PurposeFromLocalID(p.LocalID)
	if err != nil {
		return err
	}

	owner, err := r.users.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}

	switch purpose {
	case domain.PurposePublication:
		if err := r.listings.SetPaymentStatus(ctx, p.TargetListingID, domain.PaymentPaid); err != nil {
			return err
		}
		if err := r.dispatcher.Dispatch(ctx, p.TargetListingID, domain.SourceTelegram); err != nil {
			r.log.Error().Err(err).Int64("listing_id", p.TargetListingID).Msg("Failed to dispatch moderation card")
		}
		if err := r.notifier.Notify(owner.ExternalID, i18n.T(owner.Language, "payment.success_publication", nil)); err != nil {
			r.log.Error().Err(err).Int64("owner", owner.ExternalID).Msg("Failed to notify payer")
		}

	case domain.PurposeRefresh:
		if err := r.lifecycle.CompleteRefresh(ctx, p.TargetListingID); err != nil {
			return err
		}
	}

	r.log.Info().Str("invoice_id", p.InvoiceID).Str("purpose", string(purpose)).Msg("Payment settled")
	return nil
}

func (r *Reconciler) markTerminal(ctx context.Context, p *domain.Payment, state domain.PaymentState) error {
	flipped, err := r.payments.SetStatusIf(ctx, p.InvoiceID, domain.PaymentStatePending, state)
	if err != nil || !flipped {
		return err
	}

	owner, err := r.users.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if err := r.notifier.Notify(owner.ExternalID, i18n.T(owner.Language, "payment.failed", nil)); err != nil {
		r.log.Error().Err(err).Int64("owner", owner.ExternalID).Msg("Failed to notify payer of failure")
	}
	return nil
}

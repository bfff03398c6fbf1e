package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/domain"
)

type paymentsFixture struct {
	*lifecycleFixture
	payments   *fakePaymentRepo
	gateway    *fakeGateway
	dispatcher *fakeDispatcher
	svc        *Payments
}

func newPaymentsFixture(t *testing.T) *paymentsFixture {
	t.Helper()

	base := newLifecycleFixture(t)
	payments := newFakePaymentRepo()
	gateway := &fakeGateway{statuses: make(map[string]string)}
	dispatcher := &fakeDispatcher{}

	return &paymentsFixture{
		lifecycleFixture: base,
		payments:         payments,
		gateway:          gateway,
		dispatcher:       dispatcher,
		svc: NewPayments(payments, base.listings, base.users, gateway, dispatcher,
			base.lifecycle, "classified_bot"),
	}
}

func TestPayPublicationFromBalanceDebitsAndDispatches(t *testing.T) {
	fx := newPaymentsFixture(t)
	owner := fx.seedOwner()
	owner.Balance = decimal.RequireFromString("5.00")
	l := fx.seedPendingListing(owner, false, domain.TariffStandard, domain.TariffHighlighted)

	require.NoError(t, fx.svc.PayPublicationFromBalance(context.Background(), l.ID))

	assert.True(t, decimal.RequireFromString("3.50").Equal(owner.Balance), "got %s", owner.Balance)
	got, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, []int64{l.ID}, fx.dispatcher.dispatched)
}

func TestPayPublicationInsufficientBalance(t *testing.T) {
	fx := newPaymentsFixture(t)
	owner := fx.seedOwner()
	owner.Balance = decimal.RequireFromString("1.00")
	l := fx.seedPendingListing(owner, false, domain.TariffStandard, domain.TariffStory)

	err := fx.svc.PayPublicationFromBalance(context.Background(), l.ID)
	require.Error(t, err)
	assert.Equal(t, "payment.insufficient", apperr.MsgKeyOf(err))
	assert.True(t, decimal.RequireFromString("1.00").Equal(owner.Balance), "balance untouched")
	assert.Empty(t, fx.dispatcher.dispatched)
}

func TestPayPublicationZeroTotalSkipsDebit(t *testing.T) {
	fx := newPaymentsFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, false)

	require.NoError(t, fx.svc.PayPublicationFromBalance(context.Background(), l.ID))
	assert.True(t, owner.Balance.IsZero())
	assert.Equal(t, []int64{l.ID}, fx.dispatcher.dispatched)
}

func TestPayPublicationTwiceIsRejected(t *testing.T) {
	fx := newPaymentsFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, false)

	require.NoError(t, fx.svc.PayPublicationFromBalance(context.Background(), l.ID))
	err := fx.svc.PayPublicationFromBalance(context.Background(), l.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPreconditionFailed))
	assert.Len(t, fx.dispatcher.dispatched, 1)
}

func TestCreateInvoiceStoresPendingPayment(t *testing.T) {
	fx := newPaymentsFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, false, domain.TariffStandard, domain.TariffHighlighted)

	pageURL, err := fx.svc.CreateInvoice(context.Background(), domain.PurposePublication, l,
		domain.TariffTotal(l.Tariffs))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/inv-test", pageURL)

	p, err := fx.payments.GetByInvoiceID(context.Background(), "inv-test")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatePending, p.Status)
	assert.Equal(t, l.ID, p.TargetListingID)

	purpose, err := domain.PurposeFromLocalID(p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurposePublication, purpose)
}

func TestPayRefreshFromBalance(t *testing.T) {
	fx := newPaymentsFixture(t)
	owner := fx.seedOwner()
	owner.Balance = decimal.RequireFromString("2.00")
	l := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), l.ID, 42))

	old := time.Now().UTC().Add(-2 * time.Hour)
	fx.listings.mu.Lock()
	fx.listings.byID[l.ID].PublishedAt = &old
	fx.listings.mu.Unlock()

	require.NoError(t, fx.svc.PayRefreshFromBalance(context.Background(), l.ID))

	assert.True(t, decimal.RequireFromString("0.50").Equal(owner.Balance), "got %s", owner.Balance)
	got, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, got.PublishedAt.After(old), "retention clock restarted")
}

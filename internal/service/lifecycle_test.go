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

type lifecycleFixture struct {
	tg        *fakeTelegram
	users     *fakeUserRepo
	listings  *fakeListingRepo
	referrals *fakeReferralRepo
	notifier  *fakeNotifier
	lifecycle *Lifecycle
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	tg := newFakeTelegram()
	users := newFakeUserRepo()
	listings := newFakeListingRepo()
	referrals := newFakeReferralRepo()
	notifier := &fakeNotifier{}

	publisher := NewPublisher(tg, listings, newFakeCategoryRepo(),
		map[string]int64{domain.RegionHamburg: -100500}, "trade_channel", "classified_bot")
	referralSvc := NewReferralService(referrals, users, decimal.RequireFromString("1.00"))
	lifecycle := NewLifecycle(listings, users, publisher, referralSvc, notifier, LifecyclePolicy{
		RetentionDays: 30,
		RefreshMinAge: time.Hour,
	})

	return &lifecycleFixture{
		tg:        tg,
		users:     users,
		listings:  listings,
		referrals: referrals,
		notifier:  notifier,
		lifecycle: lifecycle,
	}
}

func (fx *lifecycleFixture) seedOwner() *domain.User {
	return fx.users.add(&domain.User{ExternalID: 777, Handle: "seller", Language: domain.LangUK})
}

func (fx *lifecycleFixture) seedPendingListing(owner *domain.User, paid bool, tariffs ...domain.Tariff) *domain.Listing {
	if len(tariffs) == 0 {
		tariffs = domain.NewTariffSet()
	}
	payment := domain.PaymentPending
	if paid {
		payment = domain.PaymentPaid
	}
	return fx.listings.add(&domain.Listing{
		UserID:           owner.ID,
		Title:            "Old bike",
		Description:      "Good condition, barely used",
		Price:            decimal.RequireFromString("50"),
		PriceDisplay:     "50",
		Currency:         domain.DefaultCurrency,
		CategoryID:       1,
		Location:         "Hamburg",
		Region:           domain.RegionHamburg,
		Media:            []domain.MediaItem{{Kind: domain.MediaPhoto, FileID: "ph1"}, {Kind: domain.MediaPhoto, FileID: "ph2"}},
		Status:           domain.ListingPendingModeration,
		ModerationStatus: domain.ModerationPending,
		Tariffs:          tariffs,
		PaymentStatus:    payment,
	})
}

func TestApprovePublishesAndNotifies(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, true)

	require.NoError(t, fx.lifecycle.Approve(context.Background(), l.ID, 42))

	got, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingApproved, got.Status)
	assert.Len(t, got.ChannelMessageIDs, 2, "album of two media stores two ids")
	require.NotNil(t, got.PublishedAt)

	require.Len(t, fx.notifier.notices, 1)
	n := fx.notifier.notices[0]
	assert.Equal(t, owner.ExternalID, n.externalID)
	require.Len(t, n.buttons, 1)
	assert.Contains(t, n.buttons[0].URL, "t.me/trade_channel/")
}

func TestApproveRequiresSettledPayment(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, false)

	err := fx.lifecycle.Approve(context.Background(), l.ID, 42)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPreconditionFailed))
	assert.Equal(t, "moderation.payment_pending", apperr.MsgKeyOf(err))
	assert.Empty(t, fx.tg.sent, "nothing reaches the channel")
}

func TestApproveLosingRaceRemovesOrphanedPost(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, true)

	// A second moderator rejects between the status read and the guarded
	// update.
	fx.listings.beforeMarkApproved = func() {
		fx.listings.mu.Lock()
		fx.listings.byID[l.ID].Status = domain.ListingRejected
		fx.listings.mu.Unlock()
	}

	err := fx.lifecycle.Approve(context.Background(), l.ID, 42)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPreconditionFailed))
	assert.Len(t, fx.tg.deleted, 2, "the already-sent post is taken down")
}

func TestApproveCreditsReferrerOnce(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	referrer := fx.users.add(&domain.User{ExternalID: 555, Language: domain.LangUK})
	require.NoError(t, fx.referrals.Create(context.Background(), referrer.ExternalID, owner.ExternalID))

	l := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), l.ID, 42))
	assert.True(t, decimal.RequireFromString("1.00").Equal(referrer.Balance))

	// A second approved listing pays nothing more.
	l2 := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), l2.ID, 42))
	assert.True(t, decimal.RequireFromString("1.00").Equal(referrer.Balance))
}

func TestRejectRefundsAddOnsOnly(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, true,
		domain.TariffStandard, domain.TariffHighlighted, domain.TariffPinned24h)

	require.NoError(t, fx.lifecycle.Reject(context.Background(), l.ID, 42, "duplicate posting"))

	got, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingRejected, got.Status)
	assert.Equal(t, "duplicate posting", got.RejectionReason)

	// 1.50 + 4.50 back, the free package is not refunded.
	assert.True(t, decimal.RequireFromString("6.00").Equal(owner.Balance), "got %s", owner.Balance)

	require.Len(t, fx.notifier.notices, 1)
	require.Len(t, fx.notifier.notices[0].buttons, 1)
	assert.Equal(t, "edit_listing_1", fx.notifier.notices[0].buttons[0].CallbackData)
}

func TestRejectUnpaidRefundsNothing(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, false, domain.TariffStandard, domain.TariffStory)

	require.NoError(t, fx.lifecycle.Reject(context.Background(), l.ID, 42, "spam content"))
	assert.True(t, owner.Balance.IsZero())
}

func TestRejectTwiceConflicts(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, true)

	require.NoError(t, fx.lifecycle.Reject(context.Background(), l.ID, 42, "first reason"))
	err := fx.lifecycle.Reject(context.Background(), l.ID, 43, "second reason")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPreconditionFailed))
}

func TestCloseByOwnerChecksOwnership(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	stranger := fx.users.add(&domain.User{ExternalID: 999, Language: domain.LangUK})
	l := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), l.ID, 42))

	err := fx.lifecycle.CloseByOwner(context.Background(), l.ID, stranger.ExternalID, domain.ListingSold)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))

	require.NoError(t, fx.lifecycle.CloseByOwner(context.Background(), l.ID, owner.ExternalID, domain.ListingSold))
	got, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingSold, got.Status)
	assert.Empty(t, got.ChannelMessageIDs)
}

func TestCanRefreshEnforcesMinAge(t *testing.T) {
	fx := newLifecycleFixture(t)

	fresh := time.Now().UTC().Add(-10 * time.Minute)
	l := &domain.Listing{Status: domain.ListingApproved, PublishedAt: &fresh}
	err := fx.lifecycle.CanRefresh(l)
	require.Error(t, err)
	assert.Equal(t, "listing.refresh_too_soon", apperr.MsgKeyOf(err))

	old := time.Now().UTC().Add(-2 * time.Hour)
	l.PublishedAt = &old
	assert.NoError(t, fx.lifecycle.CanRefresh(l))

	l.Status = domain.ListingExpired
	assert.Error(t, fx.lifecycle.CanRefresh(l))
}

func TestCompleteRefreshReplacesArtifacts(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), l.ID, 42))

	before, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	oldIDs := before.ChannelMessageIDs

	require.NoError(t, fx.lifecycle.CompleteRefresh(context.Background(), l.ID))

	after, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Len(t, after.ChannelMessageIDs, 2)
	assert.NotEqual(t, oldIDs, after.ChannelMessageIDs)
	assert.ElementsMatch(t, oldIDs, fx.tg.deleted, "old artifacts removed")
}

func TestExpireTakesListingDown(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), l.ID, 42))

	live, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	require.NoError(t, fx.lifecycle.Expire(context.Background(), live))

	got, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingExpired, got.Status)
	assert.Equal(t, domain.PaymentPending, got.PaymentStatus)
	assert.Empty(t, got.ChannelMessageIDs)
}

func TestCloseByOwnerWithdrawsPendingListing(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()
	l := fx.seedPendingListing(owner, false)

	require.NoError(t, fx.lifecycle.CloseByOwner(context.Background(), l.ID, owner.ExternalID, domain.ListingDeleted))

	got, err := fx.listings.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingDeleted, got.Status)
	assert.Empty(t, fx.tg.deleted, "nothing was in the channel yet")
}

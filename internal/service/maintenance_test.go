package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classifieds-bot-backend/internal/domain"
)

func TestCronSpec(t *testing.T) {
	spec, err := cronSpec("04:30")
	require.NoError(t, err)
	assert.Equal(t, "30 4 * * *", spec)

	for _, bad := range []string{"", "430", "24:00", "12:60", "aa:bb"} {
		_, err := cronSpec(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSweepExpiresOnlyStaleListings(t *testing.T) {
	fx := newLifecycleFixture(t)
	owner := fx.seedOwner()

	stale := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), stale.ID, 42))
	old := time.Now().UTC().AddDate(0, 0, -31)
	fx.listings.mu.Lock()
	fx.listings.byID[stale.ID].PublishedAt = &old
	fx.listings.mu.Unlock()

	recent := fx.seedPendingListing(owner, true)
	require.NoError(t, fx.lifecycle.Approve(context.Background(), recent.ID, 42))

	m := NewMaintenance(fx.listings, fx.lifecycle)
	m.Sweep(context.Background())

	gotStale, err := fx.listings.GetByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingExpired, gotStale.Status)
	assert.Empty(t, gotStale.ChannelMessageIDs)

	gotRecent, err := fx.listings.GetByID(context.Background(), recent.ID)
	require.NoError(t, err)
	assert.True(t, gotRecent.IsLive(), "fresh listings survive the sweep")
}

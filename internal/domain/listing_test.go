package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessageIDsArray(t *testing.T) {
	ids, legacy, err := DecodeMessageIDs("[101,102,103]")
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 103}, ids)
	assert.False(t, legacy)
}

func TestDecodeMessageIDsLegacyScalar(t *testing.T) {
	ids, legacy, err := DecodeMessageIDs("101")
	require.NoError(t, err)
	assert.Equal(t, []int{101}, ids)
	assert.True(t, legacy, "a bare integer marks a pre-migration row")
}

func TestDecodeMessageIDsEmptyForms(t *testing.T) {
	for _, raw := range []string{"", "[]", "null"} {
		ids, legacy, err := DecodeMessageIDs(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Empty(t, ids)
		assert.False(t, legacy)
	}
}

func TestEncodeMessageIDsCanonical(t *testing.T) {
	assert.Equal(t, "[101,102]", EncodeMessageIDs([]int{101, 102}))
	assert.Equal(t, "[]", EncodeMessageIDs(nil))
}

func TestMediaRoundTrip(t *testing.T) {
	media := []MediaItem{
		{Kind: MediaPhoto, FileID: "ph1"},
		{Kind: MediaVideo, FileID: "vid1"},
	}
	got, err := DecodeMedia(EncodeMedia(media))
	require.NoError(t, err)
	assert.Equal(t, media, got)

	empty, err := DecodeMedia("[]")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestIsLive(t *testing.T) {
	for status, want := range map[ListingStatus]bool{
		ListingApproved:          true,
		ListingPublished:         true,
		ListingPendingModeration: false,
		ListingRejected:          false,
		ListingExpired:           false,
		ListingSold:              false,
		ListingDeleted:           false,
	} {
		l := &Listing{Status: status}
		assert.Equal(t, want, l.IsLive(), "status %s", status)
	}
}

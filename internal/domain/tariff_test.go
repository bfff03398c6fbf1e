package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleTariffDoubleToggleIsIdentity(t *testing.T) {
	set := NewTariffSet()
	on, err := ToggleTariff(set, TariffHighlighted)
	require.NoError(t, err)
	assert.True(t, HasTariff(on, TariffHighlighted))

	off, err := ToggleTariff(on, TariffHighlighted)
	require.NoError(t, err)
	assert.Equal(t, set, off)
}

func TestToggleTariffStandardIsLocked(t *testing.T) {
	_, err := ToggleTariff(NewTariffSet(), TariffStandard)
	assert.Error(t, err)
}

func TestToggleTariffPinnedPairIsExclusive(t *testing.T) {
	set, err := ToggleTariff(NewTariffSet(), TariffPinned12h)
	require.NoError(t, err)

	set, err = ToggleTariff(set, TariffPinned24h)
	require.NoError(t, err)
	assert.True(t, HasTariff(set, TariffPinned24h))
	assert.False(t, HasTariff(set, TariffPinned12h), "the other pin drops out")
}

func TestToggleTariffRejectsRefreshToken(t *testing.T) {
	_, err := ToggleTariff(NewTariffSet(), TariffRefresh)
	assert.Error(t, err)
}

func TestToggleTariffResultIsCanonicallyOrdered(t *testing.T) {
	set := NewTariffSet()
	for _, tt := range []Tariff{TariffStory, TariffHighlighted, TariffPinned12h} {
		var err error
		set, err = ToggleTariff(set, tt)
		require.NoError(t, err)
	}
	assert.Equal(t, []Tariff{TariffStandard, TariffHighlighted, TariffPinned12h, TariffStory}, set)
}

func TestTariffTotal(t *testing.T) {
	total := TariffTotal([]Tariff{TariffStandard, TariffHighlighted, TariffPinned24h})
	assert.True(t, decimal.RequireFromString("6.00").Equal(total), "got %s", total)

	assert.True(t, TariffTotal(NewTariffSet()).IsZero())
}

func TestEncodeDecodeTariffs(t *testing.T) {
	raw := EncodeTariffs([]Tariff{TariffStory, TariffStandard, TariffHighlighted})
	assert.Equal(t, `["standard","highlighted","story"]`, raw)

	set, err := DecodeTariffs(raw)
	require.NoError(t, err)
	assert.Equal(t, []Tariff{TariffStandard, TariffHighlighted, TariffStory}, set)
}

func TestDecodeTariffsAlwaysIncludesStandard(t *testing.T) {
	set, err := DecodeTariffs(`["highlighted"]`)
	require.NoError(t, err)
	assert.True(t, HasTariff(set, TariffStandard))

	set, err = DecodeTariffs("")
	require.NoError(t, err)
	assert.Equal(t, NewTariffSet(), set)
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceFixed(t *testing.T) {
	p, err := ParsePrice(" 100 ")
	require.NoError(t, err)
	assert.Equal(t, PriceFixed, p.Kind)
	assert.True(t, decimal.RequireFromString("100").Equal(p.Amount))
	assert.Equal(t, "100", p.Display())
	assert.True(t, decimal.RequireFromString("100").Equal(p.Numeric()))
}

func TestParsePriceRange(t *testing.T) {
	p, err := ParsePrice("50-100")
	require.NoError(t, err)
	assert.Equal(t, PriceRange, p.Kind)
	assert.Equal(t, "50-100", p.Display(), "the original form survives a round trip")
	assert.True(t, decimal.RequireFromString("50").Equal(p.Numeric()), "ranges store the minimum")
}

func TestParsePriceRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "abc", "-5", "100-50", "10-abc"} {
		_, err := ParsePrice(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestNegotiablePrice(t *testing.T) {
	p := NegotiablePrice()
	assert.Equal(t, "negotiable", p.Display())
	assert.True(t, p.Numeric().IsZero())
}

func TestPriceFromStoredRoundTrip(t *testing.T) {
	for _, display := range []string{"100", "50-100", "negotiable"} {
		var numeric decimal.Decimal
		if p, err := ParsePrice(display); err == nil {
			numeric = p.Numeric()
		}
		got := PriceFromStored(display, numeric, "EUR")
		assert.Equal(t, display, got.Display(), "display %q survives storage", display)
	}
}

package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/common/apperr"
)

type PriceKind string

const (
	PriceFixed      PriceKind = "fixed"
	PriceRange      PriceKind = "range"
	PriceNegotiable PriceKind = "negotiable"
)

const DefaultCurrency = "EUR"

// Price keeps both the numeric value used for storage and the original form
// the seller entered, so "50-100" renders back as "50-100".
type Price struct {
	Kind     PriceKind
	Amount   decimal.Decimal // fixed
	Min      decimal.Decimal // range
	Max      decimal.Decimal // range
	Currency string
}

// NegotiablePrice is the price a seller picks with the "negotiable" button.
func NegotiablePrice() Price {
	return Price{Kind: PriceNegotiable, Currency: DefaultCurrency}
}

// ParsePrice parses seller input: "min-max" becomes a range, a plain
// non-negative number becomes a fixed price. Anything else is invalid.
func ParsePrice(input string) (Price, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Price{}, apperr.New(apperr.KindInputInvalid, "draft.price_invalid")
	}

	if minStr, maxStr, ok := strings.Cut(s, "-"); ok {
		min, err1 := decimal.NewFromString(strings.TrimSpace(minStr))
		max, err2 := decimal.NewFromString(strings.TrimSpace(maxStr))
		if err1 != nil || err2 != nil || min.IsNegative() || max.LessThan(min) {
			return Price{}, apperr.New(apperr.KindInputInvalid, "draft.price_invalid")
		}
		return Price{Kind: PriceRange, Min: min, Max: max, Currency: DefaultCurrency}, nil
	}

	amount, err := decimal.NewFromString(s)
	if err != nil || amount.IsNegative() {
		return Price{}, apperr.New(apperr.KindInputInvalid, "draft.price_invalid")
	}
	return Price{Kind: PriceFixed, Amount: amount, Currency: DefaultCurrency}, nil
}

// Numeric returns the stored numeric price: 0 for negotiable, the range
// minimum for ranges, the amount for fixed prices.
func (p Price) Numeric() decimal.Decimal {
	switch p.Kind {
	case PriceRange:
		return p.Min
	case PriceFixed:
		return p.Amount
	default:
		return decimal.Zero
	}
}

// Display returns the canonical priceDisplay string preserved for
// presentation. Negotiable prices are rendered through i18n at display time.
func (p Price) Display() string {
	switch p.Kind {
	case PriceNegotiable:
		return "negotiable"
	case PriceRange:
		return p.Min.String() + "-" + p.Max.String()
	default:
		return p.Amount.String()
	}
}

// PriceFromStored reconstructs a Price from the persisted display form.
func PriceFromStored(display string, numeric decimal.Decimal, currency string) Price {
	if currency == "" {
		currency = DefaultCurrency
	}
	if display == "negotiable" {
		return Price{Kind: PriceNegotiable, Currency: currency}
	}
	if p, err := ParsePrice(display); err == nil {
		p.Currency = currency
		return p
	}
	return Price{Kind: PriceFixed, Amount: numeric, Currency: currency}
}

package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/common/apperr"
)

// Tariff selects a presentation effect on publication and an EUR add-on
// price. standard is always present and free; the pinned pair is mutually
// exclusive.
type Tariff string

const (
	TariffStandard    Tariff = "standard"
	TariffHighlighted Tariff = "highlighted"
	TariffPinned12h   Tariff = "pinned_12h"
	TariffPinned24h   Tariff = "pinned_24h"
	TariffStory       Tariff = "story"

	// TariffRefresh is the paid re-publication of an already approved
	// listing; it never appears in a publication tariff set.
	TariffRefresh Tariff = "refresh"
)

// tariffOrder fixes the canonical serialization order.
var tariffOrder = []Tariff{TariffStandard, TariffHighlighted, TariffPinned12h, TariffPinned24h, TariffStory}

var tariffPrices = map[Tariff]decimal.Decimal{
	TariffStandard:    decimal.Zero,
	TariffHighlighted: decimal.RequireFromString("1.50"),
	TariffPinned12h:   decimal.RequireFromString("2.50"),
	TariffPinned24h:   decimal.RequireFromString("4.50"),
	TariffStory:       decimal.RequireFromString("5.00"),
	TariffRefresh:     decimal.RequireFromString("1.50"),
}

// TariffPrice returns the add-on price of a tariff token.
func TariffPrice(t Tariff) decimal.Decimal {
	return tariffPrices[t]
}

// SelectableTariffs lists the add-ons shown on the tariff step, in order.
func SelectableTariffs() []Tariff {
	return append([]Tariff(nil), tariffOrder...)
}

// NewTariffSet returns the initial selection of a draft.
func NewTariffSet() []Tariff {
	return []Tariff{TariffStandard}
}

// HasTariff reports whether the set contains t.
func HasTariff(set []Tariff, t Tariff) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}

// ToggleTariff flips t in the selection. standard cannot be removed; turning
// one pinned tariff on removes the other. The result is in canonical order.
func ToggleTariff(set []Tariff, t Tariff) ([]Tariff, error) {
	if t == TariffStandard {
		return nil, apperr.New(apperr.KindInputInvalid, "tariffs.standard_locked")
	}
	if _, ok := tariffPrices[t]; !ok || t == TariffRefresh {
		return nil, apperr.New(apperr.KindInputInvalid, "tariffs.unknown")
	}

	selected := make(map[Tariff]bool, len(set)+1)
	for _, s := range set {
		selected[s] = true
	}
	selected[TariffStandard] = true

	if selected[t] {
		delete(selected, t)
	} else {
		selected[t] = true
		switch t {
		case TariffPinned12h:
			delete(selected, TariffPinned24h)
		case TariffPinned24h:
			delete(selected, TariffPinned12h)
		}
	}

	out := make([]Tariff, 0, len(selected))
	for _, ordered := range tariffOrder {
		if selected[ordered] {
			out = append(out, ordered)
		}
	}
	return out, nil
}

// TariffTotal sums the add-on prices of the selection.
func TariffTotal(set []Tariff) decimal.Decimal {
	total := decimal.Zero
	for _, t := range set {
		total = total.Add(tariffPrices[t])
	}
	return total
}

// EncodeTariffs serializes the set as the canonical ordered JSON array stored
// on the listing.
func EncodeTariffs(set []Tariff) string {
	ordered := make([]Tariff, 0, len(set))
	for _, t := range tariffOrder {
		if HasTariff(set, t) {
			ordered = append(ordered, t)
		}
	}
	if len(ordered) == 0 {
		ordered = NewTariffSet()
	}
	b, _ := json.Marshal(ordered)
	return string(b)
}

// DecodeTariffs parses a stored publicationTariffs value.
func DecodeTariffs(raw string) ([]Tariff, error) {
	if raw == "" {
		return NewTariffSet(), nil
	}
	var set []Tariff
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, fmt.Errorf("decode tariffs %q: %w", raw, err)
	}
	if !HasTariff(set, TariffStandard) {
		set = append([]Tariff{TariffStandard}, set...)
	}
	return set, nil
}

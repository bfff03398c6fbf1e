package service

import (
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
)

// FormatPrice renders the stored priceDisplay for the user's language.
// Negotiable is the only localized form; numeric forms render verbatim.
func FormatPrice(lang string, l *domain.Listing) string {
	if l.PriceDisplay == "negotiable" {
		return i18n.T(lang, "price.negotiable", nil)
	}
	display := l.PriceDisplay
	if display == "" {
		display = l.Price.String()
	}
	return display + " " + l.Currency
}

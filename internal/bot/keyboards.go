package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
)

// Main-menu actions, resolved from the reply-keyboard button text.
const (
	actionAddListing = "add_listing"
	actionMyListings = "my_listings"
	actionProfile    = "profile"
	actionAbout      = "about"
	actionSupport    = "support"
	actionReferral   = "referral"
)

var menuKeys = map[string]string{
	"menu.add_listing": actionAddListing,
	"menu.my_listings": actionMyListings,
	"menu.profile":     actionProfile,
	"menu.about":       actionAbout,
	"menu.support":     actionSupport,
	"menu.referral":    actionReferral,
}

// menuAction maps a reply-keyboard button press back to its action. The
// labels differ per language, so both catalogs are checked.
func menuAction(text string) string {
	for key, action := range menuKeys {
		for _, lang := range []string{domain.LangUK, domain.LangRU} {
			if i18n.T(lang, key, nil) == text {
				return action
			}
		}
	}
	return ""
}

func mainMenuKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.T(lang, "menu.add_listing", nil)),
			tgbotapi.NewKeyboardButton(i18n.T(lang, "menu.my_listings", nil)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.T(lang, "menu.profile", nil)),
			tgbotapi.NewKeyboardButton(i18n.T(lang, "menu.referral", nil)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.T(lang, "menu.about", nil)),
			tgbotapi.NewKeyboardButton(i18n.T(lang, "menu.support", nil)),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇦 Українська", "lang_uk"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang_ru"),
		),
	)
}

func categoryKeyboard(lang string, cats []*domain.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range cats {
		label := c.Icon + " " + i18n.T(lang, "category."+c.Name, nil)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("cat_%d", c.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func photosKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.photos_continue", nil), "draft_photos_done"),
		),
	)
}

func priceKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.price_negotiable", nil), "draft_price_negotiable"),
		),
	)
}

func previewKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.preview_confirm", nil), "draft_confirm"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.preview_edit", nil), "draft_edit"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "menu.cancel", nil), "draft_cancel"),
		),
	)
}

func editFieldsKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.edit_title", nil), "draft_edit_title"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.edit_description", nil), "draft_edit_description"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.edit_photos", nil), "draft_edit_photos"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.edit_category", nil), "draft_edit_category"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.edit_price", nil), "draft_edit_price"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "draft.edit_location", nil), "draft_edit_location"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "menu.back", nil), "draft_edit_back"),
		),
	)
}

func tariffKeyboard(lang string, selected []domain.Tariff) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range domain.SelectableTariffs() {
		label := i18n.T(lang, "tariffs.name."+string(t), nil)
		if domain.HasTariff(selected, t) {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "tariff_toggle_"+string(t)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "tariffs.confirm", nil), "tariff_confirm"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func paymentKeyboard(lang string, listingID int64, balance string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				i18n.T(lang, "payment.balance", map[string]string{"balance": balance}),
				fmt.Sprintf("pay_balance_%d", listingID),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				i18n.T(lang, "payment.card", nil),
				fmt.Sprintf("pay_card_%d", listingID),
			),
		),
	)
}

// listingActionsKeyboard offers per-listing actions on the my-listings
// surface depending on the listing's state.
func listingActionsKeyboard(lang string, l *domain.Listing) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	switch {
	case l.IsLive():
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "mylistings.sold_button", nil), fmt.Sprintf("ml_sold_%d", l.ID)),
				tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "mylistings.delete_button", nil), fmt.Sprintf("ml_delete_%d", l.ID)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "mylistings.refresh_button", nil), fmt.Sprintf("ml_refresh_%d", l.ID)),
			),
		)
	case l.Status == domain.ListingPendingModeration:
		// Nothing is in the channel yet, but the owner can still withdraw.
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "mylistings.delete_button", nil), fmt.Sprintf("ml_delete_%d", l.ID)),
		))
	case l.Status == domain.ListingRejected:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "listing.edit_button", nil), fmt.Sprintf("edit_listing_%d", l.ID)),
		))
	default:
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
	"classifieds-bot-backend/internal/service"
)

// handleStart processes /start with an optional deep-link payload:
// user_<id> registers a referral, linktowatch_<id> counts a tracked link
// click, listing_<id> shows one listing.
func (b *Bot) handleStart(ctx context.Context, user *domain.User, msg *tgbotapi.Message) {
	payload := msg.CommandArguments()

	switch {
	case strings.HasPrefix(payload, "user_"):
		if referrerID, err := strconv.ParseInt(strings.TrimPrefix(payload, "user_"), 10, 64); err == nil {
			if err := b.referrals.Register(ctx, referrerID, user.ExternalID); err != nil {
				b.log.Error().Err(err).Int64("referrer", referrerID).Msg("Failed to register referral")
			}
			b.recordVisit(ctx, domain.VisitSourceRef, referrerID, user.ExternalID)
		}

	case strings.HasPrefix(payload, "linktowatch_"):
		if linkID, err := strconv.ParseInt(strings.TrimPrefix(payload, "linktowatch_"), 10, 64); err == nil {
			if err := b.links.IncrementClick(ctx, linkID); err != nil {
				b.log.Error().Err(err).Int64("link_id", linkID).Msg("Failed to count link click")
			}
			b.recordVisit(ctx, domain.VisitSourceLink, linkID, user.ExternalID)
		}

	case strings.HasPrefix(payload, "listing_"):
		if listingID, err := strconv.ParseInt(strings.TrimPrefix(payload, "listing_"), 10, 64); err == nil {
			b.showListingCard(ctx, user, msg.Chat.ID, listingID)
		}
	}

	if !user.AgreementAccepted {
		b.sendAgreement(user, msg.Chat.ID)
		return
	}

	welcome := i18n.T(user.Language, "start.welcome", map[string]string{"name": user.DisplayName()})
	out := tgbotapi.NewMessage(msg.Chat.ID, welcome)
	out.ReplyMarkup = mainMenuKeyboard(user.Language)
	b.send(out)
}

func (b *Bot) sendAgreement(user *domain.User, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, i18n.T(user.Language, "agreement.text", nil))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(user.Language, "agreement.accept", nil), "agree_terms"),
		),
	)
	b.send(msg)
}

func (b *Bot) handleAgree(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	if err := b.users.SetAgreementAccepted(ctx, user.ExternalID); err != nil {
		b.answerCallback(cb.ID, "")
		b.replyError(user.Language, cb.Message.Chat.ID, err)
		return
	}
	user.AgreementAccepted = true
	b.answerCallback(cb.ID, "")

	msg := tgbotapi.NewMessage(cb.Message.Chat.ID, i18n.T(user.Language, "agreement.saved", nil))
	msg.ReplyMarkup = mainMenuKeyboard(user.Language)
	b.send(msg)
}

func (b *Bot) recordVisit(ctx context.Context, kind domain.VisitSource, sourceID, visitorExternalID int64) {
	v := &domain.LinkVisit{
		SourceKind:        kind,
		SourceID:          sourceID,
		VisitorExternalID: visitorExternalID,
		CreatedAt:         time.Now().UTC(),
	}
	if err := b.links.RecordVisit(ctx, v); err != nil {
		b.log.Error().Err(err).Str("kind", string(kind)).Int64("source_id", sourceID).Msg("Failed to record visit")
	}
}

func (b *Bot) sendMainMenu(user *domain.User, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, i18n.T(user.Language, "menu.title", nil))
	msg.ReplyMarkup = mainMenuKeyboard(user.Language)
	b.send(msg)
}

func (b *Bot) sendLanguageChoice(user *domain.User, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, i18n.T(user.Language, "language.choose", nil))
	msg.ReplyMarkup = languageKeyboard()
	b.send(msg)
}

func (b *Bot) handleLanguagePick(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	lang := strings.TrimPrefix(cb.Data, "lang_")
	if err := b.users.SetLanguage(ctx, user.ExternalID, lang); err != nil {
		b.answerCallback(cb.ID, "")
		b.replyError(user.Language, cb.Message.Chat.ID, err)
		return
	}
	user.Language = lang
	b.answerCallback(cb.ID, "")

	msg := tgbotapi.NewMessage(cb.Message.Chat.ID, i18n.T(lang, "language.saved", nil))
	msg.ReplyMarkup = mainMenuKeyboard(lang)
	b.send(msg)
}

func (b *Bot) handleMenuAction(ctx context.Context, user *domain.User, chatID int64, action string) {
	switch action {
	case actionAddListing:
		if !user.AgreementAccepted {
			b.sendAgreement(user, chatID)
			return
		}
		b.startDraft(user, chatID)
	case actionMyListings:
		b.showMyListings(ctx, user, chatID)
	case actionProfile:
		b.showProfile(ctx, user, chatID)
	case actionAbout:
		text := i18n.T(user.Language, "about.text", nil)
		if b.cfg.WebAppURL != "" {
			text += "\n\n" + i18n.T(user.Language, "about.catalog", map[string]string{"url": b.cfg.WebAppURL})
		}
		b.sendText(chatID, text)
	case actionSupport:
		b.sendText(chatID, i18n.T(user.Language, "support.text", map[string]string{"manager": b.cfg.SupportManager}))
	case actionReferral:
		b.showReferral(ctx, user, chatID)
	}
}

func (b *Bot) showMyListings(ctx context.Context, user *domain.User, chatID int64) {
	lang := user.Language
	items, err := b.listings.ListByUser(ctx, user.ID)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	if len(items) == 0 {
		b.sendText(chatID, i18n.T(lang, "mylistings.empty", nil))
		return
	}

	b.sendText(chatID, i18n.T(lang, "mylistings.header", nil))
	for _, l := range items {
		text := fmt.Sprintf("%s\n%s: %s\n%s",
			l.Title,
			i18n.T(lang, "channel.price", nil), service.FormatPrice(lang, l),
			i18n.T(lang, "listing.status."+string(l.Status), nil),
		)
		msg := tgbotapi.NewMessage(chatID, text)
		if kb := listingActionsKeyboard(lang, l); kb != nil {
			msg.ReplyMarkup = kb
		}
		b.send(msg)
	}
}

func (b *Bot) showProfile(ctx context.Context, user *domain.User, chatID int64) {
	fresh, err := b.users.GetByID(ctx, user.ID)
	if err != nil {
		b.replyError(user.Language, chatID, err)
		return
	}
	active, err := b.listings.CountApprovedByUser(ctx, user.ID)
	if err != nil {
		b.replyError(user.Language, chatID, err)
		return
	}
	b.sendText(chatID, i18n.T(fresh.Language, "profile.info", map[string]string{
		"balance": fresh.Balance.StringFixed(2),
		"lang":    fresh.Language,
		"active":  strconv.Itoa(active),
	}))
}

func (b *Bot) showReferral(ctx context.Context, user *domain.User, chatID int64) {
	count, err := b.referrals.Count(ctx, user.ExternalID)
	if err != nil {
		b.replyError(user.Language, chatID, err)
		return
	}
	link := fmt.Sprintf("https://t.me/%s?start=user_%d", b.cfg.Telegram.BotUsername, user.ExternalID)
	b.sendText(chatID, i18n.T(user.Language, "referral.info", map[string]string{
		"link":  link,
		"count": strconv.Itoa(count),
	}))
}

// showListingCard renders one listing for a deep-link visitor.
func (b *Bot) showListingCard(ctx context.Context, user *domain.User, chatID, listingID int64) {
	lang := user.Language
	l, err := b.listings.GetByID(ctx, listingID)
	if err != nil || !l.IsLive() {
		b.sendText(chatID, i18n.T(lang, "errors.not_found", nil))
		return
	}
	seller, err := b.users.GetByID(ctx, l.UserID)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString(l.Title)
	sb.WriteString("\n\n")
	sb.WriteString(l.Description)
	sb.WriteString("\n\n")
	sb.WriteString(i18n.T(lang, "channel.price", nil))
	sb.WriteString(": ")
	sb.WriteString(service.FormatPrice(lang, l))
	sb.WriteString("\n")
	sb.WriteString(i18n.T(lang, "channel.location", nil))
	sb.WriteString(": ")
	sb.WriteString(l.Location)
	sb.WriteString("\n")
	sb.WriteString(i18n.T(lang, "channel.seller", nil))
	sb.WriteString(": ")
	sb.WriteString(seller.DisplayName())
	b.sendText(chatID, sb.String())
}

// handleMyListingAction routes the per-listing buttons: sold, delete and the
// paid refresh.
func (b *Bot) handleMyListingAction(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	lang := user.Language
	chatID := cb.Message.Chat.ID
	data := cb.Data

	action, idStr, ok := splitMyListingData(data)
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}
	b.answerCallback(cb.ID, "")

	switch action {
	case "sold":
		if err := b.lifecycle.CloseByOwner(ctx, id, user.ExternalID, domain.ListingSold); err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		b.sendText(chatID, i18n.T(lang, "listing.sold_done", nil))

	case "delete":
		if err := b.lifecycle.CloseByOwner(ctx, id, user.ExternalID, domain.ListingDeleted); err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		b.sendText(chatID, i18n.T(lang, "listing.deleted_done", nil))

	case "refresh":
		b.offerRefresh(ctx, user, chatID, id)

	case "refreshbal":
		b.payRefreshFromBalance(ctx, user, chatID, id)

	case "refreshcard":
		b.payRefreshByCard(ctx, user, chatID, id)
	}
}

func splitMyListingData(data string) (action, id string, ok bool) {
	rest := strings.TrimPrefix(data, "ml_")
	if rest == data {
		return "", "", false
	}
	action, id, ok = strings.Cut(rest, "_")
	return action, id, ok
}

func (b *Bot) offerRefresh(ctx context.Context, user *domain.User, chatID, listingID int64) {
	lang := user.Language
	l, err := b.listings.GetByID(ctx, listingID)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	if l.UserID != user.ID {
		b.sendText(chatID, i18n.T(lang, "errors.permission_denied", nil))
		return
	}
	if err := b.lifecycle.CanRefresh(l); err != nil {
		b.replyError(lang, chatID, err)
		return
	}

	fresh, err := b.users.GetByID(ctx, user.ID)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	price := domain.TariffPrice(domain.TariffRefresh)
	msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "payment.choose", map[string]string{"total": price.StringFixed(2)}))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				i18n.T(lang, "payment.balance", map[string]string{"balance": fresh.Balance.StringFixed(2)}),
				fmt.Sprintf("ml_refreshbal_%d", listingID),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				i18n.T(lang, "payment.card", nil),
				fmt.Sprintf("ml_refreshcard_%d", listingID),
			),
		),
	)
	b.send(msg)
}

func (b *Bot) payRefreshFromBalance(ctx context.Context, user *domain.User, chatID, listingID int64) {
	lang := user.Language
	l, err := b.listings.GetByID(ctx, listingID)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	if l.UserID != user.ID {
		b.sendText(chatID, i18n.T(lang, "errors.permission_denied", nil))
		return
	}
	if err := b.lifecycle.CanRefresh(l); err != nil {
		b.replyError(lang, chatID, err)
		return
	}

	if err := b.payments.PayRefreshFromBalance(ctx, listingID); err != nil {
		b.replyError(lang, chatID, err)
		return
	}
}

func (b *Bot) payRefreshByCard(ctx context.Context, user *domain.User, chatID, listingID int64) {
	lang := user.Language
	l, err := b.listings.GetByID(ctx, listingID)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	if l.UserID != user.ID {
		b.sendText(chatID, i18n.T(lang, "errors.permission_denied", nil))
		return
	}
	if err := b.lifecycle.CanRefresh(l); err != nil {
		b.replyError(lang, chatID, err)
		return
	}

	pageURL, err := b.payments.CreateInvoice(ctx, domain.PurposeRefresh, l, domain.TariffPrice(domain.TariffRefresh))
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "payment.invoice_created", nil))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(i18n.T(lang, "payment.pay_button", nil), pageURL),
		),
	)
	b.send(msg)
}

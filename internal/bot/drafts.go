package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
)

// draftStore keeps the per-user conversational drafts in memory. A janitor
// evicts drafts idle past the TTL so abandoned flows do not pile up.
type draftStore struct {
	mu     sync.Mutex
	byUser map[int64]*domain.Draft
	ttl    time.Duration
}

func newDraftStore(ttl time.Duration) *draftStore {
	return &draftStore{
		byUser: make(map[int64]*domain.Draft),
		ttl:    ttl,
	}
}

func (s *draftStore) get(externalID int64) *domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byUser[externalID]
}

func (s *draftStore) put(d *domain.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[d.ExternalID] = d
}

func (s *draftStore) delete(externalID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, externalID)
}

func (s *draftStore) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, d := range s.byUser {
		if now.Sub(d.UpdatedAt) > s.ttl {
			delete(s.byUser, id)
			evicted++
		}
	}
	return evicted
}

func (s *draftStore) startJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				s.evictIdle(now)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (b *Bot) startDraft(user *domain.User, chatID int64) {
	b.drafts.put(domain.NewDraft(user.ExternalID))
	b.sendText(chatID, i18n.T(user.Language, "draft.title_prompt", nil))
}

// handleDraftText feeds a text message into the draft flow. Returns false
// when no draft is active, so the caller can fall through to the menu.
func (b *Bot) handleDraftText(ctx context.Context, user *domain.User, msg *tgbotapi.Message) bool {
	d := b.drafts.get(user.ExternalID)
	if d == nil {
		return false
	}
	d.Touch()

	lang := user.Language
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch d.Step {
	case domain.StepTitle:
		if err := domain.ValidateTitle(text); err != nil {
			b.sendText(chatID, i18n.T(lang, "draft.title_invalid", nil))
			return true
		}
		d.Title = text
		b.advanceDraft(ctx, user, chatID, d, domain.StepDescription)

	case domain.StepDescription:
		if err := domain.ValidateDescription(text); err != nil {
			b.sendText(chatID, i18n.T(lang, "draft.description_invalid", nil))
			return true
		}
		d.Description = text
		b.advanceDraft(ctx, user, chatID, d, domain.StepPhotos)

	case domain.StepPhotos:
		if text == i18n.T(domain.LangUK, "draft.photos_continue", nil) ||
			text == i18n.T(domain.LangRU, "draft.photos_continue", nil) {
			b.advanceDraft(ctx, user, chatID, d, domain.StepCategory)
			return true
		}
		b.promptStep(ctx, user, chatID, d)

	case domain.StepCategory:
		b.sendText(chatID, i18n.T(lang, "draft.category_invalid", nil))

	case domain.StepPrice:
		if text == i18n.T(domain.LangUK, "draft.price_negotiable", nil) ||
			text == i18n.T(domain.LangRU, "draft.price_negotiable", nil) {
			d.Price = domain.NegotiablePrice()
			d.PriceSet = true
			b.advanceDraft(ctx, user, chatID, d, domain.StepLocation)
			return true
		}
		price, err := domain.ParsePrice(text)
		if err != nil {
			b.sendText(chatID, i18n.T(lang, "draft.price_invalid", nil))
			return true
		}
		d.Price = price
		d.PriceSet = true
		b.advanceDraft(ctx, user, chatID, d, domain.StepLocation)

	case domain.StepLocation:
		if err := domain.ValidateLocation(text); err != nil {
			b.sendText(chatID, i18n.T(lang, "draft.location_invalid", nil))
			return true
		}
		d.Location = domain.Capitalize(text)
		b.advanceDraft(ctx, user, chatID, d, domain.StepPreview)

	default:
		// Preview, tariff and payment steps are driven by buttons.
		b.promptStep(ctx, user, chatID, d)
	}
	return true
}

// advanceDraft moves to the next step, or back to the preview when the user
// was editing a single field.
func (b *Bot) advanceDraft(ctx context.Context, user *domain.User, chatID int64, d *domain.Draft, next domain.DraftStep) {
	if d.ReturnToPreview {
		d.ReturnToPreview = false
		d.Step = domain.StepPreview
	} else {
		d.Step = next
	}
	b.promptStep(ctx, user, chatID, d)
}

func (b *Bot) promptStep(ctx context.Context, user *domain.User, chatID int64, d *domain.Draft) {
	lang := user.Language
	switch d.Step {
	case domain.StepTitle:
		b.sendText(chatID, i18n.T(lang, "draft.title_prompt", nil))
	case domain.StepDescription:
		b.sendText(chatID, i18n.T(lang, "draft.description_prompt", nil))
	case domain.StepPhotos:
		msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "draft.photos_prompt", nil))
		msg.ReplyMarkup = photosKeyboard(lang)
		b.send(msg)
	case domain.StepCategory:
		cats, err := b.categories.ListActiveRoots(ctx)
		if err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "draft.category_prompt", nil))
		msg.ReplyMarkup = categoryKeyboard(lang, cats)
		b.send(msg)
	case domain.StepPrice:
		msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "draft.price_prompt", nil))
		msg.ReplyMarkup = priceKeyboard(lang)
		b.send(msg)
	case domain.StepLocation:
		b.sendText(chatID, i18n.T(lang, "draft.location_prompt", nil))
	case domain.StepPreview:
		b.showPreview(ctx, user, chatID, d)
	}
}

func (b *Bot) showPreview(ctx context.Context, user *domain.User, chatID int64, d *domain.Draft) {
	lang := user.Language

	var sb strings.Builder
	sb.WriteString(i18n.T(lang, "draft.preview_header", nil))
	sb.WriteString("\n\n")
	sb.WriteString(d.Title)
	sb.WriteString("\n\n")
	sb.WriteString(d.Description)
	sb.WriteString("\n\n")

	sb.WriteString(i18n.T(lang, "channel.price", nil))
	sb.WriteString(": ")
	sb.WriteString(formatDraftPrice(lang, d.Price))
	sb.WriteString("\n")

	if cat, err := b.categories.GetByID(ctx, d.CategoryID); err == nil {
		sb.WriteString(i18n.T(lang, "channel.category", nil))
		sb.WriteString(": ")
		sb.WriteString(cat.Icon + " " + i18n.T(lang, "category."+cat.Name, nil))
		sb.WriteString("\n")
	}

	sb.WriteString(i18n.T(lang, "channel.location", nil))
	sb.WriteString(": ")
	sb.WriteString(d.Location)

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = previewKeyboard(lang)
	b.send(msg)
}

func formatDraftPrice(lang string, p domain.Price) string {
	if p.Kind == domain.PriceNegotiable {
		return i18n.T(lang, "price.negotiable", nil)
	}
	return p.Display() + " " + p.Currency
}

// Media collection.

func (b *Bot) handleDraftMedia(user *domain.User, msg *tgbotapi.Message) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || d.Step != domain.StepPhotos {
		return
	}

	var item domain.MediaItem
	switch {
	case len(msg.Photo) > 0:
		// The last photo size is the largest rendition.
		item = domain.MediaItem{Kind: domain.MediaPhoto, FileID: msg.Photo[len(msg.Photo)-1].FileID}
	case msg.Video != nil:
		item = domain.MediaItem{Kind: domain.MediaVideo, FileID: msg.Video.FileID}
	default:
		return
	}

	chatID := msg.Chat.ID
	if msg.MediaGroupID != "" {
		// The flush timer fires on its own goroutine; hop back onto the
		// owner's worker so draft access stays single-threaded.
		b.albums.add(user.ExternalID, msg.MediaGroupID, item, func(items []domain.MediaItem) {
			b.enqueue(user.ExternalID, func() { b.addDraftMedia(user, chatID, items) })
		})
		return
	}
	b.addDraftMedia(user, chatID, []domain.MediaItem{item})
}

// addDraftMedia appends a batch of media to the draft: one acknowledgement
// per batch, at most one over-limit notice.
func (b *Bot) addDraftMedia(user *domain.User, chatID int64, items []domain.MediaItem) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || d.Step != domain.StepPhotos {
		return
	}
	d.Touch()

	overflow := false
	for _, item := range items {
		if len(d.Media) >= domain.MaxDraftMedia {
			overflow = true
			break
		}
		d.Media = append(d.Media, item)
	}

	lang := user.Language
	b.sendText(chatID, i18n.T(lang, "draft.photos_ack", map[string]string{"count": strconv.Itoa(len(d.Media))}))
	if overflow {
		b.sendText(chatID, i18n.T(lang, "draft.photos_limit", nil))
	}
}

// Callback handlers.

func (b *Bot) handleCategoryPick(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || d.Step != domain.StepCategory {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()

	id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "cat_"), 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}
	cat, err := b.categories.GetByID(ctx, id)
	if err != nil || !cat.Selectable() {
		b.answerCallback(cb.ID, i18n.T(user.Language, "draft.category_invalid", nil))
		return
	}

	d.CategoryID = id
	b.answerCallback(cb.ID, "")
	b.advanceDraft(ctx, user, cb.Message.Chat.ID, d, domain.StepPrice)
}

func (b *Bot) handlePhotosDone(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || d.Step != domain.StepPhotos {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()
	b.answerCallback(cb.ID, "")
	b.advanceDraft(ctx, user, cb.Message.Chat.ID, d, domain.StepCategory)
}

func (b *Bot) handleNegotiablePick(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || d.Step != domain.StepPrice {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()
	d.Price = domain.NegotiablePrice()
	d.PriceSet = true
	b.answerCallback(cb.ID, "")
	b.advanceDraft(ctx, user, cb.Message.Chat.ID, d, domain.StepLocation)
}

// handleDraftConfirm persists the listing and opens the tariff step. A
// re-confirm of an already stored draft reuses the row.
func (b *Bot) handleDraftConfirm(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || !d.Complete() {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()
	lang := user.Language
	chatID := cb.Message.Chat.ID

	if d.PendingListingID == 0 {
		l := &domain.Listing{
			UserID:           user.ID,
			Title:            domain.Capitalize(d.Title),
			Description:      domain.Capitalize(d.Description),
			Price:            d.Price.Numeric(),
			PriceDisplay:     d.Price.Display(),
			Currency:         domain.DefaultCurrency,
			CategoryID:       d.CategoryID,
			Location:         d.Location,
			Region:           d.Region,
			Media:            d.Media,
			Status:           domain.ListingPendingModeration,
			ModerationStatus: domain.ModerationPending,
			Tariffs:          d.Tariffs,
			PaymentStatus:    domain.PaymentPending,
		}
		id, err := b.listings.Create(ctx, l)
		if err != nil {
			b.answerCallback(cb.ID, "")
			b.replyError(lang, chatID, err)
			return
		}
		d.PendingListingID = id
	}

	d.Step = domain.StepTariff
	b.answerCallback(cb.ID, "")
	b.sendText(chatID, i18n.T(lang, "draft.saved", nil))
	b.sendTariffStep(lang, chatID, d)
}

func (b *Bot) sendTariffStep(lang string, chatID int64, d *domain.Draft) {
	total := domain.TariffTotal(d.Tariffs)
	msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "tariffs.prompt", map[string]string{"total": total.StringFixed(2)}))
	msg.ReplyMarkup = tariffKeyboard(lang, d.Tariffs)
	b.send(msg)
}

func (b *Bot) handleTariffToggle(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || d.Step != domain.StepTariff {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()
	lang := user.Language

	t := domain.Tariff(strings.TrimPrefix(cb.Data, "tariff_toggle_"))
	next, err := domain.ToggleTariff(d.Tariffs, t)
	if err != nil {
		b.answerCallback(cb.ID, i18n.T(lang, apperr.MsgKeyOf(err), nil))
		return
	}
	d.Tariffs = next

	total := domain.TariffTotal(d.Tariffs)
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID,
		i18n.T(lang, "tariffs.prompt", map[string]string{"total": total.StringFixed(2)}),
		tariffKeyboard(lang, d.Tariffs),
	)
	b.send(edit)
	b.answerCallback(cb.ID, "")
}

func (b *Bot) handleTariffConfirm(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil || d.Step != domain.StepTariff || d.PendingListingID == 0 {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()
	lang := user.Language
	chatID := cb.Message.Chat.ID

	if err := b.listings.SetTariffs(ctx, d.PendingListingID, d.Tariffs); err != nil {
		b.answerCallback(cb.ID, "")
		b.replyError(lang, chatID, err)
		return
	}
	b.answerCallback(cb.ID, "")

	total := domain.TariffTotal(d.Tariffs)
	if total.IsZero() {
		// The free package needs no checkout.
		if err := b.payments.PayPublicationFromBalance(ctx, d.PendingListingID); err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		b.drafts.delete(user.ExternalID)
		b.sendText(chatID, i18n.T(lang, "payment.sent_to_moderation", nil))
		return
	}

	d.Step = domain.StepPayment
	fresh, err := b.users.GetByID(ctx, user.ID)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "payment.choose", map[string]string{"total": total.StringFixed(2)}))
	msg.ReplyMarkup = paymentKeyboard(lang, d.PendingListingID, fresh.Balance.StringFixed(2))
	b.send(msg)
}

func (b *Bot) handlePayBalance(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "pay_balance_"), 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}
	lang := user.Language
	chatID := cb.Message.Chat.ID
	b.answerCallback(cb.ID, "")

	if err := b.payments.PayPublicationFromBalance(ctx, id); err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	b.drafts.delete(user.ExternalID)
	b.sendText(chatID, i18n.T(lang, "payment.sent_to_moderation", nil))
}

func (b *Bot) handlePayCard(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "pay_card_"), 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}
	lang := user.Language
	chatID := cb.Message.Chat.ID
	b.answerCallback(cb.ID, "")

	l, err := b.listings.GetByID(ctx, id)
	if err != nil {
		b.replyError(lang, chatID, err)
		return
	}
	pageURL, err := b.payments.CreateInvoice(ctx, domain.PurposePublication, l, domain.TariffTotal(l.Tariffs))
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
	b.drafts.delete(user.ExternalID)
}

// handleEditListing reopens a rejected listing as a fresh draft seeded from
// the stored fields; the resubmission walks preview, tariffs and payment
// again and goes back through moderation.
func (b *Bot) handleEditListing(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "edit_listing_"), 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}
	lang := user.Language
	chatID := cb.Message.Chat.ID

	l, err := b.listings.GetByID(ctx, id)
	if err != nil {
		b.answerCallback(cb.ID, "")
		b.replyError(lang, chatID, err)
		return
	}
	if l.UserID != user.ID {
		b.answerCallback(cb.ID, i18n.T(lang, "errors.permission_denied", nil))
		return
	}

	d := domain.NewDraft(user.ExternalID)
	d.Title = l.Title
	d.Description = l.Description
	d.Media = l.Media
	d.CategoryID = l.CategoryID
	d.Price = domain.PriceFromStored(l.PriceDisplay, l.Price, l.Currency)
	d.PriceSet = true
	d.Location = l.Location
	d.Region = l.Region
	d.Step = domain.StepPreview
	b.drafts.put(d)

	b.answerCallback(cb.ID, "")
	b.showPreview(ctx, user, chatID, d)
}

func (b *Bot) handleDraftEditMenu(user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()
	b.answerCallback(cb.ID, "")

	msg := tgbotapi.NewMessage(cb.Message.Chat.ID, i18n.T(user.Language, "draft.edit_choose", nil))
	msg.ReplyMarkup = editFieldsKeyboard(user.Language)
	b.send(msg)
}

func (b *Bot) handleDraftEditField(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()

	var step domain.DraftStep
	switch strings.TrimPrefix(cb.Data, "draft_edit_") {
	case "title":
		step = domain.StepTitle
	case "description":
		step = domain.StepDescription
	case "photos":
		step = domain.StepPhotos
		d.Media = nil
	case "category":
		step = domain.StepCategory
	case "price":
		step = domain.StepPrice
	case "location":
		step = domain.StepLocation
	default:
		b.answerCallback(cb.ID, "")
		return
	}

	d.Step = step
	d.ReturnToPreview = true
	b.answerCallback(cb.ID, "")
	b.promptStep(ctx, user, cb.Message.Chat.ID, d)
}

func (b *Bot) handleDraftEditBack(ctx context.Context, user *domain.User, cb *tgbotapi.CallbackQuery) {
	d := b.drafts.get(user.ExternalID)
	if d == nil {
		b.answerCallback(cb.ID, "")
		return
	}
	d.Touch()
	d.Step = domain.StepPreview
	d.ReturnToPreview = false
	b.answerCallback(cb.ID, "")
	b.showPreview(ctx, user, cb.Message.Chat.ID, d)
}

func (b *Bot) handleDraftCancel(user *domain.User, cb *tgbotapi.CallbackQuery) {
	b.drafts.delete(user.ExternalID)
	b.answerCallback(cb.ID, "")

	msg := tgbotapi.NewMessage(cb.Message.Chat.ID, i18n.T(user.Language, "draft.cancelled", nil))
	msg.ReplyMarkup = mainMenuKeyboard(user.Language)
	b.send(msg)
}

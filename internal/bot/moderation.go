package bot

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
	"classifieds-bot-backend/internal/service"
)

const rejectReasonMinLen = 5

// The moderation group is a shared surface; its texts use the fallback
// language.
const moderationLang = domain.LangUK

// ModerationDispatcher posts listing cards with approve/reject controls into
// the moderation group. It is deliberately independent of the Bot so payment
// services can dispatch without a reference cycle.
type ModerationDispatcher struct {
	tg          service.TelegramAPI
	groupID     int64
	listings    domain.ListingRepository
	users       domain.UserRepository
	categories  domain.CategoryRepository
	placeholder service.Placeholder
	log         zerolog.Logger
}

func NewModerationDispatcher(tg service.TelegramAPI, groupID int64, listings domain.ListingRepository,
	users domain.UserRepository, categories domain.CategoryRepository) *ModerationDispatcher {
	return &ModerationDispatcher{
		tg:         tg,
		groupID:    groupID,
		listings:   listings,
		users:      users,
		categories: categories,
		log:        logger.With("moderation"),
	}
}

// Dispatch sends the moderation card. Listings with an album get the media
// first and the decision controls on a follow-up message, because albums
// cannot carry inline buttons.
func (d *ModerationDispatcher) Dispatch(ctx context.Context, listingID int64, source domain.ListingSource) error {
	l, err := d.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	owner, err := d.users.GetByID(ctx, l.UserID)
	if err != nil {
		return err
	}

	card := d.composeCard(ctx, l, owner, source)
	markup := decisionKeyboard(l.ID, source)

	switch {
	case len(l.Media) == 0:
		// The card must look like the future channel post, so listings
		// without media still carry the stock image.
		photo := tgbotapi.NewPhoto(d.groupID, d.placeholder.File())
		photo.Caption = card
		photo.ReplyMarkup = markup
		msg, err := d.tg.Send(photo)
		if err != nil {
			return err
		}
		d.placeholder.Remember(msg)

	case len(l.Media) == 1:
		m := l.Media[0]
		if m.Kind == domain.MediaVideo {
			video := tgbotapi.NewVideo(d.groupID, tgbotapi.FileID(m.FileID))
			video.Caption = card
			video.ReplyMarkup = markup
			if _, err := d.tg.Send(video); err != nil {
				return err
			}
		} else {
			photo := tgbotapi.NewPhoto(d.groupID, tgbotapi.FileID(m.FileID))
			photo.Caption = card
			photo.ReplyMarkup = markup
			if _, err := d.tg.Send(photo); err != nil {
				return err
			}
		}

	default:
		group := make([]interface{}, 0, len(l.Media))
		for _, m := range l.Media {
			if m.Kind == domain.MediaVideo {
				group = append(group, tgbotapi.NewInputMediaVideo(tgbotapi.FileID(m.FileID)))
			} else {
				group = append(group, tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(m.FileID)))
			}
		}
		if _, err := d.tg.SendMediaGroup(tgbotapi.NewMediaGroup(d.groupID, group)); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(d.groupID, card)
		msg.ReplyMarkup = markup
		if _, err := d.tg.Send(msg); err != nil {
			return err
		}
	}

	d.log.Info().Int64("listing_id", listingID).Str("source", string(source)).Msg("Moderation card dispatched")
	return nil
}

func (d *ModerationDispatcher) composeCard(ctx context.Context, l *domain.Listing, owner *domain.User, source domain.ListingSource) string {
	var sb strings.Builder
	sb.WriteString(i18n.T(moderationLang, "moderation.card_header", map[string]string{
		"id":     strconv.FormatInt(l.ID, 10),
		"source": string(source),
	}))
	sb.WriteString("\n\n")
	sb.WriteString(l.Title)
	sb.WriteString("\n\n")
	sb.WriteString(l.Description)
	sb.WriteString("\n\n")

	sb.WriteString(i18n.T(moderationLang, "channel.price", nil))
	sb.WriteString(": ")
	sb.WriteString(service.FormatPrice(moderationLang, l))
	sb.WriteString("\n")

	if cat, err := d.categories.GetByID(ctx, l.CategoryID); err == nil {
		sb.WriteString(i18n.T(moderationLang, "channel.category", nil))
		sb.WriteString(": ")
		sb.WriteString(cat.Icon + " " + i18n.T(moderationLang, "category."+cat.Name, nil))
		sb.WriteString("\n")
	}

	sb.WriteString(i18n.T(moderationLang, "channel.location", nil))
	sb.WriteString(": ")
	sb.WriteString(l.Location)
	sb.WriteString("\n")

	sb.WriteString(i18n.T(moderationLang, "channel.seller", nil))
	sb.WriteString(": ")
	sb.WriteString(owner.DisplayName())
	return sb.String()
}

func decisionKeyboard(listingID int64, source domain.ListingSource) tgbotapi.InlineKeyboardMarkup {
	suffix := string(source) + "_" + strconv.FormatInt(listingID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(moderationLang, "moderation.approve", nil), "mod_approve_"+suffix),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(moderationLang, "moderation.reject", nil), "mod_reject_"+suffix),
		),
	)
}

// rejectPrompt tracks a moderator who clicked reject and owes a reason. The
// card coordinates are kept so its controls can be stripped after the
// decision lands.
type rejectPrompt struct {
	listingID   int64
	cardChatID  int64
	cardMsgID   int
	moderatorID int64
}

// handleModerationCallback routes mod_approve_* and mod_reject_* presses.
// Only admins may decide.
func (b *Bot) handleModerationCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if !b.isAdmin(ctx, cb.From.ID) {
		b.answerCallback(cb.ID, i18n.T(moderationLang, "admin.not_admin", nil))
		return
	}

	var decision string
	data := cb.Data
	switch {
	case strings.HasPrefix(data, "mod_approve_"):
		decision = "approve"
		data = strings.TrimPrefix(data, "mod_approve_")
	case strings.HasPrefix(data, "mod_reject_"):
		decision = "reject"
		data = strings.TrimPrefix(data, "mod_reject_")
	default:
		b.answerCallback(cb.ID, "")
		return
	}

	// Payload is <source>_<listingID>.
	_, idStr, ok := strings.Cut(data, "_")
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}
	listingID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}

	moderator, err := b.users.GetOrCreate(ctx, cb.From.ID, cb.From.UserName, cb.From.FirstName, cb.From.LastName)
	if err != nil {
		b.log.Error().Err(err).Int64("external_id", cb.From.ID).Msg("Failed to load moderator")
		b.answerCallback(cb.ID, "")
		return
	}

	switch decision {
	case "approve":
		if err := b.lifecycle.Approve(ctx, listingID, moderator.ID); err != nil {
			b.answerCallback(cb.ID, i18n.T(moderationLang, apperr.MsgKeyOf(err), nil))
			return
		}
		b.answerCallback(cb.ID, "")
		b.stripCardMarkup(cb.Message.Chat.ID, cb.Message.MessageID)
		b.sendText(cb.Message.Chat.ID, i18n.T(moderationLang, "moderation.approved_note",
			map[string]string{"id": strconv.FormatInt(listingID, 10)}))

	case "reject":
		b.rejectsMu.Lock()
		b.rejects[cb.From.ID] = &rejectPrompt{
			listingID:   listingID,
			cardChatID:  cb.Message.Chat.ID,
			cardMsgID:   cb.Message.MessageID,
			moderatorID: moderator.ID,
		}
		b.rejectsMu.Unlock()

		b.answerCallback(cb.ID, "")
		b.sendText(cb.Message.Chat.ID, i18n.T(moderationLang, "moderation.reject_reason_prompt",
			map[string]string{"id": strconv.FormatInt(listingID, 10)}))
	}
}

// handleModerationGroupMessage consumes the next message of a moderator who
// owes a rejection reason; everything else in the group is ignored.
func (b *Bot) handleModerationGroupMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}

	b.rejectsMu.Lock()
	prompt, ok := b.rejects[msg.From.ID]
	b.rejectsMu.Unlock()
	if !ok {
		return
	}

	reason := strings.TrimSpace(msg.Text)
	if utf8.RuneCountInString(reason) < rejectReasonMinLen {
		b.sendText(msg.Chat.ID, i18n.T(moderationLang, "moderation.reason_too_short", nil))
		return
	}

	if err := b.lifecycle.Reject(ctx, prompt.listingID, prompt.moderatorID, reason); err != nil {
		b.sendText(msg.Chat.ID, i18n.T(moderationLang, apperr.MsgKeyOf(err), nil))
		if apperr.IsKind(err, apperr.KindPreconditionFailed) {
			b.clearReject(msg.From.ID)
		}
		return
	}
	b.clearReject(msg.From.ID)

	b.stripCardMarkup(prompt.cardChatID, prompt.cardMsgID)
	b.sendText(msg.Chat.ID, i18n.T(moderationLang, "moderation.rejected_note",
		map[string]string{"id": strconv.FormatInt(prompt.listingID, 10)}))
}

func (b *Bot) clearReject(moderatorExternalID int64) {
	b.rejectsMu.Lock()
	delete(b.rejects, moderatorExternalID)
	b.rejectsMu.Unlock()
}

// stripCardMarkup removes the decision buttons from a settled card.
func (b *Bot) stripCardMarkup(chatID int64, messageID int) {
	empty := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow())
	empty.InlineKeyboard = [][]tgbotapi.InlineKeyboardButton{}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, empty)
	if _, err := b.api.Request(edit); err != nil {
		b.log.Debug().Err(err).Int("message_id", messageID).Msg("Failed to strip card markup")
	}
}

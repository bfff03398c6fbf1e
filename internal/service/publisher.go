package service

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
)

// probeSpan bounds the neighbour search when deleting legacy media-group
// rows whose full id set was never stored.
const (
	probeSpan       = 10
	probeMissBudget = 2
)

// Publisher sends listings into the broadcast channel and removes them
// later. Callers must persist the returned message ids before retrying; the
// publisher itself does not deduplicate.
type Publisher struct {
	tg              TelegramAPI
	listings        domain.ListingRepository
	categories      domain.CategoryRepository
	channelByRegion map[string]int64
	channelUsername string
	botUsername     string
	placeholder     Placeholder
	log             zerolog.Logger
}

func NewPublisher(tg TelegramAPI, listings domain.ListingRepository, categories domain.CategoryRepository,
	channelByRegion map[string]int64, channelUsername, botUsername string) *Publisher {
	return &Publisher{
		tg:              tg,
		listings:        listings,
		categories:      categories,
		channelByRegion: channelByRegion,
		channelUsername: channelUsername,
		botUsername:     botUsername,
		log:             logger.With("publisher"),
	}
}

// ChannelFor resolves the broadcast channel for a listing's region.
func (p *Publisher) ChannelFor(l *domain.Listing) (int64, error) {
	if id, ok := p.channelByRegion[l.Region]; ok && id != 0 {
		return id, nil
	}
	if id, ok := p.channelByRegion[domain.RegionHamburg]; ok && id != 0 {
		return id, nil
	}
	return 0, apperr.New(apperr.KindInvariantViolation, "errors.internal")
}

// Publish sends the listing post and returns the ordered channel message
// ids. Pinning and the highlight marker run as post-publication effects.
func (p *Publisher) Publish(ctx context.Context, l *domain.Listing, seller *domain.User) ([]int, error) {
	channelID, err := p.ChannelFor(l)
	if err != nil {
		return nil, err
	}

	caption := p.composePost(ctx, l, seller)
	button := p.postButton(seller.Language)

	var ids []int
	switch {
	case len(l.Media) == 0:
		photo := tgbotapi.NewPhoto(channelID, p.placeholder.File())
		photo.Caption = caption
		photo.ReplyMarkup = button
		msg, err := p.tg.Send(photo)
		if err != nil {
			return nil, fmt.Errorf("failed to send placeholder post: %w", err)
		}
		p.placeholder.Remember(msg)
		ids = []int{msg.MessageID}

	case len(l.Media) == 1:
		msg, err := p.sendSingle(channelID, l.Media[0], caption, button)
		if err != nil {
			return nil, fmt.Errorf("failed to send post: %w", err)
		}
		ids = []int{msg.MessageID}

	default:
		// Albums cannot carry inline buttons; the caption rides on the
		// first item.
		group := make([]interface{}, 0, len(l.Media))
		for i, m := range l.Media {
			group = append(group, mediaGroupItem(m, i == 0, caption))
		}
		msgs, err := p.tg.SendMediaGroup(tgbotapi.NewMediaGroup(channelID, group))
		if err != nil {
			return nil, fmt.Errorf("failed to send album: %w", err)
		}
		ids = make([]int, len(msgs))
		for i, m := range msgs {
			ids[i] = m.MessageID
		}
	}

	p.applyEffects(channelID, l, ids)
	return ids, nil
}

func (p *Publisher) sendSingle(channelID int64, m domain.MediaItem, caption string, button *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	if m.Kind == domain.MediaVideo {
		video := tgbotapi.NewVideo(channelID, tgbotapi.FileID(m.FileID))
		video.Caption = caption
		video.ReplyMarkup = button
		return p.tg.Send(video)
	}
	photo := tgbotapi.NewPhoto(channelID, tgbotapi.FileID(m.FileID))
	photo.Caption = caption
	photo.ReplyMarkup = button
	return p.tg.Send(photo)
}

func mediaGroupItem(m domain.MediaItem, first bool, caption string) interface{} {
	if m.Kind == domain.MediaVideo {
		v := tgbotapi.NewInputMediaVideo(tgbotapi.FileID(m.FileID))
		if first {
			v.Caption = caption
		}
		return v
	}
	ph := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(m.FileID))
	if first {
		ph.Caption = caption
	}
	return ph
}

func (p *Publisher) applyEffects(channelID int64, l *domain.Listing, ids []int) {
	if len(ids) == 0 {
		return
	}

	if domain.HasTariff(l.Tariffs, domain.TariffPinned12h) || domain.HasTariff(l.Tariffs, domain.TariffPinned24h) {
		pin := tgbotapi.PinChatMessageConfig{ChatID: channelID, MessageID: ids[0], DisableNotification: true}
		if _, err := p.tg.Request(pin); err != nil {
			p.log.Error().Err(err).Int64("listing_id", l.ID).Msg("Failed to pin post")
		}
	}

	if domain.HasTariff(l.Tariffs, domain.TariffHighlighted) {
		marker := tgbotapi.NewMessage(channelID, i18n.T(domain.LangUK, "channel.top_marker", nil))
		if _, err := p.tg.Send(marker); err != nil {
			p.log.Error().Err(err).Int64("listing_id", l.ID).Msg("Failed to send top marker")
		}
	}
}

func (p *Publisher) composePost(ctx context.Context, l *domain.Listing, seller *domain.User) string {
	lang := seller.Language

	title := l.Title
	if domain.HasTariff(l.Tariffs, domain.TariffHighlighted) {
		title = "🔝 " + title
	}
	if domain.HasTariff(l.Tariffs, domain.TariffStory) {
		title = "📖 " + title
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(l.Description)
	b.WriteString("\n\n")

	b.WriteString(i18n.T(lang, "channel.price", nil))
	b.WriteString(": ")
	b.WriteString(FormatPrice(lang, l))
	b.WriteString("\n")

	catName, catHashtag := p.categoryLabel(ctx, lang, l.CategoryID)
	b.WriteString(i18n.T(lang, "channel.category", nil))
	b.WriteString(": ")
	b.WriteString(catName)
	b.WriteString("\n")

	b.WriteString(i18n.T(lang, "channel.location", nil))
	b.WriteString(": ")
	b.WriteString(l.Location)
	b.WriteString("\n")

	b.WriteString(i18n.T(lang, "channel.seller", nil))
	b.WriteString(": ")
	b.WriteString(sellerLink(seller))
	b.WriteString("\n")

	if catHashtag != "" {
		b.WriteString("\n#" + catHashtag + " #" + strings.ToLower(l.Location) + "\n")
	}

	botLink := fmt.Sprintf("https://t.me/%s", p.botUsername)
	b.WriteString("\n")
	b.WriteString(i18n.T(lang, "channel.cta", map[string]string{"link": botLink}))

	return b.String()
}

func (p *Publisher) categoryLabel(ctx context.Context, lang string, categoryID int64) (name, hashtag string) {
	cat, err := p.categories.GetByID(ctx, categoryID)
	if err != nil {
		p.log.Warn().Err(err).Int64("category_id", categoryID).Msg("Category lookup failed")
		return "", ""
	}
	return cat.Icon + " " + i18n.T(lang, "category."+cat.Name, nil), cat.Name
}

func sellerLink(u *domain.User) string {
	if u.Handle != "" {
		return "@" + u.Handle
	}
	return fmt.Sprintf("tg://user?id=%d", u.ExternalID)
}

func (p *Publisher) postButton(lang string) *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(
				i18n.T(lang, "channel.post_button", nil),
				fmt.Sprintf("https://t.me/%s", p.botUsername),
			),
		),
	)
	return &markup
}

// PostURL returns a public link to the primary channel message, or a bot
// deep link when the channel has no public username.
func (p *Publisher) PostURL(l *domain.Listing) string {
	if p.channelUsername != "" && len(l.ChannelMessageIDs) > 0 {
		return fmt.Sprintf("https://t.me/%s/%d", p.channelUsername, l.ChannelMessageIDs[0])
	}
	return fmt.Sprintf("https://t.me/%s?start=listing_%d", p.botUsername, l.ID)
}

// Delete removes the listing's channel artifacts and clears the stored ids.
// Not-found errors are non-fatal; a second Delete observes an empty id list
// and is a no-op.
func (p *Publisher) Delete(ctx context.Context, l *domain.Listing) error {
	if len(l.ChannelMessageIDs) == 0 {
		return nil
	}

	channelID, err := p.ChannelFor(l)
	if err != nil {
		return err
	}

	for _, id := range l.ChannelMessageIDs {
		p.deleteMessage(channelID, id)
	}

	// Legacy rows stored one id of a possibly larger media group; probe the
	// neighbours until two consecutive misses per direction.
	if l.LegacyScalarIDs {
		base := l.ChannelMessageIDs[0]
		for _, dir := range []int{1, -1} {
			misses := 0
			for off := 1; off <= probeSpan && misses < probeMissBudget; off++ {
				if p.deleteMessage(channelID, base+dir*off) {
					misses = 0
				} else {
					misses++
				}
			}
		}
	}

	if err := p.listings.ClearChannelMessages(ctx, l.ID); err != nil {
		return err
	}
	l.ChannelMessageIDs = nil
	l.LegacyScalarIDs = false
	return nil
}

func (p *Publisher) deleteMessage(channelID int64, messageID int) bool {
	_, err := p.tg.Request(tgbotapi.NewDeleteMessage(channelID, messageID))
	if err != nil {
		p.log.Debug().Err(err).Int("message_id", messageID).Msg("Channel message delete miss")
		return false
	}
	return true
}

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
)

func (b *Bot) isAdmin(ctx context.Context, externalID int64) bool {
	_, err := b.admins.Get(ctx, externalID)
	return err == nil
}

func (b *Bot) handleAdminPanel(ctx context.Context, user *domain.User, chatID int64) {
	if !b.isAdmin(ctx, user.ExternalID) {
		b.sendText(chatID, i18n.T(user.Language, "admin.not_admin", nil))
		return
	}

	text := i18n.T(user.Language, "admin.panel", nil) + "\n\n" +
		"/admin_add <id>\n" +
		"/admin_remove <id>\n" +
		"/links\n" +
		"/link_add <name> <url>\n" +
		"/stats"
	b.sendText(chatID, text)
}

func (b *Bot) handleAdminCommand(ctx context.Context, user *domain.User, msg *tgbotapi.Message) {
	lang := user.Language
	chatID := msg.Chat.ID
	if !b.isAdmin(ctx, user.ExternalID) {
		b.sendText(chatID, i18n.T(lang, "admin.not_admin", nil))
		return
	}

	args := strings.Fields(msg.CommandArguments())
	switch msg.Command() {
	case "admin_add":
		if len(args) != 1 {
			b.handleAdminPanel(ctx, user, chatID)
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendText(chatID, i18n.T(lang, "admin.user_not_found", nil))
			return
		}
		a := &domain.Admin{UserID: id, AddedBy: user.ExternalID, AddedAt: time.Now().UTC()}
		if err := b.admins.Upsert(ctx, a); err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		b.listAdmins(ctx, user, chatID)

	case "admin_remove":
		if len(args) != 1 {
			b.handleAdminPanel(ctx, user, chatID)
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendText(chatID, i18n.T(lang, "admin.user_not_found", nil))
			return
		}
		if err := b.admins.Remove(ctx, id); err != nil {
			b.sendText(chatID, i18n.T(lang, apperr.MsgKeyOf(err), nil))
			return
		}
		b.listAdmins(ctx, user, chatID)

	case "links":
		b.listLinks(ctx, user, chatID)

	case "link_add":
		if len(args) != 2 {
			b.handleAdminPanel(ctx, user, chatID)
			return
		}
		link, err := b.links.Create(ctx, args[0], args[1])
		if err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		deepLink := fmt.Sprintf("https://t.me/%s?start=linktowatch_%d", b.cfg.Telegram.BotUsername, link.ID)
		b.sendText(chatID, deepLink)

	case "stats":
		users, err := b.stats.CountUsers(ctx)
		if err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		listings, err := b.stats.CountListings(ctx)
		if err != nil {
			b.replyError(lang, chatID, err)
			return
		}
		b.sendText(chatID, i18n.T(lang, "admin.stats", map[string]string{
			"users":    strconv.Itoa(users),
			"listings": strconv.Itoa(listings),
		}))
	}
}

func (b *Bot) listAdmins(ctx context.Context, user *domain.User, chatID int64) {
	admins, err := b.admins.List(ctx)
	if err != nil {
		b.replyError(user.Language, chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString(i18n.T(user.Language, "admin.admins_list", nil))
	for _, a := range admins {
		sb.WriteString("\n")
		sb.WriteString(strconv.FormatInt(a.UserID, 10))
		if a.IsSuperadmin {
			sb.WriteString(" ⭐")
		}
	}
	b.sendText(chatID, sb.String())
}

func (b *Bot) listLinks(ctx context.Context, user *domain.User, chatID int64) {
	links, err := b.links.List(ctx)
	if err != nil {
		b.replyError(user.Language, chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString(i18n.T(user.Language, "admin.links_list", nil))
	for _, l := range links {
		sb.WriteString(fmt.Sprintf("\n#%d %s — %d", l.ID, l.Name, l.ClickCount))
	}
	b.sendText(chatID, sb.String())
}

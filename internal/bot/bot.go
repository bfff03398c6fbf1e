package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/common/config"
	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/i18n"
	"classifieds-bot-backend/internal/service"
)

// Deps collects everything the bot needs; the constructor stays readable and
// tests can substitute any piece.
type Deps struct {
	API        *tgbotapi.BotAPI
	Config     *config.Config
	Users      domain.UserRepository
	Listings   domain.ListingRepository
	Categories domain.CategoryRepository
	Admins     domain.AdminRepository
	Links      domain.LinkRepository
	Stats      domain.StatsRepository
	Payments   *service.Payments
	Lifecycle  *service.Lifecycle
	Referrals  *service.ReferralService
}

// Bot drives the long-poll loop. Updates are sharded onto a fixed worker
// pool by the sender's id, so every user's updates are handled in order while
// different users proceed in parallel.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	users      domain.UserRepository
	listings   domain.ListingRepository
	categories domain.CategoryRepository
	admins     domain.AdminRepository
	links      domain.LinkRepository
	stats      domain.StatsRepository

	payments  *service.Payments
	lifecycle *service.Lifecycle
	referrals *service.ReferralService

	drafts *draftStore
	albums *albumBuffer

	rejectsMu sync.Mutex
	rejects   map[int64]*rejectPrompt

	queues []chan func()
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

func New(d Deps) *Bot {
	workers := d.Config.Telegram.Workers
	if workers < 1 {
		workers = 1
	}

	b := &Bot{
		api:        d.API,
		cfg:        d.Config,
		users:      d.Users,
		listings:   d.Listings,
		categories: d.Categories,
		admins:     d.Admins,
		links:      d.Links,
		stats:      d.Stats,
		payments:   d.Payments,
		lifecycle:  d.Lifecycle,
		referrals:  d.Referrals,
		drafts:     newDraftStore(time.Duration(d.Config.Policy.DraftIdleEvictMinutes) * time.Minute),
		albums:     newAlbumBuffer(2 * time.Second),
		rejects:    make(map[int64]*rejectPrompt),
		queues:     make([]chan func(), workers),
		log:        logger.With("bot"),
	}
	for i := range b.queues {
		b.queues[i] = make(chan func(), 64)
	}
	return b
}

func (b *Bot) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.ctx = ctx
	b.cancel = cancel

	b.drafts.startJanitor(ctx)

	for i := range b.queues {
		queue := b.queues[i]
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for {
				select {
				case job := <-queue:
					job()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for update := range updates {
			u := update
			b.enqueue(senderID(u), func() { b.handleUpdate(ctx, u) })
		}
		cancel()
	}()

	b.log.Info().Int("workers", len(b.queues)).Msg("Bot started")
}

// Stop drains the update channel and waits for in-flight handlers.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.wg.Wait()
	if b.cancel != nil {
		b.cancel()
	}
	b.log.Info().Msg("Bot stopped")
}

// senderID picks the id that keys per-user ordering.
func senderID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

// enqueue hands a job to the worker owning the user. Timer-driven work such
// as album flushes goes through here too, so it is serialized with the
// user's own updates and never touches a draft concurrently.
func (b *Bot) enqueue(userID int64, job func()) {
	n := int64(len(b.queues))
	shard := int(((userID % n) + n) % n)
	select {
	case b.queues[shard] <- job:
	case <-b.ctx.Done():
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("Update handler panicked")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.Chat.ID == b.cfg.Telegram.ModerationGroup {
		b.handleModerationGroupMessage(ctx, msg)
		return
	}
	if !msg.Chat.IsPrivate() {
		return
	}

	user, err := b.users.GetOrCreate(ctx, msg.From.ID, msg.From.UserName, msg.From.FirstName, msg.From.LastName)
	if err != nil {
		b.log.Error().Err(err).Int64("external_id", msg.From.ID).Msg("Failed to load user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, user, msg)
		return
	}

	if len(msg.Photo) > 0 || msg.Video != nil {
		b.handleDraftMedia(user, msg)
		return
	}

	if action := menuAction(msg.Text); action != "" {
		b.handleMenuAction(ctx, user, msg.Chat.ID, action)
		return
	}

	if b.handleDraftText(ctx, user, msg) {
		return
	}

	b.sendMainMenu(user, msg.Chat.ID)
}

func (b *Bot) handleCommand(ctx context.Context, user *domain.User, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, user, msg)
	case "menu":
		b.sendMainMenu(user, msg.Chat.ID)
	case "language":
		b.sendLanguageChoice(user, msg.Chat.ID)
	case "admin":
		b.handleAdminPanel(ctx, user, msg.Chat.ID)
	case "admin_add", "admin_remove", "links", "link_add", "stats":
		b.handleAdminCommand(ctx, user, msg)
	default:
		b.sendMainMenu(user, msg.Chat.ID)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	if data == "" || cb.Message == nil {
		return
	}

	if strings.HasPrefix(data, "mod_") {
		b.handleModerationCallback(ctx, cb)
		return
	}

	user, err := b.users.GetOrCreate(ctx, cb.From.ID, cb.From.UserName, cb.From.FirstName, cb.From.LastName)
	if err != nil {
		b.log.Error().Err(err).Int64("external_id", cb.From.ID).Msg("Failed to load user")
		b.answerCallback(cb.ID, "")
		return
	}

	switch {
	case data == "agree_terms":
		b.handleAgree(ctx, user, cb)
	case data == "lang_uk" || data == "lang_ru":
		b.handleLanguagePick(ctx, user, cb)
	case strings.HasPrefix(data, "cat_"):
		b.handleCategoryPick(ctx, user, cb)
	case data == "draft_photos_done":
		b.handlePhotosDone(ctx, user, cb)
	case data == "draft_price_negotiable":
		b.handleNegotiablePick(ctx, user, cb)
	case data == "draft_confirm":
		b.handleDraftConfirm(ctx, user, cb)
	case data == "draft_edit":
		b.handleDraftEditMenu(user, cb)
	case data == "draft_edit_back":
		b.handleDraftEditBack(ctx, user, cb)
	case strings.HasPrefix(data, "draft_edit_"):
		b.handleDraftEditField(ctx, user, cb)
	case data == "draft_cancel":
		b.handleDraftCancel(user, cb)
	case strings.HasPrefix(data, "tariff_toggle_"):
		b.handleTariffToggle(ctx, user, cb)
	case data == "tariff_confirm":
		b.handleTariffConfirm(ctx, user, cb)
	case strings.HasPrefix(data, "pay_balance_"):
		b.handlePayBalance(ctx, user, cb)
	case strings.HasPrefix(data, "pay_card_"):
		b.handlePayCard(ctx, user, cb)
	case strings.HasPrefix(data, "edit_listing_"):
		b.handleEditListing(ctx, user, cb)
	case strings.HasPrefix(data, "ml_"):
		b.handleMyListingAction(ctx, user, cb)
	default:
		b.answerCallback(cb.ID, "")
	}
}

// send is the one place plain outgoing messages pass through.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error().Err(err).Msg("Failed to send message")
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Debug().Err(err).Msg("Failed to answer callback")
	}
}

// replyError renders an application error for the user; unexpected errors
// and errors carrying an untranslated key collapse to the generic message.
func (b *Bot) replyError(lang string, chatID int64, err error) {
	b.log.Error().Err(err).Int64("chat_id", chatID).Msg("Handler error")
	key := apperr.MsgKeyOf(err)
	if !i18n.Has(key) {
		key = "errors.internal"
	}
	b.sendText(chatID, i18n.T(lang, key, nil))
}

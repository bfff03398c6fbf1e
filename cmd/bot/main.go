package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/bot"
	"classifieds-bot-backend/internal/common/config"
	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
	"classifieds-bot-backend/internal/httpapi"
	"classifieds-bot-backend/internal/monobank"
	platformpg "classifieds-bot-backend/internal/platform/postgres"
	repopg "classifieds-bot-backend/internal/repository/postgres"
	"classifieds-bot-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("classifieds-bot", false)
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init("classifieds-bot", cfg.Debug)

	ctx := context.Background()

	pg, err := platformpg.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer pg.Close()

	db := pg.DB()
	if err := repopg.Migrate(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	users := repopg.NewUserRepository(db)
	listings := repopg.NewListingRepository(db)
	payments := repopg.NewPaymentRepository(db)
	referrals := repopg.NewReferralRepository(db)
	categories := repopg.NewCategoryRepository(db)
	admins := repopg.NewAdminRepository(db)
	links := repopg.NewLinkRepository(db)
	stats := repopg.NewStatsRepository(db)

	if err := categories.Seed(ctx, domain.SeedCategories()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed categories")
	}
	seedAdmins(ctx, cfg, admins)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bot API")
	}
	api.Debug = cfg.Debug
	logger.Info().Str("username", api.Self.UserName).Msg("Bot authorized")

	reward, err := decimal.NewFromString(cfg.Policy.ReferralRewardEUR)
	if err != nil {
		logger.Fatal().Err(err).Str("value", cfg.Policy.ReferralRewardEUR).Msg("Invalid referral reward")
	}

	channelByRegion := map[string]int64{
		domain.RegionHamburg: cfg.Channels.TradeChannelID,
		domain.RegionGermany: cfg.Channels.TradeGermanyID,
	}

	notifier := bot.NewNotifier(api)
	publisher := service.NewPublisher(api, listings, categories, channelByRegion,
		cfg.Channels.TradeChannelUsername, cfg.Telegram.BotUsername)
	referralSvc := service.NewReferralService(referrals, users, reward)
	lifecycle := service.NewLifecycle(listings, users, publisher, referralSvc, notifier, service.LifecyclePolicy{
		RetentionDays:         cfg.Policy.RetentionDays,
		RefreshMinAge:         time.Duration(cfg.Policy.RefreshMinAgeMinutes) * time.Minute,
		RefundPackageOnReject: cfg.Policy.RefundPackageOnReject,
	})
	dispatcher := bot.NewModerationDispatcher(api, cfg.Telegram.ModerationGroup, listings, users, categories)
	gateway := service.NewMonobankGateway(monobank.NewClient(cfg.Monobank.BaseURL, cfg.Monobank.Token))
	paymentSvc := service.NewPayments(payments, listings, users, gateway, dispatcher, lifecycle, cfg.Telegram.BotUsername)

	reconciler := service.NewReconciler(payments, listings, users, gateway, dispatcher, lifecycle, notifier,
		time.Duration(cfg.Policy.ReconcileIntervalSec)*time.Second,
		time.Duration(cfg.Policy.PaymentLookbackMin)*time.Minute)
	maintenance := service.NewMaintenance(listings, lifecycle)

	tgBot := bot.New(bot.Deps{
		API:        api,
		Config:     cfg,
		Users:      users,
		Listings:   listings,
		Categories: categories,
		Admins:     admins,
		Links:      links,
		Stats:      stats,
		Payments:   paymentSvc,
		Lifecycle:  lifecycle,
		Referrals:  referralSvc,
	})

	httpSrv := httpapi.New(cfg, pg, users, referralSvc, lifecycle)

	tgBot.Start()
	reconciler.Start()
	if err := maintenance.Start(cfg.Policy.MaintenanceAt); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start maintenance scheduler")
	}
	httpSrv.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP shutdown failed")
	}
	maintenance.Stop()
	reconciler.Stop()
	tgBot.Stop()

	logger.Info().Msg("Bye")
}

// seedAdmins upserts the configured administrator ids; the first entry is
// the superadmin.
func seedAdmins(ctx context.Context, cfg *config.Config, admins domain.AdminRepository) {
	for i, id := range cfg.Administrators {
		a := &domain.Admin{
			UserID:       id,
			AddedBy:      id,
			AddedAt:      time.Now().UTC(),
			IsSuperadmin: i == 0,
		}
		if err := admins.Upsert(ctx, a); err != nil {
			logger.Error().Err(err).Int64("user_id", id).Msg("Failed to seed admin")
		}
	}
}

package service

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"classifieds-bot-backend/internal/domain"
)

// TelegramAPI is the slice of the bot API the services use. *tgbotapi.BotAPI
// satisfies it; tests substitute a fake.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Button is a single inline button attached to a user notification.
type Button struct {
	Text         string
	URL          string
	CallbackData string
}

// Notifier delivers a message to a user's private chat. Send failures are
// the caller's to log; they never revert state.
type Notifier interface {
	Notify(externalID int64, text string, buttons ...Button) error
}

// ModerationDispatcher ships a listing to the moderation chat with
// approve/reject controls.
type ModerationDispatcher interface {
	Dispatch(ctx context.Context, listingID int64, source domain.ListingSource) error
}

// Refresher completes a paid re-publication once the money is in.
type Refresher interface {
	CompleteRefresh(ctx context.Context, listingID int64) error
}

// Gateway is the payment gateway surface the payment service and reconciler
// rely on.
type Gateway interface {
	CreateInvoice(ctx context.Context, amountCents int64, description, orderReference, redirectURL string) (invoiceID, pageURL string, err error)
	GetInvoiceStatus(ctx context.Context, invoiceID string) (status string, err error)
}

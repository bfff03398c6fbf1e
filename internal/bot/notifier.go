package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"classifieds-bot-backend/internal/service"
)

// Notifier delivers service-layer notifications to the user's private chat.
type Notifier struct {
	tg service.TelegramAPI
}

func NewNotifier(tg service.TelegramAPI) *Notifier {
	return &Notifier{tg: tg}
}

func (n *Notifier) Notify(externalID int64, text string, buttons ...service.Button) error {
	msg := tgbotapi.NewMessage(externalID, text)
	if len(buttons) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
		for _, btn := range buttons {
			var kb tgbotapi.InlineKeyboardButton
			if btn.URL != "" {
				kb = tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL)
			} else {
				kb = tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData)
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(kb))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	_, err := n.tg.Send(msg)
	return err
}

package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

// TelegramNotifier delivers tracker updates over the same bot the
// command front end uses.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

func NewTelegramNotifier(bot *tgbotapi.BotAPI, logger *slog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, logger: logger}
}

func (n *TelegramNotifier) SendPhoto(userID int64, caption string, image []byte) error {
	photo := tgbotapi.NewPhoto(userID, tgbotapi.FileBytes{
		Name:  "chart.png",
		Bytes: image,
	})
	photo.Caption = caption

	if _, err := n.bot.Send(photo); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

func (n *TelegramNotifier) SendText(userID int64, text string) error {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

package alert_relay

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramSender posts alerts to one Telegram chat.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramSender authorizes the bot token.
func NewTelegramSender(token string, chatID int64, logger *zap.Logger) (*TelegramSender, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramSender{
		api:    botAPI,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Send posts text to the configured chat.
func (t *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", t.chatID, err)
	}
	return nil
}

package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Domenick1991/flymate/internal/kafka"
)

// Bot is the part of *tgbotapi.BotAPI the notifier uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramSender struct {
	bot    Bot
	chatID int64
}

// NewTelegramSender returns nil when no token or chat is configured.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewTelegramSenderWithBot(bot, chatID), nil
}

func NewTelegramSenderWithBot(bot Bot, chatID int64) *TelegramSender {
	return &TelegramSender{bot: bot, chatID: chatID}
}

func (s *TelegramSender) Send(_ context.Context, event kafka.BookingEvent) error {
	if s == nil {
		return nil
	}
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, Describe(event))); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

var _ Sender = (*TelegramSender)(nil)

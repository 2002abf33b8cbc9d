package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot sends the run summaries to a telegram chat.
type Bot struct {
	bot    botAPI
	chatID int64
}

// NewBot creates a new telegram bot for the given chat.
// An empty token gives a bot that only logs the messages.
func NewBot(token string, chatID int64) (*Bot, error) {
	if token == "" {
		log.Debug().Msg("no telegram token, notifications are disabled")
		return &Bot{bot: Void{}, chatID: chatID}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating bot: %w", err)
	}
	bot.Buffer = 0
	return &Bot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Send sends the message to the chat and returns the telegram message id.
func (b *Bot) Send(message *Message) (int, error) {
	msg := tgbotapi.NewMessage(b.chatID, message.String())
	sent, err := b.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("could not send message: %w", err)
	}
	log.Debug().Int("message", sent.MessageID).Int64("chat", b.chatID).Msg("message sent")
	return sent.MessageID, nil
}

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"
)

// Void logs the messages instead of sending them.
type Void struct {
}

func (v Void) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		log.Info().Str("text", msg.Text).Msg("notification")
	}
	return tgbotapi.Message{}, nil
}

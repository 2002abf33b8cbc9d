package telegram

import (
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBot struct {
	output []tgbotapi.MessageConfig
	fail   bool
}

func (m *mockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m.fail {
		return tgbotapi.Message{}, fmt.Errorf("network error")
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.output = append(m.output, msg)
	}
	return tgbotapi.Message{MessageID: len(m.output)}, nil
}

func TestBot_Send(t *testing.T) {
	mock := &mockBot{}
	b := &Bot{bot: mock, chatID: 42}

	msg := NewMessage("ETH/USDT").
		AddLine("%d stop-loss orders", 6).
		AddLine("balance %.2f", 2000.0)

	id, err := b.Send(msg)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	require.Equal(t, 1, len(mock.output))
	assert.Equal(t, int64(42), mock.output[0].ChatID)
	assert.Equal(t, "ETH/USDT\n6 stop-loss orders\nbalance 2000.00", mock.output[0].Text)

	mock.fail = true
	_, err = b.Send(msg)
	assert.Error(t, err)
}

func TestNewBot_NoToken(t *testing.T) {
	b, err := NewBot("", 0)
	require.NoError(t, err)
	_, err = b.Send(NewMessage("test"))
	assert.NoError(t, err)
}

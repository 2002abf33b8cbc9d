package telegram

import (
	"fmt"
	"strings"
)

// Message is a multi-line text message.
type Message struct {
	lines []string
}

// NewMessage creates a new message with the given first line.
func NewMessage(title string) *Message {
	return &Message{lines: []string{title}}
}

// AddLine appends a formatted line to the message.
func (m *Message) AddLine(format string, args ...interface{}) *Message {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
	return m
}

func (m *Message) String() string {
	return strings.Join(m.lines, "\n")
}

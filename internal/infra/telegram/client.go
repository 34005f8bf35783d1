package telegram

import (
	"fmt"
	"io"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain Client interface using gopkg.in/telebot.v3.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to the given chat.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string) error {
	if _, err := tba.bot.Send(telebot.ChatID(chatID), text); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendPhoto uploads photo to the given chat with a caption.
func (tba *TelebotAdapter) SendPhoto(chatID int64, photo io.Reader, caption string) error {
	p := &telebot.Photo{File: telebot.FromReader(photo), Caption: caption}
	if _, err := tba.bot.Send(telebot.ChatID(chatID), p); err != nil {
		return fmt.Errorf("send photo to chat %d: %w", chatID, err)
	}
	return nil
}

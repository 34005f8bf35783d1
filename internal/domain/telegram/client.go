package telegram

import "io"

// Client sends messages to a Telegram chat.
// It keeps the application logic decoupled from the bot library.
type Client interface {
	SendMessage(chatID int64, text string) error
	SendPhoto(chatID int64, photo io.Reader, caption string) error
}

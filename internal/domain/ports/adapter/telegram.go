package adapter

import "context"

// MessageSender is the send capability handed to every task. The real
// implementation talks to Telegram; tests and dev mode use a noop.
type MessageSender interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
}

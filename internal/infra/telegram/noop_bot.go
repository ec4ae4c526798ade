package telegram

import (
	"context"

	"github.com/rs/zerolog"
)

// NoopBot satisfies the sender port without a Telegram token. Dev mode runs
// with it so the whole pipeline can be exercised locally.
type NoopBot struct {
	log *zerolog.Logger
}

func NewNoopBot(logger *zerolog.Logger) *NoopBot {
	compLog := logger.With().Str("component", "NoopBot").Logger()
	return &NoopBot{log: &compLog}
}

func (n *NoopBot) SendMessage(_ context.Context, tgID int64, text string) error {
	n.log.Info().Int64("tg_id", tgID).Str("text", text).Msg("noop send")
	return nil
}

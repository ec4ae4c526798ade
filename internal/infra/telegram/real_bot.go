package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-calorie-diary/internal/command"
	"telegram-calorie-diary/internal/config"
	"telegram-calorie-diary/internal/usecase"
)

// Enqueuer is the slice of the worker pool the polling loop needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, t usecase.Task) error
}

// RealBot is the Telegram transport: it long-polls for updates, runs each
// message through the command grammar and puts the resulting task on the
// shared queue. Enqueue blocking on a full queue is what stalls polling
// when workers fall behind.
type RealBot struct {
	bot   *tgbotapi.BotAPI
	queue Enqueuer
	log   *zerolog.Logger
}

func NewRealBot(cfg *config.BotConfig, queue Enqueuer, logger *zerolog.Logger) (*RealBot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if queue == nil {
		return nil, errors.New("queue is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	compLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealBot{bot: bot, queue: queue, log: &compLog}, nil
}

// Run polls Telegram until ctx is cancelled.
func (r *RealBot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	r.log.Info().Str("username", r.bot.Self.UserName).Msg("polling started")
	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			kind, args := command.Parse(update.Message.Text)
			t := usecase.NewTask(update.Message.Chat.ID, kind, args, r)
			if err := r.queue.Enqueue(ctx, t); err != nil {
				// only ctx cancellation can fail a blocking enqueue
				r.bot.StopReceivingUpdates()
				return err
			}
		}
	}
}

func (r *RealBot) SendMessage(_ context.Context, tgID int64, text string) error {
	msg := tgbotapi.NewMessage(tgID, text)
	if _, err := r.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", tgID, err)
	}
	return nil
}

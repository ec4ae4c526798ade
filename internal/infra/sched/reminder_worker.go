package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-calorie-diary/internal/command"
	"telegram-calorie-diary/internal/domain/ports/adapter"
	"telegram-calorie-diary/internal/domain/ports/repository"
	"telegram-calorie-diary/internal/domain/timegrid"
	"telegram-calorie-diary/internal/infra/metrics"
	"telegram-calorie-diary/internal/usecase"
)

// Enqueuer is the slice of the worker pool the scheduler needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, t usecase.Task) error
}

// ReminderWorker walks the server day in 5-minute checkpoints. At each
// checkpoint it snapshots the registry bucket for that "HH:MM" key and
// enqueues one reminder task per subscribed user. The checkpoint list is
// regenerated whenever it runs out, which resynchronizes the walk at
// midnight.
type ReminderWorker struct {
	registry repository.ReminderRegistry
	queue    Enqueuer
	sender   adapter.MessageSender
	log      *zerolog.Logger

	pending []int

	now   func() time.Time
	sleep time.Duration
}

func NewReminderWorker(registry repository.ReminderRegistry, queue Enqueuer, sender adapter.MessageSender, logger *zerolog.Logger) *ReminderWorker {
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		registry: registry,
		queue:    queue,
		sender:   sender,
		log:      &compLog,
		now:      time.Now,
		sleep:    5 * time.Second,
	}
}

// Run loops for the process lifetime. A fault at one checkpoint is logged
// and the walk continues; only ctx cancellation stops it.
func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("reminder scheduler started")
	for {
		cp, err := w.nextCheckpoint(ctx)
		if err != nil {
			w.log.Info().Msg("reminder scheduler stopped")
			return err
		}
		w.fire(ctx, timegrid.FormatClock(cp))
	}
}

// nextCheckpoint pops the next due checkpoint, sleeping in small fixed
// steps until the server clock reaches it. A checkpoint more than one grid
// slot in the past belongs to tomorrow (the walk crossed midnight), so the
// wait continues through the wrap.
func (w *ReminderWorker) nextCheckpoint(ctx context.Context) (int, error) {
	if len(w.pending) == 0 {
		w.pending = timegrid.Checkpoints(timegrid.MinuteOfDay(w.now()))
	}
	cp := w.pending[0]
	for {
		diff := timegrid.MinuteOfDay(w.now()) - cp
		if diff >= 0 && diff <= timegrid.Grid {
			w.pending = w.pending[1:]
			return cp, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(w.sleep):
		}
	}
}

func (w *ReminderWorker) fire(ctx context.Context, bucket string) {
	ids, err := w.registry.Bucket(ctx, bucket)
	if err != nil {
		w.log.Error().Err(err).Str("bucket", bucket).Msg("registry lookup failed")
		return
	}
	for _, id := range ids {
		t := usecase.NewTask(id, command.KindReminder, nil, w.sender)
		if err := w.queue.Enqueue(ctx, t); err != nil {
			w.log.Error().Err(err).Str("bucket", bucket).Int64("tg_id", id).Msg("reminder enqueue failed")
			return
		}
		metrics.IncReminderEnqueued()
	}
	if len(ids) > 0 {
		w.log.Debug().Str("bucket", bucket).Int("users", len(ids)).Msg("reminders enqueued")
	}
}

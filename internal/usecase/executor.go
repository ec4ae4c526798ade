package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"telegram-calorie-diary/internal/command"
	"telegram-calorie-diary/internal/domain"
	"telegram-calorie-diary/internal/texts"
)

// Executor maps one dequeued task to exactly one diary operation or static
// reply. User-level failures become a formatted error reply and are not
// propagated; storage and transport faults are returned so the worker can
// report them.
type Executor struct {
	diary DiaryUseCase
	log   *zerolog.Logger
}

func NewExecutor(diary DiaryUseCase, logger *zerolog.Logger) *Executor {
	compLog := logger.With().Str("component", "Executor").Logger()
	return &Executor{diary: diary, log: &compLog}
}

func (e *Executor) Execute(ctx context.Context, t Task) error {
	switch t.Kind {
	case command.KindStart:
		if err := e.diary.Bootstrap(ctx, t.TelegramID); err != nil {
			return err
		}
		return t.Sender.SendMessage(ctx, t.TelegramID, texts.Start)

	case command.KindHelp:
		return t.Sender.SendMessage(ctx, t.TelegramID, texts.Help)

	case command.KindError:
		reason := "invalid command"
		if len(t.Args) > 0 {
			reason = t.Args[0]
		}
		return e.sendError(ctx, t, reason)

	case command.KindAdd:
		values, err := parseInts(t.Args)
		if err != nil {
			return e.sendError(ctx, t, "value is not an integer")
		}
		return e.acknowledge(ctx, t, e.diary.AddCalories(ctx, t.TelegramID, values))

	case command.KindSub:
		values, err := parseInts(t.Args)
		if err != nil {
			return e.sendError(ctx, t, "value is not an integer")
		}
		return e.acknowledge(ctx, t, e.diary.SubCalories(ctx, t.TelegramID, values))

	case command.KindGive:
		if len(t.Args) != 1 {
			return e.sendError(ctx, t, "no date given")
		}
		days, err := e.diary.Give(ctx, t.TelegramID, t.Args[0])
		if err != nil {
			return e.fail(ctx, t, err)
		}
		var b strings.Builder
		for _, d := range days {
			total := 0
			for _, v := range d.Calories {
				total += v
			}
			fmt.Fprintf(&b, "Date: %s. Total calories: %d.\n", d.Date, total)
		}
		return t.Sender.SendMessage(ctx, t.TelegramID, b.String())

	case command.KindSetTime:
		if len(t.Args) != 1 {
			return e.sendError(ctx, t, "no time given")
		}
		return e.acknowledge(ctx, t, e.diary.SetTimezone(ctx, t.TelegramID, t.Args[0]))

	case command.KindSetEating:
		return e.acknowledge(ctx, t, e.diary.SetEatingTimes(ctx, t.TelegramID, t.Args))

	case command.KindStop:
		if err := e.diary.Erase(ctx, t.TelegramID); err != nil {
			return e.fail(ctx, t, err)
		}
		return t.Sender.SendMessage(ctx, t.TelegramID, texts.Goodbye)

	case command.KindReminder:
		ok, err := e.diary.HasTimezone(ctx, t.TelegramID)
		if err != nil {
			return e.fail(ctx, t, err)
		}
		if !ok {
			return e.sendError(ctx, t, userMessage(domain.ErrTimezoneNotSet))
		}
		return t.Sender.SendMessage(ctx, t.TelegramID, texts.Reminder)
	}
	return fmt.Errorf("unknown task kind %q", t.Kind)
}

// acknowledge sends the fixed acknowledgement on success and the formatted
// error reply otherwise.
func (e *Executor) acknowledge(ctx context.Context, t Task, err error) error {
	if err != nil {
		return e.fail(ctx, t, err)
	}
	return t.Sender.SendMessage(ctx, t.TelegramID, texts.Accepted)
}

// fail answers the user and decides whether the fault needs reporting.
// Domain errors are fully handled here; anything else bubbles to the worker.
func (e *Executor) fail(ctx context.Context, t Task, err error) error {
	if msg := userMessage(err); msg != "" {
		return e.sendError(ctx, t, msg)
	}
	if sendErr := e.sendError(ctx, t, "something went wrong, try again later"); sendErr != nil {
		e.log.Error().Err(sendErr).Str("task_id", t.ID).Msg("error reply failed")
	}
	return err
}

func (e *Executor) sendError(ctx context.Context, t Task, reason string) error {
	return t.Sender.SendMessage(ctx, t.TelegramID, fmt.Sprintf(texts.ErrorPrefix, reason))
}

// userMessage translates domain errors into reply text. Unknown errors
// yield "" and are treated as internal faults.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimezoneNotSet):
		return "timezone is not set, send: set time HH:MM"
	case errors.Is(err, domain.ErrNegativeTotal):
		return "subtracted calories exceed the recorded daily total"
	case errors.Is(err, domain.ErrTimeNotAligned):
		return "reminder times must be multiples of 5 minutes"
	case errors.Is(err, domain.ErrNoEntries):
		return "no calorie entries for the requested date"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid value"
	}
	return ""
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

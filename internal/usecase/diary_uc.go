package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-calorie-diary/internal/domain"
	"telegram-calorie-diary/internal/domain/model"
	"telegram-calorie-diary/internal/domain/ports/repository"
	"telegram-calorie-diary/internal/domain/timegrid"
)

// Compile-time check
var _ DiaryUseCase = (*diaryUC)(nil)

// DiaryUseCase exposes every ledger and timezone operation the executor
// dispatches to. All mutations of one user's record are serialized by a
// per-user lock.
type DiaryUseCase interface {
	Bootstrap(ctx context.Context, tgID int64) error
	SetTimezone(ctx context.Context, tgID int64, clock string) error
	AddCalories(ctx context.Context, tgID int64, values []int) error
	SubCalories(ctx context.Context, tgID int64, values []int) error
	Give(ctx context.Context, tgID int64, selector string) ([]model.DayEntry, error)
	SetEatingTimes(ctx context.Context, tgID int64, clocks []string) error
	Erase(ctx context.Context, tgID int64) error
	HasTimezone(ctx context.Context, tgID int64) (bool, error)
	RebuildRegistry(ctx context.Context) error
}

type diaryUC struct {
	ledgers  repository.LedgerRepository
	registry repository.ReminderRegistry
	locks    userLocks
	log      *zerolog.Logger

	now func() time.Time // swapped out by tests
}

func NewDiaryUseCase(ledgers repository.LedgerRepository, registry repository.ReminderRegistry, logger *zerolog.Logger) *diaryUC {
	compLog := logger.With().Str("component", "DiaryUC").Logger()
	return &diaryUC{
		ledgers:  ledgers,
		registry: registry,
		log:      &compLog,
		now:      time.Now,
	}
}

// loadOrCreate fetches the user's record, creating an empty one on first
// contact. Callers must hold the user's lock.
func (uc *diaryUC) loadOrCreate(ctx context.Context, tgID int64) (*model.Ledger, error) {
	l, err := uc.ledgers.Find(ctx, tgID)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	l, err = model.NewLedger(tgID)
	if err != nil {
		return nil, err
	}
	if err := uc.ledgers.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("create ledger: %w", err)
	}
	return l, nil
}

// Bootstrap materializes the record on first contact: no timezone, no
// reminder times, no entries.
func (uc *diaryUC) Bootstrap(ctx context.Context, tgID int64) error {
	defer uc.locks.lock(tgID)()
	_, err := uc.loadOrCreate(ctx, tgID)
	return err
}

// SetTimezone resolves the user-stated local time against the server clock
// and persists the resulting offset.
func (uc *diaryUC) SetTimezone(ctx context.Context, tgID int64, clock string) error {
	userMin, err := timegrid.ParseClock(clock)
	if err != nil {
		return err
	}

	defer uc.locks.lock(tgID)()
	l, err := uc.loadOrCreate(ctx, tgID)
	if err != nil {
		return err
	}
	offset := timegrid.ResolveOffset(timegrid.MinuteOfDay(uc.now()), userMin)
	if err := l.SetZone(offset); err != nil {
		return err
	}
	if err := uc.ledgers.Save(ctx, l); err != nil {
		return fmt.Errorf("save timezone: %w", err)
	}
	uc.log.Debug().Int64("tg_id", tgID).Int("offset", offset).Msg("timezone set")
	return nil
}

// AddCalories appends values to the user's current local date.
func (uc *diaryUC) AddCalories(ctx context.Context, tgID int64, values []int) error {
	defer uc.locks.lock(tgID)()
	return uc.appendToday(ctx, tgID, values)
}

// SubCalories appends pre-negated values, refusing to drive the day's total
// negative. No partial write happens on rejection.
func (uc *diaryUC) SubCalories(ctx context.Context, tgID int64, values []int) error {
	defer uc.locks.lock(tgID)()

	l, err := uc.loadOrCreate(ctx, tgID)
	if err != nil {
		return err
	}
	if !l.HasZone() {
		return domain.ErrTimezoneNotSet
	}
	date := timegrid.LocalDate(uc.now(), *l.Zone)
	delta := 0
	for _, v := range values {
		delta += v
	}
	if l.TotalFor(date)+delta < 0 {
		return domain.ErrNegativeTotal
	}
	l.Append(date, values)
	if err := uc.ledgers.Save(ctx, l); err != nil {
		return fmt.Errorf("save calories: %w", err)
	}
	return nil
}

func (uc *diaryUC) appendToday(ctx context.Context, tgID int64, values []int) error {
	l, err := uc.loadOrCreate(ctx, tgID)
	if err != nil {
		return err
	}
	if !l.HasZone() {
		return domain.ErrTimezoneNotSet
	}
	l.Append(timegrid.LocalDate(uc.now(), *l.Zone), values)
	if err := uc.ledgers.Save(ctx, l); err != nil {
		return fmt.Errorf("save calories: %w", err)
	}
	return nil
}

// Give returns the day entries matching the selector: "all", "today", or an
// explicit date whose year component is truncated before matching (the
// ledger never stores a year). An empty result is ErrNoEntries.
func (uc *diaryUC) Give(ctx context.Context, tgID int64, selector string) ([]model.DayEntry, error) {
	defer uc.locks.lock(tgID)()

	l, err := uc.loadOrCreate(ctx, tgID)
	if err != nil {
		return nil, err
	}

	var out []model.DayEntry
	switch selector {
	case "all":
		out = append(out, l.Days...)
	case "today":
		if !l.HasZone() {
			return nil, domain.ErrTimezoneNotSet
		}
		date := timegrid.LocalDate(uc.now(), *l.Zone)
		if vals, ok := l.CaloriesFor(date); ok {
			out = append(out, model.DayEntry{Date: date, Calories: vals})
		}
	default:
		// DD.MM[.YY[YY]] — match on day and month only.
		if parts := strings.Split(selector, "."); len(parts) > 2 {
			selector = strings.Join(parts[:2], ".")
		}
		if vals, ok := l.CaloriesFor(selector); ok {
			out = append(out, model.DayEntry{Date: selector, Calories: vals})
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrNoEntries
	}
	return out, nil
}

// SetEatingTimes converts 5-minute-aligned user-local times into server
// buckets, registers the user under each bucket and extends the persisted
// bucket list.
func (uc *diaryUC) SetEatingTimes(ctx context.Context, tgID int64, clocks []string) error {
	defer uc.locks.lock(tgID)()

	l, err := uc.loadOrCreate(ctx, tgID)
	if err != nil {
		return err
	}
	if !l.HasZone() {
		return domain.ErrTimezoneNotSet
	}

	buckets := make([]string, 0, len(clocks))
	for _, c := range clocks {
		min, err := timegrid.ParseClock(c)
		if err != nil {
			return err
		}
		if !timegrid.Aligned(min) {
			return domain.ErrTimeNotAligned
		}
		buckets = append(buckets, timegrid.ServerBucket(min, *l.Zone))
	}

	for _, b := range buckets {
		if err := uc.registry.Register(ctx, b, tgID); err != nil {
			return fmt.Errorf("register bucket %s: %w", b, err)
		}
	}
	l.AddReminderTimes(buckets)
	if err := uc.ledgers.Save(ctx, l); err != nil {
		return fmt.Errorf("save eating times: %w", err)
	}
	uc.log.Debug().Int64("tg_id", tgID).Strs("buckets", buckets).Msg("eating times set")
	return nil
}

// Erase removes the user from every registry bucket and deletes the record.
// Erasing an unknown user is a no-op.
func (uc *diaryUC) Erase(ctx context.Context, tgID int64) error {
	defer uc.locks.lock(tgID)()

	l, err := uc.ledgers.Find(ctx, tgID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, b := range l.ReminderTimes {
		if err := uc.registry.Unregister(ctx, b, tgID); err != nil {
			return fmt.Errorf("unregister bucket %s: %w", b, err)
		}
	}
	if err := uc.ledgers.Delete(ctx, tgID); err != nil {
		return fmt.Errorf("delete ledger: %w", err)
	}
	uc.log.Info().Int64("tg_id", tgID).Msg("user erased")
	return nil
}

func (uc *diaryUC) HasTimezone(ctx context.Context, tgID int64) (bool, error) {
	l, err := uc.ledgers.Find(ctx, tgID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return l.HasZone(), nil
}

// RebuildRegistry replays every persisted record's reminder times into the
// registry. Called once at startup, before the scheduler runs.
func (uc *diaryUC) RebuildRegistry(ctx context.Context) error {
	ledgers, err := uc.ledgers.All(ctx)
	if err != nil {
		return fmt.Errorf("load ledgers: %w", err)
	}
	n := 0
	for _, l := range ledgers {
		for _, b := range l.ReminderTimes {
			if err := uc.registry.Register(ctx, b, l.TelegramID); err != nil {
				return fmt.Errorf("register bucket %s: %w", b, err)
			}
			n++
		}
	}
	uc.log.Info().Int("users", len(ledgers)).Int("registrations", n).Msg("reminder registry rebuilt")
	return nil
}

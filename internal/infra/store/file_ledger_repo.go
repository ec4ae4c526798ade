// Package store persists ledger records as one flat text file per user:
//
//	zone=<int|None> times_to_eat=<csv of "HH:MM"|None>
//	date=<DD.MM> calories=<csv of signed ints>
//
// The first line always carries the timezone and reminder buckets; every
// further line is one distinct date in first-seen order.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"telegram-calorie-diary/internal/domain"
	"telegram-calorie-diary/internal/domain/model"
	"telegram-calorie-diary/internal/infra/metrics"
)

const recordExt = ".txt"

type FileLedgerRepository struct {
	dir string
}

func NewFileLedgerRepository(dir string) (*FileLedgerRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	return &FileLedgerRepository{dir: dir}, nil
}

func (r *FileLedgerRepository) path(tgID int64) string {
	return filepath.Join(r.dir, strconv.FormatInt(tgID, 10)+recordExt)
}

func (r *FileLedgerRepository) Find(_ context.Context, tgID int64) (*model.Ledger, error) {
	b, err := os.ReadFile(r.path(tgID))
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		metrics.IncStorageError("find")
		return nil, fmt.Errorf("read ledger %d: %w", tgID, err)
	}
	l, err := Decode(tgID, string(b))
	if err != nil {
		metrics.IncStorageError("find")
		return nil, fmt.Errorf("ledger %d: %w", tgID, err)
	}
	return l, nil
}

// Save rewrites the whole record. The write goes through a temp file and a
// rename so a crash mid-write cannot leave a truncated record behind.
func (r *FileLedgerRepository) Save(_ context.Context, l *model.Ledger) error {
	path := r.path(l.TelegramID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Encode(l)), 0o644); err != nil {
		metrics.IncStorageError("save")
		return fmt.Errorf("write ledger %d: %w", l.TelegramID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		metrics.IncStorageError("save")
		return fmt.Errorf("commit ledger %d: %w", l.TelegramID, err)
	}
	return nil
}

func (r *FileLedgerRepository) Delete(_ context.Context, tgID int64) error {
	err := os.Remove(r.path(tgID))
	if err != nil && !os.IsNotExist(err) {
		metrics.IncStorageError("delete")
		return fmt.Errorf("delete ledger %d: %w", tgID, err)
	}
	return nil
}

// All loads every persisted record. Unparseable files are skipped rather
// than failing the whole startup replay.
func (r *FileLedgerRepository) All(ctx context.Context) ([]*model.Ledger, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		metrics.IncStorageError("all")
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	var out []*model.Ledger
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, recordExt) {
			continue
		}
		tgID, err := strconv.ParseInt(strings.TrimSuffix(name, recordExt), 10, 64)
		if err != nil {
			continue
		}
		l, err := r.Find(ctx, tgID)
		if err != nil {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Encode renders a ledger in the flat-text record format.
func Encode(l *model.Ledger) string {
	var b strings.Builder
	b.WriteString("zone=")
	if l.Zone == nil {
		b.WriteString("None")
	} else {
		b.WriteString(strconv.Itoa(*l.Zone))
	}
	b.WriteString(" times_to_eat=")
	if len(l.ReminderTimes) == 0 {
		b.WriteString("None")
	} else {
		b.WriteString(strings.Join(l.ReminderTimes, ","))
	}
	for _, d := range l.Days {
		vals := make([]string, len(d.Calories))
		for i, v := range d.Calories {
			vals[i] = strconv.Itoa(v)
		}
		fmt.Fprintf(&b, "\ndate=%s calories=%s", d.Date, strings.Join(vals, ","))
	}
	return b.String()
}

// Decode parses the flat-text record format back into a ledger.
func Decode(tgID int64, text string) (*model.Ledger, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	zone, times, err := decodeHeader(lines[0])
	if err != nil {
		return nil, err
	}
	l := &model.Ledger{TelegramID: tgID, Zone: zone, ReminderTimes: times}
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		d, err := decodeDay(line)
		if err != nil {
			return nil, err
		}
		l.Days = append(l.Days, d)
	}
	return l, nil
}

func decodeHeader(line string) (*int, []string, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, nil, fmt.Errorf("corrupt header %q", line)
	}
	zoneStr, ok1 := strings.CutPrefix(fields[0], "zone=")
	timesStr, ok2 := strings.CutPrefix(fields[1], "times_to_eat=")
	if !ok1 || !ok2 {
		return nil, nil, fmt.Errorf("corrupt header %q", line)
	}
	var zone *int
	if zoneStr != "None" {
		z, err := strconv.Atoi(zoneStr)
		if err != nil {
			return nil, nil, fmt.Errorf("corrupt zone %q", zoneStr)
		}
		zone = &z
	}
	var times []string
	if timesStr != "None" {
		times = strings.Split(timesStr, ",")
	}
	return zone, times, nil
}

func decodeDay(line string) (model.DayEntry, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return model.DayEntry{}, fmt.Errorf("corrupt day line %q", line)
	}
	date, ok1 := strings.CutPrefix(fields[0], "date=")
	calStr, ok2 := strings.CutPrefix(fields[1], "calories=")
	if !ok1 || !ok2 {
		return model.DayEntry{}, fmt.Errorf("corrupt day line %q", line)
	}
	parts := strings.Split(calStr, ",")
	cals := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return model.DayEntry{}, fmt.Errorf("corrupt calorie value %q", p)
		}
		cals = append(cals, v)
	}
	return model.DayEntry{Date: date, Calories: cals}, nil
}

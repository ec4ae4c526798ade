package model

import (
	"telegram-calorie-diary/internal/domain"
)

// Ledger is the durable diary record of one Telegram user: the resolved
// timezone offset, the server-local reminder buckets and the date-bucketed
// calorie entries. Calories for a date are only ever appended; the last
// day entry is the open date for new values.
type Ledger struct {
	TelegramID    int64
	Zone          *int     // server minus user time, minutes; nil until "set time"
	ReminderTimes []string // server-local "HH:MM" buckets
	Days          []DayEntry
}

// DayEntry holds every calorie value recorded for one "DD.MM" date,
// in submission order.
type DayEntry struct {
	Date     string
	Calories []int
}

func NewLedger(tgID int64) (*Ledger, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Ledger{TelegramID: tgID}, nil
}

func (l *Ledger) HasZone() bool { return l.Zone != nil }

// SetZone records the resolved offset. The resolver guarantees alignment
// and range; this re-checks both so a corrupt caller cannot poison the record.
func (l *Ledger) SetZone(offset int) error {
	if offset%5 != 0 || offset < -720 || offset > 720 {
		return domain.ErrInvalidArgument
	}
	l.Zone = &offset
	return nil
}

// Append extends the open date with values, opening a new day entry when
// date differs from the last stored one.
func (l *Ledger) Append(date string, values []int) {
	if n := len(l.Days); n > 0 && l.Days[n-1].Date == date {
		l.Days[n-1].Calories = append(l.Days[n-1].Calories, values...)
		return
	}
	l.Days = append(l.Days, DayEntry{Date: date, Calories: append([]int(nil), values...)})
}

// CaloriesFor returns the values stored for date, or ok=false when the date
// was never written.
func (l *Ledger) CaloriesFor(date string) ([]int, bool) {
	for i := range l.Days {
		if l.Days[i].Date == date {
			return l.Days[i].Calories, true
		}
	}
	return nil, false
}

// TotalFor sums the values stored for date; a date never written totals zero.
func (l *Ledger) TotalFor(date string) int {
	vals, _ := l.CaloriesFor(date)
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

// AddReminderTimes extends the persisted server-local bucket list.
func (l *Ledger) AddReminderTimes(buckets []string) {
	l.ReminderTimes = append(l.ReminderTimes, buckets...)
}

// Package timegrid holds the 5-minute-grid clock arithmetic shared by the
// timezone resolver, the reminder scheduler and the ledger date logic.
// Everything works on integer minutes since midnight, mod 1440, so midnight
// wraparound stays trivial to reason about and to test.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"telegram-calorie-diary/internal/domain"
)

const (
	// Grid is the reminder granularity in minutes.
	Grid = 5
	// DayMinutes is one server day on the grid's coordinate.
	DayMinutes = 24 * 60
)

// MinuteOfDay returns t as minutes since the local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Aligned reports whether min sits on the 5-minute grid.
func Aligned(min int) bool { return min%Grid == 0 }

// FormatClock renders minutes-since-midnight as a zero-padded "HH:MM" key.
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are validated and discarded.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, domain.ErrInvalidArgument
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, domain.ErrInvalidArgument
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, domain.ErrInvalidArgument
	}
	if len(parts) == 3 {
		ss, err := strconv.Atoi(parts[2])
		if err != nil || ss < 0 || ss > 59 {
			return 0, domain.ErrInvalidArgument
		}
	}
	return hh*60 + mm, nil
}

// ResolveOffset derives the timezone offset (server minus user, minutes)
// from the current server minute and a user-stated local minute. The server
// clock is assumed to lag slightly behind the user's message, so the server
// minute is walked backwards until the difference lands on the grid, then
// the result is wrapped into [-720, 720].
func ResolveOffset(serverMin, userMin int) int {
	for (serverMin-userMin)%Grid != 0 {
		serverMin--
	}
	return NormalizeOffset(serverMin - userMin)
}

// NormalizeOffset wraps an offset into [-720, 720] by one day.
func NormalizeOffset(offset int) int {
	if offset > DayMinutes/2 {
		offset -= DayMinutes
	} else if offset < -DayMinutes/2 {
		offset += DayMinutes
	}
	return offset
}

// ServerBucket converts a user-local minute to the server-local "HH:MM"
// registry key by applying the offset mod one day.
func ServerBucket(localMin, offset int) string {
	m := (localMin + offset) % DayMinutes
	if m < 0 {
		m += DayMinutes
	}
	return FormatClock(m)
}

// LocalDate returns the user's calendar date as "DD.MM" for the given
// server instant. The ledger deliberately never stores a year.
func LocalDate(now time.Time, offset int) string {
	local := now.Add(-time.Duration(offset) * time.Minute)
	return fmt.Sprintf("%02d.%02d", local.Day(), int(local.Month()))
}

// Checkpoints lists every grid minute of the rest of the server day,
// starting at the first multiple of 5 strictly after nowMin and ending at
// 1435. A regeneration during the last grid slot of the day wraps the start
// to 0 and yields the whole next day.
func Checkpoints(nowMin int) []int {
	start := nowMin/Grid*Grid + Grid
	if start == DayMinutes {
		start = 0
	}
	out := make([]int, 0, (DayMinutes-start)/Grid)
	for m := start; m < DayMinutes; m += Grid {
		out = append(out, m)
	}
	return out
}

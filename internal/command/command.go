// Package command turns raw message text into a validated (kind, arguments)
// pair. It checks shape and ranges only; it never touches user state.
package command

import (
	"strconv"
	"strings"
)

// Kind enumerates every task the executor can run.
type Kind string

const (
	KindAdd       Kind = "add"
	KindSub       Kind = "sub"
	KindGive      Kind = "give"
	KindSetTime   Kind = "set-time"
	KindSetEating Kind = "set-eating"
	KindStop      Kind = "stop"
	KindStart     Kind = "start"
	KindHelp      Kind = "help"
	KindError     Kind = "error"
	KindReminder  Kind = "reminder"
)

const (
	minValue = 50
	maxValue = 9999
	maxYear  = 2038
)

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Parse tokenizes and validates one inbound message. Invalid input yields
// (KindError, [reason]) so the executor can reply with a formatted error.
func Parse(text string) (Kind, []string) {
	words := tokenize(text)
	if len(words) == 0 {
		return KindError, []string{"empty message"}
	}

	switch words[0] {
	case "add":
		return parseValues(KindAdd, words[1:], false)
	case "sub":
		return parseValues(KindSub, words[1:], true)
	case "give":
		return parseGive(words[1:])
	case "set":
		return parseSet(words[1:])
	case "stop":
		return KindStop, nil
	case "start", "/start":
		return KindStart, nil
	case "help":
		return KindHelp, nil
	}
	return KindError, []string{"unknown command"}
}

// tokenize splits on spaces and commas and lowercases every word.
func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(strings.ReplaceAll(text, ",", " ")))
}

// parseValues validates calorie values for add/sub. Sub values are negated
// here so the ledger only ever sees signed deltas to append.
func parseValues(kind Kind, args []string, negate bool) (Kind, []string) {
	if len(args) == 0 {
		return KindError, []string{"no value given"}
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return KindError, []string{"value is not an integer"}
		}
		if v < 0 {
			v = -v
		}
		if v > maxValue {
			return KindError, []string{"value is greater than 9999"}
		}
		if v < minValue {
			return KindError, []string{"value is less than 50"}
		}
		if negate {
			v = -v
		}
		out = append(out, strconv.Itoa(v))
	}
	return kind, out
}

func parseGive(args []string) (Kind, []string) {
	if len(args) == 0 {
		return KindError, []string{"no date given"}
	}
	if len(args) != 1 {
		return KindError, []string{"give takes a single date"}
	}
	sel := args[0]
	if sel == "all" || sel == "today" {
		return KindGive, []string{sel}
	}
	date, ok := validateDate(sel)
	if !ok {
		return KindError, []string{"invalid date"}
	}
	return KindGive, []string{date}
}

// validateDate accepts DD.MM, DD.MM.YY and DD.MM.YYYY. A 2-digit year is
// expanded to 20YY; the year is validated here but ignored by lookups.
func validateDate(s string) (string, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return "", false
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}
	day, month := nums[0], nums[1]
	if month < 1 || month > 12 {
		return "", false
	}
	if day < 1 || day > daysInMonth[month] {
		return "", false
	}
	if len(parts) == 3 {
		if len(parts[2]) <= 2 {
			parts[2] = "20" + parts[2]
			nums[2], _ = strconv.Atoi(parts[2])
		}
		if nums[2] > maxYear {
			return "", false
		}
	}
	return strings.Join(parts, "."), true
}

func parseSet(args []string) (Kind, []string) {
	if len(args) == 0 {
		return KindError, []string{"set needs a type: time or eating"}
	}
	var kind Kind
	switch args[0] {
	case "time":
		kind = KindSetTime
	case "eating":
		kind = KindSetEating
	default:
		return KindError, []string{"set needs a type: time or eating"}
	}
	times := args[1:]
	if len(times) == 0 {
		return KindError, []string{"no time given"}
	}
	if kind == KindSetTime && len(times) != 1 {
		return KindError, []string{"set time takes a single time"}
	}
	for _, t := range times {
		if !validClock(t) {
			return KindError, []string{"invalid time format"}
		}
	}
	return kind, times
}

// validClock checks HH:MM or HH:MM:SS with in-range fields.
func validClock(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return false
	}
	limits := []int{23, 59, 59}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return false
		}
	}
	return true
}

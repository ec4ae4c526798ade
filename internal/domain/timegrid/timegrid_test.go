package timegrid

import (
	"testing"
	"time"
)

func TestCheckpoints(t *testing.T) {
	t.Run("starts strictly after now and ends at 1435", func(t *testing.T) {
		cps := Checkpoints(10*60 + 3) // 10:03
		if got := cps[0]; got != 10*60+5 {
			t.Fatalf("first checkpoint = %d, want %d", got, 10*60+5)
		}
		if got := cps[len(cps)-1]; got != 1435 {
			t.Fatalf("last checkpoint = %d, want 1435", got)
		}
		for i := 1; i < len(cps); i++ {
			if cps[i] != cps[i-1]+Grid {
				t.Fatalf("checkpoints not 5-minute spaced at index %d: %d after %d", i, cps[i], cps[i-1])
			}
		}
	})

	t.Run("aligned now still starts strictly after", func(t *testing.T) {
		cps := Checkpoints(600)
		if cps[0] != 605 {
			t.Fatalf("first checkpoint = %d, want 605", cps[0])
		}
	})

	t.Run("end of day wraps to a full next day", func(t *testing.T) {
		cps := Checkpoints(1437) // 23:57
		if cps[0] != 0 {
			t.Fatalf("first checkpoint = %d, want 0", cps[0])
		}
		if len(cps) != DayMinutes/Grid {
			t.Fatalf("len = %d, want %d", len(cps), DayMinutes/Grid)
		}
	})
}

func TestResolveOffset(t *testing.T) {
	t.Run("server 10:03 user 10:00", func(t *testing.T) {
		off := ResolveOffset(10*60+3, 10*60)
		if off%Grid != 0 {
			t.Fatalf("offset %d not on the grid", off)
		}
		if off < -720 || off > 720 {
			t.Fatalf("offset %d out of range", off)
		}
		// server lags: 10:03 is walked back to 10:00, so zero offset
		if off != 0 {
			t.Fatalf("offset = %d, want 0", off)
		}
	})

	t.Run("three-hour user lead", func(t *testing.T) {
		// server 07:02, user says 10:00 → server is 3h behind
		if off := ResolveOffset(7*60+2, 10*60); off != -180 {
			t.Fatalf("offset = %d, want -180", off)
		}
	})

	t.Run("wraps across midnight into range", func(t *testing.T) {
		// server 23:00, user says 01:00 next day
		if off := ResolveOffset(23*60, 1*60); off != -120 {
			t.Fatalf("offset = %d, want -120", off)
		}
	})
}

func TestServerBucket(t *testing.T) {
	cases := []struct {
		localMin int
		offset   int
		want     string
	}{
		{10 * 60, 30, "10:30"},
		{10 * 60, 0, "10:00"},
		{23*60 + 55, 10, "00:05"},
		{0, -15, "23:45"},
	}
	for _, c := range cases {
		if got := ServerBucket(c.localMin, c.offset); got != c.want {
			t.Errorf("ServerBucket(%d, %d) = %q, want %q", c.localMin, c.offset, got, c.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	good := map[string]int{
		"10:00":    600,
		"00:05":    5,
		"23:59":    1439,
		"08:30:15": 510,
	}
	for in, want := range good {
		got, err := ParseClock(in)
		if err != nil {
			t.Errorf("ParseClock(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseClock(%q) = %d, want %d", in, got, want)
		}
	}

	for _, in := range []string{"24:00", "10:60", "10", "10:00:60", "a:b", ""} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q) expected error", in)
		}
	}
}

func TestLocalDate(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 30, 0, 0, time.UTC)

	t.Run("zero offset keeps the server date", func(t *testing.T) {
		if got := LocalDate(now, 0); got != "01.03" {
			t.Fatalf("LocalDate = %q, want 01.03", got)
		}
	})

	t.Run("positive offset can roll the date back", func(t *testing.T) {
		// server is 60 minutes ahead of the user
		if got := LocalDate(now, 60); got != "29.02" {
			t.Fatalf("LocalDate = %q, want 29.02", got)
		}
	})
}

func TestNormalizeOffset(t *testing.T) {
	cases := map[int]int{0: 0, 720: 720, 725: -715, -725: 715, -720: -720}
	for in, want := range cases {
		if got := NormalizeOffset(in); got != want {
			t.Errorf("NormalizeOffset(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(65); got != "01:05" {
		t.Fatalf("FormatClock(65) = %q, want 01:05", got)
	}
	if got := FormatClock(0); got != "00:00" {
		t.Fatalf("FormatClock(0) = %q, want 00:00", got)
	}
}

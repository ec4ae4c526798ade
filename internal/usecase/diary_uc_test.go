package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-calorie-diary/internal/domain"
)

// fixedClock pins the diary's view of server time.
func fixedClock(hour, min int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.March, 1, hour, min, 0, 0, time.UTC)
	}
}

func newTestDiary(t *testing.T) (*diaryUC, *memLedgerRepo, *memRegistry) {
	t.Helper()
	repo := newMemLedgerRepo()
	reg := newMemRegistry()
	uc := NewDiaryUseCase(repo, reg, newTestLogger())
	uc.now = fixedClock(12, 0)
	return uc, repo, reg
}

func TestDiaryUC_SetTimezone(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a grid-aligned offset", func(t *testing.T) {
		uc, repo, _ := newTestDiary(t)
		uc.now = fixedClock(10, 3)

		if err := uc.SetTimezone(ctx, 1, "10:00"); err != nil {
			t.Fatalf("SetTimezone: %v", err)
		}
		l, err := repo.Find(ctx, 1)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if !l.HasZone() || *l.Zone != 0 {
			t.Fatalf("zone = %v, want 0", l.Zone)
		}
	})

	t.Run("rejects malformed time", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		if err := uc.SetTimezone(ctx, 1, "25:00"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestDiaryUC_AddAndGive(t *testing.T) {
	ctx := context.Background()

	t.Run("add then give today sums the day", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		if err := uc.SetTimezone(ctx, 1, "12:00"); err != nil {
			t.Fatalf("SetTimezone: %v", err)
		}
		if err := uc.AddCalories(ctx, 1, []int{100, 200}); err != nil {
			t.Fatalf("AddCalories: %v", err)
		}

		days, err := uc.Give(ctx, 1, "today")
		if err != nil {
			t.Fatalf("Give: %v", err)
		}
		if len(days) != 1 || days[0].Date != "01.03" {
			t.Fatalf("unexpected days: %v", days)
		}
		total := 0
		for _, v := range days[0].Calories {
			total += v
		}
		if total != 300 {
			t.Fatalf("total = %d, want 300", total)
		}
	})

	t.Run("add requires a timezone", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		if err := uc.AddCalories(ctx, 1, []int{100}); !errors.Is(err, domain.ErrTimezoneNotSet) {
			t.Fatalf("expected ErrTimezoneNotSet, got %v", err)
		}
	})

	t.Run("give truncates the year before matching", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		_ = uc.SetTimezone(ctx, 1, "12:00")
		_ = uc.AddCalories(ctx, 1, []int{150})

		days, err := uc.Give(ctx, 1, "01.03.2024")
		if err != nil {
			t.Fatalf("Give: %v", err)
		}
		if len(days) != 1 || days[0].Date != "01.03" {
			t.Fatalf("unexpected days: %v", days)
		}
	})

	t.Run("give with no matches is ErrNoEntries", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		_ = uc.SetTimezone(ctx, 1, "12:00")
		if _, err := uc.Give(ctx, 1, "all"); !errors.Is(err, domain.ErrNoEntries) {
			t.Fatalf("expected ErrNoEntries, got %v", err)
		}
	})
}

func TestDiaryUC_SubCalories(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects driving the day negative", func(t *testing.T) {
		uc, repo, _ := newTestDiary(t)
		_ = uc.SetTimezone(ctx, 1, "12:00")
		_ = uc.AddCalories(ctx, 1, []int{300})

		if err := uc.SubCalories(ctx, 1, []int{-400}); !errors.Is(err, domain.ErrNegativeTotal) {
			t.Fatalf("expected ErrNegativeTotal, got %v", err)
		}
		// rejection must not leave a partial write
		l, _ := repo.Find(ctx, 1)
		if got := l.TotalFor("01.03"); got != 300 {
			t.Fatalf("total = %d, want 300 after rejection", got)
		}
	})

	t.Run("accepts a covered subtraction", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		_ = uc.SetTimezone(ctx, 1, "12:00")
		_ = uc.AddCalories(ctx, 1, []int{300})

		if err := uc.SubCalories(ctx, 1, []int{-250}); err != nil {
			t.Fatalf("SubCalories: %v", err)
		}
		days, err := uc.Give(ctx, 1, "today")
		if err != nil {
			t.Fatalf("Give: %v", err)
		}
		total := 0
		for _, v := range days[0].Calories {
			total += v
		}
		if total != 50 {
			t.Fatalf("total = %d, want 50", total)
		}
	})
}

func TestDiaryUC_EatingTimesAndErase(t *testing.T) {
	ctx := context.Background()

	t.Run("registers server buckets and erases them", func(t *testing.T) {
		uc, repo, reg := newTestDiary(t)
		_ = uc.SetTimezone(ctx, 1, "12:00")

		// force a +30 offset the way a half-hour timezone would resolve it
		l, _ := repo.Find(ctx, 1)
		if err := l.SetZone(30); err != nil {
			t.Fatalf("SetZone: %v", err)
		}
		_ = repo.Save(ctx, l)

		if err := uc.SetEatingTimes(ctx, 1, []string{"10:00"}); err != nil {
			t.Fatalf("SetEatingTimes: %v", err)
		}
		if !reg.contains("10:30", 1) {
			t.Fatal("user not registered under bucket 10:30")
		}
		l, _ = repo.Find(ctx, 1)
		if len(l.ReminderTimes) != 1 || l.ReminderTimes[0] != "10:30" {
			t.Fatalf("persisted times = %v, want [10:30]", l.ReminderTimes)
		}

		if err := uc.Erase(ctx, 1); err != nil {
			t.Fatalf("Erase: %v", err)
		}
		if reg.contains("10:30", 1) {
			t.Fatal("erase left the user registered")
		}
		if repo.has(1) {
			t.Fatal("erase left the record behind")
		}
	})

	t.Run("rejects unaligned times", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		_ = uc.SetTimezone(ctx, 1, "12:00")
		if err := uc.SetEatingTimes(ctx, 1, []string{"10:03"}); !errors.Is(err, domain.ErrTimeNotAligned) {
			t.Fatalf("expected ErrTimeNotAligned, got %v", err)
		}
	})

	t.Run("requires a timezone", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		if err := uc.SetEatingTimes(ctx, 1, []string{"10:00"}); !errors.Is(err, domain.ErrTimezoneNotSet) {
			t.Fatalf("expected ErrTimezoneNotSet, got %v", err)
		}
	})

	t.Run("erasing an unknown user is a no-op", func(t *testing.T) {
		uc, _, _ := newTestDiary(t)
		if err := uc.Erase(ctx, 99); err != nil {
			t.Fatalf("Erase: %v", err)
		}
	})
}

func TestDiaryUC_RebuildRegistry(t *testing.T) {
	ctx := context.Background()
	uc, repo, reg := newTestDiary(t)

	_ = uc.SetTimezone(ctx, 1, "12:00")
	l, _ := repo.Find(ctx, 1)
	l.AddReminderTimes([]string{"10:30", "18:00"})
	_ = repo.Save(ctx, l)

	_ = uc.SetTimezone(ctx, 2, "12:00")
	l2, _ := repo.Find(ctx, 2)
	l2.AddReminderTimes([]string{"10:30"})
	_ = repo.Save(ctx, l2)

	if err := uc.RebuildRegistry(ctx); err != nil {
		t.Fatalf("RebuildRegistry: %v", err)
	}
	ids, _ := reg.Bucket(ctx, "10:30")
	if len(ids) != 2 {
		t.Fatalf("bucket 10:30 has %d users, want 2", len(ids))
	}
	if !reg.contains("18:00", 1) {
		t.Fatal("user 1 missing from bucket 18:00")
	}
}

func TestDiaryUC_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newTestDiary(t)
	_ = uc.SetTimezone(ctx, 1, "12:00")

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = uc.AddCalories(ctx, 1, []int{100})
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	l, _ := repo.Find(ctx, 1)
	if got := l.TotalFor("01.03"); got != 1000 {
		t.Fatalf("total = %d, want 1000 (lost update)", got)
	}
}

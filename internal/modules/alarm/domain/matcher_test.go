package domain_test

import (
	"testing"
	"time"

	"reader365/internal/modules/alarm/domain"
)

// 2026-02-23 is a Monday.
func monday(hh, mm int) time.Time {
	return time.Date(2026, 2, 23, hh, mm, 0, 0, time.UTC)
}

func morning() domain.Schedule {
	return domain.Schedule{
		ID:       1,
		Name:     "Morning",
		Time:     "09:00",
		Days:     []domain.Weekday{domain.Monday},
		Message:  "read",
		Duration: 30,
		Enabled:  true,
	}
}

func TestDueMatchesExactMinuteAndWeekday(t *testing.T) {
	t.Parallel()
	schedules := []domain.Schedule{morning()}

	due := domain.Due(schedules, domain.SampleAt(monday(9, 0)))
	if len(due) != 1 || due[0].Name != "Morning" {
		t.Fatalf("expected [Morning], got %+v", due)
	}
	if due := domain.Due(schedules, domain.SampleAt(monday(9, 1))); len(due) != 0 {
		t.Fatalf("expected no alarm at 09:01, got %+v", due)
	}
	tuesday := monday(9, 0).Add(24 * time.Hour)
	if due := domain.Due(schedules, domain.SampleAt(tuesday)); len(due) != 0 {
		t.Fatalf("expected no alarm on tuesday, got %+v", due)
	}
}

func TestDueIgnoresDisabledSchedules(t *testing.T) {
	t.Parallel()
	s := morning()
	s.Enabled = false
	if due := domain.Due([]domain.Schedule{s}, domain.SampleAt(monday(9, 0))); len(due) != 0 {
		t.Fatalf("disabled schedule must never be due, got %+v", due)
	}
}

func TestDuePreservesInputOrder(t *testing.T) {
	t.Parallel()
	a := morning()
	a.ID, a.Name = 1, "Zeta"
	b := morning()
	b.ID, b.Name = 2, "Alpha"
	other := morning()
	other.ID, other.Name, other.Time = 3, "Later", "10:00"

	due := domain.Due([]domain.Schedule{a, other, b}, domain.SampleAt(monday(9, 0)))
	if len(due) != 2 || due[0].Name != "Zeta" || due[1].Name != "Alpha" {
		t.Fatalf("expected [Zeta Alpha], got %+v", due)
	}
}

func TestSampleIsStableWithinMinute(t *testing.T) {
	t.Parallel()
	first := domain.SampleAt(time.Date(2026, 2, 23, 9, 0, 1, 0, time.UTC))
	last := domain.SampleAt(time.Date(2026, 2, 23, 9, 0, 59, 999, time.UTC))
	if first.MinuteKey != last.MinuteKey || first.DateKey != last.DateKey {
		t.Fatalf("expected same keys, got %+v vs %+v", first, last)
	}
	if first.Weekday != domain.Monday || first.MinuteKey != "09:00" || first.DateKey != "2026-02-23" {
		t.Fatalf("unexpected sample: %+v", first)
	}
}

func TestRemainingTodaySkipsPastMinutes(t *testing.T) {
	t.Parallel()
	early := morning()
	early.Name, early.Time = "Early", "07:00"
	late := morning()
	late.Name, late.Time = "Late", "21:30"

	out := domain.RemainingToday([]domain.Schedule{early, morning(), late}, domain.SampleAt(monday(9, 0)))
	if len(out) != 2 || out[0].Name != "Morning" || out[1].Name != "Late" {
		t.Fatalf("expected [Morning Late], got %+v", out)
	}
}

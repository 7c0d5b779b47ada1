package domain_test

import (
	"strings"
	"testing"
	"time"

	"reader365/internal/modules/alarm/domain"
)

func TestDraftBuildNormalises(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 2, 23, 8, 0, 0, 0, time.UTC)
	s, err := domain.Draft{
		Name:         "  Evening ",
		Time:         "7:05",
		Days:         []string{"sun", "monday,Mon", "Wednesday"},
		SoundEnabled: true,
	}.Build(created)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Name != "Evening" || s.Time != "07:05" {
		t.Fatalf("unexpected name/time: %q %q", s.Name, s.Time)
	}
	want := []domain.Weekday{domain.Monday, domain.Wednesday, domain.Sunday}
	if len(s.Days) != len(want) {
		t.Fatalf("expected %v, got %v", want, s.Days)
	}
	for i := range want {
		if s.Days[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, s.Days)
		}
	}
	if s.Duration != domain.DefaultDuration || s.Message != domain.DefaultMessage {
		t.Fatalf("expected defaults, got duration=%d message=%q", s.Duration, s.Message)
	}
	if !s.Enabled || !s.SoundEnabled || !s.CreatedAt.Equal(created) {
		t.Fatalf("unexpected flags: %+v", s)
	}
}

func TestDraftBuildRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.Draft{
		"empty name":   {Name: " ", Time: "09:00", Days: []string{"Monday"}},
		"no days":      {Name: "Morning", Time: "09:00"},
		"unknown day":  {Name: "Morning", Time: "09:00", Days: []string{"Funday"}},
		"bad hour":     {Name: "Morning", Time: "24:00", Days: []string{"Monday"}},
		"bad minute":   {Name: "Morning", Time: "09:7", Days: []string{"Monday"}},
		"long session": {Name: "Morning", Time: "09:00", Days: []string{"Monday"}, Duration: 10000},
	}
	for name, draft := range cases {
		if _, err := draft.Build(time.Now()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNormalizeTimeRejectsSignsAndLongHours(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"+9:00", "009:00", "-1:00", "09:+5", " 9 :00", "9:0a"} {
		if got, err := domain.NormalizeTime(in); err == nil {
			t.Fatalf("%q: expected error, got %q", in, got)
		}
	}
	for in, want := range map[string]string{"9:00": "09:00", "09:00": "09:00", "0:05": "00:05", "23:59": "23:59"} {
		got, err := domain.NormalizeTime(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestParseWeekdaysShorthands(t *testing.T) {
	t.Parallel()
	days, err := domain.ParseWeekdays([]string{"weekdays"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(days) != 5 || days[0] != domain.Monday || days[4] != domain.Friday {
		t.Fatalf("unexpected weekdays: %v", days)
	}
	days, err = domain.ParseWeekdays([]string{"daily"})
	if err != nil || len(days) != 7 {
		t.Fatalf("expected all days, got %v err=%v", days, err)
	}
}

func TestEyeBreakHintOnlyWhenEnabled(t *testing.T) {
	t.Parallel()
	cfg := domain.EyeBreak{Enabled: true, IntervalMinutes: 20, DurationMinutes: 5}
	hint, ok := cfg.Hint()
	if !ok {
		t.Fatalf("expected hint when enabled")
	}
	if !strings.Contains(hint.Text(), "5-minute break every 20 minutes") {
		t.Fatalf("unexpected hint text: %s", hint.Text())
	}
	cfg.Enabled = false
	if _, ok := cfg.Hint(); ok {
		t.Fatalf("expected no hint when disabled")
	}
}

func TestEyeBreakValidateRanges(t *testing.T) {
	t.Parallel()
	if err := (domain.EyeBreak{IntervalMinutes: 9, DurationMinutes: 5}).Validate(); err == nil {
		t.Fatalf("expected interval error")
	}
	if err := (domain.EyeBreak{IntervalMinutes: 60, DurationMinutes: 21}).Validate(); err == nil {
		t.Fatalf("expected duration error")
	}
	if err := (domain.EyeBreak{IntervalMinutes: 10, DurationMinutes: 20}).Validate(); err != nil {
		t.Fatalf("expected bounds to be valid: %v", err)
	}
}

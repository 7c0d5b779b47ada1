package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMessage  = "It's time for your reading session! 📖"
	DefaultDuration = 30
	MaxDuration     = 720
)

// Schedule is a recurring reading alarm.
type Schedule struct {
	ID           int
	Name         string
	Time         string // HH:MM, 24h, zero-padded
	Days         []Weekday
	Message      string
	Duration     int // suggested reading minutes, display only
	SoundEnabled bool
	Enabled      bool
	CreatedAt    time.Time
}

// Draft is unvalidated user input for a new schedule.
type Draft struct {
	Name         string
	Time         string
	Days         []string
	Message      string
	Duration     int
	SoundEnabled bool
}

// Build validates the draft and returns a normalised, enabled schedule.
// The caller assigns the id.
func (d Draft) Build(createdAt time.Time) (Schedule, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Schedule{}, fmt.Errorf("alarm name is required")
	}
	days, err := ParseWeekdays(d.Days)
	if err != nil {
		return Schedule{}, err
	}
	if len(days) == 0 {
		return Schedule{}, fmt.Errorf("select at least one day")
	}
	hhmm, err := NormalizeTime(d.Time)
	if err != nil {
		return Schedule{}, err
	}
	duration := d.Duration
	if duration == 0 {
		duration = DefaultDuration
	}
	if duration < 1 || duration > MaxDuration {
		return Schedule{}, fmt.Errorf("duration must be within 1..%d minutes", MaxDuration)
	}
	message := strings.TrimSpace(d.Message)
	if message == "" {
		message = DefaultMessage
	}
	return Schedule{
		Name:         name,
		Time:         hhmm,
		Days:         days,
		Message:      message,
		Duration:     duration,
		SoundEnabled: d.SoundEnabled,
		Enabled:      true,
		CreatedAt:    createdAt,
	}, nil
}

// HasDay reports whether the schedule recurs on the given weekday.
func (s Schedule) HasDay(day Weekday) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

// NormalizeTime accepts H:MM or HH:MM and returns the zero-padded HH:MM form.
func NormalizeTime(s string) (string, error) {
	mins, err := ParseMinuteOfDay(s)
	if err != nil {
		return "", err
	}
	return FormatMinutes(mins), nil
}

// ParseMinuteOfDay parses HH:MM into minutes since midnight.
func ParseMinuteOfDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	if n := len(parts[0]); n < 1 || n > 2 || !allDigits(parts[0]) {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if len(parts[1]) != 2 || !allDigits(parts[1]) {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

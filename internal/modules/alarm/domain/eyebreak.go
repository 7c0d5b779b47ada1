package domain

import "fmt"

const (
	MinEyeBreakInterval = 10
	MaxEyeBreakInterval = 60
	MinEyeBreakDuration = 5
	MaxEyeBreakDuration = 20
)

// EyeBreak is the session's eye wellness setting. It never fires on its own;
// its hint rides along with alarm notifications.
type EyeBreak struct {
	Enabled         bool
	IntervalMinutes int
	DurationMinutes int
}

func (e EyeBreak) Validate() error {
	if e.IntervalMinutes < MinEyeBreakInterval || e.IntervalMinutes > MaxEyeBreakInterval {
		return fmt.Errorf("break interval must be within %d..%d minutes", MinEyeBreakInterval, MaxEyeBreakInterval)
	}
	if e.DurationMinutes < MinEyeBreakDuration || e.DurationMinutes > MaxEyeBreakDuration {
		return fmt.Errorf("break duration must be within %d..%d minutes", MinEyeBreakDuration, MaxEyeBreakDuration)
	}
	return nil
}

// EyeBreakHint is attached to a notification when eye wellness is on.
type EyeBreakHint struct {
	IntervalMinutes int
	DurationMinutes int
}

func (h EyeBreakHint) Text() string {
	return fmt.Sprintf("Take a %d-minute break every %d minutes during your reading session!", h.DurationMinutes, h.IntervalMinutes)
}

// Hint returns the reminder to attach, or false when eye wellness is off.
func (e EyeBreak) Hint() (EyeBreakHint, bool) {
	if !e.Enabled {
		return EyeBreakHint{}, false
	}
	return EyeBreakHint{IntervalMinutes: e.IntervalMinutes, DurationMinutes: e.DurationMinutes}, true
}

// Rule renders the 20-20-20 advice for the settings screen.
func (e EyeBreak) Rule() string {
	return fmt.Sprintf("Every %d minutes, take a %d-minute break and look at something 20 feet away.", e.IntervalMinutes, e.DurationMinutes)
}

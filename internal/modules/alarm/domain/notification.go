package domain

import "time"

// AlarmTone is what a fired alarm plays.
var AlarmTone = Tone{FrequencyHz: 440, Duration: 2 * time.Second}

type Tone struct {
	FrequencyHz int
	Duration    time.Duration
}

// Notification is the visual payload produced for one fired alarm.
type Notification struct {
	AlarmID  int
	Name     string
	Message  string
	Duration int
	EyeBreak *EyeBreakHint
	FiredAt  time.Time
}

// FireEvent is the audit entry written to fire history.
type FireEvent struct {
	AlarmID      int
	Name         string
	Time         string
	DateKey      string
	Message      string
	SoundEnabled bool
	FiredAt      time.Time
}

func NewFireEvent(s Schedule, sample Sample) FireEvent {
	return FireEvent{
		AlarmID:      s.ID,
		Name:         s.Name,
		Time:         s.Time,
		DateKey:      sample.DateKey,
		Message:      s.Message,
		SoundEnabled: s.SoundEnabled,
		FiredAt:      sample.At,
	}
}

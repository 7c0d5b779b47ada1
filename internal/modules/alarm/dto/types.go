package dto

import "time"

type CreateInput struct {
	Name         string
	Time         string
	Days         []string
	Message      string
	Duration     int
	SoundEnabled bool
}

type ScheduleOutput struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Time         string    `json:"time"`
	Days         []string  `json:"days"`
	Message      string    `json:"message"`
	Duration     int       `json:"duration"`
	SoundEnabled bool      `json:"sound_enabled"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

type NotificationOutput struct {
	AlarmID      int       `json:"alarm_id"`
	Name         string    `json:"name"`
	Message      string    `json:"message"`
	Duration     int       `json:"duration"`
	EyeBreakHint string    `json:"eye_break_hint,omitempty"`
	FiredAt      time.Time `json:"fired_at"`
}

type CycleOutput struct {
	CheckedAt     time.Time            `json:"checked_at"`
	Weekday       string               `json:"weekday"`
	MinuteKey     string               `json:"minute_key"`
	Due           []string             `json:"due"`
	Notifications []NotificationOutput `json:"notifications"`
}

type EyeBreakInput struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"interval_minutes"`
	DurationMinutes int  `json:"break_duration_minutes"`
}

type EyeBreakOutput struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes"`
	DurationMinutes int    `json:"break_duration_minutes"`
	Rule            string `json:"rule"`
}

type StatsOutput struct {
	Total                int `json:"total"`
	Active               int `json:"active"`
	WeeklyReadingMinutes int `json:"weekly_reading_minutes"`
	FiresLast7Days       int `json:"fires_last_7_days"`
}

type UpcomingOutput struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

type DebugOutput struct {
	Now             time.Time        `json:"now"`
	Weekday         string           `json:"weekday"`
	MinuteKey       string           `json:"minute_key"`
	DateKey         string           `json:"date_key"`
	AudioAvailable  bool             `json:"audio_available"`
	ActiveSchedules int              `json:"active_schedules"`
	RemainingToday  []UpcomingOutput `json:"remaining_today"`
	LastCheck       time.Time        `json:"last_check"`
	LastDue         []string         `json:"last_due"`
	FireRecords     int              `json:"fire_records"`
	EyeBreak        EyeBreakOutput   `json:"eye_break"`
	LoadError       string           `json:"load_error,omitempty"`
}

type FireOutput struct {
	AlarmID      int       `json:"alarm_id"`
	Name         string    `json:"name"`
	Time         string    `json:"time"`
	Date         string    `json:"date"`
	Message      string    `json:"message"`
	SoundEnabled bool      `json:"sound_enabled"`
	FiredAt      time.Time `json:"fired_at"`
}

type SoundTestOutput struct {
	Available bool `json:"available"`
	Played    bool `json:"played"`
}

package domain

import "time"

const (
	minuteKeyLayout = "15:04"
	dateKeyLayout   = "2006-01-02"
)

// Sample is one reading of the wall clock, reduced to the keys the matcher
// and the fire log compare against.
type Sample struct {
	Weekday   Weekday
	MinuteKey string // HH:MM
	DateKey   string // YYYY-MM-DD
	At        time.Time
}

// SampleAt derives a sample from t in t's own location. Any two instants
// inside the same wall-clock minute produce the same MinuteKey.
func SampleAt(t time.Time) Sample {
	return Sample{
		Weekday:   WeekdayOf(t),
		MinuteKey: t.Format(minuteKeyLayout),
		DateKey:   t.Format(dateKeyLayout),
		At:        t,
	}
}

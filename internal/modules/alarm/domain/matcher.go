package domain

// Due returns the enabled schedules set for exactly this minute on this
// weekday, in input order. A minute that passes without a check is never
// fired late.
func Due(schedules []Schedule, sample Sample) []Schedule {
	var due []Schedule
	for _, s := range schedules {
		if !s.Enabled {
			continue
		}
		if s.Time != sample.MinuteKey || !s.HasDay(sample.Weekday) {
			continue
		}
		due = append(due, s)
	}
	return due
}

// RemainingToday lists enabled schedules for the sample's weekday whose
// minute has not passed yet.
func RemainingToday(schedules []Schedule, sample Sample) []Schedule {
	var out []Schedule
	for _, s := range schedules {
		if s.Enabled && s.HasDay(sample.Weekday) && s.Time >= sample.MinuteKey {
			out = append(out, s)
		}
	}
	return out
}

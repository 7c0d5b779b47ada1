package domain

import (
	"sort"
	"time"
)

// RetentionDays bounds how long fire records are kept.
const RetentionDays = 7

// FireRecord marks that an alarm already fired on a calendar day.
type FireRecord struct {
	Key     string
	FiredAt time.Time
}

// FireLog remembers which alarms fired on which day so that an alarm fires
// at most once per calendar day. It is not safe for concurrent use; the
// cycle that owns it serializes access.
type FireLog struct {
	fired map[string]time.Time
}

func NewFireLog() *FireLog {
	return &FireLog{fired: make(map[string]time.Time)}
}

// FireKey identifies an alarm on a day by name and time rather than id, so
// editing the message or duration keeps today's record while a rename or a
// time change starts a fresh history.
func FireKey(s Schedule, sample Sample) string {
	return s.Name + "_" + s.Time + "_" + sample.DateKey
}

func (l *FireLog) ShouldFire(s Schedule, sample Sample) bool {
	_, seen := l.fired[FireKey(s, sample)]
	return !seen
}

// RecordFired stores the sample time under the alarm's key, replacing any
// previous record for the same key.
func (l *FireLog) RecordFired(s Schedule, sample Sample) {
	l.fired[FireKey(s, sample)] = sample.At
}

// Prune drops records fired retentionDays or more before now. Records
// without a timestamp are always dropped. It returns how many were removed.
func (l *FireLog) Prune(retentionDays int, now time.Time) int {
	cutoff := now.Add(-time.Duration(retentionDays) * 24 * time.Hour)
	removed := 0
	for key, at := range l.fired {
		if at.IsZero() || !at.After(cutoff) {
			delete(l.fired, key)
			removed++
		}
	}
	return removed
}

func (l *FireLog) Len() int {
	return len(l.fired)
}

// Records returns a copy of the log ordered by fire time.
func (l *FireLog) Records() []FireRecord {
	out := make([]FireRecord, 0, len(l.fired))
	for key, at := range l.fired {
		out = append(out, FireRecord{Key: key, FiredAt: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FiredAt.Equal(out[j].FiredAt) {
			return out[i].Key < out[j].Key
		}
		return out[i].FiredAt.Before(out[j].FiredAt)
	})
	return out
}

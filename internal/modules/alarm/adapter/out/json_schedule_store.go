package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reader365/internal/modules/alarm/domain"
	alarmout "reader365/internal/modules/alarm/port/out"
)

const createdAtLayout = "2006-01-02 15:04:05"

type JSONScheduleStore struct {
	path string
}

func NewJSONScheduleStore(path string) alarmout.ScheduleStore {
	return &JSONScheduleStore{path: path}
}

type scheduleRecord struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Time         string   `json:"time"`
	Days         []string `json:"days"`
	Message      string   `json:"message"`
	Duration     int      `json:"duration"`
	SoundEnabled *bool    `json:"sound_enabled"`
	Enabled      *bool    `json:"enabled"`
	CreatedAt    string   `json:"created_at"`
}

func (s *JSONScheduleStore) Load(_ context.Context) ([]domain.Schedule, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Schedule{}, nil
		}
		return nil, fmt.Errorf("read schedules: %w", err)
	}
	records := []scheduleRecord{}
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}
	out := make([]domain.Schedule, 0, len(records))
	for i, r := range records {
		sch, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode schedules: record %d (id %d, %q): %w", i, r.ID, r.Name, err)
		}
		out = append(out, sch)
	}
	return out, nil
}

// Save replaces the file through a temp file in the same directory so a
// crash never leaves a half-written list behind.
func (s *JSONScheduleStore) Save(_ context.Context, schedules []domain.Schedule) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create schedules dir: %w", err)
	}
	records := make([]scheduleRecord, 0, len(schedules))
	for _, sch := range schedules {
		records = append(records, recordFromDomain(sch))
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedules: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".reading_schedules-*.json")
	if err != nil {
		return fmt.Errorf("create temp schedules: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write schedules: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close schedules: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace schedules: %w", err)
	}
	return nil
}

// toDomain normalises hand-edited records the same way new drafts are, so
// "9:00" or "monday" still match.
func (r scheduleRecord) toDomain() (domain.Schedule, error) {
	hhmm, err := domain.NormalizeTime(r.Time)
	if err != nil {
		return domain.Schedule{}, err
	}
	days, err := domain.ParseWeekdays(r.Days)
	if err != nil {
		return domain.Schedule{}, err
	}
	if len(days) == 0 {
		return domain.Schedule{}, fmt.Errorf("no days selected")
	}
	created, _ := time.ParseInLocation(createdAtLayout, r.CreatedAt, time.Local)
	return domain.Schedule{
		ID:           r.ID,
		Name:         r.Name,
		Time:         hhmm,
		Days:         days,
		Message:      r.Message,
		Duration:     r.Duration,
		SoundEnabled: r.SoundEnabled == nil || *r.SoundEnabled,
		Enabled:      r.Enabled == nil || *r.Enabled,
		CreatedAt:    created,
	}, nil
}

func recordFromDomain(s domain.Schedule) scheduleRecord {
	days := make([]string, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, string(d))
	}
	sound := s.SoundEnabled
	enabled := s.Enabled
	created := ""
	if !s.CreatedAt.IsZero() {
		created = s.CreatedAt.Format(createdAtLayout)
	}
	return scheduleRecord{
		ID:           s.ID,
		Name:         s.Name,
		Time:         s.Time,
		Days:         days,
		Message:      s.Message,
		Duration:     s.Duration,
		SoundEnabled: &sound,
		Enabled:      &enabled,
		CreatedAt:    created,
	}
}

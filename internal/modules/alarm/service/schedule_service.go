package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	alarmout "reader365/internal/modules/alarm/port/out"
	"reader365/internal/platform/clock"
	apperrors "reader365/internal/platform/errors"
	"reader365/internal/platform/id"
)

// ScheduleService owns the in-memory schedule list. The list is the source
// of truth for the session; every mutation is written through to the store,
// and a failed write is reported without rolling the mutation back.
type ScheduleService struct {
	clock clock.Clock
	ids   *id.Sequence
	store alarmout.ScheduleStore
	log   *zap.Logger

	mu        sync.RWMutex
	schedules []domain.Schedule
	loadErr   error
}

func NewScheduleService(clock clock.Clock, ids *id.Sequence, store alarmout.ScheduleStore, log *zap.Logger) *ScheduleService {
	return &ScheduleService{clock: clock, ids: ids, store: store, log: log}
}

// Open reads the store once. On failure the session continues with an
// empty list and the error is kept for diagnostics.
func (s *ScheduleService) Open(ctx context.Context) error {
	loaded, err := s.store.Load(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErr = err
		s.schedules = nil
		s.log.Error("load schedules failed", zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	s.loadErr = nil
	s.schedules = loaded
	for _, sch := range loaded {
		s.ids.Observe(sch.ID)
	}
	s.log.Info("schedules loaded", zap.Int("count", len(loaded)))
	return nil
}

func (s *ScheduleService) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Snapshot returns a deep copy of the schedules in insertion order.
func (s *ScheduleService) Snapshot() []domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSchedules(s.schedules)
}

func (s *ScheduleService) Create(ctx context.Context, draft domain.Draft) (domain.Schedule, error) {
	schedule, err := draft.Build(s.clock.Now())
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	schedule.ID = s.ids.Next()
	s.schedules = append(s.schedules, schedule)
	s.log.Info("alarm created", zap.Int("id", schedule.ID), zap.String("name", schedule.Name), zap.String("time", schedule.Time))
	return cloneSchedule(schedule), s.persistLocked(ctx)
}

func (s *ScheduleService) Get(id int) (domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Schedule{}, fmt.Errorf("%w: alarm %d", apperrors.ErrNotFound, id)
	}
	return cloneSchedule(s.schedules[idx]), nil
}

func (s *ScheduleService) Toggle(ctx context.Context, id int) (domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Schedule{}, fmt.Errorf("%w: alarm %d", apperrors.ErrNotFound, id)
	}
	s.schedules[idx].Enabled = !s.schedules[idx].Enabled
	s.log.Info("alarm toggled", zap.Int("id", id), zap.Bool("enabled", s.schedules[idx].Enabled))
	return cloneSchedule(s.schedules[idx]), s.persistLocked(ctx)
}

func (s *ScheduleService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: alarm %d", apperrors.ErrNotFound, id)
	}
	s.schedules = append(s.schedules[:idx:idx], s.schedules[idx+1:]...)
	s.log.Info("alarm deleted", zap.Int("id", id))
	return s.persistLocked(ctx)
}

func (s *ScheduleService) indexLocked(id int) int {
	for i, sch := range s.schedules {
		if sch.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked saves the full list. After a failed load the file still
// holds the user's alarms, so changes stay in memory instead of replacing it.
func (s *ScheduleService) persistLocked(ctx context.Context) error {
	if s.loadErr != nil {
		s.log.Warn("schedule file was not loaded, change kept in memory only", zap.Error(s.loadErr))
		return fmt.Errorf("%w: schedule file could not be loaded, change not saved: %v", apperrors.ErrPersistence, s.loadErr)
	}
	if err := s.store.Save(ctx, cloneSchedules(s.schedules)); err != nil {
		s.log.Error("save schedules failed", zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func cloneSchedules(in []domain.Schedule) []domain.Schedule {
	out := make([]domain.Schedule, len(in))
	for i, s := range in {
		out[i] = cloneSchedule(s)
	}
	return out
}

func cloneSchedule(s domain.Schedule) domain.Schedule {
	s.Days = append([]domain.Weekday(nil), s.Days...)
	return s
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	alarmout "reader365/internal/modules/alarm/port/out"
	"reader365/internal/platform/clock"
	apperrors "reader365/internal/platform/errors"
)

type Stats struct {
	Total                int
	Active               int
	WeeklyReadingMinutes int
	FiresLast7Days       int
}

type Debug struct {
	Sample          domain.Sample
	AudioAvailable  bool
	ActiveSchedules int
	RemainingToday  []domain.Schedule
	Last            CycleResult
	FireRecords     int
	EyeBreak        domain.EyeBreak
	LoadError       error
}

// ReportService answers read-only questions about the session.
type ReportService struct {
	clock     clock.Clock
	schedules *ScheduleService
	cycle     *CycleService
	player    alarmout.TonePlayer
	history   alarmout.FireHistory
	log       *zap.Logger
}

func NewReportService(clock clock.Clock, schedules *ScheduleService, cycle *CycleService, player alarmout.TonePlayer, history alarmout.FireHistory, log *zap.Logger) *ReportService {
	return &ReportService{clock: clock, schedules: schedules, cycle: cycle, player: player, history: history, log: log}
}

func (s *ReportService) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{}
	for _, sch := range s.schedules.Snapshot() {
		stats.Total++
		if sch.Enabled {
			stats.Active++
			stats.WeeklyReadingMinutes += sch.Duration
		}
	}
	if s.history != nil {
		since := s.clock.Now().Add(-time.Duration(domain.RetentionDays) * 24 * time.Hour)
		// Schedule figures stay valid when the history store is unreadable.
		count, err := s.history.CountSince(ctx, since)
		if err != nil {
			s.log.Warn("fire history unavailable, reporting zero recent fires", zap.Error(err))
			count = 0
		}
		stats.FiresLast7Days = count
	}
	return stats, nil
}

func (s *ReportService) Debug(_ context.Context) Debug {
	sample := domain.SampleAt(s.clock.Now())
	schedules := s.schedules.Snapshot()
	active := 0
	for _, sch := range schedules {
		if sch.Enabled {
			active++
		}
	}
	return Debug{
		Sample:          sample,
		AudioAvailable:  s.player != nil && s.player.Available(),
		ActiveSchedules: active,
		RemainingToday:  domain.RemainingToday(schedules, sample),
		Last:            s.cycle.Last(),
		FireRecords:     s.cycle.FireRecords(),
		EyeBreak:        s.cycle.EyeBreak(),
		LoadError:       s.schedules.LoadError(),
	}
}

func (s *ReportService) History(ctx context.Context, limit int) ([]domain.FireEvent, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.history.Recent(ctx, limit)
}

// TestSound plays the alarm tone on demand.
func (s *ReportService) TestSound(ctx context.Context) (bool, error) {
	if s.player == nil || !s.player.Available() {
		return false, apperrors.ErrAudioUnavailable
	}
	if err := s.player.Play(ctx, domain.AlarmTone); err != nil {
		return false, err
	}
	return true, nil
}

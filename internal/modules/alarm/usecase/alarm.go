package usecase

import (
	"context"
	"errors"

	"reader365/internal/modules/alarm/domain"
	"reader365/internal/modules/alarm/dto"
	alarmin "reader365/internal/modules/alarm/port/in"
	"reader365/internal/modules/alarm/service"
	apperrors "reader365/internal/platform/errors"
)

type Interactor struct {
	schedules *service.ScheduleService
	cycle     *service.CycleService
	reports   *service.ReportService
}

func NewInteractor(schedules *service.ScheduleService, cycle *service.CycleService, reports *service.ReportService) alarmin.Usecase {
	return &Interactor{schedules: schedules, cycle: cycle, reports: reports}
}

// Create returns the new schedule even when persisting it failed; the
// error then wraps ErrPersistence.
func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.ScheduleOutput, error) {
	schedule, err := i.schedules.Create(ctx, domain.Draft{
		Name:         input.Name,
		Time:         input.Time,
		Days:         input.Days,
		Message:      input.Message,
		Duration:     input.Duration,
		SoundEnabled: input.SoundEnabled,
	})
	if err != nil && !errors.Is(err, apperrors.ErrPersistence) {
		return dto.ScheduleOutput{}, err
	}
	return scheduleOutput(schedule), err
}

func (i *Interactor) List(_ context.Context) ([]dto.ScheduleOutput, error) {
	schedules := i.schedules.Snapshot()
	out := make([]dto.ScheduleOutput, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, scheduleOutput(s))
	}
	return out, nil
}

func (i *Interactor) Get(_ context.Context, id int) (dto.ScheduleOutput, error) {
	schedule, err := i.schedules.Get(id)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return scheduleOutput(schedule), nil
}

func (i *Interactor) Toggle(ctx context.Context, id int) (dto.ScheduleOutput, error) {
	schedule, err := i.schedules.Toggle(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrPersistence) {
		return dto.ScheduleOutput{}, err
	}
	return scheduleOutput(schedule), err
}

func (i *Interactor) Delete(ctx context.Context, id int) error {
	return i.schedules.Delete(ctx, id)
}

func (i *Interactor) Check(ctx context.Context) (dto.CycleOutput, error) {
	return cycleOutput(i.cycle.Check(ctx)), nil
}

func (i *Interactor) LastCycle(_ context.Context) (dto.CycleOutput, error) {
	return cycleOutput(i.cycle.Last()), nil
}

func (i *Interactor) EyeBreak(_ context.Context) (dto.EyeBreakOutput, error) {
	return eyeBreakOutput(i.cycle.EyeBreak()), nil
}

func (i *Interactor) SetEyeBreak(_ context.Context, input dto.EyeBreakInput) (dto.EyeBreakOutput, error) {
	cfg, err := i.cycle.SetEyeBreak(domain.EyeBreak{
		Enabled:         input.Enabled,
		IntervalMinutes: input.IntervalMinutes,
		DurationMinutes: input.DurationMinutes,
	})
	if err != nil {
		return dto.EyeBreakOutput{}, err
	}
	return eyeBreakOutput(cfg), nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	stats, err := i.reports.Stats(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return dto.StatsOutput{
		Total:                stats.Total,
		Active:               stats.Active,
		WeeklyReadingMinutes: stats.WeeklyReadingMinutes,
		FiresLast7Days:       stats.FiresLast7Days,
	}, nil
}

func (i *Interactor) Debug(ctx context.Context) (dto.DebugOutput, error) {
	d := i.reports.Debug(ctx)
	out := dto.DebugOutput{
		Now:             d.Sample.At,
		Weekday:         string(d.Sample.Weekday),
		MinuteKey:       d.Sample.MinuteKey,
		DateKey:         d.Sample.DateKey,
		AudioAvailable:  d.AudioAvailable,
		ActiveSchedules: d.ActiveSchedules,
		RemainingToday:  make([]dto.UpcomingOutput, 0, len(d.RemainingToday)),
		LastCheck:       d.Last.Sample.At,
		LastDue:         names(d.Last.Due),
		FireRecords:     d.FireRecords,
		EyeBreak:        eyeBreakOutput(d.EyeBreak),
	}
	for _, s := range d.RemainingToday {
		out.RemainingToday = append(out.RemainingToday, dto.UpcomingOutput{Name: s.Name, Time: s.Time})
	}
	if d.LoadError != nil {
		out.LoadError = d.LoadError.Error()
	}
	return out, nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.FireOutput, error) {
	events, err := i.reports.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FireOutput, 0, len(events))
	for _, e := range events {
		out = append(out, dto.FireOutput{
			AlarmID:      e.AlarmID,
			Name:         e.Name,
			Time:         e.Time,
			Date:         e.DateKey,
			Message:      e.Message,
			SoundEnabled: e.SoundEnabled,
			FiredAt:      e.FiredAt,
		})
	}
	return out, nil
}

func (i *Interactor) TestSound(ctx context.Context) (dto.SoundTestOutput, error) {
	played, err := i.reports.TestSound(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrAudioUnavailable) {
			return dto.SoundTestOutput{}, err
		}
		return dto.SoundTestOutput{Available: true}, err
	}
	return dto.SoundTestOutput{Available: true, Played: played}, nil
}

func scheduleOutput(s domain.Schedule) dto.ScheduleOutput {
	days := make([]string, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, string(d))
	}
	return dto.ScheduleOutput{
		ID:           s.ID,
		Name:         s.Name,
		Time:         s.Time,
		Days:         days,
		Message:      s.Message,
		Duration:     s.Duration,
		SoundEnabled: s.SoundEnabled,
		Enabled:      s.Enabled,
		CreatedAt:    s.CreatedAt,
	}
}

func cycleOutput(res service.CycleResult) dto.CycleOutput {
	out := dto.CycleOutput{
		CheckedAt:     res.Sample.At,
		Weekday:       string(res.Sample.Weekday),
		MinuteKey:     res.Sample.MinuteKey,
		Due:           names(res.Due),
		Notifications: make([]dto.NotificationOutput, 0, len(res.Notifications)),
	}
	for _, n := range res.Notifications {
		item := dto.NotificationOutput{
			AlarmID:  n.AlarmID,
			Name:     n.Name,
			Message:  n.Message,
			Duration: n.Duration,
			FiredAt:  n.FiredAt,
		}
		if n.EyeBreak != nil {
			item.EyeBreakHint = n.EyeBreak.Text()
		}
		out.Notifications = append(out.Notifications, item)
	}
	return out
}

func eyeBreakOutput(e domain.EyeBreak) dto.EyeBreakOutput {
	return dto.EyeBreakOutput{
		Enabled:         e.Enabled,
		IntervalMinutes: e.IntervalMinutes,
		DurationMinutes: e.DurationMinutes,
		Rule:            e.Rule(),
	}
}

func names(schedules []domain.Schedule) []string {
	out := make([]string, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, s.Name)
	}
	return out
}

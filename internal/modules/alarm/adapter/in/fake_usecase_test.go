package in_test

import (
	"context"
	"fmt"
	"sync"

	"reader365/internal/modules/alarm/dto"
	apperrors "reader365/internal/platform/errors"
)

type fakeUsecase struct {
	mu        sync.Mutex
	schedules []dto.ScheduleOutput
	checks    int
	saveErr   error
	eyeBreak  dto.EyeBreakOutput
	audio     bool
}

func (f *fakeUsecase) Create(_ context.Context, in dto.CreateInput) (dto.ScheduleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Name == "" || len(in.Days) == 0 {
		return dto.ScheduleOutput{}, fmt.Errorf("%w: name and days are required", apperrors.ErrInvalidInput)
	}
	out := dto.ScheduleOutput{ID: len(f.schedules) + 1, Name: in.Name, Time: in.Time, Days: in.Days, SoundEnabled: in.SoundEnabled, Enabled: true}
	f.schedules = append(f.schedules, out)
	if f.saveErr != nil {
		return out, f.saveErr
	}
	return out, nil
}

func (f *fakeUsecase) List(context.Context) ([]dto.ScheduleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.ScheduleOutput{}, f.schedules...), nil
}

func (f *fakeUsecase) Get(_ context.Context, id int) (dto.ScheduleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return dto.ScheduleOutput{}, fmt.Errorf("%w: alarm %d", apperrors.ErrNotFound, id)
}

func (f *fakeUsecase) Toggle(_ context.Context, id int) (dto.ScheduleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			f.schedules[i].Enabled = !f.schedules[i].Enabled
			return f.schedules[i], nil
		}
	}
	return dto.ScheduleOutput{}, fmt.Errorf("%w: alarm %d", apperrors.ErrNotFound, id)
}

func (f *fakeUsecase) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: alarm %d", apperrors.ErrNotFound, id)
}

func (f *fakeUsecase) Check(context.Context) (dto.CycleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return dto.CycleOutput{MinuteKey: "09:00", Notifications: []dto.NotificationOutput{{Name: "Morning"}}}, nil
}

func (f *fakeUsecase) checkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks
}

func (f *fakeUsecase) LastCycle(context.Context) (dto.CycleOutput, error) {
	return dto.CycleOutput{Notifications: []dto.NotificationOutput{{Name: "Morning", EyeBreakHint: "hint"}}}, nil
}

func (f *fakeUsecase) EyeBreak(context.Context) (dto.EyeBreakOutput, error) {
	return f.eyeBreak, nil
}

func (f *fakeUsecase) SetEyeBreak(_ context.Context, in dto.EyeBreakInput) (dto.EyeBreakOutput, error) {
	if in.IntervalMinutes < 10 || in.IntervalMinutes > 60 {
		return dto.EyeBreakOutput{}, fmt.Errorf("%w: interval out of range", apperrors.ErrInvalidInput)
	}
	f.eyeBreak = dto.EyeBreakOutput{Enabled: in.Enabled, IntervalMinutes: in.IntervalMinutes, DurationMinutes: in.DurationMinutes}
	return f.eyeBreak, nil
}

func (f *fakeUsecase) Stats(context.Context) (dto.StatsOutput, error) {
	return dto.StatsOutput{Total: len(f.schedules)}, nil
}

func (f *fakeUsecase) Debug(context.Context) (dto.DebugOutput, error) {
	return dto.DebugOutput{MinuteKey: "09:00"}, nil
}

func (f *fakeUsecase) History(_ context.Context, limit int) ([]dto.FireOutput, error) {
	return []dto.FireOutput{{Name: fmt.Sprintf("limit-%d", limit)}}, nil
}

func (f *fakeUsecase) TestSound(context.Context) (dto.SoundTestOutput, error) {
	if !f.audio {
		return dto.SoundTestOutput{}, apperrors.ErrAudioUnavailable
	}
	return dto.SoundTestOutput{Available: true, Played: true}, nil
}

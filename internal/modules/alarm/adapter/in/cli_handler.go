package in

import (
	"context"

	"reader365/internal/modules/alarm/dto"
	alarmin "reader365/internal/modules/alarm/port/in"
)

type CLIHandler struct {
	usecase alarmin.Usecase
}

func NewCLIHandler(usecase alarmin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, name, hhmm string, days []string, message string, duration int, sound bool) (dto.ScheduleOutput, error) {
	return h.usecase.Create(ctx, dto.CreateInput{
		Name:         name,
		Time:         hhmm,
		Days:         days,
		Message:      message,
		Duration:     duration,
		SoundEnabled: sound,
	})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ScheduleOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id int) (dto.ScheduleOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Toggle(ctx context.Context, id int) (dto.ScheduleOutput, error) {
	return h.usecase.Toggle(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id int) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Check(ctx context.Context) (dto.CycleOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) EyeBreak(ctx context.Context) (dto.EyeBreakOutput, error) {
	return h.usecase.EyeBreak(ctx)
}

func (h CLIHandler) SetEyeBreak(ctx context.Context, enabled bool, interval, duration int) (dto.EyeBreakOutput, error) {
	return h.usecase.SetEyeBreak(ctx, dto.EyeBreakInput{Enabled: enabled, IntervalMinutes: interval, DurationMinutes: duration})
}

func (h CLIHandler) Stats(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) Debug(ctx context.Context) (dto.DebugOutput, error) {
	return h.usecase.Debug(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.FireOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) TestSound(ctx context.Context) (dto.SoundTestOutput, error) {
	return h.usecase.TestSound(ctx)
}

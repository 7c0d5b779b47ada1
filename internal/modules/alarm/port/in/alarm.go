package in

import (
	"context"

	"reader365/internal/modules/alarm/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.ScheduleOutput, error)
	List(ctx context.Context) ([]dto.ScheduleOutput, error)
	Get(ctx context.Context, id int) (dto.ScheduleOutput, error)
	Toggle(ctx context.Context, id int) (dto.ScheduleOutput, error)
	Delete(ctx context.Context, id int) error

	Check(ctx context.Context) (dto.CycleOutput, error)
	LastCycle(ctx context.Context) (dto.CycleOutput, error)

	EyeBreak(ctx context.Context) (dto.EyeBreakOutput, error)
	SetEyeBreak(ctx context.Context, input dto.EyeBreakInput) (dto.EyeBreakOutput, error)

	Stats(ctx context.Context) (dto.StatsOutput, error)
	Debug(ctx context.Context) (dto.DebugOutput, error)
	History(ctx context.Context, limit int) ([]dto.FireOutput, error)
	TestSound(ctx context.Context) (dto.SoundTestOutput, error)
}

package in

import (
	"context"

	"reader365/internal/modules/hook/dto"
	hookin "reader365/internal/modules/hook/port/in"
)

type CLIHandler struct {
	usecase hookin.Usecase
}

func NewCLIHandler(usecase hookin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.HookInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

// Test sends a synthetic event to every hook.
func (h CLIHandler) Test(ctx context.Context, input dto.EventInput) ([]dto.DispatchResult, error) {
	return h.usecase.Dispatch(ctx, input)
}

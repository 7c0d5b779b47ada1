package usecase

import (
	"context"

	"reader365/internal/modules/hook/dto"
	hookin "reader365/internal/modules/hook/port/in"
	"reader365/internal/modules/hook/service"
)

type Interactor struct {
	svc *service.HookService
}

func NewInteractor(svc *service.HookService) hookin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.HookInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Dispatch(ctx context.Context, input dto.EventInput) ([]dto.DispatchResult, error) {
	return i.svc.Dispatch(ctx, input)
}

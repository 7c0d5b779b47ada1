package in

import (
	"context"
	"time"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/dto"
	alarmin "reader365/internal/modules/alarm/port/in"
)

// Scheduler runs the check cycle on a fixed interval until its context is
// cancelled. The first check happens immediately.
type Scheduler struct {
	usecase  alarmin.Usecase
	interval time.Duration
	log      *zap.Logger
	onCycle  func(dto.CycleOutput)
}

func NewScheduler(usecase alarmin.Usecase, interval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{usecase: usecase, interval: interval, log: log}
}

// OnCycle registers a callback that receives every cycle result.
func (s *Scheduler) OnCycle(fn func(dto.CycleOutput)) {
	s.onCycle = fn
}

func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	out, err := s.usecase.Check(ctx)
	if err != nil {
		s.log.Error("check cycle failed", zap.Error(err))
		return
	}
	if s.onCycle != nil {
		s.onCycle(out)
	}
}

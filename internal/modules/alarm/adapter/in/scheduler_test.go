package in_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	alarmin "reader365/internal/modules/alarm/adapter/in"
	"reader365/internal/modules/alarm/dto"
)

func TestSchedulerChecksImmediatelyAndStops(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	s := alarmin.NewScheduler(uc, time.Hour, zap.NewNop())
	got := make(chan dto.CycleOutput, 1)
	s.OnCycle(func(out dto.CycleOutput) { got <- out })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case out := <-got:
		if out.MinuteKey != "09:00" {
			t.Fatalf("unexpected cycle: %+v", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected an immediate check")
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop")
	}
	if uc.checkCount() != 1 {
		t.Fatalf("expected one check with an hour interval, got %d", uc.checkCount())
	}
}

func TestSchedulerTicks(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	s := alarmin.NewScheduler(uc, 10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = s.Run(ctx)
	if uc.checkCount() < 3 {
		t.Fatalf("expected several checks, got %d", uc.checkCount())
	}
}

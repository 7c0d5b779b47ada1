package out

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	alarmout "reader365/internal/modules/alarm/port/out"
	hookdto "reader365/internal/modules/hook/dto"
	hookin "reader365/internal/modules/hook/port/in"
)

// HookSink forwards fired notifications to the notification hooks in the
// background.
type HookSink struct {
	hooks   hookin.Usecase
	timeout time.Duration
	log     *zap.Logger
	running sync.WaitGroup
}

var _ alarmout.NotificationSink = (*HookSink)(nil)

func NewHookSink(hooks hookin.Usecase, timeout time.Duration, log *zap.Logger) *HookSink {
	return &HookSink{hooks: hooks, timeout: timeout, log: log}
}

func (s *HookSink) Dispatch(_ context.Context, n domain.Notification) {
	input := hookdto.EventInput{
		AlarmID:  n.AlarmID,
		Name:     n.Name,
		Message:  n.Message,
		Duration: n.Duration,
		FiredAt:  n.FiredAt,
	}
	if n.EyeBreak != nil {
		input.EyeBreakHint = n.EyeBreak.Text()
	}
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		// Detached from the cycle's context so a finished check does not
		// cancel delivery.
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		results, err := s.hooks.Dispatch(ctx, input)
		if err != nil {
			s.log.Warn("hook dispatch failed", zap.Error(err), zap.Int("alarm_id", n.AlarmID))
			return
		}
		for _, r := range results {
			if r.Error != "" {
				s.log.Warn("hook rejected notification", zap.String("hook", r.Name), zap.String("error", r.Error))
			}
		}
	}()
}

// Close waits for in-flight deliveries, giving up one second after the
// hook timeout.
func (s *HookSink) Close() error {
	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(s.timeout + time.Second):
		s.log.Warn("hook deliveries still running at shutdown", zap.Duration("timeout", s.timeout))
		return nil
	}
}

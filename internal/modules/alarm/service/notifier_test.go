package service_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	"reader365/internal/modules/alarm/service"
)

func mondayAt(hh, mm int) domain.Sample {
	return domain.SampleAt(time.Date(2026, 2, 23, hh, mm, 0, 0, time.UTC))
}

func morningAlarm() domain.Schedule {
	return domain.Schedule{
		ID:           1,
		Name:         "Morning",
		Time:         "09:00",
		Days:         []domain.Weekday{domain.Monday},
		Message:      "Time to read",
		Duration:     30,
		SoundEnabled: true,
		Enabled:      true,
	}
}

var eyeOn = domain.EyeBreak{Enabled: true, IntervalMinutes: 20, DurationMinutes: 5}

func TestNotifyRepeatedInSameMinuteFiresOnce(t *testing.T) {
	t.Parallel()
	player := &recordingPlayer{available: true}
	history := &memoryHistory{}
	sink := &recordingSink{}
	n := service.NewNotifier(player, history, sink, zap.NewNop())
	fires := domain.NewFireLog()
	sample := mondayAt(9, 0)
	due := domain.Due([]domain.Schedule{morningAlarm()}, sample)

	first := n.Notify(context.Background(), due, sample, fires, eyeOn)
	second := n.Notify(context.Background(), due, sample, fires, eyeOn)

	if len(first) != 1 {
		t.Fatalf("expected one notification, got %d", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("expected repeated cycle to be silent, got %d", len(second))
	}
	if player.count() != 1 {
		t.Fatalf("expected one playback, got %d", player.count())
	}
	if len(history.events) != 1 || len(sink.notifications) != 1 {
		t.Fatalf("expected one history entry and one dispatch, got %d/%d", len(history.events), len(sink.notifications))
	}
	if first[0].Message != "Time to read" || first[0].Duration != 30 {
		t.Fatalf("unexpected payload: %+v", first[0])
	}
}

func TestNotifySoundDisabledNeverPlays(t *testing.T) {
	t.Parallel()
	player := &recordingPlayer{available: true}
	n := service.NewNotifier(player, nil, nil, zap.NewNop())
	alarm := morningAlarm()
	alarm.SoundEnabled = false
	sample := mondayAt(9, 0)

	out := n.Notify(context.Background(), []domain.Schedule{alarm}, sample, domain.NewFireLog(), eyeOn)
	if len(out) != 1 {
		t.Fatalf("expected payload for silent alarm, got %d", len(out))
	}
	if player.count() != 0 {
		t.Fatalf("expected no playback, got %d", player.count())
	}
}

func TestNotifyPlaybackFailureStillNotifies(t *testing.T) {
	t.Parallel()
	player := &recordingPlayer{available: true, err: errBroken}
	history := &memoryHistory{err: errBroken}
	n := service.NewNotifier(player, history, nil, zap.NewNop())
	fires := domain.NewFireLog()
	sample := mondayAt(9, 0)

	out := n.Notify(context.Background(), []domain.Schedule{morningAlarm()}, sample, fires, eyeOn)
	if len(out) != 1 {
		t.Fatalf("expected notification despite failures, got %d", len(out))
	}
	if fires.ShouldFire(morningAlarm(), sample) {
		t.Fatalf("expected fire to be recorded despite playback failure")
	}
}

func TestNotifyEyeBreakHintFollowsConfig(t *testing.T) {
	t.Parallel()
	n := service.NewNotifier(nil, nil, nil, zap.NewNop())
	sample := mondayAt(9, 0)

	on := n.Notify(context.Background(), []domain.Schedule{morningAlarm()}, sample, domain.NewFireLog(), eyeOn)
	if len(on) != 1 || on[0].EyeBreak == nil || on[0].EyeBreak.IntervalMinutes != 20 {
		t.Fatalf("expected eye-break hint, got %+v", on)
	}
	off := n.Notify(context.Background(), []domain.Schedule{morningAlarm()}, sample, domain.NewFireLog(), domain.EyeBreak{IntervalMinutes: 20, DurationMinutes: 5})
	if len(off) != 1 || off[0].EyeBreak != nil {
		t.Fatalf("expected no eye-break hint when disabled, got %+v", off)
	}
	none := n.Notify(context.Background(), nil, sample, domain.NewFireLog(), eyeOn)
	if len(none) != 0 {
		t.Fatalf("eye-break must never appear without a fired alarm, got %+v", none)
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	alarmout "reader365/internal/modules/alarm/port/out"
)

// Notifier turns due alarms into notifications. Side effects happen only on
// the transition from "not fired today" to "fired".
type Notifier struct {
	player  alarmout.TonePlayer
	history alarmout.FireHistory
	sink    alarmout.NotificationSink
	log     *zap.Logger
}

// NewNotifier wires the side channels. history and sink may be nil.
func NewNotifier(player alarmout.TonePlayer, history alarmout.FireHistory, sink alarmout.NotificationSink, log *zap.Logger) *Notifier {
	return &Notifier{player: player, history: history, sink: sink, log: log}
}

func (n *Notifier) Notify(ctx context.Context, due []domain.Schedule, sample domain.Sample, fires *domain.FireLog, eyeBreak domain.EyeBreak) []domain.Notification {
	var out []domain.Notification
	for _, alarm := range due {
		if !fires.ShouldFire(alarm, sample) {
			continue
		}
		if alarm.SoundEnabled {
			n.playTone(ctx, alarm)
		}
		fires.RecordFired(alarm, sample)

		notification := domain.Notification{
			AlarmID:  alarm.ID,
			Name:     alarm.Name,
			Message:  alarm.Message,
			Duration: alarm.Duration,
			FiredAt:  sample.At,
		}
		if hint, ok := eyeBreak.Hint(); ok {
			notification.EyeBreak = &hint
		}
		out = append(out, notification)
		n.log.Info("alarm fired",
			zap.Int("id", alarm.ID),
			zap.String("name", alarm.Name),
			zap.String("date", sample.DateKey),
			zap.Bool("sound", alarm.SoundEnabled),
		)

		if n.history != nil {
			if err := n.history.Append(ctx, domain.NewFireEvent(alarm, sample)); err != nil {
				n.log.Warn("record fire history failed", zap.Error(err), zap.Int("id", alarm.ID))
			}
		}
		if n.sink != nil {
			n.sink.Dispatch(ctx, notification)
		}
	}
	return out
}

func (n *Notifier) playTone(ctx context.Context, alarm domain.Schedule) {
	if n.player == nil {
		return
	}
	if err := n.player.Play(ctx, domain.AlarmTone); err != nil {
		n.log.Warn("play alarm tone failed", zap.Error(err), zap.Int("id", alarm.ID))
	}
}

package out

import (
	"context"
	"time"

	"reader365/internal/modules/alarm/domain"
)

// ScheduleStore persists the full schedule list. Load on a missing store
// returns an empty list.
type ScheduleStore interface {
	Load(ctx context.Context) ([]domain.Schedule, error)
	Save(ctx context.Context, schedules []domain.Schedule) error
}

// TonePlayer plays alarm tones. Play must return without waiting for the
// tone to finish; playback failures are the implementation's to log.
// Without an audio device Available is false and Play is a no-op.
type TonePlayer interface {
	Available() bool
	Play(ctx context.Context, tone domain.Tone) error
}

// FireHistory is an append-only audit trail of fired alarms.
type FireHistory interface {
	Append(ctx context.Context, event domain.FireEvent) error
	Recent(ctx context.Context, limit int) ([]domain.FireEvent, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// NotificationSink forwards fired notifications to external receivers.
// Dispatch must not block the cycle.
type NotificationSink interface {
	Dispatch(ctx context.Context, notification domain.Notification)
}

package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	"reader365/internal/platform/clock"
	apperrors "reader365/internal/platform/errors"
)

// CycleResult is what one check pass saw and produced.
type CycleResult struct {
	Sample        domain.Sample
	Due           []domain.Schedule
	Notifications []domain.Notification
}

// CycleService is the session context for the check/fire loop. It owns the
// fire log and the eye-break setting, and serializes every check so the
// periodic loop and manual "check now" triggers cannot double-fire.
type CycleService struct {
	clock     clock.Clock
	schedules *ScheduleService
	notifier  *Notifier
	log       *zap.Logger

	mu       sync.Mutex
	fires    *domain.FireLog
	eyeBreak domain.EyeBreak
	last     CycleResult
}

func NewCycleService(clock clock.Clock, schedules *ScheduleService, notifier *Notifier, eyeBreak domain.EyeBreak, log *zap.Logger) *CycleService {
	return &CycleService{
		clock:     clock,
		schedules: schedules,
		notifier:  notifier,
		log:       log,
		fires:     domain.NewFireLog(),
		eyeBreak:  eyeBreak,
	}
}

// Check samples the clock once and runs prune, match and notify under the
// cycle lock.
func (c *CycleService) Check(ctx context.Context) CycleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	sample := domain.SampleAt(c.clock.Now())
	if removed := c.fires.Prune(domain.RetentionDays, sample.At); removed > 0 {
		c.log.Debug("fire records pruned", zap.Int("removed", removed))
	}
	due := domain.Due(c.schedules.Snapshot(), sample)
	notifications := c.notifier.Notify(ctx, due, sample, c.fires, c.eyeBreak)

	c.last = CycleResult{Sample: sample, Due: due, Notifications: notifications}
	c.log.Debug("check cycle",
		zap.String("weekday", string(sample.Weekday)),
		zap.String("minute", sample.MinuteKey),
		zap.Int("due", len(due)),
		zap.Int("fired", len(notifications)),
	)
	return c.last
}

func (c *CycleService) Last() CycleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *CycleService) EyeBreak() domain.EyeBreak {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eyeBreak
}

func (c *CycleService) SetEyeBreak(cfg domain.EyeBreak) (domain.EyeBreak, error) {
	if err := cfg.Validate(); err != nil {
		return domain.EyeBreak{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eyeBreak = cfg
	c.log.Info("eye break updated",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("interval", cfg.IntervalMinutes),
		zap.Int("duration", cfg.DurationMinutes),
	)
	return cfg, nil
}

func (c *CycleService) FireRecords() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fires.Len()
}

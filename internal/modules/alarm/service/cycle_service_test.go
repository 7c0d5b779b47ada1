package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jclock "github.com/jmhodges/clock"
	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	"reader365/internal/modules/alarm/service"
	apperrors "reader365/internal/platform/errors"
	"reader365/internal/platform/id"
)

type harness struct {
	clock     jclock.FakeClock
	store     *memoryStore
	player    *recordingPlayer
	history   *memoryHistory
	schedules *service.ScheduleService
	cycle     *service.CycleService
	reports   *service.ReportService
}

func newHarness(t *testing.T, start time.Time) *harness {
	t.Helper()
	h := &harness{
		clock:   jclock.NewFake(),
		store:   &memoryStore{},
		player:  &recordingPlayer{available: true},
		history: &memoryHistory{},
	}
	h.clock.Set(start)
	log := zap.NewNop()
	h.schedules = service.NewScheduleService(h.clock, id.NewSequence(0), h.store, log)
	if err := h.schedules.Open(context.Background()); err != nil {
		t.Fatalf("open schedules: %v", err)
	}
	notifier := service.NewNotifier(h.player, h.history, nil, log)
	h.cycle = service.NewCycleService(h.clock, h.schedules, notifier, eyeOn, log)
	h.reports = service.NewReportService(h.clock, h.schedules, h.cycle, h.player, h.history, log)
	return h
}

func mondayMidnight() time.Time {
	return time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
}

func TestCycleFiresOncePerDayAcrossWholeDay(t *testing.T) {
	t.Parallel()
	h := newHarness(t, mondayMidnight())
	if _, err := h.schedules.Create(context.Background(), domain.Draft{
		Name: "Morning", Time: "09:00", Days: []string{"Monday"}, SoundEnabled: true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	fired := 0
	for minute := 0; minute < 24*60; minute++ {
		for i := 0; i < 2; i++ {
			res := h.cycle.Check(context.Background())
			fired += len(res.Notifications)
			h.clock.Add(30 * time.Second)
		}
	}
	if fired != 1 {
		t.Fatalf("expected exactly one fire in a day, got %d", fired)
	}
	if h.player.count() != 1 {
		t.Fatalf("expected exactly one playback, got %d", h.player.count())
	}
}

func TestCycleRefiresNextMatchingDay(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Date(2026, 2, 23, 21, 0, 10, 0, time.UTC))
	if _, err := h.schedules.Create(context.Background(), domain.Draft{
		Name: "Evening", Time: "21:00", Days: []string{"daily"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := len(h.cycle.Check(context.Background()).Notifications); got != 1 {
		t.Fatalf("monday: expected one fire, got %d", got)
	}
	h.clock.Add(24 * time.Hour)
	if got := len(h.cycle.Check(context.Background()).Notifications); got != 1 {
		t.Fatalf("tuesday: expected one fire, got %d", got)
	}
	if h.player.count() != 0 {
		t.Fatalf("sound disabled alarm must not play, got %d", h.player.count())
	}
}

func TestCycleSkipsOtherWeekdays(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Date(2026, 2, 24, 9, 0, 0, 0, time.UTC))
	if _, err := h.schedules.Create(context.Background(), domain.Draft{
		Name: "Morning", Time: "09:00", Days: []string{"Monday"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	res := h.cycle.Check(context.Background())
	if len(res.Due) != 0 || len(res.Notifications) != 0 {
		t.Fatalf("expected nothing due on tuesday, got %+v", res)
	}
}

func TestCyclePrunesOldFireRecords(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC))
	if _, err := h.schedules.Create(context.Background(), domain.Draft{
		Name: "Morning", Time: "09:00", Days: []string{"Monday"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	h.cycle.Check(context.Background())
	if h.cycle.FireRecords() != 1 {
		t.Fatalf("expected one fire record, got %d", h.cycle.FireRecords())
	}
	h.clock.Add(8 * 24 * time.Hour)
	h.clock.Add(3 * time.Hour)
	h.cycle.Check(context.Background())
	if h.cycle.FireRecords() != 0 {
		t.Fatalf("expected record older than retention to be pruned, got %d", h.cycle.FireRecords())
	}
}

func TestConcurrentChecksFireOnce(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Date(2026, 2, 23, 9, 0, 10, 0, time.UTC))
	if _, err := h.schedules.Create(context.Background(), domain.Draft{
		Name: "Morning", Time: "09:00", Days: []string{"Monday"}, SoundEnabled: true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const checkers = 16
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fired int
	)
	start := make(chan struct{})
	for i := 0; i < checkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res := h.cycle.Check(context.Background())
			mu.Lock()
			fired += len(res.Notifications)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	if fired != 1 {
		t.Fatalf("expected one notification across %d checks, got %d", checkers, fired)
	}
	if h.player.count() != 1 {
		t.Fatalf("expected exactly one playback, got %d", h.player.count())
	}
	if h.history.count() != 1 {
		t.Fatalf("expected exactly one history entry, got %d", h.history.count())
	}
}

func TestSetEyeBreakRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	h := newHarness(t, mondayMidnight())
	_, err := h.cycle.SetEyeBreak(domain.EyeBreak{Enabled: true, IntervalMinutes: 5, DurationMinutes: 5})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if h.cycle.EyeBreak() != eyeOn {
		t.Fatalf("expected setting to stay unchanged, got %+v", h.cycle.EyeBreak())
	}
	updated, err := h.cycle.SetEyeBreak(domain.EyeBreak{Enabled: false, IntervalMinutes: 30, DurationMinutes: 10})
	if err != nil {
		t.Fatalf("set eye break: %v", err)
	}
	if h.cycle.EyeBreak() != updated {
		t.Fatalf("expected updated setting, got %+v", h.cycle.EyeBreak())
	}
}

func TestStatsAndDebugReflectSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Date(2026, 2, 23, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()
	first, err := h.schedules.Create(ctx, domain.Draft{Name: "Morning", Time: "09:00", Days: []string{"Monday"}, Duration: 45})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := h.schedules.Create(ctx, domain.Draft{Name: "Lunch", Time: "12:30", Days: []string{"weekdays"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := h.schedules.Toggle(ctx, first.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	stats, err := h.reports.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Active != 1 || stats.WeeklyReadingMinutes != 30 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	debug := h.reports.Debug(ctx)
	if debug.Sample.MinuteKey != "08:00" || debug.ActiveSchedules != 1 {
		t.Fatalf("unexpected debug: %+v", debug)
	}
	if len(debug.RemainingToday) != 1 || debug.RemainingToday[0].Name != "Lunch" {
		t.Fatalf("expected lunch to remain today, got %+v", debug.RemainingToday)
	}
	if !debug.AudioAvailable {
		t.Fatalf("expected audio to be reported available")
	}
}

func TestTestSoundWithoutDevice(t *testing.T) {
	t.Parallel()
	h := newHarness(t, mondayMidnight())
	h.player.available = false
	if _, err := h.reports.TestSound(context.Background()); !errors.Is(err, apperrors.ErrAudioUnavailable) {
		t.Fatalf("expected audio unavailable, got %v", err)
	}
}

func TestStatsSurviveHistoryFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t, mondayMidnight())
	ctx := context.Background()
	if _, err := h.schedules.Create(ctx, domain.Draft{Name: "Morning", Time: "09:00", Days: []string{"Monday"}, Duration: 45}); err != nil {
		t.Fatalf("create: %v", err)
	}
	h.history.countErr = errBroken

	stats, err := h.reports.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Active != 1 || stats.WeeklyReadingMinutes != 45 || stats.FiresLast7Days != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	alarminadapter "reader365/internal/modules/alarm/adapter/in"
	alarmoutadapter "reader365/internal/modules/alarm/adapter/out"
	alarmdomain "reader365/internal/modules/alarm/domain"
	alarmin "reader365/internal/modules/alarm/port/in"
	alarmservice "reader365/internal/modules/alarm/service"
	alarmusecase "reader365/internal/modules/alarm/usecase"
	hookinadapter "reader365/internal/modules/hook/adapter/in"
	hookoutadapter "reader365/internal/modules/hook/adapter/out"
	hookservice "reader365/internal/modules/hook/service"
	hookusecase "reader365/internal/modules/hook/usecase"
	"reader365/internal/platform/clock"
	"reader365/internal/platform/config"
	apperrors "reader365/internal/platform/errors"
	"reader365/internal/platform/id"
	uiapp "reader365/internal/ui/app"
)

type App struct {
	Config config.Config
	Log    *zap.Logger

	Alarms    alarmin.Usecase
	AlarmCLI  alarminadapter.CLIHandler
	AlarmHTTP *alarminadapter.HTTPHandler
	HookCLI   hookinadapter.CLIHandler

	// closed in order by Close: side effects first, then storage
	closers []io.Closer
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	clk := clock.System()

	hookUC := hookusecase.NewInteractor(hookservice.NewHookService(
		hookoutadapter.NewFileManifestStore(cfg.DataDir),
		hookoutadapter.NewGRPCHost(cfg.HookTimeout, log),
		log.Named("hook"),
	))

	history, err := alarmoutadapter.NewSQLiteFireHistory(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("new fire history: %w", err)
	}
	player := alarmoutadapter.NewTonePlayer(cfg.AudioEnabled, cfg.AudioPlayer, log.Named("audio"))
	if !player.Available() {
		log.Warn("no audio player available, alarms will be visual only")
	}

	schedules := alarmservice.NewScheduleService(
		clk,
		id.NewSequence(0),
		alarmoutadapter.NewJSONScheduleStore(cfg.SchedulesPath()),
		log.Named("schedules"),
	)
	if err := schedules.Open(ctx); err != nil {
		if !errors.Is(err, apperrors.ErrPersistence) {
			_ = history.Close()
			return nil, err
		}
		log.Warn("starting with an empty schedule list", zap.Error(err))
	}

	sink := alarmoutadapter.NewHookSink(hookUC, cfg.HookTimeout, log.Named("hook"))
	notifier := alarmservice.NewNotifier(player, history, sink, log.Named("notifier"))
	cycle := alarmservice.NewCycleService(clk, schedules, notifier, alarmdomain.EyeBreak{
		Enabled:         cfg.EyeBreakEnabled,
		IntervalMinutes: cfg.EyeBreakIntervalMinutes,
		DurationMinutes: cfg.EyeBreakDurationMinutes,
	}, log.Named("cycle"))
	reports := alarmservice.NewReportService(clk, schedules, cycle, player, history, log.Named("reports"))
	alarmUC := alarmusecase.NewInteractor(schedules, cycle, reports)

	return &App{
		Config:    cfg,
		Log:       log,
		Alarms:    alarmUC,
		AlarmCLI:  alarminadapter.NewCLIHandler(alarmUC),
		AlarmHTTP: alarminadapter.NewHTTPHandler(alarmUC, log.Named("http")),
		HookCLI:   hookinadapter.NewCLIHandler(hookUC),
		closers:   closersFor(player, sink, history),
	}, nil
}

// Scheduler returns a background check loop using the configured interval.
func (a *App) Scheduler() *alarminadapter.Scheduler {
	return alarminadapter.NewScheduler(a.Alarms, a.Config.CheckInterval, a.Log.Named("scheduler"))
}

// Close waits for tones and hook deliveries still running, then closes the
// fire history. One-shot commands rely on this to finish their side effects.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

func closersFor(items ...any) []io.Closer {
	out := make([]io.Closer, 0, len(items))
	for _, item := range items {
		if c, ok := item.(io.Closer); ok {
			out = append(out, c)
		}
	}
	return out
}

// RunTUI drives the terminal UI. The UI runs its own check loop, so no
// background scheduler is started.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Alarms, app.Config.CheckInterval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

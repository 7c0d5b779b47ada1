package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reader365/internal/bootstrap"
	alarmdto "reader365/internal/modules/alarm/dto"
	hookdto "reader365/internal/modules/hook/dto"
	"reader365/internal/platform/config"
	apperrors "reader365/internal/platform/errors"
	"reader365/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "reader365",
		Short:         "Daily reading alarms with eye-break reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", ".", "directory holding schedules, history and hooks")

	root.AddCommand(newAlarmCmd(&dataDir))
	root.AddCommand(newCheckCmd(&dataDir))
	root.AddCommand(newRunCmd(&dataDir))
	root.AddCommand(newServeCmd(&dataDir))
	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newEyeCmd(&dataDir))
	root.AddCommand(newSoundCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newDebugCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newHookCmd(&dataDir))
	return root
}

func loadApp(ctx context.Context, dataDir string, tui bool) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	logPath := cfg.LogFile
	if tui {
		logPath = cfg.TUILogPath()
	}
	log, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, log)
}

// withApp loads the application for one command and closes it afterwards.
func withApp(dataDir string, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := context.Background()
	app, err := loadApp(ctx, dataDir, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(ctx, app)
}

// persisted turns a persistence failure into a printed warning. The change
// itself is already applied in memory.
func persisted(cmd *cobra.Command, err error) error {
	if err != nil && errors.Is(err, apperrors.ErrPersistence) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	return err
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: alarm id must be a number, got %q", apperrors.ErrInvalidInput, raw)
	}
	return id, nil
}

// ─── alarm ───────────────────────────────────────────────────────────────────

func newAlarmCmd(dataDir *string) *cobra.Command {
	alarm := &cobra.Command{Use: "alarm", Short: "Manage reading alarms"}

	var name, at, message string
	var days []string
	var duration int
	var noSound bool
	add := &cobra.Command{
		Use:   "add --name <name> --time <HH:MM>",
		Short: "Create a reading alarm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AlarmCLI.Add(ctx, name, at, days, message, duration, !noSound)
				if err := persisted(cmd, err); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created alarm %d: %s at %s (%s)\n", out.ID, out.Name, out.Time, strings.Join(out.Days, ","))
				return nil
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "alarm name")
	add.Flags().StringVar(&at, "time", "", "time of day, HH:MM")
	add.Flags().StringSliceVar(&days, "days", []string{"daily"}, "days: daily|weekdays|weekends or day names")
	add.Flags().StringVar(&message, "message", "", "notification message")
	add.Flags().IntVar(&duration, "duration", 30, "reading session length in minutes")
	add.Flags().BoolVar(&noSound, "no-sound", false, "fire without the alarm tone")

	list := &cobra.Command{
		Use:   "list",
		Short: "List reading alarms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				schedules, err := app.AlarmCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(schedules) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no alarms")
					return nil
				}
				for _, s := range schedules {
					printScheduleLine(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.AlarmCLI.Show(ctx, id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %d\nname: %s\ntime: %s\ndays: %s\nmessage: %s\nduration: %d min\nsound: %t\nenabled: %t\ncreated: %s\n",
					s.ID, s.Name, s.Time, strings.Join(s.Days, ","), s.Message, s.Duration, s.SoundEnabled, s.Enabled, s.CreatedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable or disable an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AlarmCLI.Toggle(ctx, id)
				if err := persisted(cmd, err); err != nil {
					return err
				}
				state := "disabled"
				if out.Enabled {
					state = "enabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "alarm %d %s\n", out.ID, state)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				if err := persisted(cmd, app.AlarmCLI.Delete(ctx, id)); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "alarm %d deleted\n", id)
				return nil
			})
		},
	}

	alarm.AddCommand(add, list, show, toggle, del)
	return alarm
}

func printScheduleLine(w io.Writer, s alarmdto.ScheduleOutput) {
	state := "on"
	if !s.Enabled {
		state = "off"
	}
	_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%dmin\t%s\n", s.ID, s.Time, state, s.Name, s.Duration, strings.Join(s.Days, ","))
}

func printNotifications(w io.Writer, out alarmdto.CycleOutput) {
	for _, n := range out.Notifications {
		_, _ = fmt.Fprintf(w, "[%s] %s: %s (session %d min)\n", n.FiredAt.Format("15:04"), n.Name, n.Message, n.Duration)
		if n.EyeBreakHint != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", n.EyeBreakHint)
		}
	}
}

// ─── check loop ──────────────────────────────────────────────────────────────

func newCheckCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one alarm check now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AlarmCLI.Check(ctx)
				if err != nil {
					return err
				}
				if len(out.Notifications) == 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: nothing due\n", out.Weekday, out.MinuteKey)
					return nil
				}
				printNotifications(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func newRunCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check alarms continuously and print notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(ctx, *dataDir, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			scheduler := app.Scheduler()
			scheduler.OnCycle(func(out alarmdto.CycleOutput) {
				printNotifications(cmd.OutOrStdout(), out)
			})
			if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func newServeCmd(dataDir *string) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API while checking alarms in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(ctx, *dataDir, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if addr == "" {
				addr = app.Config.HTTPAddr
			}
			schedErr := make(chan error, 1)
			go func() { schedErr <- app.Scheduler().Run(ctx) }()

			serveErr := app.AlarmHTTP.Serve(ctx, addr)
			stop()
			<-schedErr
			return serveErr
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (defaults to http_addr from config)")
	return serve
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the reader365 terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(context.Background(), *dataDir, true)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

// ─── wellness and reports ────────────────────────────────────────────────────

func newEyeCmd(dataDir *string) *cobra.Command {
	eye := &cobra.Command{Use: "eye", Short: "Eye-break reminder settings"}

	eye.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the eye-break settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AlarmCLI.EyeBreak(ctx)
				if err != nil {
					return err
				}
				printEyeBreak(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	var enabled bool
	var interval, duration int
	set := &cobra.Command{
		Use:   "set --interval <min> --duration <min>",
		Short: "Change the eye-break settings and save them to config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AlarmCLI.SetEyeBreak(ctx, enabled, interval, duration)
				if err != nil {
					return err
				}
				if err := config.SaveEyeBreak(*dataDir, out.Enabled, out.IntervalMinutes, out.DurationMinutes); err != nil {
					return err
				}
				printEyeBreak(cmd.OutOrStdout(), out)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved to %s\n", filepath.Join(*dataDir, "config.yaml"))
				return nil
			})
		},
	}
	set.Flags().BoolVar(&enabled, "enabled", true, "show eye-break hints")
	set.Flags().IntVar(&interval, "interval", 20, "minutes of reading between breaks (10..60)")
	set.Flags().IntVar(&duration, "duration", 5, "break length in minutes (5..20)")

	eye.AddCommand(set)
	return eye
}

func printEyeBreak(w io.Writer, out alarmdto.EyeBreakOutput) {
	_, _ = fmt.Fprintf(w, "enabled: %t\ninterval: %d min\nbreak: %d min\n", out.Enabled, out.IntervalMinutes, out.DurationMinutes)
	if out.Rule != "" {
		_, _ = fmt.Fprintln(w, out.Rule)
	}
}

func newSoundCmd(dataDir *string) *cobra.Command {
	sound := &cobra.Command{Use: "sound", Short: "Audio checks"}
	sound.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Play the alarm tone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AlarmCLI.TestSound(ctx)
				if errors.Is(err, apperrors.ErrAudioUnavailable) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no audio device found; visual alarms still work")
					return nil
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "audio available: %t, played: %t\n", out.Available, out.Played)
				return nil
			})
		},
	})
	return sound
}

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reading statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.AlarmCLI.Stats(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "alarms: %d (active %d)\nweekly reading: %d min\nfired in last 7 days: %d\n",
					s.Total, s.Active, s.WeeklyReadingMinutes, s.FiresLast7Days)
				return nil
			})
		},
	}
}

func newDebugCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Show scheduler diagnostics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				d, err := app.AlarmCLI.Debug(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "now: %s (%s)\nminute: %s\ndate: %s\naudio: %t\nactive alarms: %d\nfire records: %d\n",
					d.Now.Format(time.RFC3339), d.Weekday, d.MinuteKey, d.DateKey, d.AudioAvailable, d.ActiveSchedules, d.FireRecords)
				if d.LoadError != "" {
					_, _ = fmt.Fprintf(w, "load error: %s\n", d.LoadError)
				}
				for _, u := range d.RemainingToday {
					_, _ = fmt.Fprintf(w, "remaining today: %s %s\n", u.Time, u.Name)
				}
				return nil
			})
		},
	}
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recently fired alarms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				fires, err := app.AlarmCLI.History(ctx, limit)
				if err != nil {
					return err
				}
				if len(fires) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no alarms fired yet")
					return nil
				}
				for _, f := range fires {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%s\n", f.Date, f.Time, f.AlarmID, f.Name)
				}
				return nil
			})
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "number of entries")
	return history
}

// ─── hooks ───────────────────────────────────────────────────────────────────

func newHookCmd(dataDir *string) *cobra.Command {
	hook := &cobra.Command{Use: "hook", Short: "Notification hook commands"}

	hook.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured hooks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				hooks, err := app.HookCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(hooks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks")
					return nil
				}
				for _, h := range hooks {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\t%s\t%s\n", h.Name, h.Version, h.Enabled, strings.Join(h.Capabilities, ","), h.Binary)
				}
				return nil
			})
		},
	})

	hook.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check hook binaries and handshakes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				results, err := app.HookCLI.Doctor(ctx)
				if err != nil {
					return err
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t\tchecksum=%t\tlifecycle=%t", r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\terror=%s", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})

	var name, message string
	test := &cobra.Command{
		Use:   "test",
		Short: "Send a sample notification to every hook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				results, err := app.HookCLI.Test(ctx, hookdto.EventInput{
					Name:     name,
					Message:  message,
					Duration: 30,
					FiredAt:  time.Now(),
				})
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no enabled notify hooks")
					return nil
				}
				for _, r := range results {
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tfailed\t%s\n", r.Name, r.Error)
						continue
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tdelivered=%t\t%s\n", r.Name, r.Delivered, r.Detail)
				}
				return nil
			})
		},
	}
	test.Flags().StringVar(&name, "name", "Hook test", "alarm name in the sample event")
	test.Flags().StringVar(&message, "message", "It's time for your reading session! 📖", "message in the sample event")
	hook.AddCommand(test)
	return hook
}

package wellness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	alarmdto "reader365/internal/modules/alarm/dto"
	apperrors "reader365/internal/platform/errors"
	"reader365/internal/ui/theme"
)

const (
	intervalMin  = 10
	intervalMax  = 60
	intervalStep = 5
	durationMin  = 5
	durationMax  = 20
)

type Port interface {
	EyeBreak(ctx context.Context) (alarmdto.EyeBreakOutput, error)
	SetEyeBreak(ctx context.Context, input alarmdto.EyeBreakInput) (alarmdto.EyeBreakOutput, error)
	TestSound(ctx context.Context) (alarmdto.SoundTestOutput, error)
}

type LoadedMsg struct {
	Config alarmdto.EyeBreakOutput
	Err    error
}

type SavedMsg struct {
	Config alarmdto.EyeBreakOutput
	Err    error
}

type SoundMsg struct {
	Result alarmdto.SoundTestOutput
	Err    error
}

// Model edits the eye-break reminder and runs the sound check.
type Model struct {
	port   Port
	draft  alarmdto.EyeBreakInput
	saved  alarmdto.EyeBreakOutput
	dirty  bool
	status string
	width  int
}

func New(port Port) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd { return m.loadCmd() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.apply(msg.Config)
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.status = theme.Off.Render(msg.Err.Error())
			return m, nil
		}
		m.apply(msg.Config)
		m.status = theme.On.Render("eye-break settings saved")
		return m, nil

	case SoundMsg:
		m.status = soundStatus(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e", " ":
			m.draft.Enabled = !m.draft.Enabled
			m.dirty = true
		case "+", "=", "right":
			m.draft.IntervalMinutes = clamp(m.draft.IntervalMinutes+intervalStep, intervalMin, intervalMax)
			m.dirty = true
		case "-", "left":
			m.draft.IntervalMinutes = clamp(m.draft.IntervalMinutes-intervalStep, intervalMin, intervalMax)
			m.dirty = true
		case "]", "up":
			m.draft.DurationMinutes = clamp(m.draft.DurationMinutes+1, durationMin, durationMax)
			m.dirty = true
		case "[", "down":
			m.draft.DurationMinutes = clamp(m.draft.DurationMinutes-1, durationMin, durationMax)
			m.dirty = true
		case "s", "enter":
			return m, m.SaveCmd(m.draft)
		case "p":
			return m, m.SoundCmd()
		case "r":
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Eye-break reminder") + "\n\n")

	state := theme.On.Render("enabled")
	if !m.draft.Enabled {
		state = theme.Off.Render("disabled")
	}
	fmt.Fprintf(&sb, "%s %s\n", theme.Muted.Render("Reminder      "), state)
	fmt.Fprintf(&sb, "%s every %d minutes of reading\n", theme.Muted.Render("Interval      "), m.draft.IntervalMinutes)
	fmt.Fprintf(&sb, "%s %d minutes\n\n", theme.Muted.Render("Break length  "), m.draft.DurationMinutes)

	if m.saved.Rule != "" {
		sb.WriteString(theme.Hint.Render(m.saved.Rule) + "\n")
	}
	if m.dirty {
		sb.WriteString(theme.Hot.Render("unsaved changes") + "\n")
	}
	if m.status != "" {
		sb.WriteString("\n" + m.status + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("e: on/off  +/-: interval  [/]: break length  s: save  p: test sound  r: reload"))
	return theme.Pane.Width(max(m.width-2, 20)).Render(sb.String())
}

// Draft is the unsaved editor state.
func (m Model) Draft() alarmdto.EyeBreakInput { return m.draft }

// SetEnabled changes the draft and saves it in one step.
func (m Model) SetEnabled(enabled bool) (Model, tea.Cmd) {
	m.draft.Enabled = enabled
	return m, m.SaveCmd(m.draft)
}

// SetRule changes interval and duration and saves them in one step.
func (m Model) SetRule(interval, duration int) (Model, tea.Cmd) {
	m.draft.IntervalMinutes = interval
	m.draft.DurationMinutes = duration
	return m, m.SaveCmd(m.draft)
}

func (m *Model) apply(cfg alarmdto.EyeBreakOutput) {
	m.saved = cfg
	m.draft = alarmdto.EyeBreakInput{
		Enabled:         cfg.Enabled,
		IntervalMinutes: cfg.IntervalMinutes,
		DurationMinutes: cfg.DurationMinutes,
	}
	m.dirty = false
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.EyeBreak(context.Background())
		return LoadedMsg{Config: out, Err: err}
	}
}

func (m Model) SaveCmd(input alarmdto.EyeBreakInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.SetEyeBreak(context.Background(), input)
		return SavedMsg{Config: out, Err: err}
	}
}

func (m Model) SoundCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.TestSound(context.Background())
		return SoundMsg{Result: out, Err: err}
	}
}

func soundStatus(msg SoundMsg) string {
	switch {
	case errors.Is(msg.Err, apperrors.ErrAudioUnavailable) || (msg.Err == nil && !msg.Result.Available):
		return theme.Hot.Render("no audio device found; visual alarms still work")
	case msg.Err != nil:
		return theme.Off.Render("sound test failed: " + msg.Err.Error())
	default:
		return theme.On.Render("test tone played")
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

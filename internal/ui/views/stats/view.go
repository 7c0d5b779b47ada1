package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	alarmdto "reader365/internal/modules/alarm/dto"
	"reader365/internal/ui/theme"
)

const historyLimit = 15

type Port interface {
	Stats(ctx context.Context) (alarmdto.StatsOutput, error)
	Debug(ctx context.Context) (alarmdto.DebugOutput, error)
	History(ctx context.Context, limit int) ([]alarmdto.FireOutput, error)
}

type LoadedMsg struct {
	Stats   alarmdto.StatsOutput
	Debug   alarmdto.DebugOutput
	History []alarmdto.FireOutput
	Err     error
}

type Model struct {
	port   Port
	vp     viewport.Model
	report LoadedMsg
	loaded bool
	width  int
	height int
}

func New(port Port) Model {
	return Model{port: port, vp: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd { return m.Refresh() }

// Refresh reloads every section at once.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := m.port.Stats(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		debug, err := m.port.Debug(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		history, err := m.port.History(ctx, historyLimit)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Stats: stats, Debug: debug, History: history}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = max(m.width-4, 10)
		m.vp.Height = max(m.height-4, 3)
		m.vp.SetContent(m.render())
		return m, nil

	case LoadedMsg:
		m.report = msg
		m.loaded = true
		m.vp.SetContent(m.render())
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.Refresh()
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return theme.Pane.Width(max(m.width-2, 20)).Render(m.vp.View())
}

func (m Model) render() string {
	if !m.loaded {
		return theme.Muted.Render("loading…")
	}
	if m.report.Err != nil {
		return theme.Off.Render(m.report.Err.Error())
	}
	var sb strings.Builder
	s := m.report.Stats
	sb.WriteString(theme.Title.Render("Reading statistics") + "\n")
	fmt.Fprintf(&sb, "  alarms            %d (%d active)\n", s.Total, s.Active)
	fmt.Fprintf(&sb, "  weekly reading    %d minutes\n", s.WeeklyReadingMinutes)
	fmt.Fprintf(&sb, "  fired, 7 days     %d\n\n", s.FiresLast7Days)

	d := m.report.Debug
	sb.WriteString(theme.Title.Render("Scheduler") + "\n")
	fmt.Fprintf(&sb, "  now               %s %s\n", d.Weekday, d.Now.Format("2006-01-02 15:04:05"))
	if !d.LastCheck.IsZero() {
		fmt.Fprintf(&sb, "  last check        %s\n", d.LastCheck.Format("15:04:05"))
	}
	audio := theme.On.Render("available")
	if !d.AudioAvailable {
		audio = theme.Hot.Render("unavailable (visual only)")
	}
	fmt.Fprintf(&sb, "  audio             %s\n", audio)
	fmt.Fprintf(&sb, "  fire records      %d\n", d.FireRecords)
	if d.LoadError != "" {
		fmt.Fprintf(&sb, "  load error        %s\n", theme.Off.Render(d.LoadError))
	}
	if len(d.RemainingToday) == 0 {
		sb.WriteString(theme.Muted.Render("  nothing left today") + "\n")
	}
	for _, u := range d.RemainingToday {
		fmt.Fprintf(&sb, "  upcoming          %s  %s\n", u.Time, u.Name)
	}

	sb.WriteString("\n" + theme.Title.Render("Recent alarms") + "\n")
	if len(m.report.History) == 0 {
		sb.WriteString(theme.Muted.Render("  no alarms fired yet") + "\n")
	}
	for _, f := range m.report.History {
		fmt.Fprintf(&sb, "  %s %s  %s\n", f.Date, f.Time, f.Name)
	}
	return sb.String()
}

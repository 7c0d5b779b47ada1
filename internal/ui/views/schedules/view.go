package schedules

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	alarmdto "reader365/internal/modules/alarm/dto"
	"reader365/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context) ([]alarmdto.ScheduleOutput, error)
	Toggle(ctx context.Context, id int) (alarmdto.ScheduleOutput, error)
	Delete(ctx context.Context, id int) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Schedules []alarmdto.ScheduleOutput
	Err       error
}

// ChangedMsg reports a toggle or delete. Err may carry a persistence
// warning while the change itself still applied.
type ChangedMsg struct {
	Action string
	Name   string
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type scheduleItem struct {
	s alarmdto.ScheduleOutput
}

func (i scheduleItem) Title() string {
	mark := theme.On.Render("●")
	if !i.s.Enabled {
		mark = theme.Off.Render("○")
	}
	return mark + " " + i.s.Time + "  " + i.s.Name
}

func (i scheduleItem) Description() string {
	return ShortDays(i.s.Days) + fmt.Sprintf("  %d min", i.s.Duration)
}

func (i scheduleItem) FilterValue() string { return i.s.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	confirm int // id pending delete confirmation, 0 when none
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Reading alarms"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the schedule list again.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.List(context.Background())
		return LoadedMsg{Schedules: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Reading alarms: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Schedules))
		for i, s := range msg.Schedules {
			items[i] = scheduleItem{s: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.Title = fmt.Sprintf("Reading alarms (%d)", len(items))

	case ChangedMsg:
		cmds = append(cmds, m.Reload())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		selected, ok := m.selected()
		if m.confirm != 0 {
			if msg.String() == "y" && ok && selected.ID == m.confirm {
				cmds = append(cmds, m.deleteCmd(selected))
			}
			m.confirm = 0
			return m, tea.Batch(cmds...)
		}
		switch msg.String() {
		case "t", " ":
			if ok {
				cmds = append(cmds, m.toggleCmd(selected))
			}
			return m, tea.Batch(cmds...)
		case "d":
			if ok {
				m.confirm = selected.ID
			}
			return m, nil
		case "r":
			return m, m.Reload()
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		m.detail.SetContent(m.renderDetail())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading alarms…")
	}
	listW := m.width * 5 / 10
	detailW := m.width - listW

	var listBody string
	if len(m.list.Items()) == 0 {
		listBody = lipgloss.Place(listW, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No reading alarms yet.\nOpen the New tab to create one."))
	} else {
		listBody = m.list.View()
	}
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(listBody)
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) selected() (alarmdto.ScheduleOutput, bool) {
	if item, ok := m.list.SelectedItem().(scheduleItem); ok {
		return item.s, true
	}
	return alarmdto.ScheduleOutput{}, false
}

func (m *Model) resize() {
	listW := m.width * 5 / 10
	m.list.SetSize(listW, m.height)
	m.detail.Width = m.width - listW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	s, ok := m.selected()
	if !ok {
		return theme.Muted.Render("Select an alarm to see details")
	}
	state := theme.On.Render("enabled")
	if !s.Enabled {
		state = theme.Off.Render("disabled")
	}
	sound := "on"
	if !s.SoundEnabled {
		sound = "off"
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:       ") + fmt.Sprint(s.ID) + "\n")
	sb.WriteString(theme.Muted.Render("time:     ") + s.Time + "\n")
	sb.WriteString(theme.Muted.Render("days:     ") + strings.Join(s.Days, ", ") + "\n")
	sb.WriteString(theme.Muted.Render("session:  ") + fmt.Sprintf("%d minutes", s.Duration) + "\n")
	sb.WriteString(theme.Muted.Render("sound:    ") + sound + "\n")
	sb.WriteString(theme.Muted.Render("state:    ") + state + "\n")
	sb.WriteString(theme.Muted.Render("message:  ") + s.Message + "\n")
	if !s.CreatedAt.IsZero() {
		sb.WriteString(theme.Muted.Render("created:  ") + s.CreatedAt.Format("2006-01-02 15:04") + "\n")
	}
	sb.WriteString("\n")
	if m.confirm == s.ID {
		sb.WriteString(theme.Hot.Render("Delete this alarm? y to confirm, any other key to cancel"))
	} else {
		sb.WriteString(theme.Muted.Render("t: toggle  d: delete  r: reload  /: filter"))
	}
	return sb.String()
}

func (m Model) toggleCmd(s alarmdto.ScheduleOutput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Toggle(context.Background(), s.ID)
		action := "enabled"
		if !out.Enabled {
			action = "disabled"
		}
		return ChangedMsg{Action: action, Name: s.Name, Err: err}
	}
}

func (m Model) deleteCmd(s alarmdto.ScheduleOutput) tea.Cmd {
	return func() tea.Msg {
		err := m.port.Delete(context.Background(), s.ID)
		return ChangedMsg{Action: "deleted", Name: s.Name, Err: err}
	}
}

// ShortDays renders day names as a compact list, collapsing the common
// sets.
func ShortDays(days []string) string {
	joined := strings.Join(days, ",")
	switch joined {
	case "Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday":
		return "Daily"
	case "Monday,Tuesday,Wednesday,Thursday,Friday":
		return "Weekdays"
	case "Saturday,Sunday":
		return "Weekends"
	}
	short := make([]string, 0, len(days))
	for _, d := range days {
		if len(d) >= 3 {
			d = d[:3]
		}
		short = append(short, d)
	}
	return strings.Join(short, " ")
}

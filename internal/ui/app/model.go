package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	alarmdto "reader365/internal/modules/alarm/dto"
	apperrors "reader365/internal/platform/errors"
	"reader365/internal/ui/components"
	"reader365/internal/ui/theme"
	createview "reader365/internal/ui/views/create"
	schedulesview "reader365/internal/ui/views/schedules"
	statsview "reader365/internal/ui/views/stats"
	wellnessview "reader365/internal/ui/views/wellness"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Port is everything the terminal UI needs. Sub-views narrow it further in
// their own packages.

type Port interface {
	schedulesview.Port
	createview.Port
	wellnessview.Port
	statsview.Port
	Check(ctx context.Context) (alarmdto.CycleOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabAlarms tabID = iota
	tabNew
	tabWellness
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{
	"Alarms", "New", "Wellness", "Stats",
}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

// cycleMsg carries one check result. Manual checks do not reschedule the
// tick, so only one tick chain is ever running.
type cycleMsg struct {
	out    alarmdto.CycleOutput
	err    error
	manual bool
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Dismiss key.Binding
	Toggle  key.Binding
	Delete  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss alarm")),
		Toggle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle alarm")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete alarm")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Toggle, k.Delete},
		{k.Dismiss},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the alarm check
// loop, the alarm banner and the command palette.
type Model struct {
	port     Port
	interval time.Duration

	alarmsView   schedulesview.Model
	createView   createview.Model
	wellnessView wellnessview.Model
	statsView    statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	banner    []alarmdto.NotificationOutput
	lastCheck time.Time
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(port Port, interval time.Duration) Model {
	return Model{
		port:         port,
		interval:     interval,
		alarmsView:   schedulesview.New(port),
		createView:   createview.New(port),
		wellnessView: wellnessview.New(port),
		statsView:    statsview.New(port),
		activeTab:    tabAlarms,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.alarmsView.Init(),
		m.createView.Init(),
		m.wellnessView.Init(),
		m.statsView.Init(),
		m.checkCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Checks keep running while the palette is open.
	if _, ok := msg.(tickMsg); ok {
		return m, m.checkCmd()
	}
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case cycleMsg:
		if !msg.manual {
			cmds = append(cmds, m.scheduleTick())
		}
		if msg.err != nil {
			m.status = "check failed: " + msg.err.Error()
			return m, tea.Batch(cmds...)
		}
		m.lastCheck = msg.out.CheckedAt
		if len(msg.out.Notifications) > 0 {
			m.banner = append(m.banner, msg.out.Notifications...)
			m.status = fmt.Sprintf("%d alarm(s) fired", len(msg.out.Notifications))
			cmds = append(cmds, m.statsView.Refresh())
			m.propagateSize()
		} else if msg.manual {
			m.status = "checked: nothing due"
		}
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	// View results are routed to their own view even when another tab is
	// active.
	case schedulesview.LoadedMsg:
		var cmd tea.Cmd
		m.alarmsView, cmd = m.alarmsView.Update(msg)
		return m, cmd

	case schedulesview.ChangedMsg:
		m.status = changeStatus(msg)
		var cmd tea.Cmd
		m.alarmsView, cmd = m.alarmsView.Update(msg)
		return m, tea.Batch(cmd, m.statsView.Refresh())

	case createview.CreatedMsg:
		var cmd tea.Cmd
		m.createView, cmd = m.createView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Schedule.ID != 0 {
			m.status = fmt.Sprintf("created %q at %s", msg.Schedule.Name, msg.Schedule.Time)
			if msg.Err != nil {
				m.status += " (warning: " + msg.Err.Error() + ")"
			}
			m.activeTab = tabAlarms
			cmds = append(cmds, m.alarmsView.Reload(), m.statsView.Refresh())
		} else if msg.Err != nil {
			m.status = "create failed: " + msg.Err.Error()
		}
		return m, tea.Batch(cmds...)

	case wellnessview.LoadedMsg, wellnessview.SavedMsg, wellnessview.SoundMsg:
		if saved, ok := msg.(wellnessview.SavedMsg); ok && saved.Err == nil {
			m.status = "eye-break: " + saved.Config.Rule
		}
		var cmd tea.Cmd
		m.wellnessView, cmd = m.wellnessView.Update(msg)
		return m, cmd

	case statsview.LoadedMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if msg.String() == "esc" && len(m.banner) > 0 {
			m.dismissBanner()
			return m, nil
		}

		// The New form and list filters take free text, so only the
		// navigation keys stay global there.
		if m.capturing() {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab + tabCount - 1) % tabCount
				return m, nil
			}
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Everything else goes to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabAlarms:
		m.alarmsView, tabCmd = m.alarmsView.Update(msg)
	case tabNew:
		m.createView, tabCmd = m.createView.Update(msg)
	case tabWellness:
		m.wellnessView, tabCmd = m.wellnessView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	banner := m.renderBanner()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if banner != "" {
		contentH -= lipgloss.Height(banner)
	}
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	parts := []string{tabBar}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, content, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabAlarms:
		return m.alarmsView.View()
	case tabNew:
		return m.createView.View()
	case tabWellness:
		return m.wellnessView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "reader365  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

// renderBanner shows every fired alarm not yet dismissed.
func (m Model) renderBanner() string {
	if len(m.banner) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, n := range m.banner {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "⏰ %s  %s\n", n.Name, n.FiredAt.Format("15:04"))
		sb.WriteString(n.Message + "\n")
		fmt.Fprintf(&sb, "Session: %d minutes", n.Duration)
		if n.EyeBreakHint != "" {
			sb.WriteString("\n" + theme.Hint.Render(n.EyeBreakHint))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("esc to dismiss"))
	return theme.Alarm.Width(max(m.width-4, 20)).Render(sb.String())
}

func (m Model) renderStatusBar() string {
	left := m.status
	if !m.lastCheck.IsZero() {
		left = theme.Muted.Render("checked "+m.lastCheck.Format("15:04:05")) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "alarm:check":
		return m, m.checkOnceCmd()

	case "alarm:toggle", "alarm:delete":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <id>"
			return m, nil
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid id: " + parts[1]
			return m, nil
		}
		m.activeTab = tabAlarms
		if parts[0] == "alarm:toggle" {
			return m, m.toggleCmd(id)
		}
		return m, m.deleteCmd(id)

	case "alarm:reload":
		return m, m.alarmsView.Reload()

	case "eye:on", "eye:off":
		var cmd tea.Cmd
		m.wellnessView, cmd = m.wellnessView.SetEnabled(parts[0] == "eye:on")
		return m, cmd

	case "eye:set":
		if len(parts) < 3 {
			m.status = "usage: eye:set <interval> <duration>"
			return m, nil
		}
		interval, err1 := strconv.Atoi(parts[1])
		duration, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			m.status = "eye:set takes two numbers of minutes"
			return m, nil
		}
		var cmd tea.Cmd
		m.wellnessView, cmd = m.wellnessView.SetRule(interval, duration)
		return m, cmd

	case "sound:test":
		m.activeTab = tabWellness
		return m, m.wellnessView.SoundCmd()

	case "banner:dismiss":
		m.dismissBanner()
		return m, nil

	case "goto":
		if len(parts) < 2 {
			m.status = "usage: goto <alarms|new|wellness|stats>"
			return m, nil
		}
		for i, label := range tabLabels {
			if strings.EqualFold(label, parts[1]) {
				m.activeTab = tabID(i)
				return m, nil
			}
		}
		m.status = "unknown tab: " + parts[1]

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// capturing reports whether the active tab is taking free text input.
func (m Model) capturing() bool {
	switch m.activeTab {
	case tabAlarms:
		return m.alarmsView.Filtering()
	case tabNew:
		return true
	}
	return false
}

func (m *Model) dismissBanner() {
	m.banner = nil
	m.status = "alarm dismissed"
	m.propagateSize()
}

func (m *Model) propagateSize() {
	h := m.height - 3
	if banner := m.renderBanner(); banner != "" {
		h -= lipgloss.Height(banner)
	}
	sz := tea.WindowSizeMsg{Width: m.width, Height: max(h, 1)}
	m.alarmsView, _ = m.alarmsView.Update(sz)
	m.createView, _ = m.createView.Update(sz)
	m.wellnessView, _ = m.wellnessView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func changeStatus(msg schedulesview.ChangedMsg) string {
	if msg.Err != nil && !errors.Is(msg.Err, apperrors.ErrPersistence) {
		return msg.Action + " failed: " + msg.Err.Error()
	}
	status := fmt.Sprintf("%s %q", msg.Action, msg.Name)
	if msg.Err != nil {
		status += " (warning: " + msg.Err.Error() + ")"
	}
	return status
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// checkCmd runs one cycle; its result schedules the next tick.
func (m Model) checkCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Check(context.Background())
		return cycleMsg{out: out, err: err}
	}
}

func (m Model) checkOnceCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Check(context.Background())
		return cycleMsg{out: out, err: err, manual: true}
	}
}

func (m Model) toggleCmd(id int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Toggle(context.Background(), id)
		if out.ID == 0 {
			return schedulesview.ChangedMsg{Action: "toggle", Name: strconv.Itoa(id), Err: err}
		}
		action := "enabled"
		if !out.Enabled {
			action = "disabled"
		}
		return schedulesview.ChangedMsg{Action: action, Name: out.Name, Err: err}
	}
}

func (m Model) deleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		err := m.port.Delete(context.Background(), id)
		return schedulesview.ChangedMsg{Action: "deleted", Name: strconv.Itoa(id), Err: err}
	}
}

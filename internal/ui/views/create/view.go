package create

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	alarmdto "reader365/internal/modules/alarm/dto"
	"reader365/internal/ui/theme"
)

type Port interface {
	Create(ctx context.Context, input alarmdto.CreateInput) (alarmdto.ScheduleOutput, error)
}

// CreatedMsg is emitted after a create attempt. On a persistence warning
// Schedule is set and Err is non-nil.
type CreatedMsg struct {
	Schedule alarmdto.ScheduleOutput
	Err      error
}

const (
	fieldName = iota
	fieldTime
	fieldDays
	fieldMessage
	fieldDuration
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Time (HH:MM)", "Days", "Message", "Session minutes"}

// Model is the new-alarm form.
type Model struct {
	port    Port
	inputs  [fieldCount]textinput.Model
	focus   int
	sound   bool
	errText string
	width   int
	height  int
}

func New(port Port) Model {
	m := Model{port: port, sound: true}
	placeholders := [fieldCount]string{
		"Morning reading",
		"07:30",
		"weekdays | daily | weekends | Mon,Wed,Fri",
		"It's time for your reading session! 📖",
		"30",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Prompt = "› "
		m.inputs[i] = ti
	}
	m.inputs[fieldName].Focus()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.inputs {
			m.inputs[i].Width = max(m.width-24, 10)
		}
		return m, nil

	case CreatedMsg:
		if msg.Schedule.ID != 0 {
			m.reset()
		}
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			return m, m.moveFocus(-1)
		case "down":
			return m, m.moveFocus(1)
		case "enter":
			if m.focus == fieldCount-1 {
				return m, m.submitCmd()
			}
			return m, m.moveFocus(1)
		case "ctrl+s":
			return m, m.submitCmd()
		case "ctrl+t":
			m.sound = !m.sound
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New reading alarm") + "\n\n")
	for i := range m.inputs {
		label := fieldLabels[i]
		if i == m.focus {
			label = theme.Hot.Render(label)
		} else {
			label = theme.Muted.Render(label)
		}
		sb.WriteString(lipgloss.NewStyle().Width(18).Render(label) + m.inputs[i].View() + "\n")
	}
	sound := theme.On.Render("on")
	if !m.sound {
		sound = theme.Off.Render("off")
	}
	sb.WriteString(lipgloss.NewStyle().Width(18).Render(theme.Muted.Render("Sound")) + sound + "\n\n")
	if m.errText != "" {
		sb.WriteString(theme.Off.Render(m.errText) + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("↑/↓: field  enter: next/save  ctrl+s: save  ctrl+t: sound on/off"))
	return theme.Pane.Width(max(m.width-2, 20)).Render(sb.String())
}

// Input builds the create request from the form fields.
func (m Model) Input() (alarmdto.CreateInput, error) {
	duration := 0
	if raw := strings.TrimSpace(m.inputs[fieldDuration].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return alarmdto.CreateInput{}, err
		}
		duration = n
	}
	var days []string
	for _, d := range strings.Split(m.inputs[fieldDays].Value(), ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return alarmdto.CreateInput{
		Name:         m.inputs[fieldName].Value(),
		Time:         m.inputs[fieldTime].Value(),
		Days:         days,
		Message:      m.inputs[fieldMessage].Value(),
		Duration:     duration,
		SoundEnabled: m.sound,
	}, nil
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}

func (m *Model) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldName
	m.sound = true
	m.inputs[fieldName].Focus()
}

func (m Model) submitCmd() tea.Cmd {
	input, err := m.Input()
	return func() tea.Msg {
		if err != nil {
			return CreatedMsg{Err: err}
		}
		out, err := m.port.Create(context.Background(), input)
		return CreatedMsg{Schedule: out, Err: err}
	}
}

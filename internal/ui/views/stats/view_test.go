package stats_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	alarmdto "reader365/internal/modules/alarm/dto"
	"reader365/internal/ui/views/stats"
)

type fakePort struct {
	historyErr error
}

func (fakePort) Stats(context.Context) (alarmdto.StatsOutput, error) {
	return alarmdto.StatsOutput{Total: 2, Active: 1, WeeklyReadingMinutes: 150}, nil
}

func (fakePort) Debug(context.Context) (alarmdto.DebugOutput, error) {
	return alarmdto.DebugOutput{Weekday: "Monday", RemainingToday: []alarmdto.UpcomingOutput{{Name: "Lunch", Time: "12:30"}}}, nil
}

func (f fakePort) History(context.Context, int) ([]alarmdto.FireOutput, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return []alarmdto.FireOutput{{Name: "Morning", Time: "07:30", Date: "2024-01-01"}}, nil
}

func load(t *testing.T, port stats.Port) stats.Model {
	t.Helper()
	m := stats.New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	m, _ = m.Update(m.Refresh()())
	return m
}

func TestRendersAllSections(t *testing.T) {
	t.Parallel()
	view := load(t, fakePort{}).View()
	for _, want := range []string{"150 minutes", "12:30  Lunch", "07:30  Morning"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestShowsLoadError(t *testing.T) {
	t.Parallel()
	view := load(t, fakePort{historyErr: errors.New("history offline")}).View()
	if !strings.Contains(view, "history offline") {
		t.Fatalf("view missing error:\n%s", view)
	}
}

package statsui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mapty/internal/model"
	"github.com/verte-zerg/mapty/internal/workout"
)

func sampleActivities(t *testing.T) []workout.Activity {
	t.Helper()
	seq := 0
	day := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local)
	f := workout.NewFactory(workout.LocaleEnglish,
		workout.WithIDs(func() string {
			seq++
			return fmt.Sprintf("w%d", seq)
		}),
		workout.WithClock(func() time.Time {
			return day.AddDate(0, 0, seq)
		}),
	)
	inputs := []workout.Input{
		{Kind: workout.KindRunning, Distance: 5, Duration: 30, Secondary: 150},
		{Kind: workout.KindCycling, Distance: 20, Duration: 40, Secondary: 100},
		{Kind: workout.KindRunning, Distance: 10, Duration: 50, Secondary: 170},
	}
	out := make([]workout.Activity, 0, len(inputs))
	for _, in := range inputs {
		a, err := f.Create(in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		out = append(out, a)
	}
	return out
}

func newSizedModel(t *testing.T, cfg model.StatsConfig) *Model {
	t.Helper()
	m := NewModel(sampleActivities(t), cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestOverviewShowsSummaries(t *testing.T) {
	m := newSizedModel(t, model.StatsConfig{Window: 5})
	view := m.View()
	if !strings.Contains(view, "Overview") || !strings.Contains(view, "Distance") {
		t.Fatalf("expected overview cards, got:\n%s", view)
	}
	if !strings.Contains(view, "3 of 3 workouts") {
		t.Fatalf("expected filter summary in header")
	}
}

func TestTabsWrapAround(t *testing.T) {
	m := newSizedModel(t, model.StatsConfig{Window: 5})
	m.Update(keyMsg("left"))
	if m.activeTab != tabTrends {
		t.Fatalf("expected trends tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "Moving average over 5 workouts") {
		t.Fatalf("expected trends view")
	}
	m.Update(keyMsg("right"))
	m.Update(keyMsg("right"))
	if m.activeTab != tabWorkouts {
		t.Fatalf("expected workouts tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "2026-03-02") {
		t.Fatalf("expected workout rows in table")
	}
}

func TestWindowKeys(t *testing.T) {
	m := newSizedModel(t, model.StatsConfig{Window: 3})
	m.Update(keyMsg("="))
	if m.Config().Window != 5 {
		t.Fatalf("expected window 5, got %d", m.Config().Window)
	}
	m.Update(keyMsg("="))
	if m.Config().Window != 10 {
		t.Fatalf("expected window 10, got %d", m.Config().Window)
	}
	m.Update(keyMsg("-"))
	m.Update(keyMsg("-"))
	if m.Config().Window != 1 {
		t.Fatalf("expected window 1, got %d", m.Config().Window)
	}
}

func TestFilterByKind(t *testing.T) {
	m := newSizedModel(t, model.StatsConfig{Window: 5})
	m.Update(keyMsg("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	typeText(m, "Cycling")
	m.Update(keyMsg("enter"))
	if m.filterMode {
		t.Fatalf("expected filter to apply: %s", m.filterError)
	}
	if len(m.Filtered()) != 1 || m.Filtered()[0].Kind() != workout.KindCycling {
		t.Fatalf("unexpected filtered workouts: %+v", m.Filtered())
	}
	if m.Config().Kind != "cycling" {
		t.Fatalf("expected normalized kind, got %q", m.Config().Kind)
	}
}

func TestInvalidFilterKeepsForm(t *testing.T) {
	m := newSizedModel(t, model.StatsConfig{Window: 5})
	m.Update(keyMsg("/"))
	m.Update(keyMsg("tab"))
	typeText(m, "yesterday")
	m.Update(keyMsg("enter"))
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected filter error")
	}
	m.Update(keyMsg("esc"))
	if m.filterMode || len(m.Filtered()) != 3 {
		t.Fatalf("expected esc to keep the previous filter")
	}
}

func TestEmptyStats(t *testing.T) {
	m := NewModel(nil, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "No workouts found.") {
		t.Fatalf("expected empty message")
	}
	if m.Config().Window != 1 {
		t.Fatalf("expected window to default to 1")
	}
}

func TestQuit(t *testing.T) {
	m := newSizedModel(t, model.StatsConfig{Window: 5})
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

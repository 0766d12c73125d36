package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/focustimer"
)

func keyPress(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// idleClock never fires, so the countdown stays where the test leaves it.
type idleClock struct{}

type noopStopper struct{}

func (noopStopper) Stop() bool { return true }

func (idleClock) AfterFunc(time.Duration, func()) focustimer.Stopper { return noopStopper{} }

func newTestModel(cfg ModelConfig) (Model, *focustimer.Timer) {
	timer := focustimer.New(focustimer.WithClock(idleClock{}))
	cfg.Timer = timer
	m := NewModel(cfg)
	m.width = 100
	m.height = 30
	return m, timer
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		result, _ := m.Update(keyPress(k))
		m = result.(Model)
	}
	return m
}

func TestFormatFocusTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{25 * time.Minute, "25m"},
		{65 * time.Minute, "1h05m"},
		{2*time.Hour + 29*time.Second, "2h00m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatFocusTime(tt.d); got != tt.want {
				t.Errorf("formatFocusTime(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestRenderBigTime(t *testing.T) {
	style := lipgloss.NewStyle()
	big := renderBigTime("25:00", style, 80)
	if got := len(strings.Split(big, "\n")); got != 5 {
		t.Errorf("renderBigTime() rows = %d, want 5", got)
	}
	if narrow := renderBigTime("25:00", style, 20); !strings.Contains(narrow, "25:00") {
		t.Errorf("narrow renderBigTime() = %q, want plain clock", narrow)
	}
}

func TestModel_Keys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want domain.TimerState
	}{
		{"space starts", []string{" "}, domain.TimerState{Mode: domain.TimerModeWork, RemainingSeconds: 1500, IsRunning: true, AutoFocusEnabled: true}},
		{"space twice pauses", []string{" ", " "}, domain.TimerState{Mode: domain.TimerModeWork, RemainingSeconds: 1500, AutoFocusEnabled: true}},
		{"2 switches to short break", []string{" ", "2"}, domain.TimerState{Mode: domain.TimerModeShortBreak, RemainingSeconds: 300, AutoFocusEnabled: true}},
		{"3 switches to long break", []string{"3"}, domain.TimerState{Mode: domain.TimerModeLongBreak, RemainingSeconds: 1200, AutoFocusEnabled: true}},
		{"1 back to work", []string{"3", "1"}, domain.TimerState{Mode: domain.TimerModeWork, RemainingSeconds: 1500, AutoFocusEnabled: true}},
		{"r resets", []string{" ", "r"}, domain.TimerState{Mode: domain.TimerModeWork, RemainingSeconds: 1500, AutoFocusEnabled: true}},
		{"a toggles auto-focus", []string{"a"}, domain.TimerState{Mode: domain.TimerModeWork, RemainingSeconds: 1500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, timer := newTestModel(ModelConfig{})
			m = press(m, tt.keys...)
			if got := timer.State(); got != tt.want {
				t.Errorf("State() = %+v, want %+v", got, tt.want)
			}
			if m.state != timer.State() {
				t.Error("model should hold the state read after the key")
			}
		})
	}
}

func TestModel_QuitKey(t *testing.T) {
	m, _ := newTestModel(ModelConfig{})
	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_OverlayFollowsFocusSignal(t *testing.T) {
	active := false
	m, _ := newTestModel(ModelConfig{Subject: "Calculus", FocusActive: func() bool { return active }})

	view := m.View()
	if !strings.Contains(view, "studyflow") || !strings.Contains(view, "Calculus") {
		t.Errorf("normal view should show the title and subject:\n%s", view)
	}

	active = true
	result, _ := m.Update(refreshMsg(time.Now()))
	m = result.(Model)
	if !m.focusOn {
		t.Fatal("refresh should pick up the focus signal")
	}
	overlay := m.View()
	if strings.Contains(overlay, "studyflow") {
		t.Error("overlay should hide the title")
	}
	if !strings.Contains(overlay, "space pause") {
		t.Error("overlay should keep the pause hint")
	}
}

func TestModel_OwnFocusWithoutPresenter(t *testing.T) {
	m, _ := newTestModel(ModelConfig{})
	m = press(m, " ")
	if !m.focusOn {
		t.Error("running work countdown with auto-focus should show the overlay")
	}

	m = press(m, " ", "a", " ")
	if m.focusOn {
		t.Error("auto-focus off should keep the normal view")
	}
}

func TestModel_ViewStatus(t *testing.T) {
	m, _ := newTestModel(ModelConfig{Stats: func() domain.DailyStats {
		return domain.DailyStats{WorkSessions: 4, TotalFocusTime: 100 * time.Minute}
	}})

	if !strings.Contains(m.View(), "Ready") {
		t.Error("fresh timer should read Ready")
	}
	if !strings.Contains(m.View(), "Today: 4 sessions · 1h40m focused · next break: Long Break") {
		t.Errorf("stats line missing:\n%s", m.View())
	}

	m = press(m, "2", " ")
	if !strings.Contains(m.View(), "SHORT BREAK") {
		t.Error("running break should show its label")
	}
}

func TestModel_LoadingBeforeSize(t *testing.T) {
	m, _ := newTestModel(ModelConfig{})
	m.width = 0
	if m.View() != "Loading..." {
		t.Error("View() before the first size message should be Loading...")
	}

	result, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 25})
	m = result.(Model)
	if m.width != 90 || m.height != 25 {
		t.Errorf("size = %dx%d, want 90x25", m.width, m.height)
	}
}

func TestSubjectItems_WeakestFirst(t *testing.T) {
	strong, _ := domain.NewSubject("History", 9, 10)
	weak, _ := domain.NewSubject("Calculus", 2, 12)
	weak.CurrentTopic = "Limits"

	items, ordered := subjectItems([]*domain.Subject{strong, weak})
	if ordered[0] != weak || items[0].Label != "Calculus" {
		t.Errorf("first item = %q, want Calculus", items[0].Label)
	}
	if !strings.Contains(items[0].Desc, "Limits") {
		t.Errorf("desc = %q, want current topic", items[0].Desc)
	}
}

func TestPickerModel_Navigation(t *testing.T) {
	m := newPickerModel("Pick", []PickerItem{{Label: "a"}, {Label: "b"}}, "", resolveTheme(nil))

	down := tea.KeyMsg{Type: tea.KeyDown}
	result, _ := m.Update(down)
	m = result.(pickerModel)
	result, _ = m.Update(down)
	m = result.(pickerModel)
	if m.cursor != 1 || m.selected() != 1 {
		t.Errorf("cursor = %d, selected = %d, want 1", m.cursor, m.selected())
	}

	result, _ = m.Update(keyPress("esc"))
	m = result.(pickerModel)
	if !m.aborted {
		t.Error("esc should abort")
	}
}

func TestPickerModel_Filter(t *testing.T) {
	items := []PickerItem{{Label: "History"}, {Label: "Calculus"}, {Label: "Organic Chemistry"}}
	m := newPickerModel("Pick", items, "", resolveTheme(nil))

	for _, r := range "chem" {
		result, _ := m.Update(keyPress(string(r)))
		m = result.(pickerModel)
	}
	if got := m.selected(); got != 2 {
		t.Fatalf("selected = %d, want Organic Chemistry (2)", got)
	}
	if !strings.Contains(m.View(), "filter: chem") {
		t.Errorf("view should show the filter:\n%s", m.View())
	}

	result, _ := m.Update(keyPress("zzz"))
	m = result.(pickerModel)
	if m.selected() != -1 {
		t.Errorf("selected = %d, want -1 with no matches", m.selected())
	}
	if !strings.Contains(m.View(), "no matches") {
		t.Error("view should say no matches")
	}

	for range "zzz" {
		result, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
		m = result.(pickerModel)
	}
	if m.selected() != 2 {
		t.Errorf("selected = %d after backspace, want 2", m.selected())
	}

	result, cmd := m.Update(keyPress("enter"))
	m = result.(pickerModel)
	if cmd == nil || m.aborted {
		t.Error("enter should quit with a selection")
	}
}

// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// refreshInterval is how often the view re-reads the timer. It is shorter
// than the countdown tick so the clock never lags a full second.
const refreshInterval = 200 * time.Millisecond

// statsEvery is how many refreshes pass between daily stats reloads.
const statsEvery = 5

// refreshMsg is sent on every view refresh.
type refreshMsg time.Time

// ModelConfig wires the focus view to its timer.
type ModelConfig struct {
	Timer ports.FocusTimer
	Theme *config.ThemeConfig
	// Subject is shown above the clock when set.
	Subject string
	// FocusActive reports the reconciled focus signal. Nil means focus mode
	// follows this timer's own work countdown.
	FocusActive func() bool
	// Stats loads today's focus stats. Optional.
	Stats func() domain.DailyStats
}

// Model represents the focus view.
type Model struct {
	timer       ports.FocusTimer
	state       domain.TimerState
	focusActive func() bool
	focusOn     bool
	stats       func() domain.DailyStats
	today       domain.DailyStats
	refreshes   int
	subject     string
	keys        keyMap
	help        help.Model
	theme       config.ThemeConfig
	styles      styles
	width       int
	height      int
}

// NewModel creates the focus view model.
func NewModel(cfg ModelConfig) Model {
	theme := resolveTheme(cfg.Theme)
	m := Model{
		timer:       cfg.Timer,
		focusActive: cfg.FocusActive,
		stats:       cfg.Stats,
		subject:     cfg.Subject,
		keys:        defaultKeyMap(),
		help:        help.New(),
		theme:       theme,
		styles:      newStyles(theme),
	}
	m.sync()
	if m.stats != nil {
		m.today = m.stats()
	}
	return m
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return refreshCmd()
}

// sync re-reads the timer and the focus signal.
func (m *Model) sync() {
	m.state = m.timer.State()
	if m.focusActive != nil {
		m.focusOn = m.focusActive()
	} else {
		m.focusOn = m.state.IsFocusSession() && m.state.AutoFocusEnabled
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.timer.ToggleRun()
		case key.Matches(msg, m.keys.Reset):
			m.timer.Reset()
		case key.Matches(msg, m.keys.Work):
			m.timer.SwitchMode(domain.TimerModeWork)
		case key.Matches(msg, m.keys.ShortBreak):
			m.timer.SwitchMode(domain.TimerModeShortBreak)
		case key.Matches(msg, m.keys.LongBreak):
			m.timer.SwitchMode(domain.TimerModeLongBreak)
		case key.Matches(msg, m.keys.AutoFocus):
			m.timer.SetAutoFocusEnabled(!m.state.AutoFocusEnabled)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		m.sync()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case refreshMsg:
		m.sync()
		m.refreshes++
		if m.stats != nil && m.refreshes%statsEvery == 0 {
			m.today = m.stats()
		}
		return m, refreshCmd()
	}
	return m, nil
}

// View renders the focus view, or the distraction-free overlay while focus
// mode is on.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.focusOn {
		return m.viewOverlay()
	}

	var sections []string
	sections = append(sections, m.styles.title.Render(fmt.Sprintf("%s studyflow", m.theme.IconApp)))
	if m.subject != "" {
		sections = append(sections, m.styles.subject.Render(fmt.Sprintf("%s %s", m.theme.IconSubject, m.subject)))
	}
	sections = append(sections, m.viewTabs(), "")

	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(modeColor(m.theme, m.state.Mode))
	if !m.state.IsRunning && m.state.RemainingSeconds < m.state.Mode.Preset() {
		clockStyle = clockStyle.Foreground(lipgloss.Color(m.theme.ColorPaused))
	}
	sections = append(sections, renderBigTime(m.state.Display(), clockStyle, m.width))

	sections = append(sections, "", m.viewStatus(), "")
	start, end := modeGradient(m.theme, m.state.Mode)
	bar := progress.New(progress.WithGradient(start, end), progress.WithoutPercentage())
	bar.Width = min(m.width-4, 60)
	sections = append(sections, bar.ViewAs(m.state.Progress()))

	autoFocus := "off"
	if m.state.AutoFocusEnabled {
		autoFocus = "on"
	}
	sections = append(sections, m.styles.help.Render(fmt.Sprintf("auto-focus %s", autoFocus)))

	if m.stats != nil {
		sections = append(sections, m.styles.help.Render(fmt.Sprintf("Today: %d sessions · %s focused · next break: %s",
			m.today.WorkSessions, formatFocusTime(m.today.TotalFocusTime), m.today.SuggestedBreak().Label())))
	}

	sections = append(sections, "", m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(domain.TimerModes))
	for i, mode := range domain.TimerModes {
		label := fmt.Sprintf("%d %s", i+1, mode.Label())
		if mode == m.state.Mode {
			tabs[i] = m.styles.activeTab.Foreground(modeColor(m.theme, mode)).Render(label)
		} else {
			tabs[i] = m.styles.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	switch {
	case m.state.IsRunning:
		return lipgloss.NewStyle().Foreground(modeColor(m.theme, m.state.Mode)).Render(strings.ToUpper(m.state.Mode.Label()))
	case m.state.RemainingSeconds == 0:
		return m.styles.help.Render("Time's up")
	case m.state.RemainingSeconds < m.state.Mode.Preset():
		return m.styles.paused.Render(fmt.Sprintf("%s PAUSED", m.theme.IconPaused))
	default:
		return m.styles.help.Render("Ready")
	}
}

// viewOverlay is the distraction-free screen: the clock and nothing else.
func (m Model) viewOverlay() string {
	clockStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(modeColor(m.theme, m.state.Mode)).
		Background(lipgloss.Color(m.theme.ColorOverlay))
	hint := m.styles.help.Background(lipgloss.Color(m.theme.ColorOverlay)).Render("space pause · q quit")

	sections := []string{renderBigTime(m.state.Display(), clockStyle, m.width)}
	if m.subject != "" {
		sections = append(sections, "", m.styles.subject.Background(lipgloss.Color(m.theme.ColorOverlay)).Render(m.subject))
	}
	sections = append(sections, "", hint)

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.ColorOverlay)))
}

// refreshCmd schedules the next view refresh.
func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// formatFocusTime renders a duration as "1h05m" or "25m".
func formatFocusTime(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

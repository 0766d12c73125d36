package tui

import (
	"reflect"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// styles are derived once per theme.
type styles struct {
	title     lipgloss.Style
	help      lipgloss.Style
	subject   lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	paused    lipgloss.Style
	overlay   lipgloss.Style
}

func newStyles(theme config.ThemeConfig) styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle)).MarginBottom(1),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp)),
		subject:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWork)),
		tab:       lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color(theme.ColorHelp)),
		activeTab: lipgloss.NewStyle().Padding(0, 2).Bold(true).Underline(true),
		paused: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(theme.ColorPaused)).
			Padding(0, 1),
		overlay: lipgloss.NewStyle().Background(lipgloss.Color(theme.ColorOverlay)),
	}
}

// modeColor returns the accent color of a timer mode.
func modeColor(theme config.ThemeConfig, mode domain.TimerMode) lipgloss.Color {
	if mode.IsBreak() {
		return lipgloss.Color(theme.ColorBreak)
	}
	return lipgloss.Color(theme.ColorWork)
}

// modeGradient returns the progress bar gradient of a timer mode.
func modeGradient(theme config.ThemeConfig, mode domain.TimerMode) (string, string) {
	if mode.IsBreak() {
		return theme.BreakGradientStart, theme.BreakGradientEnd
	}
	return theme.WorkGradientStart, theme.WorkGradientEnd
}

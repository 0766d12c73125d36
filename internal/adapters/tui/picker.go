package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
)

// PickerItem represents one option in the picker.
type PickerItem struct {
	Label string
	Desc  string
}

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Index   int
	Aborted bool
}

// pickerModel is a vertical list narrowed by typing; matching is fuzzy on the
// item labels.
type pickerModel struct {
	title   string
	items   []PickerItem
	footer  string
	query   string
	visible []int // indexes into items, in display order
	cursor  int
	aborted bool
	theme   config.ThemeConfig
}

func newPickerModel(title string, items []PickerItem, footer string, theme config.ThemeConfig) pickerModel {
	m := pickerModel{title: title, items: items, footer: footer, theme: theme}
	m.filter()
	return m
}

// filter recomputes the visible items for the current query.
func (m *pickerModel) filter() {
	m.visible = make([]int, 0, len(m.items))
	if m.query == "" {
		for i := range m.items {
			m.visible = append(m.visible, i)
		}
	} else {
		labels := make([]string, len(m.items))
		for i, item := range m.items {
			labels[i] = item.Label
		}
		for _, match := range fuzzy.Find(m.query, labels) {
			m.visible = append(m.visible, match.Index)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp, tea.KeyCtrlP:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown, tea.KeyCtrlN:
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		if len(m.visible) > 0 {
			return m, tea.Quit
		}
	case tea.KeyEsc, tea.KeyCtrlC:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if m.query != "" {
			r := []rune(m.query)
			m.query = string(r[:len(r)-1])
			m.filter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(keyMsg.Runes)
		m.cursor = 0
		m.filter()
	}
	return m, nil
}

// selected returns the index of the highlighted item, or -1 when nothing matches.
func (m pickerModel) selected() int {
	if len(m.visible) == 0 {
		return -1
	}
	return m.visible[m.cursor]
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + "\n")
	if m.query != "" {
		b.WriteString(dimStyle.Render("  filter: ") + m.query + "\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("    no matches") + "\n")
	}
	for pos, idx := range m.visible {
		item := m.items[idx]
		line := fmt.Sprintf("%-20s %s", item.Label, item.Desc)
		if pos == m.cursor {
			b.WriteString("  " + activeStyle.Render("▸ "+line) + "\n")
			continue
		}
		b.WriteString(dimStyle.Render("    "+line) + "\n")
	}

	if m.footer != "" {
		b.WriteString("\n" + dimStyle.Render("  "+m.footer) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("  type to filter · ↑/↓ move · enter select · esc skip") + "\n")

	return b.String()
}

// RunPicker launches an interactive picker and returns the selected index.
func RunPicker(title string, items []PickerItem, footer string, theme *config.ThemeConfig) PickerResult {
	if len(items) == 0 {
		return PickerResult{Aborted: true}
	}

	result, err := tea.NewProgram(newPickerModel(title, items, footer, resolveTheme(theme))).Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(pickerModel)
	if final.aborted || final.selected() < 0 {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Index: final.selected()}
}

// subjectItems lists subjects weakest first, the order the planner tackles them.
func subjectItems(subjects []*domain.Subject) ([]PickerItem, []*domain.Subject) {
	ordered := make([]*domain.Subject, len(subjects))
	copy(ordered, subjects)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StrengthRating < ordered[j].StrengthRating
	})

	items := make([]PickerItem, len(ordered))
	for i, s := range ordered {
		desc := fmt.Sprintf("strength %d/10 · %d/%d topics", s.StrengthRating, s.CompletedTopics, s.SyllabusSize)
		if s.CurrentTopic != "" {
			desc += " · " + s.CurrentTopic
		}
		items[i] = PickerItem{Label: s.Name, Desc: desc}
	}
	return items, ordered
}

// PickSubject asks which subject the next focus sessions are for. It returns
// nil when the user skips.
func PickSubject(subjects []*domain.Subject, theme *config.ThemeConfig) *domain.Subject {
	items, ordered := subjectItems(subjects)
	result := RunPicker("What are you studying?", items, "esc to focus without a subject", theme)
	if result.Aborted {
		return nil
	}
	return ordered[result.Index]
}

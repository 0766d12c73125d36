package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// digitMap holds the five-row glyph for each clock character.
var digitMap = map[rune][5]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	':': {
		" ",
		"█",
		" ",
		"█",
		" ",
	},
}

// renderBigTime turns an MM:SS string into five rows of block glyphs.
// Terminals narrower than 40 columns get the plain string instead.
func renderBigTime(display string, style lipgloss.Style, width int) string {
	if width < 40 {
		return style.Render(display)
	}

	var rows [5][]string
	for _, ch := range display {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], glyph[i])
		}
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = style.Render(strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}

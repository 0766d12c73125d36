package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

// terminalSize returns the current terminal size, defaulting to 80x24.
func terminalSize() (int, int) {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80, 24
	}
	return w, h
}

// Run shows the focus view until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg ModelConfig) error {
	m := NewModel(cfg)
	m.width, m.height = terminalSize()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

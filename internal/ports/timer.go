package ports

import (
	"github.com/xvierd/studyflow/internal/domain"
)

// FocusTimer is the Pomodoro countdown driven by the UI and the MCP server.
// This is a driving port (implemented by internal/focustimer).
type FocusTimer interface {
	// SwitchMode loads the preset for mode and stops the countdown.
	SwitchMode(mode domain.TimerMode)

	// ToggleRun starts or pauses the countdown.
	ToggleRun()

	// Reset stops the countdown and restores the current preset.
	Reset()

	// SetAutoFocusEnabled controls whether toggles in work mode report focus changes.
	SetAutoFocusEnabled(enabled bool)

	// State returns a snapshot of the timer.
	State() domain.TimerState

	// Display returns the remaining time as MM:SS.
	Display() string

	// Close stops ticking; later calls are ignored.
	Close()
}

// FocusListener receives the reconciled focus-active signal.
type FocusListener func(active bool)

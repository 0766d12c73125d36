package domain

import "fmt"

// TimerMode selects which preset duration the focus timer counts down from.
type TimerMode string

const (
	TimerModeWork       TimerMode = "work"
	TimerModeShortBreak TimerMode = "short_break"
	TimerModeLongBreak  TimerMode = "long_break"
)

// TimerModes lists the modes in display order.
var TimerModes = []TimerMode{
	TimerModeWork,
	TimerModeShortBreak,
	TimerModeLongBreak,
}

// Preset durations in whole seconds. These are fixed and not user-editable.
const (
	WorkPresetSeconds       = 25 * 60
	ShortBreakPresetSeconds = 5 * 60
	LongBreakPresetSeconds  = 20 * 60
)

// Preset returns the countdown length of the mode in seconds.
// Unknown modes fall back to the work preset.
func (m TimerMode) Preset() int {
	switch m {
	case TimerModeShortBreak:
		return ShortBreakPresetSeconds
	case TimerModeLongBreak:
		return LongBreakPresetSeconds
	default:
		return WorkPresetSeconds
	}
}

// Label returns a human-readable label.
func (m TimerMode) Label() string {
	switch m {
	case TimerModeWork:
		return "Work"
	case TimerModeShortBreak:
		return "Short Break"
	case TimerModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak reports whether the mode is one of the rest modes.
func (m TimerMode) IsBreak() bool {
	return m == TimerModeShortBreak || m == TimerModeLongBreak
}

// ParseTimerMode checks that s names a timer mode. Short aliases used on the
// command line ("short", "long") are accepted too.
func ParseTimerMode(s string) (TimerMode, error) {
	switch s {
	case "work", "focus":
		return TimerModeWork, nil
	case "short_break", "short":
		return TimerModeShortBreak, nil
	case "long_break", "long":
		return TimerModeLongBreak, nil
	}
	return "", fmt.Errorf("invalid timer mode %q: must be one of work, short_break, long_break", s)
}

// TimerState is the live state of one focus timer.
type TimerState struct {
	Mode             TimerMode
	RemainingSeconds int
	IsRunning        bool
	AutoFocusEnabled bool
}

// NewTimerState returns the state a freshly mounted timer starts in.
func NewTimerState() TimerState {
	return TimerState{
		Mode:             TimerModeWork,
		RemainingSeconds: TimerModeWork.Preset(),
		IsRunning:        false,
		AutoFocusEnabled: true,
	}
}

// Display renders the remaining time as MM:SS.
func (s TimerState) Display() string {
	return FormatClock(s.RemainingSeconds)
}

// ElapsedSeconds returns how much of the current preset has been used.
func (s TimerState) ElapsedSeconds() int {
	return s.Mode.Preset() - s.RemainingSeconds
}

// Progress returns the completion ratio of the current preset (0.0 to 1.0).
func (s TimerState) Progress() float64 {
	preset := s.Mode.Preset()
	if preset == 0 {
		return 0
	}
	return float64(s.ElapsedSeconds()) / float64(preset)
}

// IsFocusSession reports whether a work countdown is actively running.
func (s TimerState) IsFocusSession() bool {
	return s.IsRunning && s.Mode == TimerModeWork
}

// FormatClock renders seconds as zero-padded MM:SS. Negative input renders
// as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

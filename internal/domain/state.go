package domain

import (
	"time"
)

// DailyStats aggregates focus statistics for a day.
type DailyStats struct {
	Date             time.Time
	WorkSessions     int
	InterruptedWork  int
	BreaksTaken      int
	TotalFocusTime   time.Duration
	SubjectFocusTime map[string]time.Duration
}

// AddSession folds one finished session into the stats.
func (d *DailyStats) AddSession(s *FocusSession) {
	if s.Mode.IsBreak() {
		if s.IsCompleted() {
			d.BreaksTaken++
		}
		return
	}
	if s.IsCompleted() {
		d.WorkSessions++
	} else {
		d.InterruptedWork++
	}
	d.TotalFocusTime += s.Elapsed()
	if s.SubjectName != "" {
		if d.SubjectFocusTime == nil {
			d.SubjectFocusTime = make(map[string]time.Duration)
		}
		d.SubjectFocusTime[s.SubjectName] += s.Elapsed()
	}
}

// PomodoroCycle returns the position (1-4) of the next work session in the
// classic four-session cycle.
func (d *DailyStats) PomodoroCycle() int {
	return d.WorkSessions%4 + 1
}

// SuggestedBreak returns the break that should follow the last completed work
// session: a long break after every fourth.
func (d *DailyStats) SuggestedBreak() TimerMode {
	if d.WorkSessions > 0 && d.WorkSessions%4 == 0 {
		return TimerModeLongBreak
	}
	return TimerModeShortBreak
}

// CurrentState is the read model shown by status and the MCP server.
type CurrentState struct {
	Profile    *UserProfile
	TodayPlan  *Plan
	Timer      *TimerState
	FocusOn    bool
	TodayStats DailyStats
}

// HasPlan returns true if a plan was generated for today.
func (cs *CurrentState) HasPlan() bool {
	return cs.TodayPlan != nil
}

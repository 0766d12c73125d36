package domain

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a focus session does not exist.
var ErrSessionNotFound = errors.New("focus session not found")

// SessionOutcome records how a timer run ended.
type SessionOutcome string

const (
	// OutcomeCompleted means the countdown reached zero.
	OutcomeCompleted SessionOutcome = "completed"
	// OutcomeInterrupted means the run was reset or switched away from.
	OutcomeInterrupted SessionOutcome = "interrupted"
)

// FocusSession is a history record of one timer run, written by the host
// when the run ends. The live countdown itself is never persisted.
type FocusSession struct {
	ID             string
	Mode           TimerMode
	PlannedSeconds int
	ElapsedSeconds int
	Outcome        SessionOutcome
	SubjectID      *string
	SubjectName    string
	StartedAt      time.Time
	EndedAt        time.Time
	GitBranch      string
	GitCommit      string
}

// NewFocusSession creates a record for a run of the given mode that started
// at startedAt.
func NewFocusSession(mode TimerMode, startedAt time.Time) *FocusSession {
	return &FocusSession{
		ID:             generateID(),
		Mode:           mode,
		PlannedSeconds: mode.Preset(),
		StartedAt:      startedAt,
	}
}

// Finish stamps the end of the run.
func (s *FocusSession) Finish(outcome SessionOutcome, elapsedSeconds int, endedAt time.Time) {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	if elapsedSeconds > s.PlannedSeconds {
		elapsedSeconds = s.PlannedSeconds
	}
	s.Outcome = outcome
	s.ElapsedSeconds = elapsedSeconds
	s.EndedAt = endedAt
}

// SetSubject links the session to the subject being studied.
func (s *FocusSession) SetSubject(subject *Subject) {
	if subject == nil {
		s.SubjectID = nil
		s.SubjectName = ""
		return
	}
	id := subject.ID
	s.SubjectID = &id
	s.SubjectName = subject.Name
}

// SetGitContext stores git information for the session.
func (s *FocusSession) SetGitContext(branch, commit string) {
	s.GitBranch = branch
	s.GitCommit = commit
}

// Elapsed returns the focused time as a duration.
func (s *FocusSession) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSeconds) * time.Second
}

// IsWorkSession returns true if this is a work session.
func (s *FocusSession) IsWorkSession() bool {
	return s.Mode == TimerModeWork
}

// IsCompleted returns true if the countdown ran to zero.
func (s *FocusSession) IsCompleted() bool {
	return s.Outcome == OutcomeCompleted
}

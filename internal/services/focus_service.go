package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/focustimer"
	"github.com/xvierd/studyflow/internal/ports"
)

// SessionNotifier announces finished countdowns.
type SessionNotifier interface {
	NotifySessionComplete(session *domain.FocusSession) error
}

// FocusConfig wires a FocusService. Only Storage is required.
type FocusConfig struct {
	// Source names this timer instance in the presenter, e.g. "tui" or "mcp".
	Source     string
	Storage    ports.Storage
	Presenter  *FocusPresenter
	Git        ports.GitDetector
	Notifier   SessionNotifier
	WorkingDir string
	AutoFocus  bool
	StartMode  domain.TimerMode
	Clock      focustimer.Clock
	Logger     *slog.Logger
	Now        func() time.Time
}

// run tracks the countdown currently being timed for history.
type run struct {
	mode      domain.TimerMode
	startedAt time.Time
}

// FocusService hosts one focus timer. It forwards user controls, reports the
// timer's focus changes to the presenter, and writes a FocusSession to history
// when a countdown finishes or is abandoned part way.
type FocusService struct {
	timer     *focustimer.Timer
	source    string
	storage   ports.Storage
	presenter *FocusPresenter
	git       ports.GitDetector
	notifier  SessionNotifier
	dir       string
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	current    *run
	subject    *domain.Subject
	onRecorded func(*domain.FocusSession)
}

// Ensure FocusService can stand in for its timer.
var _ ports.FocusTimer = (*FocusService)(nil)

// NewFocusService builds the timer and its host.
func NewFocusService(cfg FocusConfig) *FocusService {
	s := &FocusService{
		source:    cfg.Source,
		storage:   cfg.Storage,
		presenter: cfg.Presenter,
		git:       cfg.Git,
		notifier:  cfg.Notifier,
		dir:       cfg.WorkingDir,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.source == "" {
		s.source = "timer"
	}
	if s.presenter == nil {
		s.presenter = NewFocusPresenter()
	}
	if s.logger == nil {
		s.logger = config.DiscardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}

	opts := []focustimer.Option{
		focustimer.WithOnFocusChange(s.handleFocusChange),
		focustimer.WithAutoFocus(cfg.AutoFocus),
		focustimer.WithLogger(s.logger.With("source", s.source)),
	}
	if cfg.Clock != nil {
		opts = append(opts, focustimer.WithClock(cfg.Clock))
	}
	s.timer = focustimer.New(opts...)
	if cfg.StartMode != "" && cfg.StartMode != domain.TimerModeWork {
		s.timer.SwitchMode(cfg.StartMode)
	}
	return s
}

// Timer exposes the underlying timer port.
func (s *FocusService) Timer() ports.FocusTimer {
	return s.timer
}

// Presenter returns the presenter this instance reports to.
func (s *FocusService) Presenter() *FocusPresenter {
	return s.presenter
}

// SetSubject links future sessions to subject; nil clears it.
func (s *FocusService) SetSubject(subject *domain.Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject = subject
}

// Subject returns the linked subject.
func (s *FocusService) Subject() *domain.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject
}

// SetOnSessionRecorded sets a callback fired after a session is saved.
func (s *FocusService) SetOnSessionRecorded(fn func(*domain.FocusSession)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRecorded = fn
}

// State returns the timer state.
func (s *FocusService) State() domain.TimerState {
	return s.timer.State()
}

// Display returns the remaining time as MM:SS.
func (s *FocusService) Display() string {
	return s.timer.Display()
}

// ToggleRun starts or pauses the countdown. Starting from a full preset
// opens a new history record.
func (s *FocusService) ToggleRun() {
	s.timer.ToggleRun()

	st := s.timer.State()
	if !st.IsRunning || st.RemainingSeconds == 0 {
		return
	}
	s.mu.Lock()
	if s.current == nil || s.current.mode != st.Mode {
		s.current = &run{mode: st.Mode, startedAt: s.now()}
	}
	s.mu.Unlock()
}

// Reset restores the preset, recording the abandoned run if any time elapsed.
func (s *FocusService) Reset() {
	before := s.timer.State()
	s.timer.Reset()
	s.abandon(before)
}

// SwitchMode loads another preset, recording the abandoned run if any time
// elapsed.
func (s *FocusService) SwitchMode(mode domain.TimerMode) {
	before := s.timer.State()
	s.timer.SwitchMode(mode)
	s.abandon(before)
}

// SetAutoFocusEnabled changes whether work toggles drive focus mode.
func (s *FocusService) SetAutoFocusEnabled(enabled bool) {
	s.timer.SetAutoFocusEnabled(enabled)
}

// Close stops the timer, records an unfinished run and withdraws this
// instance from the presenter.
func (s *FocusService) Close() {
	before := s.timer.State()
	s.timer.Close()
	s.abandon(before)
	s.presenter.Remove(s.source)
}

func (s *FocusService) abandon(before domain.TimerState) {
	s.mu.Lock()
	r := s.current
	s.current = nil
	s.mu.Unlock()

	if r == nil {
		return
	}
	elapsed := r.mode.Preset() - before.RemainingSeconds
	if before.Mode != r.mode || elapsed <= 0 {
		return
	}
	s.record(r, domain.OutcomeInterrupted, elapsed)
}

// handleFocusChange is the timer's focus callback. It runs after the timer
// has released its lock, so reading the timer state here is safe.
func (s *FocusService) handleFocusChange(active bool) {
	s.presenter.Report(s.source, active)
	if active {
		return
	}

	st := s.timer.State()
	if st.IsRunning || st.RemainingSeconds != 0 {
		return
	}

	s.mu.Lock()
	r := s.current
	s.current = nil
	s.mu.Unlock()
	if r == nil {
		return
	}
	s.logger.Info("countdown finished", "source", s.source, "mode", r.mode)
	s.record(r, domain.OutcomeCompleted, r.mode.Preset())
}

func (s *FocusService) record(r *run, outcome domain.SessionOutcome, elapsed int) {
	ctx := context.Background()

	session := domain.NewFocusSession(r.mode, r.startedAt)
	s.mu.Lock()
	session.SetSubject(s.subject)
	onRecorded := s.onRecorded
	s.mu.Unlock()

	if s.git != nil && s.git.IsAvailable() {
		if info, err := s.git.Detect(ctx, s.dir); err == nil && info != nil {
			session.SetGitContext(info.Branch, info.Commit)
		}
	}
	session.Finish(outcome, elapsed, s.now())

	if err := s.storage.Sessions().Save(ctx, session); err != nil {
		s.logger.Error("failed to record focus session", "id", session.ID, "error", err)
		return
	}
	s.logger.Info("focus session recorded",
		"id", session.ID, "mode", session.Mode, "outcome", session.Outcome, "elapsed", session.ElapsedSeconds)

	if outcome == domain.OutcomeCompleted && s.notifier != nil {
		if err := s.notifier.NotifySessionComplete(session); err != nil {
			s.logger.Warn("failed to send notification", "error", err)
		}
	}
	if onRecorded != nil {
		onRecorded(session)
	}
}

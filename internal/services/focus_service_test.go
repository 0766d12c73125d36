package services

import (
	"context"
	"testing"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

type notifierSpy struct {
	sessions []*domain.FocusSession
}

func (n *notifierSpy) NotifySessionComplete(session *domain.FocusSession) error {
	n.sessions = append(n.sessions, session)
	return nil
}

type gitStub struct{}

func (gitStub) Detect(ctx context.Context, dir string) (*ports.GitInfo, error) {
	return &ports.GitInfo{Branch: "main", Commit: "abc1234def"}, nil
}

func (gitStub) IsAvailable() bool { return true }

func newTestFocusService(t *testing.T, store ports.Storage) (*FocusService, *stepClock, *notifierSpy) {
	t.Helper()
	clock := &stepClock{}
	notifier := &notifierSpy{}
	svc := NewFocusService(FocusConfig{
		Source:    "test",
		Storage:   store,
		Git:       gitStub{},
		Notifier:  notifier,
		AutoFocus: true,
		Clock:     clock,
	})
	return svc, clock, notifier
}

func TestFocusService_CompletedSessionIsRecorded(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	svc, clock, notifier := newTestFocusService(t, store)
	defer svc.Close()

	subject, _ := domain.NewSubject("Calculus", 3, 10)
	svc.SetSubject(subject)

	var recorded *domain.FocusSession
	svc.SetOnSessionRecorded(func(s *domain.FocusSession) { recorded = s })

	svc.ToggleRun()
	if !svc.Presenter().Active() {
		t.Fatal("presenter should be active while a work session runs")
	}

	clock.Advance(time.Duration(domain.WorkPresetSeconds) * time.Second)

	st := svc.State()
	if st.IsRunning || st.RemainingSeconds != 0 {
		t.Fatalf("State() = %+v, want stopped at 0", st)
	}
	if svc.Presenter().Active() {
		t.Error("presenter should be inactive after expiry")
	}
	if recorded == nil {
		t.Fatal("no session recorded")
	}
	if recorded.Outcome != domain.OutcomeCompleted {
		t.Errorf("Outcome = %v, want completed", recorded.Outcome)
	}
	if recorded.ElapsedSeconds != domain.WorkPresetSeconds {
		t.Errorf("ElapsedSeconds = %d, want %d", recorded.ElapsedSeconds, domain.WorkPresetSeconds)
	}
	if recorded.SubjectName != "Calculus" || recorded.GitBranch != "main" {
		t.Errorf("session context = %q/%q, want Calculus/main", recorded.SubjectName, recorded.GitBranch)
	}
	if len(notifier.sessions) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.sessions))
	}

	stats, err := store.Sessions().GetDailyStats(ctx, time.Now())
	if err != nil {
		t.Fatalf("GetDailyStats() error = %v", err)
	}
	if stats.WorkSessions != 1 {
		t.Errorf("WorkSessions = %d, want 1", stats.WorkSessions)
	}
}

func TestFocusService_InterruptedSessions(t *testing.T) {
	tests := []struct {
		name  string
		abort func(*FocusService)
	}{
		{"reset", func(s *FocusService) { s.Reset() }},
		{"switch mode", func(s *FocusService) { s.SwitchMode(domain.TimerModeShortBreak) }},
		{"close", func(s *FocusService) { s.Close() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := setupTestStorage(t)
			defer cleanup()

			svc, clock, notifier := newTestFocusService(t, store)
			defer svc.Close()

			svc.ToggleRun()
			clock.Advance(90 * time.Second)
			tt.abort(svc)

			sessions, err := store.Sessions().FindRecent(context.Background(), time.Now().Add(-time.Hour))
			if err != nil {
				t.Fatalf("FindRecent() error = %v", err)
			}
			if len(sessions) != 1 {
				t.Fatalf("sessions = %d, want 1", len(sessions))
			}
			if sessions[0].Outcome != domain.OutcomeInterrupted || sessions[0].ElapsedSeconds != 90 {
				t.Errorf("session = %v/%d, want interrupted/90", sessions[0].Outcome, sessions[0].ElapsedSeconds)
			}
			if len(notifier.sessions) != 0 {
				t.Error("interrupted sessions should not notify")
			}
			if svc.Presenter().Active() {
				t.Error("presenter should be inactive")
			}
		})
	}
}

func TestFocusService_PauseResumeKeepsOneRun(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	svc, clock, _ := newTestFocusService(t, store)
	defer svc.Close()

	svc.SwitchMode(domain.TimerModeShortBreak)
	svc.ToggleRun()
	clock.Advance(60 * time.Second)
	svc.ToggleRun()
	svc.ToggleRun()
	clock.Advance(time.Duration(domain.ShortBreakPresetSeconds) * time.Second)

	sessions, err := store.Sessions().FindRecent(context.Background(), time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("FindRecent() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	if sessions[0].Mode != domain.TimerModeShortBreak || !sessions[0].IsCompleted() {
		t.Errorf("session = %v/%v, want completed short break", sessions[0].Mode, sessions[0].Outcome)
	}
}

func TestFocusService_ResetWithoutRunRecordsNothing(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	svc, _, _ := newTestFocusService(t, store)
	svc.Reset()
	svc.SwitchMode(domain.TimerModeLongBreak)
	svc.Close()

	sessions, _ := store.Sessions().FindRecent(context.Background(), time.Now().Add(-time.Hour))
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

func TestFocusService_AutoFocusOff(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	svc, _, _ := newTestFocusService(t, store)
	defer svc.Close()

	svc.SetAutoFocusEnabled(false)
	svc.ToggleRun()
	if svc.Presenter().Active() {
		t.Error("presenter should stay inactive with auto-focus off")
	}
	if !svc.State().IsRunning {
		t.Error("timer should be running")
	}
}

func TestFocusService_SharedPresenter(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	presenter := NewFocusPresenter()
	clock := &stepClock{}
	a := NewFocusService(FocusConfig{Source: "tui", Storage: store, Presenter: presenter, AutoFocus: true, Clock: clock})
	b := NewFocusService(FocusConfig{Source: "mcp", Storage: store, Presenter: presenter, AutoFocus: true, Clock: clock})
	defer a.Close()
	defer b.Close()

	a.ToggleRun()
	b.ToggleRun()
	b.ToggleRun()

	if presenter.Active() {
		t.Error("last writer paused, focus should be off")
	}
	if presenter.LastWriter() != "mcp" {
		t.Errorf("LastWriter() = %q, want mcp", presenter.LastWriter())
	}
}

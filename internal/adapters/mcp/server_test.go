package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/focustimer"
)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	currentState   *domain.CurrentState
	profile        *domain.UserProfile
	plan           *domain.Plan
	recentSessions []*domain.FocusSession
	requestedDays  int
}

func (m *mockStateProvider) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	if m.currentState == nil {
		return &domain.CurrentState{}, nil
	}
	return m.currentState, nil
}

func (m *mockStateProvider) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	if m.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return m.profile, nil
}

func (m *mockStateProvider) GetTodayPlan(ctx context.Context) (*domain.Plan, error) {
	if m.plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return m.plan, nil
}

func (m *mockStateProvider) GetRecentSessions(ctx context.Context, days int) ([]*domain.FocusSession, error) {
	m.requestedDays = days
	return m.recentSessions, nil
}

type idleClock struct{}

type noopStopper struct{}

func (noopStopper) Stop() bool { return true }

func (idleClock) AfterFunc(time.Duration, func()) focustimer.Stopper { return noopStopper{} }

func newTestServer(mock *mockStateProvider) (*Server, *focustimer.Timer) {
	timer := focustimer.New(focustimer.WithClock(idleClock{}))
	return NewServer(mock, timer, nil), timer
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func decode(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var data map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return data
}

func TestNewServer(t *testing.T) {
	mock := &mockStateProvider{}
	server, _ := newTestServer(mock)

	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider correctly")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_TimerControls(t *testing.T) {
	server, timer := newTestServer(&mockStateProvider{})
	ctx := context.Background()

	result, err := server.handleTimerToggle(ctx, callRequest(nil))
	if err != nil {
		t.Fatalf("handleTimerToggle() error = %v", err)
	}
	if data := decode(t, result); data["is_running"] != true {
		t.Errorf("is_running = %v, want true", data["is_running"])
	}

	result, err = server.handleTimerSwitchMode(ctx, callRequest(map[string]any{"mode": "long_break"}))
	if err != nil {
		t.Fatalf("handleTimerSwitchMode() error = %v", err)
	}
	data := decode(t, result)
	if data["mode"] != "long_break" || data["display"] != "20:00" || data["is_running"] != false {
		t.Errorf("after switch = %v", data)
	}

	if _, err := server.handleTimerSetAutoFocus(ctx, callRequest(map[string]any{"enabled": false})); err != nil {
		t.Fatalf("handleTimerSetAutoFocus() error = %v", err)
	}
	if timer.State().AutoFocusEnabled {
		t.Error("auto-focus should be off")
	}

	server.handleTimerToggle(ctx, callRequest(nil))
	if _, err := server.handleTimerReset(ctx, callRequest(nil)); err != nil {
		t.Fatalf("handleTimerReset() error = %v", err)
	}
	if st := timer.State(); st.IsRunning || st.RemainingSeconds != domain.LongBreakPresetSeconds {
		t.Errorf("after reset = %+v", st)
	}
}

func TestServer_TimerSwitchMode_Invalid(t *testing.T) {
	server, timer := newTestServer(&mockStateProvider{})

	tests := []map[string]any{
		nil,
		{"mode": "nap"},
	}
	for _, args := range tests {
		result, err := server.handleTimerSwitchMode(context.Background(), callRequest(args))
		if err != nil {
			t.Fatalf("handleTimerSwitchMode() error = %v", err)
		}
		if !result.IsError {
			t.Errorf("handleTimerSwitchMode(%v) should be a tool error", args)
		}
	}
	if timer.State().Mode != domain.TimerModeWork {
		t.Error("invalid requests should not change the mode")
	}
}

func TestServer_handleTimerStatus(t *testing.T) {
	running := domain.NewTimerState()
	running.IsRunning = true
	running.RemainingSeconds = 600

	mock := &mockStateProvider{
		currentState: &domain.CurrentState{
			Timer:   &running,
			FocusOn: true,
			TodayStats: domain.DailyStats{
				WorkSessions:   4,
				TotalFocusTime: 100 * time.Minute,
			},
		},
	}
	server, _ := newTestServer(mock)

	result, err := server.handleTimerStatus(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleTimerStatus() error = %v", err)
	}
	data := decode(t, result)
	if data["focus_on"] != true {
		t.Error("focus_on should be true")
	}
	timer := data["timer"].(map[string]any)
	if timer["display"] != "10:00" {
		t.Errorf("display = %v, want 10:00", timer["display"])
	}
	stats := data["today_stats"].(map[string]any)
	if stats["suggested_break"] != "long_break" {
		t.Errorf("suggested_break = %v, want long_break", stats["suggested_break"])
	}
}

func TestServer_handleGetProfile(t *testing.T) {
	server, _ := newTestServer(&mockStateProvider{})
	result, err := server.handleGetProfile(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleGetProfile() error = %v", err)
	}
	if !result.IsError {
		t.Error("missing profile should be a tool error")
	}

	profile := domain.DefaultProfile()
	profile.Name = "Ada"
	subject, _ := domain.NewSubject("Calculus", 3, 10)
	profile.Subjects = append(profile.Subjects, subject)

	server, _ = newTestServer(&mockStateProvider{profile: profile})
	result, err = server.handleGetProfile(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleGetProfile() error = %v", err)
	}
	data := decode(t, result)
	subjects := data["subjects"].([]any)
	if len(subjects) != 1 || subjects[0].(map[string]any)["weak"] != true {
		t.Errorf("subjects = %v", subjects)
	}
}

func TestServer_handleGetTodayPlan(t *testing.T) {
	plan, err := domain.NewPlan(time.Now(), domain.GenerationResponse{
		Schedule:   []domain.ScheduleItem{{Time: "08:00", Task: "Calculus", Category: domain.CategoryFrog, DurationMinutes: 50}},
		DailyGoals: []string{"Limits worksheet", "Drink water"},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	plan.ToggleGoal("1")

	server, _ := newTestServer(&mockStateProvider{plan: plan})
	result, err := server.handleGetTodayPlan(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleGetTodayPlan() error = %v", err)
	}
	data := decode(t, result)
	if data["goal_progress"] != "1/2" {
		t.Errorf("goal_progress = %v, want 1/2", data["goal_progress"])
	}
	if data["study_minutes"] != float64(50) {
		t.Errorf("study_minutes = %v, want 50", data["study_minutes"])
	}
}

func TestServer_handleGetFocusHistory(t *testing.T) {
	session := domain.NewFocusSession(domain.TimerModeWork, time.Now().Add(-time.Hour))
	session.SubjectName = "Calculus"
	session.Finish(domain.OutcomeCompleted, domain.WorkPresetSeconds, time.Now())

	mock := &mockStateProvider{recentSessions: []*domain.FocusSession{session}}
	server, _ := newTestServer(mock)

	result, err := server.handleGetFocusHistory(context.Background(), callRequest(map[string]any{"days": float64(3)}))
	if err != nil {
		t.Fatalf("handleGetFocusHistory() error = %v", err)
	}
	if mock.requestedDays != 3 {
		t.Errorf("requested days = %d, want 3", mock.requestedDays)
	}
	text := resultText(t, result)
	if !strings.Contains(text, `"subject": "Calculus"`) || !strings.Contains(text, `"count": 1`) {
		t.Errorf("history = %s", text)
	}

	server.handleGetFocusHistory(context.Background(), callRequest(nil))
	if mock.requestedDays != 7 {
		t.Errorf("default days = %d, want 7", mock.requestedDays)
	}
}

// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go. It hosts its own
// focus timer instance, driven by tool calls instead of key presses.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	timer         ports.FocusTimer
	logger        *slog.Logger
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, timer ports.FocusTimer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = config.DiscardLogger()
	}
	s := &Server{
		stateProvider: stateProvider,
		timer:         timer,
		logger:        logger,
	}

	s.server = server.NewMCPServer(
		"studyflow",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"timer_status",
			mcp.WithDescription("Get the focus timer state, whether focus mode is on, and today's focus stats"),
		),
		s.handleTimerStatus,
	)

	s.server.AddTool(
		mcp.NewTool(
			"timer_toggle",
			mcp.WithDescription("Start the focus timer if paused, pause it if running"),
		),
		s.handleTimerToggle,
	)

	s.server.AddTool(
		mcp.NewTool(
			"timer_reset",
			mcp.WithDescription("Stop the timer and restore the current mode's full duration"),
		),
		s.handleTimerReset,
	)

	s.server.AddTool(
		mcp.NewTool(
			"timer_switch_mode",
			mcp.WithDescription("Switch to work (25 min), short_break (5 min) or long_break (20 min). Stops the timer."),
			mcp.WithString(
				"mode",
				mcp.Required(),
				mcp.Description("Timer mode"),
				mcp.Enum("work", "short_break", "long_break"),
			),
		),
		s.handleTimerSwitchMode,
	)

	s.server.AddTool(
		mcp.NewTool(
			"timer_set_auto_focus",
			mcp.WithDescription("Enable or disable switching into focus mode when a work session starts"),
			mcp.WithBoolean(
				"enabled",
				mcp.Required(),
				mcp.Description("Whether auto-focus is on"),
			),
		),
		s.handleTimerSetAutoFocus,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_profile",
			mcp.WithDescription("Get the student's profile: schedule window, intensity and subjects with progress"),
		),
		s.handleGetProfile,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_today_plan",
			mcp.WithDescription("Get today's generated study plan with checklist progress"),
		),
		s.handleGetTodayPlan,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_focus_history",
			mcp.WithDescription("List recorded focus sessions"),
			mcp.WithNumber(
				"days",
				mcp.Description("How many days back to look (default: 7)"),
			),
		),
		s.handleGetFocusHistory,
	)
}

// Start serves MCP requests over stdio until ctx is cancelled or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()

	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("mcp server listening on stdio")
	if err := stdio.Listen(s.ctx, os.Stdin, os.Stdout); err != nil && s.ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func timerData(st domain.TimerState) map[string]any {
	return map[string]any{
		"mode":               string(st.Mode),
		"remaining_seconds":  st.RemainingSeconds,
		"display":            st.Display(),
		"is_running":         st.IsRunning,
		"auto_focus_enabled": st.AutoFocusEnabled,
		"progress":           st.Progress(),
	}
}

// handleTimerStatus handles the timer_status tool.
func (s *Server) handleTimerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}

	st := s.timer.State()
	if state.Timer != nil {
		st = *state.Timer
	}
	result := map[string]any{
		"timer":    timerData(st),
		"focus_on": state.FocusOn,
		"today_stats": map[string]any{
			"work_sessions":    state.TodayStats.WorkSessions,
			"interrupted_work": state.TodayStats.InterruptedWork,
			"breaks_taken":     state.TodayStats.BreaksTaken,
			"total_focus_time": state.TodayStats.TotalFocusTime.String(),
			"pomodoro_cycle":   state.TodayStats.PomodoroCycle(),
			"suggested_break":  string(state.TodayStats.SuggestedBreak()),
		},
	}
	return jsonResult(result)
}

// handleTimerToggle handles the timer_toggle tool.
func (s *Server) handleTimerToggle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.timer.ToggleRun()
	st := s.timer.State()
	s.logger.Debug("timer toggled over mcp", "running", st.IsRunning)
	return jsonResult(timerData(st))
}

// handleTimerReset handles the timer_reset tool.
func (s *Server) handleTimerReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.timer.Reset()
	return jsonResult(timerData(s.timer.State()))
}

// handleTimerSwitchMode handles the timer_switch_mode tool.
func (s *Server) handleTimerSwitchMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := domain.ParseTimerMode(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.timer.SwitchMode(mode)
	return jsonResult(timerData(s.timer.State()))
}

// handleTimerSetAutoFocus handles the timer_set_auto_focus tool.
func (s *Server) handleTimerSetAutoFocus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	enabled, err := request.RequireBool("enabled")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.timer.SetAutoFocusEnabled(enabled)
	return jsonResult(timerData(s.timer.State()))
}

// handleGetProfile handles the get_profile tool.
func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := s.stateProvider.GetProfile(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get profile: %v", err)), nil
	}

	subjects := make([]map[string]any, 0, len(profile.Subjects))
	for _, subject := range profile.Subjects {
		subjects = append(subjects, map[string]any{
			"id":               subject.ID,
			"name":             subject.Name,
			"strength":         subject.StrengthRating,
			"weak":             subject.IsWeak(),
			"completed_topics": subject.CompletedTopics,
			"syllabus_size":    subject.SyllabusSize,
			"current_topic":    subject.CurrentTopic,
			"progress":         subject.Progress(),
		})
	}

	return jsonResult(map[string]any{
		"name":        profile.Name,
		"wake_up":     profile.WakeUpTime,
		"sleep":       profile.SleepTime,
		"intensity":   string(profile.Intensity),
		"theme":       string(profile.Theme),
		"onboarded":   profile.OnboardingComplete,
		"subjects":    subjects,
		"awake_hours": profile.AwakeWindow().Hours(),
	})
}

// handleGetTodayPlan handles the get_today_plan tool.
func (s *Server) handleGetTodayPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := s.stateProvider.GetTodayPlan(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get today's plan: %v", err)), nil
	}

	done, total := plan.GoalProgress()
	return jsonResult(map[string]any{
		"day":            plan.Day,
		"schedule":       plan.Generation.Schedule,
		"daily_goals":    plan.Generation.DailyGoals,
		"completed":      plan.CompletedGoals,
		"goal_progress":  fmt.Sprintf("%d/%d", done, total),
		"recommendation": plan.Generation.Recommendation,
		"study_minutes":  plan.Generation.StudyMinutes(),
		"water_count":    plan.WaterCount,
		"mood":           string(plan.Mood),
		"reflection":     plan.Reflection,
	})
}

// handleGetFocusHistory handles the get_focus_history tool.
func (s *Server) handleGetFocusHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", 7)
	if days <= 0 {
		days = 7
	}

	sessions, err := s.stateProvider.GetRecentSessions(ctx, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get focus history: %v", err)), nil
	}

	result := make([]map[string]any, 0, len(sessions))
	for _, session := range sessions {
		data := map[string]any{
			"id":              session.ID,
			"mode":            string(session.Mode),
			"outcome":         string(session.Outcome),
			"elapsed_seconds": session.ElapsedSeconds,
			"planned_seconds": session.PlannedSeconds,
			"started_at":      session.StartedAt.Format(time.RFC3339),
			"ended_at":        session.EndedAt.Format(time.RFC3339),
		}
		if session.SubjectName != "" {
			data["subject"] = session.SubjectName
		}
		if session.GitBranch != "" {
			data["git_branch"] = session.GitBranch
			data["git_commit"] = session.GitCommit
		}
		result = append(result, data)
	}

	return jsonResult(map[string]any{
		"days":     days,
		"count":    len(result),
		"sessions": result,
	})
}

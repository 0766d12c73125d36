package ports

import (
	"context"

	"github.com/xvierd/studyflow/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state information to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetCurrentState returns the current application state.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)

	// GetProfile returns the saved profile.
	GetProfile(ctx context.Context) (*domain.UserProfile, error)

	// GetTodayPlan returns today's plan.
	GetTodayPlan(ctx context.Context) (*domain.Plan, error)

	// GetRecentSessions returns focus sessions recorded in the last days.
	GetRecentSessions(ctx context.Context, days int) ([]*domain.FocusSession, error)
}

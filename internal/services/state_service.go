package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// StateService implements the MCPStateProvider interface and backs the
// status command.
type StateService struct {
	storage ports.Storage
	focus   *FocusService
}

// NewStateService creates a new state service.
func NewStateService(storage ports.Storage) *StateService {
	return &StateService{storage: storage}
}

// SetFocusService attaches the live timer whose state is reported.
func (s *StateService) SetFocusService(focus *FocusService) {
	s.focus = focus
}

// GetCurrentState implements ports.MCPStateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	state := &domain.CurrentState{}

	profile, err := s.storage.Profiles().Load(ctx)
	switch {
	case err == nil:
		state.Profile = profile
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	plan, err := s.storage.Plans().FindByDay(ctx, domain.DayKey(time.Now()))
	switch {
	case err == nil:
		state.TodayPlan = plan
	case !errors.Is(err, domain.ErrPlanNotFound):
		return nil, err
	}

	todayStats, err := s.storage.Sessions().GetDailyStats(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's stats: %w", err)
	}
	state.TodayStats = *todayStats

	if s.focus != nil {
		timer := s.focus.State()
		state.Timer = &timer
		state.FocusOn = s.focus.Presenter().Active()
	}

	return state, nil
}

// GetProfile implements ports.MCPStateProvider.
func (s *StateService) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	return s.storage.Profiles().Load(ctx)
}

// GetTodayPlan implements ports.MCPStateProvider.
func (s *StateService) GetTodayPlan(ctx context.Context) (*domain.Plan, error) {
	return s.storage.Plans().FindByDay(ctx, domain.DayKey(time.Now()))
}

// GetRecentSessions implements ports.MCPStateProvider.
func (s *StateService) GetRecentSessions(ctx context.Context, days int) ([]*domain.FocusSession, error) {
	if days <= 0 {
		days = 7
	}
	return s.storage.Sessions().FindRecent(ctx, time.Now().AddDate(0, 0, -days))
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)

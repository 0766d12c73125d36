// Package ports defines the interfaces (driven and driving ports)
// for the studyflow application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
)

// ProfileStore persists the single user profile.
// This is a driven port (implemented by adapters).
type ProfileStore interface {
	// Load returns the saved profile or domain.ErrProfileNotFound.
	Load(ctx context.Context) (*domain.UserProfile, error)

	// Save replaces the saved profile.
	Save(ctx context.Context, profile *domain.UserProfile) error

	// Delete removes the saved profile.
	Delete(ctx context.Context) error
}

// PlanRepository defines the interface for day plan persistence.
// This is a driven port (implemented by adapters).
type PlanRepository interface {
	// Save inserts or replaces the plan for its day.
	Save(ctx context.Context, plan *domain.Plan) error

	// FindByDay retrieves the plan for a day key (YYYY-MM-DD).
	FindByDay(ctx context.Context, day string) (*domain.Plan, error)

	// FindRecent returns plans for days on or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.Plan, error)

	// DeleteAll removes every plan.
	DeleteAll(ctx context.Context) error
}

// SessionRepository defines the interface for focus session persistence.
// This is a driven port (implemented by adapters).
type SessionRepository interface {
	// Save persists a finished session.
	Save(ctx context.Context, session *domain.FocusSession) error

	// FindByID retrieves a session by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.FocusSession, error)

	// FindRecent retrieves sessions started at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.FocusSession, error)

	// GetDailyStats returns aggregated statistics for a specific date.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)

	// DeleteAll removes every session.
	DeleteAll(ctx context.Context) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Profiles provides access to the profile store.
	Profiles() ProfileStore

	// Plans provides access to plan operations.
	Plans() PlanRepository

	// Sessions provides access to session operations.
	Sessions() SessionRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}

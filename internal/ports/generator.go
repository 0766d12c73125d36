package ports

import (
	"context"

	"github.com/xvierd/studyflow/internal/domain"
)

// ScheduleGenerator produces a day plan for a profile.
// This is a driven port (implemented by adapters).
type ScheduleGenerator interface {
	// Generate returns a validated schedule, goals and assessment.
	Generate(ctx context.Context, profile *domain.UserProfile) (*domain.GenerationResponse, error)

	// Name identifies the generator in logs and plan metadata.
	Name() string
}

// Notifier sends desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify shows a notification with the given title and message.
	Notify(title, message string) error
}

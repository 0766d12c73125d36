package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
	"gopkg.in/yaml.v3"
)

// PlanService handles day plan use cases: generation and the checklist,
// water, mood and reflection tracking against it.
type PlanService struct {
	storage   ports.Storage
	generator ports.ScheduleGenerator
	logger    *slog.Logger
	now       func() time.Time
}

// NewPlanService creates a new plan service.
func NewPlanService(storage ports.Storage, generator ports.ScheduleGenerator, logger *slog.Logger) *PlanService {
	if logger == nil {
		logger = config.DiscardLogger()
	}
	return &PlanService{
		storage:   storage,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate asks the generator for a plan for day and saves it, replacing any
// existing plan for that day.
func (s *PlanService) Generate(ctx context.Context, profile *domain.UserProfile, day time.Time) (*domain.Plan, error) {
	if !profile.OnboardingComplete {
		return nil, domain.ErrOnboardingRequired
	}
	if len(profile.Subjects) == 0 {
		return nil, domain.ErrNoSubjects
	}

	gen, err := s.generator.Generate(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}

	plan, err := domain.NewPlan(day, *gen)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Plans().Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	s.logger.Info("plan saved", "day", plan.Day, "generator", s.generator.Name(), "items", len(plan.Generation.Schedule))
	return plan, nil
}

// GeneratorName reports which generator produced the last plan.
func (s *PlanService) GeneratorName() string {
	return s.generator.Name()
}

// Today returns today's plan.
func (s *PlanService) Today(ctx context.Context) (*domain.Plan, error) {
	return s.ForDay(ctx, domain.DayKey(s.now()))
}

// ForDay returns the plan for a YYYY-MM-DD day key.
func (s *PlanService) ForDay(ctx context.Context, day string) (*domain.Plan, error) {
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, fmt.Errorf("%w %q: want YYYY-MM-DD", domain.ErrInvalidPlanDay, day)
	}
	return s.storage.Plans().FindByDay(ctx, day)
}

// Recent returns plans from the last days, newest first.
func (s *PlanService) Recent(ctx context.Context, days int) ([]*domain.Plan, error) {
	return s.storage.Plans().FindRecent(ctx, s.now().AddDate(0, 0, -days))
}

// updateToday loads today's plan, applies fn and saves it.
func (s *PlanService) updateToday(ctx context.Context, fn func(*domain.Plan) error) (*domain.Plan, error) {
	plan, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(plan); err != nil {
		return nil, err
	}
	if err := s.storage.Plans().Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	return plan, nil
}

// ToggleGoal checks or unchecks one of today's goals. It returns whether the
// goal is now complete.
func (s *PlanService) ToggleGoal(ctx context.Context, ref string) (bool, *domain.Plan, error) {
	var done bool
	plan, err := s.updateToday(ctx, func(p *domain.Plan) error {
		var err error
		done, err = p.ToggleGoal(ref)
		return err
	})
	return done, plan, err
}

// AddWater records a glass of water on today's plan.
func (s *PlanService) AddWater(ctx context.Context) (*domain.Plan, error) {
	return s.updateToday(ctx, func(p *domain.Plan) error {
		p.AddWater()
		return nil
	})
}

// SetMood records today's mood.
func (s *PlanService) SetMood(ctx context.Context, mood string) (*domain.Plan, error) {
	m, err := domain.ValidateMood(strings.ToLower(strings.TrimSpace(mood)))
	if err != nil {
		return nil, err
	}
	return s.updateToday(ctx, func(p *domain.Plan) error {
		p.SetMood(m)
		return nil
	})
}

// SetReflection records today's reflection.
func (s *PlanService) SetReflection(ctx context.Context, text string) (*domain.Plan, error) {
	return s.updateToday(ctx, func(p *domain.Plan) error {
		p.SetReflection(text)
		return nil
	})
}

// ExportFormat selects the plan export encoding.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
)

// ErrUnknownFormat is returned for unsupported export formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Export writes plan to w in format.
func Export(w io.Writer, plan *domain.Plan, format ExportFormat) error {
	switch ExportFormat(strings.ToLower(string(format))) {
	case ExportJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case ExportYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w %q: use json or yaml", ErrUnknownFormat, format)
}

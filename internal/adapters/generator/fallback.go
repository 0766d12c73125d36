package generator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// Fallback tries primary and switches to secondary when primary fails for
// any reason other than cancellation or bad input.
type Fallback struct {
	primary   ports.ScheduleGenerator
	secondary ports.ScheduleGenerator
	logger    *slog.Logger
	last      string
}

// Ensure Fallback implements ports.ScheduleGenerator.
var _ ports.ScheduleGenerator = (*Fallback)(nil)

// NewFallback wraps primary with secondary.
func NewFallback(primary, secondary ports.ScheduleGenerator, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = config.DiscardLogger()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// New returns the generator configured by cfg: the model client backed by the
// static planner, or the static planner alone when generation is disabled.
func New(cfg config.GeneratorConfig, logger *slog.Logger) ports.ScheduleGenerator {
	if !cfg.Enabled {
		return NewStatic()
	}
	return NewFallback(NewOllamaClient(cfg, logger), NewStatic(), logger)
}

// Name reports the generator that produced the last plan.
func (f *Fallback) Name() string {
	if f.last != "" {
		return f.last
	}
	return f.primary.Name()
}

// Generate asks primary, then secondary.
func (f *Fallback) Generate(ctx context.Context, profile *domain.UserProfile) (*domain.GenerationResponse, error) {
	gen, err := f.primary.Generate(ctx, profile)
	if err == nil {
		f.last = f.primary.Name()
		return gen, nil
	}
	if errors.Is(err, domain.ErrNoSubjects) || errors.Is(err, context.Canceled) {
		return nil, err
	}

	f.logger.Warn("falling back to offline planner", "primary", f.primary.Name(), "error", err)
	gen, err = f.secondary.Generate(ctx, profile)
	if err != nil {
		return nil, err
	}
	f.last = f.secondary.Name()
	return gen, nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
	"gopkg.in/yaml.v3"
)

type stubGenerator struct {
	calls int
	err   error
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(ctx context.Context, profile *domain.UserProfile) (*domain.GenerationResponse, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &domain.GenerationResponse{
		Schedule: []domain.ScheduleItem{
			{Time: "07:30", Task: profile.Subjects[0].Name, Category: domain.CategoryFrog, DurationMinutes: 50, PomodoroCycle: 1},
			{Time: "08:20", Task: "Walk", Category: domain.CategoryBreak, DurationMinutes: 10},
		},
		DailyGoals:     []string{"Finish worksheet", "Read chapter 4"},
		Recommendation: "Eat the frog.",
	}, nil
}

func TestPlanService_Generate(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	gen := &stubGenerator{}
	service := NewPlanService(store, gen, nil)

	t.Run("requires onboarding", func(t *testing.T) {
		_, err := service.Generate(ctx, domain.DefaultProfile(), time.Now())
		if !errors.Is(err, domain.ErrOnboardingRequired) {
			t.Errorf("Generate() error = %v, want ErrOnboardingRequired", err)
		}
	})

	t.Run("requires subjects", func(t *testing.T) {
		p := testProfile()
		p.Subjects = nil
		_, err := service.Generate(ctx, p, time.Now())
		if !errors.Is(err, domain.ErrNoSubjects) {
			t.Errorf("Generate() error = %v, want ErrNoSubjects", err)
		}
	})

	t.Run("saves today's plan", func(t *testing.T) {
		plan, err := service.Generate(ctx, testProfile(), time.Now())
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		today, err := service.Today(ctx)
		if err != nil {
			t.Fatalf("Today() error = %v", err)
		}
		if today.ID != plan.ID || len(today.Generation.Schedule) != 2 {
			t.Errorf("Today() = %+v, want saved plan", today)
		}
	})

	t.Run("generator error", func(t *testing.T) {
		gen.err = errors.New("boom")
		defer func() { gen.err = nil }()
		if _, err := service.Generate(ctx, testProfile(), time.Now()); err == nil {
			t.Error("Generate() error = nil, want error")
		}
	})
}

func TestPlanService_Tracking(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	service := NewPlanService(store, &stubGenerator{}, nil)

	if _, err := service.AddWater(ctx); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("AddWater() without plan error = %v, want ErrPlanNotFound", err)
	}

	if _, err := service.Generate(ctx, testProfile(), time.Now()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	done, _, err := service.ToggleGoal(ctx, "1")
	if err != nil || !done {
		t.Fatalf("ToggleGoal() = %v, %v; want true, nil", done, err)
	}
	if _, err := service.AddWater(ctx); err != nil {
		t.Fatalf("AddWater() error = %v", err)
	}
	if _, err := service.SetMood(ctx, " Happy "); err != nil {
		t.Fatalf("SetMood() error = %v", err)
	}
	if _, err := service.SetMood(ctx, "grumpy"); !errors.Is(err, domain.ErrInvalidMood) {
		t.Errorf("SetMood(grumpy) error = %v, want ErrInvalidMood", err)
	}
	if _, err := service.SetReflection(ctx, "Solid morning."); err != nil {
		t.Fatalf("SetReflection() error = %v", err)
	}

	plan, err := service.Today(ctx)
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if !plan.IsGoalComplete("Finish worksheet") {
		t.Error("goal 1 should be complete")
	}
	if plan.WaterCount != 1 || plan.Mood != domain.MoodHappy || plan.Reflection != "Solid morning." {
		t.Errorf("plan tracking = %d/%s/%q", plan.WaterCount, plan.Mood, plan.Reflection)
	}
}

func TestPlanService_ForDay(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	service := NewPlanService(store, &stubGenerator{}, nil)

	if _, err := service.ForDay(context.Background(), "yesterday"); !errors.Is(err, domain.ErrInvalidPlanDay) {
		t.Errorf("ForDay() error = %v, want ErrInvalidPlanDay", err)
	}
	if _, err := service.ForDay(context.Background(), "2026-01-02"); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Errorf("ForDay() error = %v, want ErrPlanNotFound", err)
	}
}

func TestExport(t *testing.T) {
	gen, _ := (&stubGenerator{}).Generate(context.Background(), testProfile())
	plan, err := domain.NewPlan(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *gen)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, plan, ExportJSON); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		var decoded domain.Plan
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Day != "2026-03-09" {
			t.Errorf("Day = %q", decoded.Day)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, plan, ExportYAML); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if decoded["day"] != "2026-03-09" {
			t.Errorf("day = %v", decoded["day"])
		}
		if !strings.Contains(buf.String(), "completed_goals:") {
			t.Error("YAML should use snake_case keys")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := Export(&bytes.Buffer{}, plan, "xml"); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Export(xml) error = %v, want ErrUnknownFormat", err)
		}
	})
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// planRepository implements ports.PlanRepository using SQLite.
type planRepository struct {
	db *sql.DB
}

// newPlanRepository creates a new plan repository.
func newPlanRepository(db *sql.DB) ports.PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `id, day, generation, completed_goals, water_count, mood, reflection, created_at, updated_at`

// Save inserts or replaces the plan for its day.
func (r *planRepository) Save(ctx context.Context, plan *domain.Plan) error {
	generation, err := json.Marshal(plan.Generation)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	goals := plan.CompletedGoals
	if goals == nil {
		goals = []string{}
	}
	completed, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("failed to encode completed goals: %w", err)
	}

	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			id = excluded.id,
			generation = excluded.generation,
			completed_goals = excluded.completed_goals,
			water_count = excluded.water_count,
			mood = excluded.mood,
			reflection = excluded.reflection,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		plan.ID,
		plan.Day,
		string(generation),
		string(completed),
		plan.WaterCount,
		string(plan.Mood),
		plan.Reflection,
		plan.CreatedAt.UTC(),
		plan.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	return nil
}

// FindByDay retrieves the plan for a day key.
func (r *planRepository) FindByDay(ctx context.Context, day string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE day = ?`

	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return plan, nil
}

// FindRecent returns plans for days on or after since, newest first.
func (r *planRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE day >= ? ORDER BY day DESC`

	rows, err := r.db.QueryContext(ctx, query, domain.DayKey(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var plans []*domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

// DeleteAll removes every plan.
func (r *planRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans`); err != nil {
		return fmt.Errorf("failed to delete plans: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var plan domain.Plan
	var generation, completed, mood string

	err := row.Scan(
		&plan.ID,
		&plan.Day,
		&generation,
		&completed,
		&plan.WaterCount,
		&mood,
		&plan.Reflection,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(generation), &plan.Generation); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", plan.Day, err)
	}
	if err := json.Unmarshal([]byte(completed), &plan.CompletedGoals); err != nil {
		return nil, fmt.Errorf("failed to decode completed goals %s: %w", plan.Day, err)
	}
	plan.Mood = domain.Mood(mood)

	return &plan, nil
}

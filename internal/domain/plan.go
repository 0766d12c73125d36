package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Plan errors.
var (
	ErrPlanNotFound   = errors.New("no plan for this day")
	ErrGoalNotFound   = errors.New("goal not found")
	ErrInvalidMood    = errors.New("invalid mood")
	ErrEmptySchedule  = errors.New("generated plan has no schedule")
	ErrInvalidPlanDay = errors.New("invalid plan date")
)

// ScheduleCategory classifies one block of the day.
type ScheduleCategory string

const (
	CategoryStudy    ScheduleCategory = "study"
	CategoryBreak    ScheduleCategory = "break"
	CategoryLife     ScheduleCategory = "life"
	CategoryFrog     ScheduleCategory = "frog"
	CategoryMeal     ScheduleCategory = "meal"
	CategoryExercise ScheduleCategory = "exercise"
)

// ScheduleItem is one block of the generated day.
type ScheduleItem struct {
	Time            string           `json:"time" yaml:"time"`
	Task            string           `json:"task" yaml:"task"`
	Category        ScheduleCategory `json:"category" yaml:"category"`
	Quote           string           `json:"quote" yaml:"quote"`
	Icon            string           `json:"icon" yaml:"icon"`
	DurationMinutes int              `json:"durationMinutes" yaml:"duration_minutes"`
	PomodoroCycle   int              `json:"pomodoroCycle,omitempty" yaml:"pomodoro_cycle,omitempty"` // 1-4
}

// IsStudy reports whether the block is focused study time.
func (i ScheduleItem) IsStudy() bool {
	return i.Category == CategoryStudy || i.Category == CategoryFrog
}

// Assessment is the generator's read on the student's subjects.
type Assessment struct {
	StrongSubjects  []string `json:"strongSubjects" yaml:"strong_subjects"`
	WeakSubjects    []string `json:"weakSubjects" yaml:"weak_subjects"`
	Strategy        string   `json:"strategy" yaml:"strategy"`
	TotalStudyHours float64  `json:"totalStudyHours" yaml:"total_study_hours"`
}

// GenerationResponse is what the external schedule generator returns.
type GenerationResponse struct {
	Schedule       []ScheduleItem `json:"schedule" yaml:"schedule"`
	DailyGoals     []string       `json:"dailyGoals" yaml:"daily_goals"`
	Recommendation string         `json:"recommendation" yaml:"recommendation"`
	Assessment     Assessment     `json:"assessment" yaml:"assessment"`
}

// Validate checks that the response is usable as a plan.
func (g *GenerationResponse) Validate() error {
	if len(g.Schedule) == 0 {
		return ErrEmptySchedule
	}
	return nil
}

// StudyMinutes sums the duration of all study blocks.
func (g *GenerationResponse) StudyMinutes() int {
	total := 0
	for _, item := range g.Schedule {
		if item.IsStudy() {
			total += item.DurationMinutes
		}
	}
	return total
}

// Mood is how the student feels about the day.
type Mood string

const (
	MoodProductive Mood = "productive"
	MoodTired      Mood = "tired"
	MoodHappy      Mood = "happy"
	MoodStressed   Mood = "stressed"
	MoodChill      Mood = "chill"
)

// ValidateMood checks if a string is a valid mood.
func ValidateMood(s string) (Mood, error) {
	switch m := Mood(s); m {
	case MoodProductive, MoodTired, MoodHappy, MoodStressed, MoodChill:
		return m, nil
	}
	return "", fmt.Errorf("%w %q: must be one of productive, tired, happy, stressed, chill", ErrInvalidMood, s)
}

// Plan is one day's generated schedule plus the student's tracking against it.
type Plan struct {
	ID             string             `json:"id" yaml:"id"`
	Day            string             `json:"day" yaml:"day"` // YYYY-MM-DD
	Generation     GenerationResponse `json:"generation" yaml:"generation"`
	CompletedGoals []string           `json:"completedGoals" yaml:"completed_goals"`
	WaterCount     int                `json:"waterCount" yaml:"water_count"`
	Mood           Mood               `json:"mood" yaml:"mood"`
	Reflection     string             `json:"reflection" yaml:"reflection"`
	CreatedAt      time.Time          `json:"createdAt" yaml:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" yaml:"updated_at"`
}

// DayKey formats a time as the plan's day key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewPlan wraps a generation response as today's plan.
func NewPlan(day time.Time, gen GenerationResponse) (*Plan, error) {
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Plan{
		ID:             generateID(),
		Day:            DayKey(day),
		Generation:     gen,
		CompletedGoals: []string{},
		Mood:           MoodProductive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ToggleGoal checks or unchecks a daily goal, addressed by its text or its
// 1-based position. It returns whether the goal is now complete.
func (p *Plan) ToggleGoal(ref string) (bool, error) {
	goal, err := p.resolveGoal(ref)
	if err != nil {
		return false, err
	}
	p.UpdatedAt = time.Now()
	for i, done := range p.CompletedGoals {
		if done == goal {
			p.CompletedGoals = append(p.CompletedGoals[:i], p.CompletedGoals[i+1:]...)
			return false, nil
		}
	}
	p.CompletedGoals = append(p.CompletedGoals, goal)
	return true, nil
}

func (p *Plan) resolveGoal(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 1 || idx > len(p.Generation.DailyGoals) {
			return "", fmt.Errorf("%w: #%d", ErrGoalNotFound, idx)
		}
		return p.Generation.DailyGoals[idx-1], nil
	}
	for _, g := range p.Generation.DailyGoals {
		if strings.EqualFold(g, ref) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrGoalNotFound, ref)
}

// IsGoalComplete reports whether the goal has been checked off.
func (p *Plan) IsGoalComplete(goal string) bool {
	for _, done := range p.CompletedGoals {
		if done == goal {
			return true
		}
	}
	return false
}

// GoalProgress returns completed and total goal counts.
func (p *Plan) GoalProgress() (done, total int) {
	return len(p.CompletedGoals), len(p.Generation.DailyGoals)
}

// AddWater records one glass of water.
func (p *Plan) AddWater() int {
	p.WaterCount++
	p.UpdatedAt = time.Now()
	return p.WaterCount
}

// SetMood records the day's mood.
func (p *Plan) SetMood(m Mood) {
	p.Mood = m
	p.UpdatedAt = time.Now()
}

// SetReflection records the end-of-day reflection.
func (p *Plan) SetReflection(text string) {
	p.Reflection = strings.TrimSpace(text)
	p.UpdatedAt = time.Now()
}

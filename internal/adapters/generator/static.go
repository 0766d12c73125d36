package generator

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

var quotes = []string{
	"Small steps every day add up to big results.",
	"Eat the frog first and the rest of the day is dessert.",
	"Focus is a muscle. Train it.",
	"You don't have to be great to start, but you have to start to be great.",
	"Progress, not perfection.",
	"Hard things become easy things with practice.",
	"One page at a time.",
	"Your future self is cheering for you.",
}

const (
	lunchTime  = 12*time.Hour + 30*time.Minute
	dinnerTime = 18*time.Hour + 30*time.Minute
)

// sessionsByIntensity is the target number of work sessions per day.
var sessionsByIntensity = map[domain.Intensity]int{
	domain.IntensityLow:    6,
	domain.IntensityMedium: 10,
	domain.IntensityHigh:   14,
}

// Static builds a plan locally following the same rules given to the model:
// weakest subject first, 25/5 Pomodoro blocks with a long break after every
// fourth, meals, a stretch, and double time for weak subjects.
type Static struct{}

// Ensure Static implements ports.ScheduleGenerator.
var _ ports.ScheduleGenerator = Static{}

// NewStatic creates the offline generator.
func NewStatic() Static {
	return Static{}
}

// Name identifies the generator.
func (Static) Name() string {
	return "static"
}

// Generate builds the plan for profile.
func (Static) Generate(ctx context.Context, profile *domain.UserProfile) (*domain.GenerationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(profile.Subjects) == 0 {
		return nil, domain.ErrNoSubjects
	}
	wake, err := domain.ParseClockTime(profile.WakeUpTime)
	if err != nil {
		return nil, err
	}
	end := wake + profile.AwakeWindow() - 30*time.Minute

	rotation := subjectRotation(profile.Subjects)
	target := sessionsByIntensity[profile.Intensity]
	if target == 0 {
		target = sessionsByIntensity[domain.IntensityMedium]
	}

	b := &scheduleBuilder{at: wake}
	b.add("Wake up and drink a glass of water", domain.CategoryLife, "💧", 15, 0)
	b.add("Breakfast", domain.CategoryMeal, "🍽️", 30, 0)

	lunchDone, dinnerDone, stretchDone := false, false, false
	work := 25 * time.Minute
	sessions := 0
	for sessions < target && b.at+work <= end {
		if !lunchDone && b.at >= lunchTime && b.at < lunchTime+150*time.Minute {
			b.add("Lunch", domain.CategoryMeal, "🍽️", 45, 0)
			lunchDone = true
			continue
		}
		if !dinnerDone && b.at >= dinnerTime {
			b.add("Dinner", domain.CategoryMeal, "🍽️", 45, 0)
			dinnerDone = true
			continue
		}

		subject := rotation[sessions%len(rotation)]
		cycle := sessions%4 + 1
		category := domain.CategoryStudy
		icon := "📖"
		if sessions == 0 {
			category = domain.CategoryFrog
			icon = "🍓"
		}
		b.add(fmt.Sprintf("Session %d/4 - Focus: %s", cycle, subject.Name), category, icon, 25, cycle)
		sessions++

		if cycle == 4 {
			b.add("Long break", domain.CategoryBreak, "🍵", domain.LongBreakPresetSeconds/60, 0)
			if !stretchDone {
				b.add("Stretch or take a short walk", domain.CategoryExercise, "🧘", 15, 0)
				stretchDone = true
			}
		} else {
			b.add("Short break", domain.CategoryBreak, "✨", domain.ShortBreakPresetSeconds/60, 0)
		}
	}
	if !dinnerDone && dinnerTime <= end {
		b.at = max(b.at, dinnerTime)
		b.add("Dinner", domain.CategoryMeal, "🍽️", 45, 0)
	}
	b.at = max(b.at, end)
	b.add("Wind down and reflect on the day", domain.CategoryLife, "🕯️", 30, 0)

	gen := &domain.GenerationResponse{
		Schedule:       b.items,
		DailyGoals:     dailyGoals(profile),
		Recommendation: recommendation(profile, rotation[0]),
	}
	strong, weak := profile.StrongAndWeak()
	gen.Assessment = domain.Assessment{
		StrongSubjects:  nonNil(strong),
		WeakSubjects:    nonNil(weak),
		Strategy:        "Weakest subject first while energy is highest; weak subjects get twice the sessions of strong ones.",
		TotalStudyHours: math.Round(float64(gen.StudyMinutes())/60*10) / 10,
	}

	return gen, nil
}

type scheduleBuilder struct {
	at    time.Duration
	items []domain.ScheduleItem
}

func (b *scheduleBuilder) add(task string, category domain.ScheduleCategory, icon string, minutes, cycle int) {
	b.items = append(b.items, domain.ScheduleItem{
		Time:            clock(b.at),
		Task:            task,
		Category:        category,
		Quote:           quotes[len(b.items)%len(quotes)],
		Icon:            icon,
		DurationMinutes: minutes,
		PomodoroCycle:   cycle,
	})
	b.at += time.Duration(minutes) * time.Minute
}

// subjectRotation orders subjects weakest first and repeats weak ones so they
// get double the sessions of strong ones.
func subjectRotation(subjects []*domain.Subject) []*domain.Subject {
	sorted := append([]*domain.Subject(nil), subjects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StrengthRating < sorted[j].StrengthRating
	})

	rotation := append([]*domain.Subject(nil), sorted...)
	for _, s := range sorted {
		if s.StrengthRating <= 5 {
			rotation = append(rotation, s)
		}
	}
	return rotation
}

func dailyGoals(profile *domain.UserProfile) []string {
	sorted := append([]*domain.Subject(nil), profile.Subjects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StrengthRating < sorted[j].StrengthRating
	})

	var goals []string
	for _, s := range sorted {
		if len(goals) == 4 {
			break
		}
		switch {
		case s.CurrentTopic != "":
			goals = append(goals, fmt.Sprintf("Finish %s in %s", s.CurrentTopic, s.Name))
		case s.CompletedTopics < s.SyllabusSize:
			goals = append(goals, fmt.Sprintf("Complete unit %d of %d in %s", s.CompletedTopics+1, s.SyllabusSize, s.Name))
		default:
			goals = append(goals, fmt.Sprintf("Review past notes for %s", s.Name))
		}
	}
	return append(goals, "Drink 8 glasses of water")
}

func recommendation(profile *domain.UserProfile, frog *domain.Subject) string {
	name := profile.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s! Start with %s while your mind is fresh. Protect your breaks and keep your water bottle close.", name, frog.Name)
}

func clock(d time.Duration) string {
	d %= 24 * time.Hour
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

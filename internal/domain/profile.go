// Package domain contains the core entities for studyflow: the focus timer
// state, the student's profile and the generated day plan. These types are
// independent of any storage, terminal or network concern.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrEmptySubjectName   = errors.New("subject name cannot be empty")
	ErrInvalidTime        = errors.New("invalid time of day")
	ErrInvalidStrength    = errors.New("strength rating must be between 1 and 10")
	ErrInvalidSyllabus    = errors.New("invalid syllabus progress")
	ErrInvalidIntensity   = errors.New("invalid intensity")
	ErrInvalidTheme       = errors.New("invalid theme")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrDuplicateSubject   = errors.New("subject already exists")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNoSubjects         = errors.New("profile has no subjects")
	ErrOnboardingRequired = errors.New("onboarding not complete")
)

// Intensity controls how packed the generated day plan is.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// ValidateIntensity checks if a string is a valid intensity.
func ValidateIntensity(s string) (Intensity, error) {
	switch i := Intensity(s); i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return i, nil
	}
	return "", fmt.Errorf("%w %q: must be one of low, medium, high", ErrInvalidIntensity, s)
}

// Theme is the color palette of the profile.
type Theme string

const (
	ThemePeach    Theme = "peach"
	ThemeLavender Theme = "lavender"
	ThemeMint     Theme = "mint"
	ThemeSky      Theme = "sky"
)

// ValidThemes lists all supported themes.
var ValidThemes = []Theme{ThemePeach, ThemeLavender, ThemeMint, ThemeSky}

// ValidateTheme checks if a string is a valid theme.
func ValidateTheme(s string) (Theme, error) {
	t := Theme(s)
	for _, valid := range ValidThemes {
		if t == valid {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of peach, lavender, mint, sky", ErrInvalidTheme, s)
}

// Subject is one course the student is preparing.
type Subject struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StrengthRating  int    `json:"strengthRating"` // 1 = very weak, 10 = very strong
	SyllabusSize    int    `json:"syllabusSize"`
	CompletedTopics int    `json:"completedTopics"`
	CurrentTopic    string `json:"currentTopic"`
}

// NewSubject creates a subject with a fresh identifier.
func NewSubject(name string, strength, syllabusSize int) (*Subject, error) {
	s := &Subject{
		ID:             generateID(),
		Name:           strings.TrimSpace(name),
		StrengthRating: strength,
		SyllabusSize:   syllabusSize,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the subject's fields.
func (s *Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptySubjectName
	}
	if s.StrengthRating < 1 || s.StrengthRating > 10 {
		return ErrInvalidStrength
	}
	if s.SyllabusSize < 0 || s.CompletedTopics < 0 || s.CompletedTopics > s.SyllabusSize {
		return ErrInvalidSyllabus
	}
	return nil
}

// Progress returns the share of completed topics (0.0 to 1.0).
func (s *Subject) Progress() float64 {
	if s.SyllabusSize == 0 {
		return 0
	}
	return float64(s.CompletedTopics) / float64(s.SyllabusSize)
}

// IsWeak reports whether the subject needs extra attention.
func (s *Subject) IsWeak() bool {
	return s.StrengthRating <= 4
}

// UserProfile is everything the planner knows about the student.
type UserProfile struct {
	Name               string     `json:"name"`
	WakeUpTime         string     `json:"wakeUpTime"`
	SleepTime          string     `json:"sleepTime"`
	Subjects           []*Subject `json:"subjects"`
	Intensity          Intensity  `json:"intensity"`
	Theme              Theme      `json:"theme"`
	OnboardingComplete bool       `json:"onboardingComplete"`
}

// DefaultProfile returns the profile shown before onboarding.
func DefaultProfile() *UserProfile {
	return &UserProfile{
		WakeUpTime: "07:00",
		SleepTime:  "23:00",
		Subjects:   []*Subject{},
		Intensity:  IntensityMedium,
		Theme:      ThemePeach,
	}
}

// Validate checks the profile's fields and all of its subjects.
func (p *UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if _, err := ParseClockTime(p.WakeUpTime); err != nil {
		return fmt.Errorf("wake up time: %w", err)
	}
	if _, err := ParseClockTime(p.SleepTime); err != nil {
		return fmt.Errorf("sleep time: %w", err)
	}
	if _, err := ValidateIntensity(string(p.Intensity)); err != nil {
		return err
	}
	if _, err := ValidateTheme(string(p.Theme)); err != nil {
		return err
	}
	for _, s := range p.Subjects {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("subject %q: %w", s.Name, err)
		}
	}
	return nil
}

// AwakeWindow returns the length of the day between wake-up and sleep.
// A sleep time earlier than the wake-up time is taken to be after midnight.
func (p *UserProfile) AwakeWindow() time.Duration {
	wake, err := ParseClockTime(p.WakeUpTime)
	if err != nil {
		return 0
	}
	sleep, err := ParseClockTime(p.SleepTime)
	if err != nil {
		return 0
	}
	if sleep <= wake {
		sleep += 24 * time.Hour
	}
	return sleep - wake
}

// AddSubject appends a subject, rejecting duplicate names.
func (p *UserProfile) AddSubject(s *Subject) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, existing := range p.Subjects {
		if strings.EqualFold(existing.Name, s.Name) {
			return fmt.Errorf("%w: %s", ErrDuplicateSubject, s.Name)
		}
	}
	p.Subjects = append(p.Subjects, s)
	return nil
}

// RemoveSubject deletes the subject with the given ID.
func (p *UserProfile) RemoveSubject(id string) error {
	for i, s := range p.Subjects {
		if s.ID == id {
			p.Subjects = append(p.Subjects[:i], p.Subjects[i+1:]...)
			return nil
		}
	}
	return ErrSubjectNotFound
}

// FindSubject returns the subject with the given ID or name.
func (p *UserProfile) FindSubject(idOrName string) (*Subject, error) {
	for _, s := range p.Subjects {
		if s.ID == idOrName || strings.EqualFold(s.Name, idOrName) {
			return s, nil
		}
	}
	return nil, ErrSubjectNotFound
}

// StrongAndWeak splits subject names by strength rating.
func (p *UserProfile) StrongAndWeak() (strong, weak []string) {
	for _, s := range p.Subjects {
		if s.IsWeak() {
			weak = append(weak, s.Name)
		} else {
			strong = append(strong, s.Name)
		}
	}
	return strong, weak
}

// ParseClockTime parses an HH:MM time of day into an offset from midnight.
func ParseClockTime(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: want HH:MM", ErrInvalidTime, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

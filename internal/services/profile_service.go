package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// ProfileService handles the student's profile: loaded once at startup and
// saved after every change.
type ProfileService struct {
	store ports.ProfileStore
}

// NewProfileService creates a new profile service.
func NewProfileService(store ports.ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// Load returns the saved profile.
func (s *ProfileService) Load(ctx context.Context) (*domain.UserProfile, error) {
	profile, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// LoadOrDefault returns the saved profile, or the pre-onboarding default.
func (s *ProfileService) LoadOrDefault(ctx context.Context) (*domain.UserProfile, error) {
	profile, err := s.Load(ctx)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.DefaultProfile(), nil
	}
	return profile, err
}

// Save validates and persists profile.
func (s *ProfileService) Save(ctx context.Context, profile *domain.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// CompleteOnboarding marks profile as set up and saves it.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, profile *domain.UserProfile) error {
	profile.OnboardingComplete = true
	return s.Save(ctx, profile)
}

// Update loads the profile, applies fn and saves the result.
func (s *ProfileService) Update(ctx context.Context, fn func(*domain.UserProfile) error) (*domain.UserProfile, error) {
	profile, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// AddSubjectRequest contains data to add a subject.
type AddSubjectRequest struct {
	Name         string
	Strength     int
	SyllabusSize int
	CurrentTopic string
}

// AddSubject adds a subject to the saved profile.
func (s *ProfileService) AddSubject(ctx context.Context, req AddSubjectRequest) (*domain.Subject, error) {
	subject, err := domain.NewSubject(req.Name, req.Strength, req.SyllabusSize)
	if err != nil {
		return nil, err
	}
	subject.CurrentTopic = strings.TrimSpace(req.CurrentTopic)

	_, err = s.Update(ctx, func(p *domain.UserProfile) error {
		return p.AddSubject(subject)
	})
	if err != nil {
		return nil, err
	}
	return subject, nil
}

// RemoveSubject removes the subject matching query from the saved profile.
func (s *ProfileService) RemoveSubject(ctx context.Context, query string) (*domain.Subject, error) {
	var removed *domain.Subject
	_, err := s.Update(ctx, func(p *domain.UserProfile) error {
		subject, err := ResolveSubject(p, query)
		if err != nil {
			return err
		}
		removed = subject
		return p.RemoveSubject(subject.ID)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ProgressRequest updates a subject's syllabus progress. Nil fields are left
// unchanged.
type ProgressRequest struct {
	Query           string
	CompletedTopics *int
	CurrentTopic    *string
	Strength        *int
}

// UpdateProgress applies req to the matching subject.
func (s *ProfileService) UpdateProgress(ctx context.Context, req ProgressRequest) (*domain.Subject, error) {
	var updated *domain.Subject
	_, err := s.Update(ctx, func(p *domain.UserProfile) error {
		subject, err := ResolveSubject(p, req.Query)
		if err != nil {
			return err
		}
		if req.CompletedTopics != nil {
			subject.CompletedTopics = *req.CompletedTopics
		}
		if req.CurrentTopic != nil {
			subject.CurrentTopic = strings.TrimSpace(*req.CurrentTopic)
		}
		if req.Strength != nil {
			subject.StrengthRating = *req.Strength
		}
		updated = subject
		return subject.Validate()
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindSubject resolves query against the saved profile.
func (s *ProfileService) FindSubject(ctx context.Context, query string) (*domain.Subject, error) {
	profile, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveSubject(profile, query)
}

// ResolveSubject finds a subject by ID, ID prefix, exact name, or best fuzzy
// name match, in that order.
func ResolveSubject(profile *domain.UserProfile, query string) (*domain.Subject, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrSubjectNotFound
	}
	if subject, err := profile.FindSubject(query); err == nil {
		return subject, nil
	}
	for _, subject := range profile.Subjects {
		if len(query) >= 4 && strings.HasPrefix(subject.ID, query) {
			return subject, nil
		}
	}
	if matches := SearchSubjects(profile, query); len(matches) > 0 {
		return matches[0], nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSubjectNotFound, query)
}

// SearchSubjects returns subjects whose names fuzzy-match query, best first.
func SearchSubjects(profile *domain.UserProfile, query string) []*domain.Subject {
	names := make([]string, len(profile.Subjects))
	for i, subject := range profile.Subjects {
		names[i] = subject.Name
	}

	var result []*domain.Subject
	for _, match := range fuzzy.Find(query, names) {
		result = append(result, profile.Subjects[match.Index])
	}
	return result
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/studyflow/internal/domain"
)

func TestProfileService_LoadOrDefault(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	service := NewProfileService(store.Profiles())
	ctx := context.Background()

	p, err := service.LoadOrDefault(ctx)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if p.OnboardingComplete {
		t.Error("default profile should not be onboarded")
	}

	if _, err := service.Load(ctx); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("Load() error = %v, want ErrProfileNotFound", err)
	}
}

func TestProfileService_CompleteOnboarding(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	service := NewProfileService(store.Profiles())
	ctx := context.Background()

	p := domain.DefaultProfile()
	if err := service.CompleteOnboarding(ctx, p); !errors.Is(err, domain.ErrEmptyName) {
		t.Errorf("CompleteOnboarding() error = %v, want ErrEmptyName", err)
	}

	p.Name = "Ada"
	if err := service.CompleteOnboarding(ctx, p); err != nil {
		t.Fatalf("CompleteOnboarding() error = %v", err)
	}
	loaded, err := service.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.OnboardingComplete || loaded.Name != "Ada" {
		t.Errorf("Load() = %+v", loaded)
	}
}

func TestProfileService_Subjects(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	saveTestProfile(t, store)
	service := NewProfileService(store.Profiles())
	ctx := context.Background()

	t.Run("add subject", func(t *testing.T) {
		s, err := service.AddSubject(ctx, AddSubjectRequest{Name: "Physics", Strength: 6, SyllabusSize: 12, CurrentTopic: " Optics "})
		if err != nil {
			t.Fatalf("AddSubject() error = %v", err)
		}
		if s.CurrentTopic != "Optics" {
			t.Errorf("CurrentTopic = %q, want Optics", s.CurrentTopic)
		}
	})

	t.Run("add duplicate", func(t *testing.T) {
		_, err := service.AddSubject(ctx, AddSubjectRequest{Name: "physics", Strength: 6, SyllabusSize: 12})
		if !errors.Is(err, domain.ErrDuplicateSubject) {
			t.Errorf("AddSubject() error = %v, want ErrDuplicateSubject", err)
		}
	})

	t.Run("update progress", func(t *testing.T) {
		completed := 4
		topic := "Integrals"
		s, err := service.UpdateProgress(ctx, ProgressRequest{Query: "calc", CompletedTopics: &completed, CurrentTopic: &topic})
		if err != nil {
			t.Fatalf("UpdateProgress() error = %v", err)
		}
		if s.Name != "Calculus" || s.CompletedTopics != 4 || s.CurrentTopic != "Integrals" {
			t.Errorf("UpdateProgress() = %+v", s)
		}
	})

	t.Run("progress beyond syllabus", func(t *testing.T) {
		completed := 99
		_, err := service.UpdateProgress(ctx, ProgressRequest{Query: "Calculus", CompletedTopics: &completed})
		if !errors.Is(err, domain.ErrInvalidSyllabus) {
			t.Errorf("UpdateProgress() error = %v, want ErrInvalidSyllabus", err)
		}
		s, _ := service.FindSubject(ctx, "Calculus")
		if s.CompletedTopics != 4 {
			t.Errorf("rejected update was saved: CompletedTopics = %d", s.CompletedTopics)
		}
	})

	t.Run("remove subject", func(t *testing.T) {
		removed, err := service.RemoveSubject(ctx, "history")
		if err != nil {
			t.Fatalf("RemoveSubject() error = %v", err)
		}
		if removed.Name != "History" {
			t.Errorf("removed %q, want History", removed.Name)
		}
		if _, err := service.FindSubject(ctx, "History"); !errors.Is(err, domain.ErrSubjectNotFound) {
			t.Errorf("FindSubject() error = %v, want ErrSubjectNotFound", err)
		}
	})
}

func TestResolveSubject(t *testing.T) {
	p := testProfile()

	tests := []struct {
		query string
		want  string
	}{
		{"Calculus", "Calculus"},
		{"history", "History"},
		{"orgchem", "Organic Chemistry"},
		{p.Subjects[1].ID[:8], "History"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s, err := ResolveSubject(p, tt.query)
			if err != nil {
				t.Fatalf("ResolveSubject() error = %v", err)
			}
			if s.Name != tt.want {
				t.Errorf("ResolveSubject() = %q, want %q", s.Name, tt.want)
			}
		})
	}

	if _, err := ResolveSubject(p, "zzz"); !errors.Is(err, domain.ErrSubjectNotFound) {
		t.Errorf("ResolveSubject(zzz) error = %v, want ErrSubjectNotFound", err)
	}
	if _, err := ResolveSubject(p, "  "); !errors.Is(err, domain.ErrSubjectNotFound) {
		t.Errorf("ResolveSubject(blank) error = %v, want ErrSubjectNotFound", err)
	}
}

package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/studyflow/internal/domain"
)

// Mock implementations for testing interfaces.

type mockProfileStore struct {
	profile *domain.UserProfile
}

func (m *mockProfileStore) Load(ctx context.Context) (*domain.UserProfile, error) {
	if m.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return m.profile, nil
}

func (m *mockProfileStore) Save(ctx context.Context, profile *domain.UserProfile) error {
	m.profile = profile
	return nil
}

func (m *mockProfileStore) Delete(ctx context.Context) error {
	m.profile = nil
	return nil
}

var _ ProfileStore = (*mockProfileStore)(nil)

func TestMockProfileStore(t *testing.T) {
	store := &mockProfileStore{}
	ctx := context.Background()

	t.Run("load before save", func(t *testing.T) {
		_, err := store.Load(ctx)
		if !errors.Is(err, domain.ErrProfileNotFound) {
			t.Errorf("Load() error = %v, want ErrProfileNotFound", err)
		}
	})

	t.Run("save and load profile", func(t *testing.T) {
		profile := domain.DefaultProfile()
		profile.Name = "Ada"
		if err := store.Save(ctx, profile); err != nil {
			t.Errorf("Save() error = %v", err)
		}

		found, err := store.Load(ctx)
		if err != nil {
			t.Errorf("Load() error = %v", err)
		}
		if found.Name != "Ada" {
			t.Errorf("Loaded profile name = %v, want Ada", found.Name)
		}
	})

	t.Run("delete profile", func(t *testing.T) {
		if err := store.Delete(ctx); err != nil {
			t.Errorf("Delete() error = %v", err)
		}
		if _, err := store.Load(ctx); !errors.Is(err, domain.ErrProfileNotFound) {
			t.Errorf("Load() after delete error = %v, want ErrProfileNotFound", err)
		}
	})
}

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

// profileKey is the kv row holding the serialized profile.
const profileKey = "profile_v5"

// profileStore implements ports.ProfileStore as a JSON document in the kv table.
type profileStore struct {
	db *sql.DB
}

func newProfileStore(db *sql.DB) ports.ProfileStore {
	return &profileStore{db: db}
}

// Load returns the saved profile.
func (s *profileStore) Load(ctx context.Context) (*domain.UserProfile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, profileKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile := domain.DefaultProfile()
	if err := json.Unmarshal([]byte(raw), profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if profile.Subjects == nil {
		profile.Subjects = []*domain.Subject{}
	}
	return profile, nil
}

// Save replaces the saved profile.
func (s *profileStore) Save(ctx context.Context, profile *domain.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, profileKey, string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Delete removes the saved profile.
func (s *profileStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, profileKey); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xvierd/studyflow/internal/adapters/storage"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/focustimer"
	"github.com/xvierd/studyflow/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.Storage, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { store.Close() }
}

func testProfile() *domain.UserProfile {
	p := domain.DefaultProfile()
	p.Name = "Ada"
	for _, s := range []struct {
		name     string
		strength int
	}{{"Calculus", 3}, {"History", 8}, {"Organic Chemistry", 5}} {
		subject, err := domain.NewSubject(s.name, s.strength, 10)
		if err != nil {
			panic(err)
		}
		p.Subjects = append(p.Subjects, subject)
	}
	p.OnboardingComplete = true
	return p
}

func saveTestProfile(t *testing.T, store ports.Storage) *domain.UserProfile {
	t.Helper()
	p := testProfile()
	if err := store.Profiles().Save(context.Background(), p); err != nil {
		t.Fatalf("Save profile: %v", err)
	}
	return p
}

// stepClock fires scheduled callbacks only when Advance is called.
type stepClock struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*stepTimer
}

type stepTimer struct {
	clock *stepClock
	at    time.Duration
	f     func()
	done  bool
}

func (c *stepClock) AfterFunc(d time.Duration, f func()) focustimer.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &stepTimer{clock: c, at: c.now + d, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (t *stepTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *stepTimer
		for _, t := range c.pending {
			if !t.done && t.at <= target && (next == nil || t.at < next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.done = true
		c.mu.Unlock()
		next.f()
	}
}

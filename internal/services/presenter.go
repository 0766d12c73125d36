package services

import (
	"sync"

	"github.com/xvierd/studyflow/internal/ports"
)

// FocusPresenter reconciles focus notifications from several timer instances
// into one focus-active signal. The most recent report wins, whichever
// instance sent it. Listeners hear only actual changes.
type FocusPresenter struct {
	mu        sync.Mutex
	active    bool
	last      string
	reports   map[string]bool
	listeners map[int]ports.FocusListener
	nextID    int
}

// NewFocusPresenter creates a presenter with focus off.
func NewFocusPresenter() *FocusPresenter {
	return &FocusPresenter{
		reports:   make(map[string]bool),
		listeners: make(map[int]ports.FocusListener),
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (p *FocusPresenter) Subscribe(l ports.FocusListener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Report records a notification from source.
func (p *FocusPresenter) Report(source string, active bool) {
	p.mu.Lock()
	p.reports[source] = active
	p.last = source
	p.setLocked(active)
}

// Remove forgets source. If it was the last writer and held focus on, focus
// turns off.
func (p *FocusPresenter) Remove(source string) {
	p.mu.Lock()
	delete(p.reports, source)
	if p.last != source {
		p.mu.Unlock()
		return
	}
	p.last = ""
	p.setLocked(false)
}

// setLocked updates the signal, releases the lock and notifies on change.
func (p *FocusPresenter) setLocked(active bool) {
	changed := p.active != active
	p.active = active
	var listeners []ports.FocusListener
	if changed {
		for _, l := range p.listeners {
			listeners = append(listeners, l)
		}
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(active)
	}
}

// Active reports the reconciled focus signal.
func (p *FocusPresenter) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// LastWriter returns the source of the most recent report.
func (p *FocusPresenter) LastWriter() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Reported returns the last value reported by source.
func (p *FocusPresenter) Reported(source string) (active, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	active, ok = p.reports[source]
	return active, ok
}

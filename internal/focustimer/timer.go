// Package focustimer implements the Pomodoro countdown state machine behind
// the focus view: three fixed presets, start/pause/reset controls, and a
// focus-change hook that tells the host when a work session is running so it
// can switch into its distraction-free presentation.
package focustimer

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// tickInterval is the countdown cadence.
const tickInterval = time.Second

// Option configures a Timer.
type Option func(*Timer)

// WithOnFocusChange sets the callback invoked when the focus-active condition
// changes. A nil callback drops notifications.
func WithOnFocusChange(fn func(active bool)) Option {
	return func(t *Timer) {
		t.onFocusChange = fn
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(t *Timer) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithAutoFocus sets the initial auto-focus preference.
func WithAutoFocus(enabled bool) Option {
	return func(t *Timer) {
		t.state.AutoFocusEnabled = enabled
	}
}

// Timer owns one TimerState and advances it once per second while running.
//
// All methods are safe for concurrent use. State is mutated under the lock and
// each focus notification is queued in the same critical section. The queue is
// drained outside the lock by one goroutine at a time, so the callback sees
// notifications in mutation order and may call back into the timer.
type Timer struct {
	mu            sync.Mutex
	state         domain.TimerState
	clock         Clock
	pending       Stopper
	generation    uint64
	closed        bool
	onFocusChange func(bool)
	logger        *slog.Logger

	outbox     []bool
	delivering bool
}

// Ensure Timer implements ports.FocusTimer.
var _ ports.FocusTimer = (*Timer)(nil)

// New creates a timer in its mounted state: work mode, 25:00, paused,
// auto-focus on.
func New(opts ...Option) *Timer {
	t := &Timer{
		state:  domain.NewTimerState(),
		clock:  WallClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SwitchMode loads the preset of mode and stops the countdown. Any explicit
// mode switch ends a focus session, so the callback always receives false.
func (t *Timer) SwitchMode(mode domain.TimerMode) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.state.Mode = mode
	t.state.RemainingSeconds = mode.Preset()
	t.state.IsRunning = false
	t.rescheduleLocked()
	t.enqueueLocked(false)
	t.mu.Unlock()

	t.logger.Debug("timer mode switched", "mode", mode)
	t.deliver()
}

// ToggleRun starts or pauses the countdown. In work mode with auto-focus on,
// the callback mirrors the new running flag; otherwise it is not invoked.
// Starting at 00:00 is allowed and expires on the next evaluation.
func (t *Timer) ToggleRun() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.state.IsRunning = !t.state.IsRunning
	running := t.state.IsRunning
	if t.state.AutoFocusEnabled && t.state.Mode == domain.TimerModeWork {
		t.enqueueLocked(running)
	}
	t.rescheduleLocked()
	t.mu.Unlock()

	t.logger.Debug("timer toggled", "running", running)
	t.deliver()
}

// Reset stops the countdown and restores the current mode's preset.
func (t *Timer) Reset() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.state.IsRunning = false
	t.state.RemainingSeconds = t.state.Mode.Preset()
	mode := t.state.Mode
	t.rescheduleLocked()
	t.enqueueLocked(false)
	t.mu.Unlock()

	t.logger.Debug("timer reset", "mode", mode)
	t.deliver()
}

// SetAutoFocusEnabled changes whether future toggles are forwarded to the
// focus-change callback. It never invokes the callback itself.
func (t *Timer) SetAutoFocusEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.state.AutoFocusEnabled = enabled
}

// State returns a copy of the current state.
func (t *Timer) State() domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Display returns the remaining time as MM:SS.
func (t *Timer) Display() string {
	return t.State().Display()
}

// Close unmounts the timer: the pending tick is cancelled and every later
// call is ignored.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.rescheduleLocked()
}

// tick applies one decrement. Ticks armed for an older generation are stale
// and ignored.
func (t *Timer) tick(generation uint64) {
	t.mu.Lock()
	if t.closed || generation != t.generation || !t.state.IsRunning {
		t.mu.Unlock()
		return
	}
	if t.state.RemainingSeconds > 0 {
		t.state.RemainingSeconds--
	}
	expired := t.state.RemainingSeconds == 0
	mode := t.state.Mode
	if expired {
		t.state.IsRunning = false
		t.enqueueLocked(false)
	}
	t.rescheduleLocked()
	t.mu.Unlock()

	if expired {
		t.logger.Info("timer expired", "mode", mode)
		t.deliver()
	}
}

// rescheduleLocked cancels the pending tick and arms a new one if the
// countdown should keep advancing. Bumping the generation first guarantees
// at most one live tick source even if the cancelled callback already fired.
// Must be called with t.mu held.
func (t *Timer) rescheduleLocked() {
	t.generation++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	if t.closed || !t.state.IsRunning {
		return
	}

	delay := tickInterval
	if t.state.RemainingSeconds == 0 {
		delay = 0
	}
	generation := t.generation
	t.pending = t.clock.AfterFunc(delay, func() {
		t.tick(generation)
	})
}

// enqueueLocked queues a focus notification. Must be called with t.mu held,
// in the same critical section as the mutation it reports.
func (t *Timer) enqueueLocked(active bool) {
	if t.onFocusChange != nil {
		t.outbox = append(t.outbox, active)
	}
}

// deliver drains the outbox in order. If another goroutine is already
// draining, it returns at once and that goroutine delivers the queued values,
// as does an outer deliver when the callback itself mutates the timer.
func (t *Timer) deliver() {
	t.mu.Lock()
	if t.delivering {
		t.mu.Unlock()
		return
	}
	t.delivering = true
	for len(t.outbox) > 0 {
		active := t.outbox[0]
		t.outbox = t.outbox[1:]
		t.mu.Unlock()
		t.onFocusChange(active)
		t.mu.Lock()
	}
	t.delivering = false
	t.mu.Unlock()
}

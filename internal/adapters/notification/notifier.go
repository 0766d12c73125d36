// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// sendFunc delivers a notification; replaced in tests.
type sendFunc func(title, message string) error

// Notifier handles desktop notifications.
type Notifier struct {
	cfg  *config.NotificationConfig
	send sendFunc
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{cfg: cfg}
	n.send = n.beeep
	return n
}

func (n *Notifier) beeep(title, message string) error {
	if n.cfg.Sound {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.send(title, message)
}

// NotifySessionComplete announces the end of a countdown. The message depends
// on whether a work session or a break just ended.
func (n *Notifier) NotifySessionComplete(session *domain.FocusSession) error {
	if session.IsWorkSession() {
		title := "📚 Focus session complete!"
		message := fmt.Sprintf("Great job! You focused for %s.", domain.FormatClock(session.ElapsedSeconds))
		if session.SubjectName != "" {
			message = fmt.Sprintf("Great job! You focused on %s for %s.", session.SubjectName, domain.FormatClock(session.ElapsedSeconds))
		}
		return n.Notify(title, message)
	}
	title := "☕ Break over!"
	message := fmt.Sprintf("Your %s is complete. Ready to focus?", session.Mode.Label())
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

package cmd

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/adapters/tui"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/services"
)

var (
	focusMode        string
	focusSubject     string
	focusNoAutoFocus bool
)

// focusCmd represents the focus command
var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Open the focus timer",
	Long: `Open the full-screen Pomodoro timer.

Starting a work countdown turns on distraction-free mode (unless
auto-focus is off); pausing or switching to a break turns it off.
Finished and abandoned countdowns are saved to your focus history.`,
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().StringVarP(&focusMode, "mode", "m", "", "Starting mode: work, short_break, long_break (default from config)")
	focusCmd.Flags().StringVarP(&focusSubject, "subject", "s", "", "Subject to link sessions to (name, ID prefix or fuzzy match)")
	focusCmd.Flags().BoolVar(&focusNoAutoFocus, "no-auto-focus", false, "Do not enter distraction-free mode when work starts")
}

func runFocus(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler(cmd.Context())
	defer cancel()

	modeName := focusMode
	if modeName == "" {
		modeName = app.config.Timer.StartMode
	}
	mode, err := domain.ParseTimerMode(modeName)
	if err != nil {
		return err
	}

	subject, err := chooseSubject(cmd)
	if err != nil {
		return err
	}

	focus := newFocusService("tui", app.config.Timer.AutoFocus && !focusNoAutoFocus, mode)
	focus.SetSubject(subject)
	defer focus.Close()

	var completed atomic.Int32
	focus.SetOnSessionRecorded(func(s *domain.FocusSession) {
		if s.IsWorkSession() && s.IsCompleted() {
			completed.Add(1)
		}
	})

	subjectName := ""
	if subject != nil {
		subjectName = subject.Name
	}

	err = tui.Run(ctx, tui.ModelConfig{
		Timer:       focus,
		Theme:       &app.config.Theme,
		Subject:     subjectName,
		FocusActive: app.presenter.Active,
		Stats: func() domain.DailyStats {
			stats, err := app.storage.Sessions().GetDailyStats(ctx, time.Now())
			if err != nil {
				app.logger.Warn("failed to load daily stats", "error", err)
				return domain.DailyStats{}
			}
			return *stats
		},
	})
	if err != nil {
		return fmt.Errorf("timer error: %w", err)
	}

	if n := completed.Load(); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "🍅 %d work session(s) completed. Nice work!\n", n)
	}
	return nil
}

// chooseSubject resolves --subject, or offers the picker when the profile has
// subjects and the terminal is interactive.
func chooseSubject(cmd *cobra.Command) (*domain.Subject, error) {
	profile, err := app.profiles.LoadOrDefault(cmd.Context())
	if err != nil {
		return nil, err
	}
	if focusSubject != "" {
		return services.ResolveSubject(profile, focusSubject)
	}
	if len(profile.Subjects) == 0 || !isInteractive() {
		return nil, nil
	}
	return tui.PickSubject(profile.Subjects, &app.config.Theme), nil
}

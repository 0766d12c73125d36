package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/services"
)

var (
	profileName      string
	profileWake      string
	profileSleep     string
	profileIntensity string
	profileTheme     string

	subjectStrength int
	subjectSyllabus int
	subjectTopic    string

	progressCompleted int
	progressTopic     string
	progressStrength  int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your study profile and subjects",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := app.profiles.Load(cmd.Context())
		if errors.Is(err, domain.ErrProfileNotFound) {
			return fmt.Errorf(`no profile yet, run "studyflow profile edit" first`)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), profile)
		}
		printProfile(cmd.OutOrStdout(), profile)
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your profile",
	Long: `Edit your name, wake-up and bed times, day intensity and theme.

With no flags in a terminal, an interactive form is shown. The first edit
also walks you through adding subjects.`,
	RunE: runProfileEdit,
}

var addSubjectCmd = &cobra.Command{
	Use:   "add-subject [name]",
	Short: "Add a subject",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req services.AddSubjectRequest
		switch {
		case len(args) == 1:
			req = services.AddSubjectRequest{
				Name:         args[0],
				Strength:     subjectStrength,
				SyllabusSize: subjectSyllabus,
				CurrentTopic: subjectTopic,
			}
		case isInteractive():
			var f subjectFields
			if err := subjectForm(&f).Run(); err != nil {
				return formError(err)
			}
			var err error
			if req, err = f.request(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("subject name is required")
		}

		subject, err := app.profiles.AddSubject(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to add subject: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), subject)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added %s (strength %d/10, %d topics)\n", subject.Name, subject.StrengthRating, subject.SyllabusSize)
		return nil
	},
}

var removeSubjectCmd = &cobra.Command{
	Use:   "remove-subject <subject>",
	Short: "Remove a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, err := app.profiles.RemoveSubject(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to remove subject: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Removed %s\n", subject.Name)
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <subject>",
	Short: "Update syllabus progress for a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.ProgressRequest{Query: args[0]}
		flags := cmd.Flags()
		if flags.Changed("completed") {
			req.CompletedTopics = &progressCompleted
		}
		if flags.Changed("topic") {
			req.CurrentTopic = &progressTopic
		}
		if flags.Changed("strength") {
			req.Strength = &progressStrength
		}
		if req.CompletedTopics == nil && req.CurrentTopic == nil && req.Strength == nil {
			return fmt.Errorf("nothing to update: pass --completed, --topic or --strength")
		}

		subject, err := app.profiles.UpdateProgress(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), subject)
		}
		printSubject(cmd.OutOrStdout(), subject)
		return nil
	},
}

func init() {
	profileEditCmd.Flags().StringVar(&profileName, "name", "", "Your name")
	profileEditCmd.Flags().StringVar(&profileWake, "wake", "", "Wake-up time (HH:MM)")
	profileEditCmd.Flags().StringVar(&profileSleep, "sleep", "", "Bedtime (HH:MM)")
	profileEditCmd.Flags().StringVar(&profileIntensity, "intensity", "", "Day intensity: low, medium, high")
	profileEditCmd.Flags().StringVar(&profileTheme, "theme", "", "Theme: peach, lavender, mint, sky")

	addSubjectCmd.Flags().IntVar(&subjectStrength, "strength", 5, "How strong you are at the subject (1-10)")
	addSubjectCmd.Flags().IntVar(&subjectSyllabus, "syllabus", 0, "Number of topics in the syllabus")
	addSubjectCmd.Flags().StringVar(&subjectTopic, "topic", "", "Topic you are currently on")

	progressCmd.Flags().IntVarP(&progressCompleted, "completed", "c", 0, "Completed topics")
	progressCmd.Flags().StringVarP(&progressTopic, "topic", "t", "", "Current topic")
	progressCmd.Flags().IntVar(&progressStrength, "strength", 0, "New strength rating (1-10)")

	profileCmd.AddCommand(profileShowCmd, profileEditCmd, addSubjectCmd, removeSubjectCmd, progressCmd)
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	profile, err := app.profiles.LoadOrDefault(ctx)
	if err != nil {
		return err
	}

	fields := newProfileFields(profile)
	if editFlagsSet(cmd) {
		overrideProfileFields(cmd, &fields)
	} else {
		if !isInteractive() {
			return fmt.Errorf("no terminal: pass --name, --wake, --sleep, --intensity or --theme")
		}
		if !profile.OnboardingComplete {
			return runOnboarding(cmd, profile)
		}
		if err := profileForm(&fields).Run(); err != nil {
			return formError(err)
		}
	}

	if err := fields.apply(profile); err != nil {
		return err
	}
	if profile.OnboardingComplete {
		err = app.profiles.Save(ctx, profile)
	} else {
		err = app.profiles.CompleteOnboarding(ctx, profile)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Profile saved")
	return nil
}

func editFlagsSet(cmd *cobra.Command) bool {
	for _, name := range []string{"name", "wake", "sleep", "intensity", "theme"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func overrideProfileFields(cmd *cobra.Command, f *profileFields) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		f.Name = profileName
	}
	if flags.Changed("wake") {
		f.Wake = profileWake
	}
	if flags.Changed("sleep") {
		f.Sleep = profileSleep
	}
	if flags.Changed("intensity") {
		f.Intensity = profileIntensity
	}
	if flags.Changed("theme") {
		f.Theme = profileTheme
	}
}

func printProfile(w io.Writer, p *domain.UserProfile) {
	fmt.Fprintf(w, "\n  👤 %s\n", p.Name)
	fmt.Fprintf(w, "  Day        %s → %s (%s awake)\n", p.WakeUpTime, p.SleepTime, formatMinutes(p.AwakeWindow()))
	fmt.Fprintf(w, "  Intensity  %s\n", p.Intensity)
	fmt.Fprintf(w, "  Theme      %s\n\n", p.Theme)

	if len(p.Subjects) == 0 {
		fmt.Fprintln(w, `  No subjects yet. Add one with "studyflow profile add-subject".`)
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, "  Subjects")
	for _, s := range p.Subjects {
		printSubject(w, s)
	}
	fmt.Fprintln(w)
}

func printSubject(w io.Writer, s *domain.Subject) {
	marker := " "
	if s.IsWeak() {
		marker = "!"
	}
	line := fmt.Sprintf("  %s %-20s %s %d/%d  strength %d/10",
		marker, s.Name, progressBar(s.CompletedTopics, s.SyllabusSize, 10), s.CompletedTopics, s.SyllabusSize, s.StrengthRating)
	if s.CurrentTopic != "" {
		line += " · " + s.CurrentTopic
	}
	fmt.Fprintf(w, "%s  [%s]\n", strings.TrimRight(line, " "), shortID(s.ID))
}

// shortID returns the first 8 characters of an ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

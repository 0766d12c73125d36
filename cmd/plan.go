package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/services"
)

var (
	planDate     string
	exportFormat string
	exportOutput string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and track your daily study plan",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a plan for today",
	Long: `Generate a study schedule for the day from your profile, replacing any
plan already saved for that day. The configured generator is used when
reachable; otherwise a built-in planner fills in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day, err := parsePlanDate(planDate)
		if err != nil {
			return err
		}

		profile, err := app.profiles.LoadOrDefault(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "🧠 Planning your day...")
		plan, err := app.plans.Generate(ctx, profile, day)
		switch {
		case errors.Is(err, domain.ErrOnboardingRequired):
			return fmt.Errorf(`set up your profile first with "studyflow profile edit"`)
		case errors.Is(err, domain.ErrNoSubjects):
			return fmt.Errorf(`add a subject first with "studyflow profile add-subject"`)
		case err != nil:
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), plan)
		}
		printPlan(cmd.OutOrStdout(), plan, time.Now())
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a day's plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(cmd, planDate)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), plan)
		}
		printPlan(cmd.OutOrStdout(), plan, time.Now())
		return nil
	},
}

var planCheckCmd = &cobra.Command{
	Use:   "check <goal>",
	Short: "Check or uncheck one of today's goals",
	Long:  `Toggle a daily goal, addressed by its number in "plan show" or its text.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		done, plan, err := app.plans.ToggleGoal(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return planError(err)
		}
		completed, total := plan.GoalProgress()
		mark := "⬜ Unchecked"
		if done {
			mark = "✅ Checked"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s · %d/%d goals done\n", mark, completed, total)
		return nil
	},
}

var planWaterCmd = &cobra.Command{
	Use:   "water",
	Short: "Log a glass of water",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := app.plans.AddWater(cmd.Context())
		if err != nil {
			return planError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "💧 %d glass(es) today\n", plan.WaterCount)
		return nil
	},
}

var planMoodCmd = &cobra.Command{
	Use:       "mood <productive|tired|happy|stressed|chill>",
	Short:     "Record how today feels",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"productive", "tired", "happy", "stressed", "chill"},
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := app.plans.SetMood(cmd.Context(), args[0])
		if err != nil {
			return planError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mood set to %s\n", plan.Mood)
		return nil
	},
}

var planReflectCmd = &cobra.Command{
	Use:   "reflect [text]",
	Short: "Write today's reflection",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if text == "" {
			if !isInteractive() {
				return fmt.Errorf("reflection text is required")
			}
			if plan, err := app.plans.Today(cmd.Context()); err == nil {
				text = plan.Reflection
			}
			if err := reflectionForm(&text).Run(); err != nil {
				return formError(err)
			}
		}

		if _, err := app.plans.SetReflection(cmd.Context(), text); err != nil {
			return planError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "📝 Reflection saved")
		return nil
	},
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a day's plan as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(cmd, planDate)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		if err := services.Export(w, plan, services.ExportFormat(exportFormat)); err != nil {
			return err
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", plan.Day, exportOutput)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{planGenerateCmd, planShowCmd, planExportCmd} {
		c.Flags().StringVarP(&planDate, "date", "d", "", "Day as YYYY-MM-DD (default today)")
	}
	planExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, yaml")
	planExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")

	planCmd.AddCommand(planGenerateCmd, planShowCmd, planCheckCmd, planWaterCmd, planMoodCmd, planReflectCmd, planExportCmd)
}

// parsePlanDate parses a --date value; empty means today.
func parsePlanDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: want YYYY-MM-DD", domain.ErrInvalidPlanDay, s)
	}
	return day, nil
}

func loadPlan(cmd *cobra.Command, date string) (*domain.Plan, error) {
	day, err := parsePlanDate(date)
	if err != nil {
		return nil, err
	}
	plan, err := app.plans.ForDay(cmd.Context(), domain.DayKey(day))
	if err != nil {
		return nil, planError(err)
	}
	return plan, nil
}

// planError turns a missing plan into a hint.
func planError(err error) error {
	if errors.Is(err, domain.ErrPlanNotFound) {
		return fmt.Errorf(`no plan for that day, run "studyflow plan generate" first`)
	}
	return err
}

func printPlan(w io.Writer, plan *domain.Plan, now time.Time) {
	gen := plan.Generation
	fmt.Fprintf(w, "\n  📅 Plan for %s\n\n", plan.Day)

	next := nextBlock(plan, now)
	for i, item := range gen.Schedule {
		pointer := "  "
		if next != nil && &gen.Schedule[i] == next && plan.Day == domain.DayKey(now) {
			pointer = "▸ "
		}
		line := fmt.Sprintf("  %s%s  %s %-32s %3dm", pointer, item.Time, item.Icon, item.Task, item.DurationMinutes)
		if item.PomodoroCycle > 0 {
			line += fmt.Sprintf("  🍅%d", item.PomodoroCycle)
		}
		fmt.Fprintln(w, line)
		if item.Quote != "" && item.Category == domain.CategoryFrog {
			fmt.Fprintf(w, "        “%s”\n", item.Quote)
		}
	}

	if len(gen.DailyGoals) > 0 {
		done, total := plan.GoalProgress()
		fmt.Fprintf(w, "\n  Goals %d/%d\n", done, total)
		for i, goal := range gen.DailyGoals {
			box := "⬜"
			if plan.IsGoalComplete(goal) {
				box = "✅"
			}
			fmt.Fprintf(w, "  %d. %s %s\n", i+1, box, goal)
		}
	}

	if gen.Recommendation != "" {
		fmt.Fprintf(w, "\n  💡 %s\n", gen.Recommendation)
	}
	a := gen.Assessment
	if a.Strategy != "" {
		fmt.Fprintf(w, "  🎯 %s\n", a.Strategy)
	}
	if len(a.WeakSubjects) > 0 {
		fmt.Fprintf(w, "  Focus on: %s\n", strings.Join(a.WeakSubjects, ", "))
	}
	fmt.Fprintf(w, "  Study time: %s\n", formatMinutes(time.Duration(gen.StudyMinutes())*time.Minute))

	fmt.Fprintf(w, "\n  💧 %d · mood: %s\n", plan.WaterCount, plan.Mood)
	if plan.Reflection != "" {
		fmt.Fprintf(w, "  📝 %s\n", plan.Reflection)
	}
	fmt.Fprintln(w)
}

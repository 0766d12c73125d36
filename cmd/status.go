package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's overview",
	Long:  `Display your profile, today's plan progress and today's focus statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.state.GetCurrentState(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get current state: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), buildStatusJSON(state))
		}
		printStatusText(cmd.OutOrStdout(), state)
		return nil
	},
}

type statusJSON struct {
	Name       string          `json:"name,omitempty"`
	Onboarded  bool            `json:"onboarded"`
	Subjects   int             `json:"subjects"`
	Plan       *planStatusJSON `json:"plan"`
	TodayStats statsJSON       `json:"today_stats"`
}

type planStatusJSON struct {
	Day         string `json:"day"`
	GoalsDone   int    `json:"goals_done"`
	GoalsTotal  int    `json:"goals_total"`
	WaterCount  int    `json:"water_count"`
	Mood        string `json:"mood"`
	NextBlock   string `json:"next_block,omitempty"`
	StudyBlocks int    `json:"study_blocks"`
}

type statsJSON struct {
	WorkSessions     int               `json:"work_sessions"`
	InterruptedWork  int               `json:"interrupted_work"`
	BreaksTaken      int               `json:"breaks_taken"`
	TotalFocusTime   string            `json:"total_focus_time"`
	SubjectFocusTime map[string]string `json:"subject_focus_time,omitempty"`
	NextBreak        string            `json:"next_break"`
}

func buildStatusJSON(state *domain.CurrentState) statusJSON {
	out := statusJSON{TodayStats: buildStatsJSON(state.TodayStats)}
	if state.Profile != nil {
		out.Name = state.Profile.Name
		out.Onboarded = state.Profile.OnboardingComplete
		out.Subjects = len(state.Profile.Subjects)
	}
	if plan := state.TodayPlan; plan != nil {
		done, total := plan.GoalProgress()
		ps := &planStatusJSON{
			Day:        plan.Day,
			GoalsDone:  done,
			GoalsTotal: total,
			WaterCount: plan.WaterCount,
			Mood:       string(plan.Mood),
		}
		for _, item := range plan.Generation.Schedule {
			if item.IsStudy() {
				ps.StudyBlocks++
			}
		}
		if next := nextBlock(plan, time.Now()); next != nil {
			ps.NextBlock = fmt.Sprintf("%s %s", next.Time, next.Task)
		}
		out.Plan = ps
	}
	return out
}

func buildStatsJSON(stats domain.DailyStats) statsJSON {
	out := statsJSON{
		WorkSessions:    stats.WorkSessions,
		InterruptedWork: stats.InterruptedWork,
		BreaksTaken:     stats.BreaksTaken,
		TotalFocusTime:  stats.TotalFocusTime.String(),
		NextBreak:       string(stats.SuggestedBreak()),
	}
	if len(stats.SubjectFocusTime) > 0 {
		out.SubjectFocusTime = make(map[string]string, len(stats.SubjectFocusTime))
		for name, d := range stats.SubjectFocusTime {
			out.SubjectFocusTime[name] = d.String()
		}
	}
	return out
}

func printStatusText(w io.Writer, state *domain.CurrentState) {
	fmt.Fprintln(w)
	if state.Profile == nil || !state.Profile.OnboardingComplete {
		fmt.Fprintln(w, "  📚 studyflow")
		fmt.Fprintln(w, `  No profile yet. Run "studyflow profile edit" to get started.`)
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  📚 studyflow · %s\n\n", state.Profile.Name)

	if plan := state.TodayPlan; plan != nil {
		done, total := plan.GoalProgress()
		fmt.Fprintf(w, "  Goals    %s %d/%d\n", progressBar(done, total, 20), done, total)
		fmt.Fprintf(w, "  Water    💧 %d\n", plan.WaterCount)
		fmt.Fprintf(w, "  Mood     %s\n", plan.Mood)
		if next := nextBlock(plan, time.Now()); next != nil {
			fmt.Fprintf(w, "  Next     %s %s %s\n", next.Time, next.Icon, next.Task)
		}
	} else {
		fmt.Fprintln(w, `  No plan for today. Run "studyflow plan generate".`)
	}

	stats := state.TodayStats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Focus    %d sessions · %s focused", stats.WorkSessions, formatMinutes(stats.TotalFocusTime))
	if stats.InterruptedWork > 0 {
		fmt.Fprintf(w, " · %d interrupted", stats.InterruptedWork)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Breaks   %d taken · next: %s\n", stats.BreaksTaken, stats.SuggestedBreak().Label())
	if len(stats.SubjectFocusTime) > 0 {
		fmt.Fprintf(w, "  Subjects %s\n", formatSubjectTimes(stats.SubjectFocusTime))
	}
	fmt.Fprintln(w)
}

// nextBlock returns the first schedule block starting at or after now.
func nextBlock(plan *domain.Plan, now time.Time) *domain.ScheduleItem {
	minute := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute
	for i, item := range plan.Generation.Schedule {
		start, err := domain.ParseClockTime(item.Time)
		if err != nil {
			continue
		}
		if start >= minute {
			return &plan.Generation.Schedule[i]
		}
	}
	return nil
}

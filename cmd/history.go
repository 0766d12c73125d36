package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/adapters/git"
	"github.com/xvierd/studyflow/internal/domain"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent focus sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyDays <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		sessions, err := app.state.GetRecentSessions(cmd.Context(), historyDays)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if jsonOutput {
			if sessions == nil {
				sessions = []*domain.FocusSession{}
			}
			return printJSON(cmd.OutOrStdout(), sessions)
		}
		printHistory(cmd.OutOrStdout(), sessions, historyDays)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "n", 7, "Number of days to show")
}

// dayGroup is one day of sessions with its totals.
type dayGroup struct {
	Day      string
	Sessions []*domain.FocusSession
	Stats    domain.DailyStats
}

// groupByDay splits newest-first sessions into days, newest day first.
func groupByDay(sessions []*domain.FocusSession) []dayGroup {
	var groups []dayGroup
	for _, s := range sessions {
		day := domain.DayKey(s.StartedAt.Local())
		if len(groups) == 0 || groups[len(groups)-1].Day != day {
			groups = append(groups, dayGroup{Day: day})
		}
		g := &groups[len(groups)-1]
		g.Sessions = append(g.Sessions, s)
		g.Stats.AddSession(s)
	}
	return groups
}

func printHistory(w io.Writer, sessions []*domain.FocusSession, days int) {
	if len(sessions) == 0 {
		fmt.Fprintf(w, "No focus sessions in the last %d days.\n", days)
		return
	}

	for _, g := range groupByDay(sessions) {
		fmt.Fprintf(w, "\n  %s · %d sessions · %s focused\n", g.Day, g.Stats.WorkSessions, formatMinutes(g.Stats.TotalFocusTime))
		for _, s := range g.Sessions {
			icon := "🍅"
			switch {
			case s.Mode.IsBreak():
				icon = "☕"
			case !s.IsCompleted():
				icon = "✂️"
			}
			line := fmt.Sprintf("    %s %s  %-11s %s/%s",
				s.StartedAt.Local().Format("15:04"), icon, s.Mode.Label(),
				domain.FormatClock(s.ElapsedSeconds), domain.FormatClock(s.PlannedSeconds))
			if s.SubjectName != "" {
				line += "  " + s.SubjectName
			}
			if s.GitBranch != "" {
				line += fmt.Sprintf("  (%s@%s)", s.GitBranch, git.ShortCommit(s.GitCommit))
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)
}

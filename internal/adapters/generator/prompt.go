package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xvierd/studyflow/internal/domain"
)

const systemPrompt = `You are a friendly but disciplined study coach. ` +
	`You reply with a single JSON object and nothing else.`

// buildPrompt renders the scheduling rules for profile.
func buildPrompt(profile *domain.UserProfile) string {
	subjects := append([]*domain.Subject(nil), profile.Subjects...)
	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].StrengthRating < subjects[j].StrengthRating
	})

	var lines []string
	for _, s := range subjects {
		lines = append(lines, fmt.Sprintf(
			"- Subject: %s, Strength Rating: %d/10 (1=weakest, 10=strongest), Syllabus Units: %d, Progress: %d units done, Current topic: %s",
			s.Name, s.StrengthRating, s.SyllabusSize, s.CompletedTopics, orDash(s.CurrentTopic)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create today's study routine for %s.\n\n", profile.Name)
	fmt.Fprintf(&b, "Rules:\n")
	fmt.Fprintf(&b, "1. The day starts at %s and ends at %s.\n", profile.WakeUpTime, profile.SleepTime)
	fmt.Fprintf(&b, "2. The first study session must be the subject with the lowest strength rating, category \"frog\".\n")
	fmt.Fprintf(&b, "3. Study blocks are 25-minute focus sessions followed by 5-minute breaks; after every 4 sessions schedule a 20-minute long break. Number sessions with pomodoroCycle 1-4.\n")
	fmt.Fprintf(&b, "4. Intensity is %s: low means more rest and fewer sessions, high means a tight schedule with more sessions.\n", profile.Intensity)
	fmt.Fprintf(&b, "5. Weak subjects (rating 1-5) get double the time of strong subjects (rating 8-10).\n")
	fmt.Fprintf(&b, "6. Include breakfast, lunch and dinner (category \"meal\"), one 15-minute stretch or walk after a long block (category \"exercise\"), and water reminders.\n")
	fmt.Fprintf(&b, "7. Every block gets a short motivational quote and a single emoji icon.\n\n")
	fmt.Fprintf(&b, "Subjects:\n%s\n\n", strings.Join(lines, "\n"))
	fmt.Fprintf(&b, `Respond with JSON of this shape:
{"assessment":{"strongSubjects":[],"weakSubjects":[],"strategy":"","totalStudyHours":0},
 "schedule":[{"time":"HH:MM","task":"","category":"study|break|life|frog|meal|exercise","quote":"","icon":"","durationMinutes":0,"pomodoroCycle":0}],
 "dailyGoals":["3-5 specific syllabus milestones"],
 "recommendation":""}`)
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Package suggestion derives prioritized study recommendations from the
// current progress, the catalog and the study plan.
package suggestion

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/clock"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

type Category string

const (
	CategoryStreak Category = "streak"
	CategoryModule Category = "module"
	CategoryReview Category = "review"
	CategoryTask   Category = "task"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// rank orders priorities from the most to the least urgent.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Action is where the user can go to act on a suggestion.
type Action struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type Suggestion struct {
	ID       string   `json:"id"`
	Category Category `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority Priority `json:"priority"`
	Action   *Action  `json:"action,omitempty"`
}

// moduleHighThreshold is the completion percentage above which finishing a
// module becomes a high priority.
const moduleHighThreshold = 60

// Generate evaluates every rule against the state at now and returns the
// suggestions ordered by priority. Suggestions of the same priority keep
// the order of the rules that produced them.
func Generate(p progress.UserProgress, modules []catalog.Module, tasks []progress.StudyTask, now time.Time) []Suggestion {
	var suggestions []Suggestion
	daysSinceActive := clock.DaysBetween(p.LastActiveDate, now)

	if daysSinceActive > 1 && p.CurrentStreak > 0 {
		suggestions = append(suggestions, Suggestion{
			ID:       "streak-warning",
			Category: CategoryStreak,
			Title:    "Keep your streak alive! 🔥",
			Message: fmt.Sprintf("You haven't studied in %d days. Complete a lesson today to maintain your %d-day streak!",
				daysSinceActive, p.CurrentStreak),
			Priority: PriorityHigh,
			Action:   &Action{Label: "Start Learning", Path: "/learn"},
		})
	}

	if p.CurrentStreak == 0 && daysSinceActive == 0 {
		suggestions = append(suggestions, Suggestion{
			ID:       "start-streak",
			Category: CategoryStreak,
			Title:    "Start a new streak!",
			Message:  "Complete a lesson today to begin your learning streak.",
			Priority: PriorityMedium,
		})
	}

	for _, m := range modules {
		if s, ok := moduleSuggestion(p, m); ok {
			suggestions = append(suggestions, s)
		}
	}

	if due := countDueToday(tasks, now); due > 0 {
		suggestions = append(suggestions, Suggestion{
			ID:       "tasks-due",
			Category: CategoryTask,
			Title:    fmt.Sprintf("%d %s due today", due, plural(due, "task", "tasks")),
			Message:  fmt.Sprintf("You have %d study %s to complete today.", due, plural(due, "task", "tasks")),
			Priority: PriorityHigh,
			Action:   &Action{Label: "View Tasks", Path: "/planner"},
		})
	}

	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		return a.Priority.rank() - b.Priority.rank()
	})
	return suggestions
}

func moduleSuggestion(p progress.UserProgress, m catalog.Module) (Suggestion, bool) {
	total := len(m.Lessons)
	if total == 0 {
		return Suggestion{}, false
	}
	completed := 0
	for _, l := range m.Lessons {
		if p.HasCompletedLesson(l.ID) {
			completed++
		}
	}
	if completed == 0 || completed == total {
		return Suggestion{}, false
	}

	percent := float64(completed) / float64(total) * 100
	remaining := total - completed
	priority := PriorityMedium
	if percent > moduleHighThreshold {
		priority = PriorityHigh
	}
	return Suggestion{
		ID:       "module-" + m.ID,
		Category: CategoryModule,
		Title:    "Finish " + m.Title,
		Message: fmt.Sprintf("You're %d%% complete with %s. %d %s remaining!",
			int(math.Round(percent)), m.Title, remaining, plural(remaining, "lesson", "lessons")),
		Priority: priority,
		Action:   &Action{Label: "Continue", Path: "/learn#" + m.ID},
	}, true
}

func countDueToday(tasks []progress.StudyTask, now time.Time) int {
	count := 0
	for _, t := range tasks {
		if !t.Completed && clock.SameDay(t.DueDate, now) {
			count++
		}
	}
	return count
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// Top returns at most n suggestions from the front of an ordered list.
func Top(suggestions []Suggestion, n int) []Suggestion {
	if n < 0 {
		n = 0
	}
	if len(suggestions) <= n {
		return suggestions
	}
	return suggestions[:n]
}

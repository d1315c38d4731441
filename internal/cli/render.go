package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/progress"
	"github.com/at-ishikawa/pmacademy/internal/statistics"
	"github.com/at-ishikawa/pmacademy/internal/suggestion"
)

const barWidth = 20

func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	filled = min(max(filled, 0), barWidth)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

func priorityColor(p suggestion.Priority) *color.Color {
	switch p {
	case suggestion.PriorityHigh:
		return color.New(color.FgRed)
	case suggestion.PriorityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// WriteLevel prints the level, the XP bar and the streak.
func (cli *InteractiveCLI) WriteLevel(stats statistics.Statistics) {
	_, _ = cli.bold.Fprint(cli.stdoutWriter, cli.printer.Sprintf("Level %d", stats.Level))
	cli.printf("  %s %.0f%%  %d XP (%d XP to next level)\n",
		bar(stats.LevelProgressPercent), stats.LevelProgressPercent, stats.XP, stats.XPToNextLevel)
	cli.printf("🔥 %d day streak (longest %d)\n", stats.CurrentStreak, stats.LongestStreak)
}

// WriteHome prints the dashboard: level, today's tasks and the top suggestions.
func (cli *InteractiveCLI) WriteHome(stats statistics.Statistics, today []progress.StudyTask, suggestions []suggestion.Suggestion) {
	cli.WriteLevel(stats)

	cli.println()
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, "Today's plan")
	if len(today) == 0 {
		cli.println("  Nothing planned for today.")
	}
	for _, t := range today {
		cli.printf("  %s %s\n", checkbox(t.Completed), t.Title)
	}
	cli.printf("  %d of %d tasks done today, daily goal %d lessons\n",
		stats.Tasks.CompletedToday, stats.Tasks.CompletedToday+stats.Tasks.DueToday, stats.DailyLessonGoal)

	cli.println()
	cli.WriteSuggestions(suggestions)
}

// WriteSuggestions prints suggestions in the given order.
func (cli *InteractiveCLI) WriteSuggestions(suggestions []suggestion.Suggestion) {
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, "Suggestions")
	if len(suggestions) == 0 {
		cli.println("  You're all caught up.")
		return
	}
	for _, s := range suggestions {
		_, _ = priorityColor(s.Priority).Fprintf(cli.stdoutWriter, "  [%s] ", s.Priority)
		cli.printf("%s: %s\n", s.Title, s.Message)
		if s.Action != nil {
			cli.printf("         → %s (%s)\n", s.Action.Label, s.Action.Path)
		}
	}
}

// WriteModules prints the learning path with completion and lock state.
func (cli *InteractiveCLI) WriteModules(modules []statistics.ModuleStatistics) {
	w := tabwriter.NewWriter(cli.stdoutWriter, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tMODULE\tLESSONS\tPROGRESS\tSTATUS")
	for _, m := range modules {
		status := "in progress"
		switch {
		case m.Completed:
			status = "completed"
		case m.Locked:
			status = "locked"
		case m.CompletedLessons == 0:
			status = "not started"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s %s\t%d/%d\t%s %.0f%%\t%s\n",
			m.ID, m.Icon, m.Title, m.CompletedLessons, m.TotalLessons, bar(m.Percent), m.Percent, status)
	}
	_ = w.Flush()
}

// WriteModule prints the lessons of a module.
func (cli *InteractiveCLI) WriteModule(module catalog.Module, p progress.UserProgress) {
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "%s %s\n", module.Icon, module.Title)
	if module.Description != "" {
		cli.println(module.Description)
	}
	if catalog.IsLocked(module, p.ModulesCompleted) {
		_, _ = color.New(color.FgYellow).Fprintf(cli.stdoutWriter, "🔒 Complete %s to unlock this module.\n", module.RequiredModule)
	}
	cli.println()

	w := tabwriter.NewWriter(cli.stdoutWriter, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\tLESSON\tTITLE\tTYPE\tXP")
	for _, l := range module.Lessons {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", checkbox(p.HasCompletedLesson(l.ID)), l.ID, l.Title, l.Type, l.XPReward)
	}
	_ = w.Flush()
}

// WriteTasks prints study tasks as a table.
func (cli *InteractiveCLI) WriteTasks(tasks []progress.StudyTask, now time.Time) {
	if len(tasks) == 0 {
		cli.println("No tasks.")
		return
	}
	w := tabwriter.NewWriter(cli.stdoutWriter, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\tID\tTITLE\tTYPE\tDUE\tLESSON")
	for _, t := range tasks {
		due := t.DueDate.Format(time.DateOnly)
		if t.IsOverdue(now) {
			due += " (overdue)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", checkbox(t.Completed), t.ID, t.Title, t.Type, due, t.LinkedLessonID)
	}
	_ = w.Flush()
}

// WriteProfile prints the statistics and the achievements.
func (cli *InteractiveCLI) WriteProfile(stats statistics.Statistics) {
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, "Profile")
	cli.printf("User: %s\n", stats.UserID)
	cli.WriteLevel(stats)
	cli.printf("Lessons: %d/%d completed\n", stats.LessonsCompleted, stats.TotalLessons)
	cli.printf("Tasks: %d/%d completed, %d due today, %d overdue\n",
		stats.Tasks.Completed, stats.Tasks.Total, stats.Tasks.DueToday, stats.Tasks.Overdue)

	cli.println()
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, cli.printer.Sprintf("Achievements (%d/%d)", stats.UnlockedCount(), len(stats.Achievements)))
	for _, a := range stats.Achievements {
		if a.Unlocked {
			cli.printf("  %s %s: %s (%s)\n", a.Icon, a.Title, a.Description, a.UnlockedDate.Format(time.DateOnly))
			continue
		}
		_, _ = color.New(color.Faint).Fprintf(cli.stdoutWriter, "  🔒 %s: %s\n", a.Title, a.Description)
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

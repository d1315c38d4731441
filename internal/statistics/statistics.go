// Package statistics aggregates progress, study tasks and the catalog into
// the figures shown on the profile and in reports.
package statistics

import (
	"slices"
	"time"

	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/clock"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

// Statistics is a snapshot of the learner's state at GeneratedAt.
type Statistics struct {
	GeneratedAt time.Time
	UserID      string

	Level                int
	XP                   int
	XPToNextLevel        int
	LevelProgressPercent float64

	CurrentStreak int
	LongestStreak int

	LessonsCompleted int
	TotalLessons     int
	DailyLessonGoal  int

	Modules      []ModuleStatistics
	Tasks        TaskStatistics
	Achievements []AchievementStatus
}

type ModuleStatistics struct {
	ID               string
	Title            string
	Icon             string
	CompletedLessons int
	TotalLessons     int
	Percent          float64
	Completed        bool
	Locked           bool
	XPEarned         int
	XPTotal          int
}

type TaskStatistics struct {
	Total          int
	Completed      int
	DueToday       int
	CompletedToday int
	DueThisWeek    int
	Overdue        int
}

// AchievementStatus joins an achievement definition with its unlock record.
type AchievementStatus struct {
	catalog.Achievement
	Unlocked     bool
	UnlockedDate time.Time
}

// Calculate builds the statistics of p and tasks against the catalog at now.
func Calculate(p progress.UserProgress, tasks []progress.StudyTask, c *catalog.Catalog, settings progress.Settings, now time.Time) Statistics {
	stats := Statistics{
		GeneratedAt:          now,
		UserID:               p.UserID,
		Level:                progress.CalculateLevel(p.XP),
		XP:                   p.XP,
		XPToNextLevel:        progress.XPToNextLevel(p.XP),
		LevelProgressPercent: progress.LevelProgressPercent(p.XP),
		CurrentStreak:        p.CurrentStreak,
		LongestStreak:        max(p.LongestStreak, p.CurrentStreak),
		LessonsCompleted:     len(p.LessonsCompleted),
		DailyLessonGoal:      settings.DailyLessonGoal,
		Tasks:                calculateTasks(tasks, now),
		Achievements:         joinAchievements(p, c.Achievements()),
	}

	for _, m := range c.Modules() {
		ms := calculateModule(p, m)
		stats.TotalLessons += ms.TotalLessons
		stats.Modules = append(stats.Modules, ms)
	}
	return stats
}

func calculateModule(p progress.UserProgress, m catalog.Module) ModuleStatistics {
	ms := ModuleStatistics{
		ID:           m.ID,
		Title:        m.Title,
		Icon:         m.Icon,
		TotalLessons: len(m.Lessons),
		Completed:    p.HasCompletedModule(m.ID),
		Locked:       catalog.IsLocked(m, p.ModulesCompleted),
		XPTotal:      m.TotalXP(),
	}
	for _, l := range m.Lessons {
		if p.HasCompletedLesson(l.ID) {
			ms.CompletedLessons++
			ms.XPEarned += l.XPReward
		}
	}
	if ms.TotalLessons > 0 {
		ms.Percent = float64(ms.CompletedLessons) / float64(ms.TotalLessons) * 100
	}
	return ms
}

func calculateTasks(tasks []progress.StudyTask, now time.Time) TaskStatistics {
	var ts TaskStatistics
	for _, t := range tasks {
		ts.Total++
		if t.Completed {
			ts.Completed++
		}
		if clock.SameDay(t.DueDate, now) {
			if t.Completed {
				ts.CompletedToday++
			} else {
				ts.DueToday++
			}
		}
		if !t.Completed && progress.TaskFilterWeek.Match(t, now) {
			ts.DueThisWeek++
		}
		if t.IsOverdue(now) {
			ts.Overdue++
		}
	}
	return ts
}

// joinAchievements lists the unlocked achievements first, most recent first,
// followed by the locked ones in catalog order.
func joinAchievements(p progress.UserProgress, definitions []catalog.Achievement) []AchievementStatus {
	unlocked := make(map[string]time.Time, len(p.Achievements))
	for _, a := range p.Achievements {
		unlocked[a.ID] = a.UnlockedDate
	}

	statuses := make([]AchievementStatus, 0, len(definitions))
	for _, d := range definitions {
		date, ok := unlocked[d.ID]
		statuses = append(statuses, AchievementStatus{
			Achievement:  d,
			Unlocked:     ok,
			UnlockedDate: date,
		})
	}
	slices.SortStableFunc(statuses, func(a, b AchievementStatus) int {
		switch {
		case a.Unlocked && !b.Unlocked:
			return -1
		case !a.Unlocked && b.Unlocked:
			return 1
		case a.Unlocked && b.Unlocked:
			return b.UnlockedDate.Compare(a.UnlockedDate)
		default:
			return 0
		}
	})
	return statuses
}

// UnlockedCount returns how many achievements are unlocked.
func (s Statistics) UnlockedCount() int {
	count := 0
	for _, a := range s.Achievements {
		if a.Unlocked {
			count++
		}
	}
	return count
}

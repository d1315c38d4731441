package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/progress"
	"github.com/at-ishikawa/pmacademy/internal/statistics"
	"github.com/at-ishikawa/pmacademy/internal/suggestion"
)

func TestBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{percent: 0, want: "[░░░░░░░░░░░░░░░░░░░░]"},
		{percent: 50, want: "[██████████░░░░░░░░░░]"},
		{percent: 100, want: "[████████████████████]"},
		{percent: 150, want: "[████████████████████]"},
		{percent: -10, want: "[░░░░░░░░░░░░░░░░░░░░]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bar(tt.percent), "percent %v", tt.percent)
	}
}

func TestInteractiveCLI_WriteHome(t *testing.T) {
	stats := statistics.Statistics{
		Level:                3,
		XP:                   1250,
		XPToNextLevel:        250,
		LevelProgressPercent: 50,
		CurrentStreak:        4,
		LongestStreak:        9,
		DailyLessonGoal:      5,
		Tasks:                statistics.TaskStatistics{DueToday: 1, CompletedToday: 1},
	}
	today := []progress.StudyTask{
		{ID: "task-1", Title: "Read the RICE notes", Completed: true},
		{ID: "task-2", Title: "Practice prioritization"},
	}
	suggestions := []suggestion.Suggestion{
		{
			ID:       "streak-at-risk",
			Title:    "Keep your streak alive!",
			Message:  "Complete a lesson today.",
			Priority: suggestion.PriorityHigh,
			Action:   &suggestion.Action{Label: "Start Learning", Path: "/learn"},
		},
	}

	cli, out := newTestCLI("")
	cli.WriteHome(stats, today, suggestions)

	got := out.String()
	assert.Contains(t, got, "Level 3")
	assert.Contains(t, got, "1,250 XP (250 XP to next level)")
	assert.Contains(t, got, "4 day streak (longest 9)")
	assert.Contains(t, got, "[x] Read the RICE notes")
	assert.Contains(t, got, "[ ] Practice prioritization")
	assert.Contains(t, got, "1 of 2 tasks done today, daily goal 5 lessons")
	assert.Contains(t, got, "[high] Keep your streak alive!: Complete a lesson today.")
	assert.Contains(t, got, "→ Start Learning (/learn)")
}

func TestInteractiveCLI_WriteSuggestions_Empty(t *testing.T) {
	cli, out := newTestCLI("")
	cli.WriteSuggestions(nil)
	assert.Contains(t, out.String(), "You're all caught up.")
}

func TestInteractiveCLI_WriteModules(t *testing.T) {
	cli, out := newTestCLI("")
	cli.WriteModules([]statistics.ModuleStatistics{
		{ID: "pm-fundamentals", Title: "PM Fundamentals", CompletedLessons: 3, TotalLessons: 3, Percent: 100, Completed: true},
		{ID: "prioritization", Title: "Prioritization", TotalLessons: 3, Locked: true},
		{ID: "discovery", Title: "Discovery", CompletedLessons: 1, TotalLessons: 2, Percent: 50},
		{ID: "roadmaps", Title: "Roadmaps", TotalLessons: 2},
	})

	got := out.String()
	assert.Contains(t, got, "ID")
	assert.Regexp(t, `pm-fundamentals\s+PM Fundamentals\s+3/3\s+\S+ 100%\s+completed`, got)
	assert.Regexp(t, `prioritization\s+Prioritization\s+0/3\s+\S+ 0%\s+locked`, got)
	assert.Regexp(t, `discovery\s+Discovery\s+1/2\s+\S+ 50%\s+in progress`, got)
	assert.Regexp(t, `roadmaps\s+Roadmaps\s+0/2\s+\S+ 0%\s+not started`, got)
}

func TestInteractiveCLI_WriteModule(t *testing.T) {
	module := catalog.Module{
		ID:             "prioritization",
		Title:          "Prioritization",
		Description:    "Decide what comes first.",
		RequiredModule: "pm-fundamentals",
		Lessons: []catalog.Lesson{
			{ID: "prioritization-1", Title: "RICE", Type: catalog.LessonTypeConcept, XPReward: 100},
		},
	}

	tests := []struct {
		name       string
		progress   progress.UserProgress
		wantLocked bool
		wantDone   bool
	}{
		{
			name:       "locked",
			progress:   progress.UserProgress{},
			wantLocked: true,
		},
		{
			name: "unlocked with a completed lesson",
			progress: progress.UserProgress{
				ModulesCompleted: []string{"pm-fundamentals"},
				LessonsCompleted: []string{"prioritization-1"},
			},
			wantDone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out := newTestCLI("")
			cli.WriteModule(module, tt.progress)

			got := out.String()
			assert.Contains(t, got, "Decide what comes first.")
			if tt.wantLocked {
				assert.Contains(t, got, "Complete pm-fundamentals to unlock this module.")
			} else {
				assert.NotContains(t, got, "to unlock")
			}
			if tt.wantDone {
				assert.Regexp(t, `\[x\]\s+prioritization-1\s+RICE\s+concept\s+100`, got)
			} else {
				assert.Regexp(t, `\[ \]\s+prioritization-1`, got)
			}
		})
	}
}

func TestInteractiveCLI_WriteTasks(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("no tasks", func(t *testing.T) {
		cli, out := newTestCLI("")
		cli.WriteTasks(nil, now)
		assert.Equal(t, "No tasks.\n", out.String())
	})

	t.Run("overdue task is marked", func(t *testing.T) {
		cli, out := newTestCLI("")
		cli.WriteTasks([]progress.StudyTask{
			{ID: "task-1", Title: "Late", Type: progress.TaskTypeReading, DueDate: now.AddDate(0, 0, -2)},
			{ID: "task-2", Title: "Done", Type: progress.TaskTypeLesson, Completed: true, DueDate: now.AddDate(0, 0, -2), LinkedLessonID: "pm-fundamentals-1"},
		}, now)

		got := out.String()
		assert.Regexp(t, `\[ \]\s+task-1\s+Late\s+reading\s+2025-03-08 \(overdue\)`, got)
		assert.Regexp(t, `\[x\]\s+task-2\s+Done\s+lesson\s+2025-03-08\s+pm-fundamentals-1`, got)
	})
}

func TestInteractiveCLI_WriteProfile(t *testing.T) {
	unlocked := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	stats := statistics.Statistics{
		UserID:           "user-1",
		Level:            1,
		LessonsCompleted: 1,
		TotalLessons:     6,
		Tasks:            statistics.TaskStatistics{Total: 4, Completed: 1, DueToday: 2, Overdue: 1},
		Achievements: []statistics.AchievementStatus{
			{Achievement: catalog.Achievement{ID: "first-step", Title: "First Step", Description: "Complete your first lesson", Icon: "🎯"}, Unlocked: true, UnlockedDate: unlocked},
			{Achievement: catalog.Achievement{ID: "on-a-roll", Title: "On a Roll", Description: "Maintain a 7-day streak"}},
		},
	}

	cli, out := newTestCLI("")
	cli.WriteProfile(stats)

	got := out.String()
	require.NotEmpty(t, got)
	assert.Contains(t, got, "User: user-1")
	assert.Contains(t, got, "Lessons: 1/6 completed")
	assert.Contains(t, got, "Tasks: 1/4 completed, 2 due today, 1 overdue")
	assert.Contains(t, got, "Achievements (1/2)")
	assert.Contains(t, got, "🎯 First Step: Complete your first lesson (2025-03-01)")
	assert.Contains(t, got, "🔒 On a Roll: Maintain a 7-day streak")
}

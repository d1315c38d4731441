package suggestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

var now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newModule(id, title string, lessons int) catalog.Module {
	m := catalog.Module{ID: id, Title: title}
	for i := 1; i <= lessons; i++ {
		m.Lessons = append(m.Lessons, catalog.Lesson{
			ID:       id + "-" + string(rune('0'+i)),
			ModuleID: id,
		})
	}
	return m
}

func activeProgress(streak int, lastActive time.Time, lessons ...string) progress.UserProgress {
	p := progress.NewUserProgress("user-1", lastActive)
	p.CurrentStreak = streak
	p.LongestStreak = streak
	p.LessonsCompleted = append(p.LessonsCompleted, lessons...)
	return p
}

func ids(suggestions []Suggestion) []string {
	result := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		result = append(result, s.ID)
	}
	return result
}

func TestGenerate(t *testing.T) {
	fundamentals := newModule("pm-fundamentals", "PM Fundamentals", 3)
	prioritization := newModule("prioritization", "Prioritization", 3)
	modules := []catalog.Module{fundamentals, prioritization}

	tests := []struct {
		name     string
		progress progress.UserProgress
		tasks    []progress.StudyTask
		want     []Suggestion
	}{
		{
			name:     "fresh user is asked to start a streak",
			progress: activeProgress(0, now),
			want: []Suggestion{
				{
					ID:       "start-streak",
					Category: CategoryStreak,
					Title:    "Start a new streak!",
					Message:  "Complete a lesson today to begin your learning streak.",
					Priority: PriorityMedium,
				},
			},
		},
		{
			name:     "active streak today has nothing to say",
			progress: activeProgress(3, now.Add(-time.Hour)),
			want:     nil,
		},
		{
			name:     "streak at risk",
			progress: activeProgress(4, now.AddDate(0, 0, -3)),
			want: []Suggestion{
				{
					ID:       "streak-warning",
					Category: CategoryStreak,
					Title:    "Keep your streak alive! 🔥",
					Message:  "You haven't studied in 3 days. Complete a lesson today to maintain your 4-day streak!",
					Priority: PriorityHigh,
					Action:   &Action{Label: "Start Learning", Path: "/learn"},
				},
			},
		},
		{
			name:     "yesterday is not at risk",
			progress: activeProgress(4, now.AddDate(0, 0, -1)),
			want:     nil,
		},
		{
			name:     "one task due today",
			progress: activeProgress(2, now),
			tasks: []progress.StudyTask{
				{ID: "task-1", Title: "Read", Type: progress.TaskTypeReading, DueDate: now.Add(-10 * time.Hour)},
				{ID: "task-2", Title: "Later", Type: progress.TaskTypeOther, DueDate: now.AddDate(0, 0, 1)},
				{ID: "task-3", Title: "Done", Type: progress.TaskTypeOther, DueDate: now, Completed: true, CompletedDate: &now},
			},
			want: []Suggestion{
				{
					ID:       "tasks-due",
					Category: CategoryTask,
					Title:    "1 task due today",
					Message:  "You have 1 study task to complete today.",
					Priority: PriorityHigh,
					Action:   &Action{Label: "View Tasks", Path: "/planner"},
				},
			},
		},
		{
			name:     "module two thirds done is high priority",
			progress: activeProgress(2, now, "pm-fundamentals-1", "pm-fundamentals-2"),
			want: []Suggestion{
				{
					ID:       "module-pm-fundamentals",
					Category: CategoryModule,
					Title:    "Finish PM Fundamentals",
					Message:  "You're 67% complete with PM Fundamentals. 1 lesson remaining!",
					Priority: PriorityHigh,
					Action:   &Action{Label: "Continue", Path: "/learn#pm-fundamentals"},
				},
			},
		},
		{
			name:     "module one third done is medium priority",
			progress: activeProgress(2, now, "prioritization-1"),
			want: []Suggestion{
				{
					ID:       "module-prioritization",
					Category: CategoryModule,
					Title:    "Finish Prioritization",
					Message:  "You're 33% complete with Prioritization. 2 lessons remaining!",
					Priority: PriorityMedium,
					Action:   &Action{Label: "Continue", Path: "/learn#prioritization"},
				},
			},
		},
		{
			name:     "completed module is not suggested",
			progress: activeProgress(2, now, "pm-fundamentals-1", "pm-fundamentals-2", "pm-fundamentals-3"),
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.progress, modules, tt.tasks, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_Order(t *testing.T) {
	modules := []catalog.Module{
		newModule("pm-fundamentals", "PM Fundamentals", 3),
		newModule("prioritization", "Prioritization", 3),
	}
	p := activeProgress(0, now, "pm-fundamentals-1", "prioritization-1", "prioritization-2")
	tasks := []progress.StudyTask{
		{ID: "task-1", DueDate: now},
		{ID: "task-2", DueDate: now},
	}

	got := Generate(p, modules, tasks, now)
	assert.Equal(t, []string{
		"module-prioritization",
		"tasks-due",
		"start-streak",
		"module-pm-fundamentals",
	}, ids(got))
	assert.Equal(t, "2 tasks due today", got[1].Title)
	assert.Equal(t, "You have 2 study tasks to complete today.", got[1].Message)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Priority.rank(), got[i].Priority.rank())
	}

	again := Generate(p, modules, tasks, now)
	assert.Equal(t, got, again)
}

func TestGenerate_DefaultCatalog(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	p := activeProgress(1, now, "prioritization-1", "prioritization-2")
	got := Generate(p, c.Modules(), nil, now)
	require.Len(t, got, 1)
	assert.Equal(t, "module-prioritization", got[0].ID)
	assert.Equal(t, PriorityHigh, got[0].Priority)
	assert.Contains(t, got[0].Message, "1 lesson remaining!")
}

func TestTop(t *testing.T) {
	list := []Suggestion{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "fewer than available", n: 3, want: []string{"a", "b", "c"}},
		{name: "more than available", n: 10, want: []string{"a", "b", "c", "d"}},
		{name: "zero", n: 0, want: []string{}},
		{name: "negative", n: -1, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Top(list, tt.n)))
		})
	}
}

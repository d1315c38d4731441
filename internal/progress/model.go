// Package progress holds the learner's progress record and study tasks,
// the XP/level and streak rules applied to them, and the Store that
// mutates and persists both.
package progress

import (
	"slices"
	"time"
)

// UserProgress is the persisted progress record of the single local user.
// JSON names match the storage format of existing backups.
type UserProgress struct {
	UserID           string                `json:"userId"`
	XP               int                   `json:"xp"`
	Level            int                   `json:"level"`
	CurrentStreak    int                   `json:"currentStreak"`
	LongestStreak    int                   `json:"longestStreak"`
	LessonsCompleted []string              `json:"lessonsCompleted"`
	ModulesCompleted []string              `json:"modulesCompleted"`
	Achievements     []UnlockedAchievement `json:"achievements"`
	LastActiveDate   time.Time             `json:"lastActiveDate"`
	IsSignedIn       bool                  `json:"isSignedIn"`
	Email            string                `json:"email,omitempty"`
}

// UnlockedAchievement records when an achievement was unlocked.
// Title, description and icon live in the catalog.
type UnlockedAchievement struct {
	ID           string    `json:"id"`
	UnlockedDate time.Time `json:"unlockedDate"`
}

// NewUserProgress returns the zero-valued record of a first-time user.
func NewUserProgress(userID string, now time.Time) UserProgress {
	return UserProgress{
		UserID:           userID,
		Level:            1,
		LessonsCompleted: []string{},
		ModulesCompleted: []string{},
		Achievements:     []UnlockedAchievement{},
		LastActiveDate:   now,
	}
}

// HasCompletedLesson reports whether lessonID is in the completed set.
func (p UserProgress) HasCompletedLesson(lessonID string) bool {
	return slices.Contains(p.LessonsCompleted, lessonID)
}

// HasCompletedModule reports whether moduleID is in the completed set.
func (p UserProgress) HasCompletedModule(moduleID string) bool {
	return slices.Contains(p.ModulesCompleted, moduleID)
}

// HasAchievement reports whether the achievement was unlocked.
func (p UserProgress) HasAchievement(achievementID string) bool {
	return slices.ContainsFunc(p.Achievements, func(a UnlockedAchievement) bool {
		return a.ID == achievementID
	})
}

// Clone returns a deep copy.
func (p UserProgress) Clone() UserProgress {
	p.LessonsCompleted = slices.Clone(p.LessonsCompleted)
	p.ModulesCompleted = slices.Clone(p.ModulesCompleted)
	p.Achievements = slices.Clone(p.Achievements)
	return p
}

// normalize restores the invariants of a record read from storage.
// Imported data is stored as-is, so nothing else guarantees them.
func (p UserProgress) normalize() UserProgress {
	if p.XP < 0 {
		p.XP = 0
	}
	if p.CurrentStreak < 0 {
		p.CurrentStreak = 0
	}
	p.Level = CalculateLevel(p.XP)
	p.LongestStreak = max(p.LongestStreak, p.CurrentStreak)
	p.LessonsCompleted = dedupe(p.LessonsCompleted)
	p.ModulesCompleted = dedupe(p.ModulesCompleted)

	achievements := make([]UnlockedAchievement, 0, len(p.Achievements))
	seen := make(map[string]struct{}, len(p.Achievements))
	for _, a := range p.Achievements {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		achievements = append(achievements, a)
	}
	p.Achievements = achievements
	return p
}

func dedupe(ids []string) []string {
	result := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// TaskType is the category of a study task.
type TaskType string

const (
	TaskTypeLesson   TaskType = "lesson"
	TaskTypeReading  TaskType = "reading"
	TaskTypePractice TaskType = "practice"
	TaskTypeReview   TaskType = "review"
	TaskTypeOther    TaskType = "other"
)

// TaskTypes lists every valid task type in display order.
func TaskTypes() []TaskType {
	return []TaskType{TaskTypeLesson, TaskTypeReading, TaskTypePractice, TaskTypeReview, TaskTypeOther}
}

// Valid reports whether t is one of TaskTypes.
func (t TaskType) Valid() bool {
	return slices.Contains(TaskTypes(), t)
}

// StudyTask is an item of the user's study plan.
// CompletedDate is set if and only if Completed is true.
type StudyTask struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Type           TaskType   `json:"type"`
	Completed      bool       `json:"completed"`
	DueDate        time.Time  `json:"dueDate"`
	CreatedDate    time.Time  `json:"createdDate"`
	CompletedDate  *time.Time `json:"completedDate,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	LinkedLessonID string     `json:"linkedLessonId,omitempty"`
}

// NewTask is the user supplied part of a StudyTask.
type NewTask struct {
	Title          string   `validate:"required"`
	Type           TaskType `validate:"required,oneof=lesson reading practice review other"`
	Completed      bool
	DueDate        time.Time `validate:"required"`
	Notes          string
	LinkedLessonID string
}

// TaskUpdate holds the fields to change on a task. Nil fields are left as they are.
type TaskUpdate struct {
	Title          *string
	Type           *TaskType
	Completed      *bool
	DueDate        *time.Time
	Notes          *string
	LinkedLessonID *string
}

// Settings are user preferences stored next to the progress record.
type Settings struct {
	DailyLessonGoal int `json:"dailyLessonGoal" validate:"gte=1,lte=50"`
}

// DefaultDailyLessonGoal is the number of lessons per day the dashboard aims for.
const DefaultDailyLessonGoal = 5

// DefaultSettings returns the settings of a first-time user.
func DefaultSettings() Settings {
	return Settings{DailyLessonGoal: DefaultDailyLessonGoal}
}

// SampleTasks returns the study plan shown on first run.
func SampleTasks(now time.Time) []StudyTask {
	completedAt := now
	nextWeek := now.AddDate(0, 0, 7)
	return []StudyTask{
		{
			ID:             "task-1",
			Title:          "Complete 'What is Product Management?' lesson",
			Type:           TaskTypeLesson,
			DueDate:        now,
			CreatedDate:    now,
			LinkedLessonID: "pm-fundamentals-1",
		},
		{
			ID:          "task-2",
			Title:       "Review RICE Framework notes",
			Type:        TaskTypeReview,
			DueDate:     now,
			CreatedDate: now,
		},
		{
			ID:            "task-3",
			Title:         "Read article on product metrics",
			Type:          TaskTypeReading,
			Completed:     true,
			DueDate:       now,
			CreatedDate:   now,
			CompletedDate: &completedAt,
		},
		{
			ID:          "task-4",
			Title:       "Finish Prioritization Module",
			Type:        TaskTypeLesson,
			DueDate:     nextWeek,
			CreatedDate: now,
		},
	}
}

package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/at-ishikawa/pmacademy/internal/clock"
)

var (
	// ErrNegativeExperience is returned when a negative XP amount is added.
	ErrNegativeExperience = errors.New("experience amount must not be negative")
	// ErrInvalidTask is returned when a task lacks a required field.
	ErrInvalidTask = errors.New("invalid study task")
	// ErrInvalidSettings is returned when settings are out of range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Repository reads and writes the persisted state of the Store.
// Load methods return nil (or found=false) when nothing is stored.
type Repository interface {
	LoadUserProgress(ctx context.Context) (*UserProgress, error)
	SaveUserProgress(ctx context.Context, progress UserProgress) error
	LoadStudyTasks(ctx context.Context) ([]StudyTask, bool, error)
	SaveStudyTasks(ctx context.Context, tasks []StudyTask) error
	LoadSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
}

// Store is the single owner of the user's progress and study tasks.
// Every mutation is written through to the Repository. A failed write is
// logged and the in-memory state stays authoritative.
// A Store is not safe for concurrent use.
type Store struct {
	repo     Repository
	clock    clock.Clock
	newID    func() string
	logger   *slog.Logger
	validate *validator.Validate

	progress UserProgress
	tasks    []StudyTask
	settings Settings
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithIDGenerator replaces the random suffix used for user and task IDs.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) {
		s.newID = f
	}
}

// WithLogger sets the logger used for swallowed persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open loads the persisted state, initializing a first-time user when
// nothing is stored, applies the streak rule for today and persists the result.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:     repo,
		clock:    clock.System{},
		newID:    uuid.NewString,
		logger:   slog.Default(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	now := s.clock.Now()

	loaded, err := repo.LoadUserProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.LoadUserProgress() > %w", err)
	}
	if loaded == nil {
		s.progress = NewUserProgress("user-"+s.newID(), now)
		s.logger.InfoContext(ctx, "initialized a new user", slog.String("userId", s.progress.UserID))
	} else {
		s.progress = loaded.normalize()
	}

	tasks, found, err := repo.LoadStudyTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.LoadStudyTasks() > %w", err)
	}
	if found {
		s.tasks = tasks
	} else {
		s.tasks = SampleTasks(now)
	}

	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.LoadSettings() > %w", err)
	}
	if settings == nil {
		s.settings = DefaultSettings()
		s.saveSettings(ctx)
	} else {
		s.settings = *settings
	}

	decision := EvaluateStreak(s.progress.LastActiveDate, now)
	s.progress = ApplyStreak(s.progress, decision, now)
	s.logger.DebugContext(ctx, "evaluated streak",
		slog.Int("daysSinceActive", decision.DaysSinceActive),
		slog.Bool("increment", decision.ShouldIncrement),
		slog.Bool("reset", decision.Reset),
		slog.Int("currentStreak", s.progress.CurrentStreak),
	)

	s.saveProgress(ctx)
	s.saveTasks(ctx)
	return s, nil
}

// Progress returns a copy of the current progress record.
func (s *Store) Progress() UserProgress {
	return s.progress.Clone()
}

// Tasks returns a copy of the study task list.
func (s *Store) Tasks() []StudyTask {
	return slices.Clone(s.tasks)
}

// Task returns the task with the given ID.
func (s *Store) Task(taskID string) (StudyTask, bool) {
	i := s.taskIndex(taskID)
	if i < 0 {
		return StudyTask{}, false
	}
	return s.tasks[i], true
}

// Settings returns the current settings.
func (s *Store) Settings() Settings {
	return s.settings
}

// Now returns the current time of the store's clock.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// AddExperience adds amount to the XP total, recomputes the level and marks
// the user active.
func (s *Store) AddExperience(ctx context.Context, amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeExperience, amount)
	}
	s.progress.XP += amount
	s.progress.Level = CalculateLevel(s.progress.XP)
	s.progress.LastActiveDate = s.clock.Now()
	s.saveProgress(ctx)
	return nil
}

// CompleteLesson marks a lesson as completed. It reports false when the
// lesson was already completed, in which case nothing changes.
// No XP is awarded here.
func (s *Store) CompleteLesson(ctx context.Context, lessonID string) bool {
	if s.progress.HasCompletedLesson(lessonID) {
		return false
	}
	s.progress.LessonsCompleted = append(s.progress.LessonsCompleted, lessonID)
	s.progress.LastActiveDate = s.clock.Now()
	s.saveProgress(ctx)
	return true
}

// CompleteModule marks a module as completed. It reports false when the
// module was already completed.
func (s *Store) CompleteModule(ctx context.Context, moduleID string) bool {
	if s.progress.HasCompletedModule(moduleID) {
		return false
	}
	s.progress.ModulesCompleted = append(s.progress.ModulesCompleted, moduleID)
	s.saveProgress(ctx)
	return true
}

// UnlockAchievement records the unlock time of an achievement. It reports
// false when the achievement was already unlocked.
func (s *Store) UnlockAchievement(ctx context.Context, achievementID string) bool {
	if s.progress.HasAchievement(achievementID) {
		return false
	}
	s.progress.Achievements = append(s.progress.Achievements, UnlockedAchievement{
		ID:           achievementID,
		UnlockedDate: s.clock.Now(),
	})
	s.saveProgress(ctx)
	return true
}

// AddTask appends a new task with a generated ID and creation time.
// Title and notes are trimmed, and a blank title is rejected.
func (s *Store) AddTask(ctx context.Context, data NewTask) (StudyTask, error) {
	data.Title = strings.TrimSpace(data.Title)
	data.Notes = strings.TrimSpace(data.Notes)
	if err := s.validate.Struct(data); err != nil {
		return StudyTask{}, fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	now := s.clock.Now()
	task := StudyTask{
		ID:             "task-" + s.newID(),
		Title:          data.Title,
		Type:           data.Type,
		Completed:      data.Completed,
		DueDate:        data.DueDate,
		CreatedDate:    now,
		Notes:          data.Notes,
		LinkedLessonID: data.LinkedLessonID,
	}
	if task.Completed {
		task.CompletedDate = &now
	}

	s.tasks = append(s.tasks, task)
	s.saveTasks(ctx)
	return task, nil
}

// UpdateTask merges update into the task with the given ID. It reports
// false without error when no such task exists.
func (s *Store) UpdateTask(ctx context.Context, taskID string, update TaskUpdate) (bool, error) {
	i := s.taskIndex(taskID)
	if i < 0 {
		return false, nil
	}

	task := s.tasks[i]
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return true, fmt.Errorf("%w: title must not be empty", ErrInvalidTask)
		}
		task.Title = title
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return true, fmt.Errorf("%w: unknown type %q", ErrInvalidTask, *update.Type)
		}
		task.Type = *update.Type
	}
	if update.DueDate != nil {
		task.DueDate = *update.DueDate
	}
	if update.Notes != nil {
		task.Notes = strings.TrimSpace(*update.Notes)
	}
	if update.LinkedLessonID != nil {
		task.LinkedLessonID = *update.LinkedLessonID
	}
	if update.Completed != nil {
		task = s.setCompleted(task, *update.Completed)
	}

	s.tasks[i] = task
	s.saveTasks(ctx)
	return true, nil
}

// ToggleTask flips the completion flag of a task.
func (s *Store) ToggleTask(ctx context.Context, taskID string) (StudyTask, bool) {
	i := s.taskIndex(taskID)
	if i < 0 {
		return StudyTask{}, false
	}
	s.tasks[i] = s.setCompleted(s.tasks[i], !s.tasks[i].Completed)
	s.saveTasks(ctx)
	return s.tasks[i], true
}

// DeleteTask removes a task. It reports false when no such task exists.
func (s *Store) DeleteTask(ctx context.Context, taskID string) bool {
	i := s.taskIndex(taskID)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.saveTasks(ctx)
	return true
}

// UpdateSettings replaces the settings.
func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	s.settings = settings
	s.saveSettings(ctx)
	return nil
}

func (s *Store) setCompleted(task StudyTask, completed bool) StudyTask {
	if completed == task.Completed {
		return task
	}
	task.Completed = completed
	if completed {
		now := s.clock.Now()
		task.CompletedDate = &now
	} else {
		task.CompletedDate = nil
	}
	return task
}

func (s *Store) taskIndex(taskID string) int {
	return slices.IndexFunc(s.tasks, func(t StudyTask) bool {
		return t.ID == taskID
	})
}

func (s *Store) saveProgress(ctx context.Context) {
	if err := s.repo.SaveUserProgress(ctx, s.progress); err != nil {
		s.logger.ErrorContext(ctx, "failed to save user progress", slog.Any("error", err))
	}
}

func (s *Store) saveTasks(ctx context.Context) {
	if err := s.repo.SaveStudyTasks(ctx, s.tasks); err != nil {
		s.logger.ErrorContext(ctx, "failed to save study tasks", slog.Any("error", err))
	}
}

func (s *Store) saveSettings(ctx context.Context) {
	if err := s.repo.SaveSettings(ctx, s.settings); err != nil {
		s.logger.ErrorContext(ctx, "failed to save settings", slog.Any("error", err))
	}
}

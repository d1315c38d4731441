// Package learning runs the lesson workflow: starting a lesson, awarding its
// XP on first completion and closing modules and achievements as they are earned.
package learning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/pmacademy/internal/achievement"
	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrModuleLocked   = errors.New("module is locked")
)

//go:generate mockgen -source=service.go -destination=../mocks/learning/mock_service.go -package=mock_learning ProgressStore

// ProgressStore is the part of progress.Store the workflow mutates.
type ProgressStore interface {
	Progress() progress.UserProgress
	AddExperience(ctx context.Context, amount int) error
	CompleteLesson(ctx context.Context, lessonID string) bool
	CompleteModule(ctx context.Context, moduleID string) bool
	UnlockAchievement(ctx context.Context, achievementID string) bool
}

var _ ProgressStore = (*progress.Store)(nil)

type Service struct {
	store   ProgressStore
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewService(store ProgressStore, c *catalog.Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		catalog: c,
		logger:  logger,
	}
}

// LessonResult summarizes what finishing a lesson changed.
type LessonResult struct {
	Lesson catalog.Lesson
	Module catalog.Module
	// AlreadyCompleted is set when the lesson had been finished before;
	// nothing else changes in that case.
	AlreadyCompleted bool
	XPEarned         int
	LevelBefore      int
	LevelAfter       int
	ModuleCompleted  bool
	Achievements     []catalog.Achievement
}

// LeveledUp reports whether the lesson moved the user to a higher level.
func (r LessonResult) LeveledUp() bool {
	return r.LevelAfter > r.LevelBefore
}

// StartLesson returns the lesson and its module if the module is unlocked.
func (s *Service) StartLesson(lessonID string) (catalog.Lesson, catalog.Module, error) {
	lesson, ok := s.catalog.Lesson(lessonID)
	if !ok {
		return catalog.Lesson{}, catalog.Module{}, fmt.Errorf("%w: %s", ErrLessonNotFound, lessonID)
	}
	module, ok := s.catalog.Module(lesson.ModuleID)
	if !ok {
		return catalog.Lesson{}, catalog.Module{}, fmt.Errorf("%w: module %s of %s", ErrLessonNotFound, lesson.ModuleID, lessonID)
	}
	if catalog.IsLocked(module, s.store.Progress().ModulesCompleted) {
		return catalog.Lesson{}, catalog.Module{}, fmt.Errorf("%w: %s requires %s", ErrModuleLocked, module.ID, module.RequiredModule)
	}
	return lesson, module, nil
}

// FinishLesson records the completion of a lesson. The first completion
// awards the lesson's XP, completes the module when it was the last missing
// lesson and unlocks newly earned achievements.
func (s *Service) FinishLesson(ctx context.Context, lessonID string) (LessonResult, error) {
	lesson, module, err := s.StartLesson(lessonID)
	if err != nil {
		return LessonResult{}, err
	}

	before := s.store.Progress()
	result := LessonResult{
		Lesson:      lesson,
		Module:      module,
		LevelBefore: before.Level,
		LevelAfter:  before.Level,
	}
	if !s.store.CompleteLesson(ctx, lesson.ID) {
		result.AlreadyCompleted = true
		return result, nil
	}
	if err := s.store.AddExperience(ctx, lesson.XPReward); err != nil {
		return result, fmt.Errorf("store.AddExperience() > %w", err)
	}
	result.XPEarned = lesson.XPReward

	after := s.store.Progress()
	if !after.HasCompletedModule(module.ID) && allCompleted(after, module) {
		result.ModuleCompleted = s.store.CompleteModule(ctx, module.ID)
		after = s.store.Progress()
	}
	result.LevelAfter = after.Level

	for _, id := range achievement.Earned(after, s.catalog) {
		if !s.store.UnlockAchievement(ctx, id) {
			continue
		}
		a, _ := s.catalog.Achievement(id)
		result.Achievements = append(result.Achievements, a)
	}

	s.logger.DebugContext(ctx, "finished a lesson",
		slog.String("lessonId", lesson.ID),
		slog.Int("xpEarned", result.XPEarned),
		slog.Bool("moduleCompleted", result.ModuleCompleted),
		slog.Int("achievements", len(result.Achievements)),
	)
	return result, nil
}

// UnlockAchievement unlocks a catalog achievement by hand, for the ones no
// rule can detect.
func (s *Service) UnlockAchievement(ctx context.Context, achievementID string) (catalog.Achievement, bool, error) {
	a, ok := s.catalog.Achievement(achievementID)
	if !ok {
		return catalog.Achievement{}, false, fmt.Errorf("unknown achievement %s", achievementID)
	}
	return a, s.store.UnlockAchievement(ctx, achievementID), nil
}

func allCompleted(p progress.UserProgress, module catalog.Module) bool {
	for _, l := range module.Lessons {
		if !p.HasCompletedLesson(l.ID) {
			return false
		}
	}
	return true
}

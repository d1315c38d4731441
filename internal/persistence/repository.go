// Package persistence maps the progress state onto the fixed keys of a blob store.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/at-ishikawa/pmacademy/internal/blobstore"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

const (
	ProgressKey = "pm_academy_progress"
	TasksKey    = "pm_academy_study_tasks"
	SettingsKey = "pm_academy_settings"
)

// Keys returns every key owned by the application.
func Keys() []string {
	return []string{ProgressKey, TasksKey, SettingsKey}
}

// Repository implements progress.Repository on top of a blobstore.Store.
type Repository struct {
	store  blobstore.Store
	logger *slog.Logger
}

var _ progress.Repository = (*Repository)(nil)

func NewRepository(store blobstore.Store) *Repository {
	return &Repository{
		store:  store,
		logger: slog.Default(),
	}
}

// WithLogger returns a copy of the repository that logs to logger.
func (r *Repository) WithLogger(logger *slog.Logger) *Repository {
	return &Repository{
		store:  r.store,
		logger: logger,
	}
}

// Store returns the underlying blob store.
func (r *Repository) Store() blobstore.Store {
	return r.store
}

func (r *Repository) LoadUserProgress(ctx context.Context) (*progress.UserProgress, error) {
	var p progress.UserProgress
	found, err := r.load(ctx, ProgressKey, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) SaveUserProgress(ctx context.Context, p progress.UserProgress) error {
	return r.save(ctx, ProgressKey, p)
}

func (r *Repository) LoadStudyTasks(ctx context.Context) ([]progress.StudyTask, bool, error) {
	var tasks []progress.StudyTask
	found, err := r.load(ctx, TasksKey, &tasks)
	if err != nil || !found {
		return nil, false, err
	}
	if tasks == nil {
		tasks = []progress.StudyTask{}
	}
	return tasks, true, nil
}

func (r *Repository) SaveStudyTasks(ctx context.Context, tasks []progress.StudyTask) error {
	if tasks == nil {
		tasks = []progress.StudyTask{}
	}
	return r.save(ctx, TasksKey, tasks)
}

func (r *Repository) LoadSettings(ctx context.Context) (*progress.Settings, error) {
	var s progress.Settings
	found, err := r.load(ctx, SettingsKey, &s)
	if err != nil || !found {
		return nil, err
	}
	if s.DailyLessonGoal <= 0 {
		s.DailyLessonGoal = progress.DefaultDailyLessonGoal
	}
	return &s, nil
}

func (r *Repository) SaveSettings(ctx context.Context, s progress.Settings) error {
	return r.save(ctx, SettingsKey, s)
}

// GetRaw returns the stored text of a key as is.
func (r *Repository) GetRaw(ctx context.Context, key string) (string, bool, error) {
	value, found, err := r.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("store.Get(%s) > %w", key, err)
	}
	return value, found, nil
}

// SetRaw stores text under a key without decoding it.
func (r *Repository) SetRaw(ctx context.Context, key, value string) error {
	if err := r.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", key, err)
	}
	return nil
}

// ClearAll deletes every application key. All keys are attempted even if
// some deletions fail.
func (r *Repository) ClearAll(ctx context.Context) error {
	var errs []error
	for _, key := range Keys() {
		if err := r.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("store.Delete(%s) > %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// load decodes the value of key into v. A value that cannot be decoded is
// logged and reported as not found.
func (r *Repository) load(ctx context.Context, key string, v any) (bool, error) {
	value, found, err := r.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("store.Get(%s) > %w", key, err)
	}
	if !found || strings.TrimSpace(value) == "null" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		r.logger.WarnContext(ctx, "ignoring stored value that cannot be parsed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return false, nil
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal() > %w", err)
	}
	if err := r.store.Set(ctx, key, string(body)); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", key, err)
	}
	return nil
}

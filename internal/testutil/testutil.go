// Package testutil provides shared test helpers for creating config files and
// seeding stored progress.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/pmacademy/internal/blobstore"
	"github.com/at-ishikawa/pmacademy/internal/persistence"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

// SetupTestConfig creates a config file that keeps blobs under tmpDir/storage
// and writes outputs under tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"storage", "reports", "backups"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`storage:
  backend: file
  directory: %s
outputs:
  report_directory: %s
  backup_directory: %s
`,
		filepath.Join(tmpDir, "storage"),
		filepath.Join(tmpDir, "reports"),
		filepath.Join(tmpDir, "backups"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SeedOption configures the state written by SeedStorage.
type SeedOption func(*seedConfig)

type seedConfig struct {
	progress progress.UserProgress
	tasks    []progress.StudyTask
	settings *progress.Settings
}

// WithProgress overrides the stored progress record.
func WithProgress(p progress.UserProgress) SeedOption {
	return func(cfg *seedConfig) {
		cfg.progress = p
	}
}

// WithTasks overrides the stored study tasks.
func WithTasks(tasks ...progress.StudyTask) SeedOption {
	return func(cfg *seedConfig) {
		cfg.tasks = tasks
	}
}

// WithSettings stores settings. Nothing is stored for settings by default.
func WithSettings(s progress.Settings) SeedOption {
	return func(cfg *seedConfig) {
		cfg.settings = &s
	}
}

// SeedStorage writes a returning user's state into the file blob store at
// storageDir. By default the user was active on now with one completed
// lesson and an empty task list.
func SeedStorage(t *testing.T, storageDir string, now time.Time, opts ...SeedOption) *persistence.Repository {
	t.Helper()

	p := progress.NewUserProgress("user-test", now)
	p.XP = 100
	p.LessonsCompleted = []string{"pm-fundamentals-1"}
	p.CurrentStreak = 1
	p.LongestStreak = 1
	cfg := seedConfig{
		progress: p,
		tasks:    []progress.StudyTask{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := context.Background()
	repo := persistence.NewRepository(blobstore.NewFileStore(storageDir))
	require.NoError(t, repo.SaveUserProgress(ctx, cfg.progress))
	require.NoError(t, repo.SaveStudyTasks(ctx, cfg.tasks))
	if cfg.settings != nil {
		require.NoError(t, repo.SaveSettings(ctx, *cfg.settings))
	}
	return repo
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/pmacademy/internal/datasync"
	"github.com/at-ishikawa/pmacademy/internal/progress"
	"github.com/at-ishikawa/pmacademy/internal/testutil"
)

func TestHomeCommand_FirstRun(t *testing.T) {
	cfgPath, tmpDir := setupWorkspace(t)

	out, err := execute(t, cfgPath, "", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "Complete 'What is Product Management?' lesson")
	assert.Contains(t, out, "Suggestions")

	for _, name := range []string{"pm_academy_progress.json", "pm_academy_study_tasks.json", "pm_academy_settings.json"} {
		assert.FileExists(t, filepath.Join(tmpDir, "storage", name))
	}
}

func TestLessonCommand(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		wantOutput []string
		wantXP     int
	}{
		{
			name:       "finishing awards XP and the first achievement",
			stdin:      "\n\n3\n2\n\n",
			wantOutput: []string{"Questions: 2/2 correct", "+50 XP", "Achievement unlocked: First Step"},
			wantXP:     50,
		},
		{
			name:       "leaving early records nothing",
			stdin:      "\nq\n",
			wantOutput: []string{"Lesson left before the end. Nothing was recorded."},
			wantXP:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath, _ := setupWorkspace(t)

			out, err := execute(t, cfgPath, tt.stdin, "lesson", "pm-fundamentals-1")
			require.NoError(t, err)
			for _, want := range tt.wantOutput {
				assert.Contains(t, out, want)
			}

			out, err = execute(t, cfgPath, "", "profile")
			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(`\b`+strconv.Itoa(tt.wantXP)+` XP \(`), out)
		})
	}
}

func TestLessonCommand_UnknownLesson(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	_, err := execute(t, cfgPath, "", "lesson", "missing")
	assert.ErrorContains(t, err, "lesson not found")
}

func TestModulesCommand(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	out, err := execute(t, cfgPath, "", "modules")
	require.NoError(t, err)
	assert.Regexp(t, `pm-fundamentals\s+.*not started`, out)
	assert.Regexp(t, `prioritization\s+.*Prioritization\s+0/3`, out)

	out, err = execute(t, cfgPath, "", "modules", "show", "pm-fundamentals")
	require.NoError(t, err)
	assert.Contains(t, out, "pm-fundamentals-1")

	_, err = execute(t, cfgPath, "", "modules", "show", "missing")
	assert.ErrorContains(t, err, "module missing not found")
}

func TestTasksCommands(t *testing.T) {
	cfgPath, tmpDir := setupWorkspace(t)
	now := time.Now()
	testutil.SeedStorage(t, filepath.Join(tmpDir, "storage"), now, testutil.WithTasks(progress.StudyTask{
		ID:          "task-seed",
		Title:       "Review RICE notes",
		Type:        progress.TaskTypeReview,
		DueDate:     now,
		CreatedDate: now,
	}))

	out, err := execute(t, cfgPath, "", "tasks", "add", "--title", "Read Inspired", "--type", "reading", "--due", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task-")

	out, err = execute(t, cfgPath, "", "tasks", "list", "--filter", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Review RICE notes")
	assert.NotContains(t, out, "Read Inspired")

	out, err = execute(t, cfgPath, "", "tasks", "list", "--filter", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "Read Inspired")

	out, err = execute(t, cfgPath, "", "tasks", "toggle", "task-seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Review RICE notes is done")

	out, err = execute(t, cfgPath, "", "tasks", "edit", "task-seed", "--title", "Review ICE notes", "--completed=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task-seed")

	out, err = execute(t, cfgPath, "", "tasks", "list")
	require.NoError(t, err)
	assert.Regexp(t, `\[ \]\s+task-seed\s+Review ICE notes`, out)

	out, err = execute(t, cfgPath, "", "tasks", "delete", "task-seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task-seed")

	for _, args := range [][]string{
		{"tasks", "toggle", "missing"},
		{"tasks", "delete", "missing"},
		{"tasks", "edit", "missing", "--title", "x"},
	} {
		out, err = execute(t, cfgPath, "", args...)
		require.NoError(t, err)
		assert.Contains(t, out, "No task missing")
	}
}

func TestTasksCommands_InvalidInput(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing title", args: []string{"tasks", "add"}, wantErr: `required flag(s) "title" not set`},
		{name: "blank title", args: []string{"tasks", "add", "--title", "   ", "--type", "other"}, wantErr: "title must not be blank"},
		{name: "blank title on edit", args: []string{"tasks", "edit", "task-1", "--title", " \t "}, wantErr: "title must not be blank"},
		{name: "unknown type", args: []string{"tasks", "add", "--title", "x", "--type", "watch"}, wantErr: `invalid value "watch"`},
		{name: "bad due date", args: []string{"tasks", "add", "--title", "x", "--due", "someday"}, wantErr: `invalid value "someday"`},
		{name: "unknown lesson", args: []string{"tasks", "add", "--title", "x", "--lesson", "missing"}, wantErr: "lesson missing not found"},
		{name: "bad filter", args: []string{"tasks", "list", "--filter", "month"}, wantErr: `unknown task filter "month"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, cfgPath, "", tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTasksCommands_TrimsInput(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	out, err := execute(t, cfgPath, "", "tasks", "add", "--title", "  Read book  ", "--type", "reading", "--notes", " ch. 1 ")
	require.NoError(t, err)
	match := regexp.MustCompile(`Added (task-\S+): Read book\n`).FindStringSubmatch(out)
	require.Len(t, match, 2, out)

	out, err = execute(t, cfgPath, "", "data", "export")
	require.NoError(t, err)
	var exported datasync.ExportData
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	var tasks []progress.StudyTask
	require.NoError(t, json.Unmarshal(exported.Tasks, &tasks))
	added := tasks[len(tasks)-1]
	assert.Equal(t, match[1], added.ID)
	assert.Equal(t, "Read book", added.Title)
	assert.Equal(t, "ch. 1", added.Notes)

	_, err = execute(t, cfgPath, "", "tasks", "edit", match[1], "--title", "  Read another book ")
	require.NoError(t, err)
	out, err = execute(t, cfgPath, "", "tasks", "list", "--filter", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Read another book")
}

func TestSettingsCommand(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	out, err := execute(t, cfgPath, "", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily lesson goal: 5")

	out, err = execute(t, cfgPath, "", "settings", "--daily-goal", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily lesson goal: 3")

	_, err = execute(t, cfgPath, "", "settings", "--daily-goal", "0")
	assert.ErrorContains(t, err, "invalid settings")
}

func TestAchievementsUnlockCommand(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	out, err := execute(t, cfgPath, "", "achievements", "unlock", "quiz-master")
	require.NoError(t, err)
	assert.Contains(t, out, "Achievement unlocked: Quiz Master")

	out, err = execute(t, cfgPath, "", "achievements", "unlock", "quiz-master")
	require.NoError(t, err)
	assert.Contains(t, out, "Quiz Master was already unlocked")

	_, err = execute(t, cfgPath, "", "achievements", "unlock", "missing")
	assert.ErrorContains(t, err, "unknown achievement missing")
}

func TestReportCommand(t *testing.T) {
	cfgPath, tmpDir := setupWorkspace(t)

	out, err := execute(t, cfgPath, "", "report")
	require.NoError(t, err)

	path := filepath.Join(tmpDir, "reports", reportFileName(time.Now()))
	assert.Contains(t, out, "Wrote "+path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}

func TestDataCommands(t *testing.T) {
	cfgPath, tmpDir := setupWorkspace(t)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	setClock(t, now)
	backupDir := filepath.Join(tmpDir, "custom-backups")

	_, err := execute(t, cfgPath, "", "tasks", "add", "--title", "Backed up task")
	require.NoError(t, err)

	out, err := execute(t, cfgPath, "", "data", "export")
	require.NoError(t, err)
	var exported datasync.ExportData
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Contains(t, string(exported.Tasks), "Backed up task")

	out, err = execute(t, cfgPath, "", "data", "export", "--output", backupDir)
	require.NoError(t, err)
	backupPath := filepath.Join(backupDir, datasync.BackupFileName(now))
	assert.Contains(t, out, "Wrote "+backupPath)
	assert.FileExists(t, backupPath)

	out, err = execute(t, cfgPath, "", "data", "export", "--backup")
	require.NoError(t, err)
	configuredPath := filepath.Join(tmpDir, "backups", datasync.BackupFileName(now))
	assert.Contains(t, out, "Wrote "+configuredPath)
	assert.FileExists(t, configuredPath)

	_, err = execute(t, cfgPath, "", "data", "clear")
	assert.ErrorContains(t, err, "--yes")

	out, err = execute(t, cfgPath, "", "data", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All data was deleted.")
	assert.NoFileExists(t, filepath.Join(tmpDir, "storage", "pm_academy_study_tasks.json"))

	out, err = execute(t, cfgPath, "", "data", "import", backupPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[NEW]  pm_academy_progress")
	assert.Contains(t, out, "Keys: 2 new, 0 updated, 0 skipped")

	out, err = execute(t, cfgPath, "", "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Backed up task")
}

func TestDataImportCommand_Invalid(t *testing.T) {
	cfgPath, tmpDir := setupWorkspace(t)
	path := filepath.Join(tmpDir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "an", "object"]`), 0644))

	_, err := execute(t, cfgPath, "", "data", "import", path)
	assert.ErrorIs(t, err, datasync.ErrInvalidImport)

	_, err = execute(t, cfgPath, "", "data", "import", filepath.Join(tmpDir, "missing.json"))
	assert.ErrorContains(t, err, "os.ReadFile")
}

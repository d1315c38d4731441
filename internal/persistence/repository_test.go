package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/pmacademy/internal/blobstore"
	mock_blobstore "github.com/at-ishikawa/pmacademy/internal/mocks/blobstore"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

func TestRepository_UserProgress(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		stored *string
		want   *progress.UserProgress
	}{
		{
			name:   "nothing stored",
			stored: nil,
			want:   nil,
		},
		{
			name:   "null is treated as absent",
			stored: ptr("null"),
			want:   nil,
		},
		{
			name:   "malformed json is treated as absent",
			stored: ptr(`{"xp":`),
			want:   nil,
		},
		{
			name:   "stored value",
			stored: ptr(`{"userId":"user-1","xp":750,"level":2,"currentStreak":3,"longestStreak":5,"lessonsCompleted":["pm-fundamentals-1"],"modulesCompleted":[],"achievements":[{"id":"first-step","unlockedDate":"2025-03-10T09:00:00Z"}],"lastActiveDate":"2025-03-10T09:00:00Z","isSignedIn":false}`),
			want: &progress.UserProgress{
				UserID:           "user-1",
				XP:               750,
				Level:            2,
				CurrentStreak:    3,
				LongestStreak:    5,
				LessonsCompleted: []string{"pm-fundamentals-1"},
				ModulesCompleted: []string{},
				Achievements:     []progress.UnlockedAchievement{{ID: "first-step", UnlockedDate: now}},
				LastActiveDate:   now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := blobstore.NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.Set(ctx, ProgressKey, *tt.stored))
			}

			got, err := NewRepository(store).LoadUserProgress(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := NewRepository(blobstore.NewMemoryStore())

	p := progress.NewUserProgress("user-1", now)
	p.XP = 120
	require.NoError(t, repo.SaveUserProgress(ctx, p))
	gotProgress, err := repo.LoadUserProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, &p, gotProgress)

	tasks := progress.SampleTasks(now)
	require.NoError(t, repo.SaveStudyTasks(ctx, tasks))
	gotTasks, found, err := repo.LoadStudyTasks(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, tasks, gotTasks)

	require.NoError(t, repo.SaveSettings(ctx, progress.Settings{DailyLessonGoal: 3}))
	gotSettings, err := repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, &progress.Settings{DailyLessonGoal: 3}, gotSettings)
}

func TestRepository_LoadStudyTasks(t *testing.T) {
	tests := []struct {
		name      string
		stored    *string
		want      []progress.StudyTask
		wantFound bool
	}{
		{
			name: "nothing stored",
		},
		{
			name:      "empty list is still found",
			stored:    ptr(`[]`),
			want:      []progress.StudyTask{},
			wantFound: true,
		},
		{
			name:   "not a list",
			stored: ptr(`{"id":"task-1"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := blobstore.NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.Set(ctx, TasksKey, *tt.stored))
			}

			got, found, err := NewRepository(store).LoadStudyTasks(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_SaveStudyTasks_NilIsEmptyList(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, NewRepository(store).SaveStudyTasks(ctx, nil))

	got, _, err := store.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestRepository_LoadSettings_DefaultsInvalidGoal(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, SettingsKey, `{"dailyLessonGoal":0}`))

	got, err := NewRepository(store).LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, progress.DefaultDailyLessonGoal, got.DailyLessonGoal)
}

func TestRepository_ReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_blobstore.NewMockStore(ctrl)
	store.EXPECT().
		Get(gomock.Any(), ProgressKey).
		Return("", false, fmt.Errorf("permission denied"))

	_, err := NewRepository(store).LoadUserProgress(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestRepository_ClearAll(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(store *mock_blobstore.MockStore)
		wantErrMsg []string
	}{
		{
			name: "deletes every key",
			setupMock: func(store *mock_blobstore.MockStore) {
				store.EXPECT().Delete(gomock.Any(), ProgressKey).Return(nil)
				store.EXPECT().Delete(gomock.Any(), TasksKey).Return(nil)
				store.EXPECT().Delete(gomock.Any(), SettingsKey).Return(nil)
			},
		},
		{
			name: "keeps deleting after a failure",
			setupMock: func(store *mock_blobstore.MockStore) {
				store.EXPECT().Delete(gomock.Any(), ProgressKey).Return(fmt.Errorf("locked"))
				store.EXPECT().Delete(gomock.Any(), TasksKey).Return(nil)
				store.EXPECT().Delete(gomock.Any(), SettingsKey).Return(fmt.Errorf("gone"))
			},
			wantErrMsg: []string{"store.Delete(pm_academy_progress) > locked", "store.Delete(pm_academy_settings) > gone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mock_blobstore.NewMockStore(ctrl)
			tt.setupMock(store)

			err := NewRepository(store).ClearAll(context.Background())
			if len(tt.wantErrMsg) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, msg := range tt.wantErrMsg {
				assert.ErrorContains(t, err, msg)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}

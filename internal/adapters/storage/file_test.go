package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lifehub.json")
	return NewFileStorage(path, logger.NewNop())
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	fs := newTestStorage(t)

	snapshot, err := fs.Load()
	require.NoError(t, err)

	assert.Empty(t, snapshot.Meals)
	assert.NotNil(t, snapshot.Meals)
	assert.NotNil(t, snapshot.StudyAreas)
	assert.NotNil(t, snapshot.Notifications)
	assert.Nil(t, snapshot.EmergencyReserve)
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	fs := newTestStorage(t)
	require.NoError(t, os.WriteFile(fs.Path(), []byte("{not json"), 0o644))

	snapshot, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, snapshot.Tasks)
	assert.NotNil(t, snapshot.Tasks)
}

func TestLoadNormalizesNilCollections(t *testing.T) {
	fs := newTestStorage(t)
	// Older blobs may omit collections entirely.
	require.NoError(t, os.WriteFile(fs.Path(), []byte(`{"meals":[{"id":"m1","name":"Oatmeal"}]}`), 0o644))

	snapshot, err := fs.Load()
	require.NoError(t, err)
	require.Len(t, snapshot.Meals, 1)
	assert.NotNil(t, snapshot.Workouts)
	assert.NotNil(t, snapshot.SleepRecords)
	assert.NotNil(t, snapshot.PersonalProjects)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := newTestStorage(t)

	taskID := "t1"
	snapshot := entities.NewSnapshot()
	snapshot.Meals = append(snapshot.Meals, entities.Meal{ID: "m1", Name: "Oatmeal", Calories: 320, TaskID: &taskID})
	snapshot.Tasks = append(snapshot.Tasks, entities.Task{
		ID:       "t1",
		Title:    "Prep breakfast",
		Status:   entities.TaskStatusTodo,
		Priority: entities.PriorityMedium,
	})
	snapshot.StudyAreas = append(snapshot.StudyAreas, entities.StudyArea{
		ID:   "a1",
		Name: "Math",
		Subjects: []entities.Subject{{
			ID:   "s1",
			Name: "Algebra",
			Classes: []entities.ClassSession{{
				ID:    "c1",
				Title: "Linear Equations",
				Pomodoros: []entities.PomodoroSession{{
					ID:              "p1",
					DurationMinutes: 25,
					CompletedAt:     time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
				}},
			}},
		}},
	})
	snapshot.EmergencyReserve = &entities.EmergencyReserve{TargetAmount: 9000, CurrentAmount: 4500}

	require.NoError(t, fs.Save(snapshot))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	fs := newTestStorage(t)

	first := entities.NewSnapshot()
	first.Meals = append(first.Meals, entities.Meal{ID: "m1", Name: "Oatmeal"})
	require.NoError(t, fs.Save(first))

	second := entities.NewSnapshot()
	second.Workouts = append(second.Workouts, entities.Workout{ID: "w1", Name: "Morning run"})
	require.NoError(t, fs.Save(second))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Meals)
	require.Len(t, loaded.Workouts, 1)
	assert.Equal(t, "w1", loaded.Workouts[0].ID)
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "lifehub.json")
	fs := NewFileStorage(path, logger.NewNop())

	require.NoError(t, fs.Save(entities.NewSnapshot()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	fs := newTestStorage(t)
	require.NoError(t, fs.Save(entities.NewSnapshot()))

	entries, err := os.ReadDir(filepath.Dir(fs.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(fs.Path()), entries[0].Name())
}

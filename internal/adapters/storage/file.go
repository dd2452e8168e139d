package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

// FileStorage persists the full snapshot to a single JSON file. The file is
// the one durable slot: every Save rewrites it whole, which costs O(size of
// entire state) per mutation. Acceptable only because target data volumes are
// small (single user, client-only data).
type FileStorage struct {
	path   string
	logger *logger.Logger
}

// NewFileStorage creates a file-backed snapshot storage
func NewFileStorage(path string, appLogger *logger.Logger) *FileStorage {
	return &FileStorage{
		path:   path,
		logger: appLogger.WithComponent("storage"),
	}
}

// Load reads the slot once at process start. A missing file means fresh
// install; an unparseable file is logged and treated the same way. Both seed
// every collection with its empty default.
func (fs *FileStorage) Load() (entities.Snapshot, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			fs.logger.Infow("No snapshot file, starting empty", "path", fs.path)
			return entities.NewSnapshot(), nil
		}
		return entities.NewSnapshot(), fmt.Errorf("failed to read snapshot: %w", err)
	}

	snapshot := entities.NewSnapshot()
	if err := json.Unmarshal(data, &snapshot); err != nil {
		fs.logger.Warnw("Snapshot file unparseable, starting empty", "path", fs.path, "error", err.Error())
		return entities.NewSnapshot(), nil
	}

	normalize(&snapshot)
	return snapshot, nil
}

// Save writes the complete snapshot atomically: marshal, write to a temp file
// in the same directory, rename over the slot.
func (fs *FileStorage) Save(snapshot entities.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// Path returns the slot location.
func (fs *FileStorage) Path() string {
	return fs.path
}

// normalize replaces nil collection slices from older or hand-edited blobs
// with empty ones so readers never see nil.
func normalize(s *entities.Snapshot) {
	empty := entities.NewSnapshot()
	if s.Meals == nil {
		s.Meals = empty.Meals
	}
	if s.Workouts == nil {
		s.Workouts = empty.Workouts
	}
	if s.SleepRecords == nil {
		s.SleepRecords = empty.SleepRecords
	}
	if s.HealthGoals == nil {
		s.HealthGoals = empty.HealthGoals
	}
	if s.Transactions == nil {
		s.Transactions = empty.Transactions
	}
	if s.FinancialGoals == nil {
		s.FinancialGoals = empty.FinancialGoals
	}
	if s.Investments == nil {
		s.Investments = empty.Investments
	}
	if s.Tasks == nil {
		s.Tasks = empty.Tasks
	}
	if s.StudyAreas == nil {
		s.StudyAreas = empty.StudyAreas
	}
	if s.PersonalProjects == nil {
		s.PersonalProjects = empty.PersonalProjects
	}
	if s.ProductivityGoals == nil {
		s.ProductivityGoals = empty.ProductivityGoals
	}
	if s.AttractionGoals == nil {
		s.AttractionGoals = empty.AttractionGoals
	}
	if s.Notifications == nil {
		s.Notifications = empty.Notifications
	}
}

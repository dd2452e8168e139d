package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
	"github.com/lifehub/core/internal/ports"
)

// memStorage is an in-memory SnapshotStorage recording every save.
type memStorage struct {
	snapshot  entities.Snapshot
	saveCount int
	loadErr   error
	saveErr   error
}

func newMemStorage() *memStorage {
	return &memStorage{snapshot: entities.NewSnapshot()}
}

func (m *memStorage) Load() (entities.Snapshot, error) {
	if m.loadErr != nil {
		return entities.NewSnapshot(), m.loadErr
	}
	return m.snapshot.Clone(), nil
}

func (m *memStorage) Save(snapshot entities.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshot = snapshot.Clone()
	m.saveCount++
	return nil
}

// fakeAlerter records alerts; permission transitions are test-controlled.
type fakeAlerter struct {
	permission ports.AlertPermission
	granted    ports.AlertPermission
	alerts     chan string
	requests   chan struct{}
}

func newFakeAlerter(initial, onRequest ports.AlertPermission) *fakeAlerter {
	return &fakeAlerter{
		permission: initial,
		granted:    onRequest,
		alerts:     make(chan string, 8),
		requests:   make(chan struct{}, 8),
	}
}

func (f *fakeAlerter) Permission() ports.AlertPermission { return f.permission }

func (f *fakeAlerter) RequestPermission(ctx context.Context) (ports.AlertPermission, error) {
	f.requests <- struct{}{}
	return f.granted, nil
}

func (f *fakeAlerter) Alert(title, message string) error {
	f.alerts <- title
	return nil
}

func newTestStore(t *testing.T) (*Store, *memStorage) {
	t.Helper()
	storage := newMemStorage()
	s, err := New(storage, nil, logger.NewNop())
	require.NoError(t, err)
	return s, storage
}

func strPtr(s string) *string { return &s }

func TestNewPropagatesLoadError(t *testing.T) {
	storage := newMemStorage()
	storage.loadErr = errors.New("disk gone")

	_, err := New(storage, nil, logger.NewNop())
	assert.Error(t, err)
}

func TestAddAndListMeals(t *testing.T) {
	s, storage := newTestStore(t)

	s.AddMeal(entities.Meal{ID: "m1", Name: "Oatmeal", Calories: 320})
	s.AddMeal(entities.Meal{ID: "m2", Name: "Salad", Calories: 180})

	meals := s.Meals()
	require.Len(t, meals, 2)
	// Display order is insertion order.
	assert.Equal(t, "m1", meals[0].ID)
	assert.Equal(t, "m2", meals[1].ID)
	assert.Equal(t, 2, storage.saveCount)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddMeal(entities.Meal{ID: "m1", Name: "Oatmeal", Calories: 320, Protein: 12})

	ok := s.UpdateMeal("m1", Patch{"calories": 400})
	require.True(t, ok)

	meals := s.Meals()
	require.Len(t, meals, 1)
	assert.Equal(t, 400.0, meals[0].Calories)
	// Untouched fields survive the merge.
	assert.Equal(t, "Oatmeal", meals[0].Name)
	assert.Equal(t, 12.0, meals[0].Protein)
}

func TestUpdateNeverReassignsID(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(entities.Task{ID: "t1", Title: "Write report", Status: entities.TaskStatusTodo})

	ok := s.UpdateTask("t1", Patch{"id": "t2", "title": "Write the report"})
	require.True(t, ok)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, "Write the report", tasks[0].Title)
}

func TestUpdateMissIsNoOp(t *testing.T) {
	s, storage := newTestStore(t)
	s.AddFinancialGoal(entities.FinancialGoal{ID: "g1", Title: "House", TargetAmount: 50000})
	s.AddFinancialGoal(entities.FinancialGoal{ID: "g2", Title: "Car", TargetAmount: 20000})
	before := s.Snapshot()
	saves := storage.saveCount

	ok := s.UpdateFinancialGoal("missing-id", Patch{"current_amount": 500.0})

	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, saves, storage.saveCount, "a miss must not persist")
}

func TestDeleteMissIsNoOp(t *testing.T) {
	s, storage := newTestStore(t)
	s.AddWorkout(entities.Workout{ID: "w1", Name: "Run"})
	before := s.Snapshot()
	saves := storage.saveCount

	assert.False(t, s.DeleteWorkout("nope"))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, saves, storage.saveCount)
}

func TestDeletePreservesOrder(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTransaction(entities.Transaction{ID: "t1", Description: "Rent", Type: entities.TransactionExpense})
	s.AddTransaction(entities.Transaction{ID: "t2", Description: "Salary", Type: entities.TransactionIncome})
	s.AddTransaction(entities.Transaction{ID: "t3", Description: "Groceries", Type: entities.TransactionExpense})

	require.True(t, s.DeleteTransaction("t2"))

	txs := s.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "t1", txs[0].ID)
	assert.Equal(t, "t3", txs[1].ID)
}

func TestDuplicateIDAddAppendsWithoutCheck(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddInvestment(entities.Investment{ID: "i1", Name: "Index fund"})
	s.AddInvestment(entities.Investment{ID: "i1", Name: "Bond fund"})

	// The store does not deduplicate caller-supplied ids; both entries land.
	require.Len(t, s.Investments(), 2)

	// Update and delete match the first occurrence.
	require.True(t, s.UpdateInvestment("i1", Patch{"name": "Growth fund"}))
	assert.Equal(t, "Growth fund", s.Investments()[0].Name)
	assert.Equal(t, "Bond fund", s.Investments()[1].Name)

	require.True(t, s.DeleteInvestment("i1"))
	require.Len(t, s.Investments(), 1)
	assert.Equal(t, "Bond fund", s.Investments()[0].Name)
}

func TestEmergencyReserveSingleton(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Nil(t, s.EmergencyReserve())

	s.SetEmergencyReserve(entities.EmergencyReserve{TargetAmount: 12000, CurrentAmount: 3000, MonthsCovered: 2})
	reserve := s.EmergencyReserve()
	require.NotNil(t, reserve)
	assert.Equal(t, 3000.0, reserve.CurrentAmount)

	// Replaced wholesale, not merged.
	s.SetEmergencyReserve(entities.EmergencyReserve{TargetAmount: 15000})
	reserve = s.EmergencyReserve()
	require.NotNil(t, reserve)
	assert.Equal(t, 15000.0, reserve.TargetAmount)
	assert.Equal(t, 0.0, reserve.CurrentAmount)
}

func TestEveryMutationPersistsFullSnapshot(t *testing.T) {
	s, storage := newTestStore(t)

	s.AddMeal(entities.Meal{ID: "m1", Name: "Oatmeal"})
	s.AddTask(entities.Task{ID: "t1", Title: "Plan week", Status: entities.TaskStatusTodo})
	require.True(t, s.UpdateTask("t1", Patch{"status": "done"}))

	// The persisted blob always holds the complete state.
	assert.Len(t, storage.snapshot.Meals, 1)
	assert.Len(t, storage.snapshot.Tasks, 1)
	assert.Equal(t, entities.TaskStatusDone, storage.snapshot.Tasks[0].Status)
	assert.Equal(t, 3, storage.saveCount)
}

func TestPersistenceFailureIsSwallowed(t *testing.T) {
	s, storage := newTestStore(t)
	storage.saveErr = errors.New("disk full")

	s.AddMeal(entities.Meal{ID: "m1", Name: "Oatmeal"})

	// The in-memory mutation still applied.
	assert.Len(t, s.Meals(), 1)
}

func TestRehydrateFromStorage(t *testing.T) {
	storage := newMemStorage()
	first, err := New(storage, nil, logger.NewNop())
	require.NoError(t, err)

	first.AddMeal(entities.Meal{ID: "m1", Name: "Oatmeal", TaskID: strPtr("t1")})
	first.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	subjectID, ok := first.AddSubject("a1", entities.Subject{Name: "Algebra"})
	require.True(t, ok)
	classID, ok := first.AddClassSession(subjectID, entities.ClassSession{Title: "Linear Equations"})
	require.True(t, ok)
	_, ok = first.AddPomodoro(classID, entities.PomodoroSession{DurationMinutes: 25})
	require.True(t, ok)
	first.SetEmergencyReserve(entities.EmergencyReserve{TargetAmount: 9000})

	// A second store seeded from the same slot sees identical state.
	second, err := New(storage, nil, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot(), second.Snapshot())

	// The rebuilt index still resolves nested parents.
	_, ok = second.AddPomodoro(classID, entities.PomodoroSession{DurationMinutes: 50})
	assert.True(t, ok)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	subjectID, _ := s.AddSubject("a1", entities.Subject{Name: "Algebra"})

	snapshot := s.Snapshot()
	snapshot.StudyAreas[0].Subjects[0].Name = "Hacked"
	snapshot.Meals = append(snapshot.Meals, entities.Meal{ID: "mx"})

	require.True(t, s.UpdateSubject("a1", subjectID, Patch{"name": "Algebra II"}))
	areas := s.StudyAreas()
	assert.Equal(t, "Algebra II", areas[0].Subjects[0].Name)
	assert.Empty(t, s.Meals())
}

package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
	"github.com/lifehub/core/internal/ports"
)

// Patch carries a partial-field update keyed by JSON field name. Updates are
// shallow merges: each key replaces the stored field wholesale, missing keys
// stay untouched.
type Patch map[string]interface{}

// Store is the single state container for every domain collection. One
// instance exists per process; a mutex serializes access and every mutation
// re-persists the full snapshot through the injected storage.
//
// Mutating operations return whether the lookup hit, so callers can tell
// "applied" from "target not found" without a follow-up read. A miss never
// mutates anything and never persists.
type Store struct {
	mu      sync.Mutex
	state   entities.Snapshot
	storage ports.SnapshotStorage
	alerter ports.Alerter
	logger  *logger.Logger

	// id -> path index for the study hierarchy, kept in sync with the tree
	// so nested operations resolve their parent without scanning every area.
	subjectIndex map[string]string
	classIndex   map[string]classPath
}

type classPath struct {
	areaID    string
	subjectID string
}

// New creates a store seeded from durable storage. The slot is read exactly
// once; an absent or unparseable slot seeds empty collections (handled by the
// storage adapter).
func New(storage ports.SnapshotStorage, alerter ports.Alerter, appLogger *logger.Logger) (*Store, error) {
	snapshot, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	s := &Store{
		state:   snapshot,
		storage: storage,
		alerter: alerter,
		logger:  appLogger.WithComponent("store"),
	}
	s.rebuildIndexLocked()

	return s, nil
}

// persistLocked saves the full snapshot. Persistence failures are logged and
// swallowed: the in-memory state stays authoritative and no store operation
// surfaces them. Caller must hold s.mu.
func (s *Store) persistLocked() {
	s.logger.LogPersistence("snapshot", s.storage.Save(s.state))
}

// Snapshot returns a deep copy of the complete state.
func (s *Store) Snapshot() entities.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// mergePatch shallow-merges patch over current by JSON field name. The id
// field is never reassigned, whatever the patch says.
func mergePatch[T any](current T, patch Patch) (T, error) {
	raw, err := json.Marshal(current)
	if err != nil {
		return current, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return current, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return current, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return current, err
	}
	return out, nil
}

// patchByID merges patch into the entity with the given id, in place.
func patchByID[T any](list []T, id string, idOf func(T) string, patch Patch) bool {
	for i := range list {
		if idOf(list[i]) == id {
			merged, err := mergePatch(list[i], patch)
			if err != nil {
				return false
			}
			list[i] = merged
			return true
		}
	}
	return false
}

// deleteByID removes the entity with the given id, preserving order.
func deleteByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	for i := range list {
		if idOf(list[i]) == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

// Meals

func (s *Store) AddMeal(meal entities.Meal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Meals = append(s.state.Meals, meal)
	s.logger.LogStoreMutation("meals", "add", meal.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateMeal(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.Meals, id, func(m entities.Meal) string { return m.ID }, patch)
	s.logger.LogStoreMutation("meals", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteMeal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.Meals, ok = deleteByID(s.state.Meals, id, func(m entities.Meal) string { return m.ID })
	s.logger.LogStoreMutation("meals", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) Meals() []entities.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Meal(nil), s.state.Meals...)
}

// Workouts

func (s *Store) AddWorkout(workout entities.Workout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Workouts = append(s.state.Workouts, workout)
	s.logger.LogStoreMutation("workouts", "add", workout.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateWorkout(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.Workouts, id, func(w entities.Workout) string { return w.ID }, patch)
	s.logger.LogStoreMutation("workouts", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteWorkout(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.Workouts, ok = deleteByID(s.state.Workouts, id, func(w entities.Workout) string { return w.ID })
	s.logger.LogStoreMutation("workouts", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) Workouts() []entities.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Workout(nil), s.state.Workouts...)
}

// Sleep records

func (s *Store) AddSleepRecord(record entities.SleepRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SleepRecords = append(s.state.SleepRecords, record)
	s.logger.LogStoreMutation("sleep_records", "add", record.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateSleepRecord(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.SleepRecords, id, func(r entities.SleepRecord) string { return r.ID }, patch)
	s.logger.LogStoreMutation("sleep_records", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteSleepRecord(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.SleepRecords, ok = deleteByID(s.state.SleepRecords, id, func(r entities.SleepRecord) string { return r.ID })
	s.logger.LogStoreMutation("sleep_records", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) SleepRecords() []entities.SleepRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.SleepRecord(nil), s.state.SleepRecords...)
}

// Health goals

func (s *Store) AddHealthGoal(goal entities.HealthGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HealthGoals = append(s.state.HealthGoals, goal)
	s.logger.LogStoreMutation("health_goals", "add", goal.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateHealthGoal(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.HealthGoals, id, func(g entities.HealthGoal) string { return g.ID }, patch)
	s.logger.LogStoreMutation("health_goals", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteHealthGoal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.HealthGoals, ok = deleteByID(s.state.HealthGoals, id, func(g entities.HealthGoal) string { return g.ID })
	s.logger.LogStoreMutation("health_goals", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) HealthGoals() []entities.HealthGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.HealthGoal(nil), s.state.HealthGoals...)
}

// Transactions

func (s *Store) AddTransaction(tx entities.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Transactions = append(s.state.Transactions, tx)
	s.logger.LogStoreMutation("transactions", "add", tx.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateTransaction(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.Transactions, id, func(t entities.Transaction) string { return t.ID }, patch)
	s.logger.LogStoreMutation("transactions", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteTransaction(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.Transactions, ok = deleteByID(s.state.Transactions, id, func(t entities.Transaction) string { return t.ID })
	s.logger.LogStoreMutation("transactions", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) Transactions() []entities.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Transaction(nil), s.state.Transactions...)
}

// Financial goals

func (s *Store) AddFinancialGoal(goal entities.FinancialGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FinancialGoals = append(s.state.FinancialGoals, goal)
	s.logger.LogStoreMutation("financial_goals", "add", goal.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateFinancialGoal(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.FinancialGoals, id, func(g entities.FinancialGoal) string { return g.ID }, patch)
	s.logger.LogStoreMutation("financial_goals", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteFinancialGoal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.FinancialGoals, ok = deleteByID(s.state.FinancialGoals, id, func(g entities.FinancialGoal) string { return g.ID })
	s.logger.LogStoreMutation("financial_goals", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) FinancialGoals() []entities.FinancialGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.FinancialGoal(nil), s.state.FinancialGoals...)
}

// Emergency reserve (singleton)

// SetEmergencyReserve replaces the reserve wholesale.
func (s *Store) SetEmergencyReserve(reserve entities.EmergencyReserve) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.EmergencyReserve = &reserve
	s.logger.LogStoreMutation("emergency_reserve", "set", "", true)
	s.persistLocked()
}

// EmergencyReserve returns the singleton, or nil if never set.
func (s *Store) EmergencyReserve() *entities.EmergencyReserve {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.EmergencyReserve == nil {
		return nil
	}
	r := *s.state.EmergencyReserve
	return &r
}

// Investments

func (s *Store) AddInvestment(investment entities.Investment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Investments = append(s.state.Investments, investment)
	s.logger.LogStoreMutation("investments", "add", investment.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateInvestment(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.Investments, id, func(i entities.Investment) string { return i.ID }, patch)
	s.logger.LogStoreMutation("investments", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteInvestment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.Investments, ok = deleteByID(s.state.Investments, id, func(i entities.Investment) string { return i.ID })
	s.logger.LogStoreMutation("investments", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) Investments() []entities.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Investment(nil), s.state.Investments...)
}

// Tasks

func (s *Store) AddTask(task entities.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tasks = append(s.state.Tasks, task)
	s.logger.LogStoreMutation("tasks", "add", task.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateTask(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.Tasks, id, func(t entities.Task) string { return t.ID }, patch)
	s.logger.LogStoreMutation("tasks", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

// DeleteTask removes the task only. References to it elsewhere (task links,
// parent ids, project groupings) are weak and simply dangle.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.Tasks, ok = deleteByID(s.state.Tasks, id, func(t entities.Task) string { return t.ID })
	s.logger.LogStoreMutation("tasks", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) Tasks() []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Task(nil), s.state.Tasks...)
}

// Personal projects

func (s *Store) AddPersonalProject(project entities.PersonalProject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.TaskIDs == nil {
		project.TaskIDs = []string{}
	}
	s.state.PersonalProjects = append(s.state.PersonalProjects, project)
	s.logger.LogStoreMutation("personal_projects", "add", project.ID, true)
	s.persistLocked()
}

func (s *Store) UpdatePersonalProject(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.PersonalProjects, id, func(p entities.PersonalProject) string { return p.ID }, patch)
	s.logger.LogStoreMutation("personal_projects", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

// DeletePersonalProject removes the grouping only; the grouped tasks are not
// owned by the project and stay put.
func (s *Store) DeletePersonalProject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.PersonalProjects, ok = deleteByID(s.state.PersonalProjects, id, func(p entities.PersonalProject) string { return p.ID })
	s.logger.LogStoreMutation("personal_projects", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) PersonalProjects() []entities.PersonalProject {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]entities.PersonalProject(nil), s.state.PersonalProjects...)
	for i, p := range out {
		out[i].TaskIDs = append([]string(nil), p.TaskIDs...)
	}
	return out
}

// Productivity goals

func (s *Store) AddProductivityGoal(goal entities.ProductivityGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ProductivityGoals = append(s.state.ProductivityGoals, goal)
	s.logger.LogStoreMutation("productivity_goals", "add", goal.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateProductivityGoal(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.ProductivityGoals, id, func(g entities.ProductivityGoal) string { return g.ID }, patch)
	s.logger.LogStoreMutation("productivity_goals", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteProductivityGoal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.ProductivityGoals, ok = deleteByID(s.state.ProductivityGoals, id, func(g entities.ProductivityGoal) string { return g.ID })
	s.logger.LogStoreMutation("productivity_goals", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) ProductivityGoals() []entities.ProductivityGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ProductivityGoal(nil), s.state.ProductivityGoals...)
}

// Attraction goals

func (s *Store) AddAttractionGoal(goal entities.AttractionGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AttractionGoals = append(s.state.AttractionGoals, goal)
	s.logger.LogStoreMutation("attraction_goals", "add", goal.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateAttractionGoal(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := patchByID(s.state.AttractionGoals, id, func(g entities.AttractionGoal) string { return g.ID }, patch)
	s.logger.LogStoreMutation("attraction_goals", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteAttractionGoal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.AttractionGoals, ok = deleteByID(s.state.AttractionGoals, id, func(g entities.AttractionGoal) string { return g.ID })
	s.logger.LogStoreMutation("attraction_goals", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) AttractionGoals() []entities.AttractionGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.AttractionGoal(nil), s.state.AttractionGoals...)
}

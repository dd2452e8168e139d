package entities

import (
	"time"
)

// Enums and types
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// NotificationKind keys the notification catalog.
type NotificationKind string

const (
	NotificationMealReminder    NotificationKind = "meal_reminder"
	NotificationWorkoutReminder NotificationKind = "workout_reminder"
	NotificationSleepReminder   NotificationKind = "sleep_reminder"
	NotificationTaskDue         NotificationKind = "task_due"
	NotificationBudgetAlert     NotificationKind = "budget_alert"
	NotificationGoalAchieved    NotificationKind = "goal_achieved"
	NotificationStudyReminder   NotificationKind = "study_reminder"
)

// Meal represents a logged meal
type Meal struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Calories   float64   `json:"calories"`
	Protein    float64   `json:"protein"`
	ConsumedAt time.Time `json:"consumed_at"`
	TaskID     *string   `json:"task_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Workout represents a logged workout session
type Workout struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	CaloriesBurned  float64   `json:"calories_burned"`
	PerformedAt     time.Time `json:"performed_at"`
	TaskID          *string   `json:"task_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SleepRecord represents one night of sleep
type SleepRecord struct {
	ID      string    `json:"id"`
	SleptAt time.Time `json:"slept_at"`
	WokeAt  time.Time `json:"woke_at"`
	Hours   float64   `json:"hours"`
	Quality int       `json:"quality"` // 1-5 scale
	TaskID  *string   `json:"task_id,omitempty"`
}

// HealthGoal tracks progress toward a health target
type HealthGoal struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Completed    bool    `json:"completed"`
	TaskID       *string `json:"task_id,omitempty"`
}

// Transaction represents a single income or expense entry
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	OccurredAt  time.Time       `json:"occurred_at"`
	TaskID      *string         `json:"task_id,omitempty"`
}

// FinancialGoal tracks progress toward a savings target
type FinancialGoal struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	CurrentAmount float64    `json:"current_amount"`
	TargetAmount  float64    `json:"target_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Completed     bool       `json:"completed"`
	TaskID        *string    `json:"task_id,omitempty"`
}

// Investment represents a position in the portfolio
type Investment struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	InvestedAmount float64 `json:"invested_amount"`
	CurrentAmount  float64 `json:"current_amount"`
	TaskID         *string `json:"task_id,omitempty"`
}

// EmergencyReserve is a singleton, replaced wholesale on update
type EmergencyReserve struct {
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	MonthsCovered int       `json:"months_covered"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Task represents a task in the system. ParentTaskID is a weak reference
// forming a single-level parent/child relation; cycles are not rejected and
// no store code walks the chain.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       TaskStatus `json:"status"`
	Priority     Priority   `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ParentTaskID *string    `json:"parent_task_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// StudyArea owns an ordered list of Subjects. Child ids are assigned by the
// store at insertion time, unlike every other collection.
type StudyArea struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Subjects []Subject `json:"subjects"`
}

// Subject owns an ordered list of ClassSessions
type Subject struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Classes []ClassSession `json:"classes"`
}

// ClassSession owns an ordered list of PomodoroSessions
type ClassSession struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Completed bool              `json:"completed"`
	Pomodoros []PomodoroSession `json:"pomodoros"`
}

// PomodoroSession is a single focus interval logged under a class
type PomodoroSession struct {
	ID              string    `json:"id"`
	DurationMinutes int       `json:"duration_minutes"`
	CompletedAt     time.Time `json:"completed_at"`
}

// PersonalProject groups tasks. TaskIDs is a grouping list, not ownership:
// deleting the project leaves the tasks alone. TaskID is the same weak
// display link the other domain entities carry; the two fields are
// independent contracts.
type PersonalProject struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TaskIDs     []string `json:"task_ids"`
	TaskID      *string  `json:"task_id,omitempty"`
	Completed   bool     `json:"completed"`
}

// ProductivityGoal tracks progress toward a productivity target. Completed is
// maintained by callers; the store never derives it from progress.
type ProductivityGoal struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Completed    bool    `json:"completed"`
}

// AttractionGoal is structurally identical to ProductivityGoal; the goal
// types differ in unit semantics only.
type AttractionGoal struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Completed    bool    `json:"completed"`
}

// Notification is an append-only log entity; only the read flag mutates.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	ActionURL string           `json:"action_url,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Business logic methods for Task
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil {
		return false
	}
	return time.Now().After(*t.DueDate) && t.Status != TaskStatusDone
}

func (t *Task) IsLinkable() bool {
	return t.Status != TaskStatusDone
}

// Progress methods for goal entities
func (g *HealthGoal) Progress() float64 {
	return progress(g.CurrentValue, g.TargetValue)
}

func (g *FinancialGoal) Progress() float64 {
	return progress(g.CurrentAmount, g.TargetAmount)
}

func (g *ProductivityGoal) Progress() float64 {
	return progress(g.CurrentValue, g.TargetValue)
}

func (g *AttractionGoal) Progress() float64 {
	return progress(g.CurrentValue, g.TargetValue)
}

func progress(current, target float64) float64 {
	if target == 0 {
		return 0
	}
	return (current / target) * 100
}

func (i *Investment) Return() float64 {
	return i.CurrentAmount - i.InvestedAmount
}

func (r *EmergencyReserve) Progress() float64 {
	return progress(r.CurrentAmount, r.TargetAmount)
}

// Utility methods
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (tt TransactionType) IsValid() bool {
	switch tt {
	case TransactionIncome, TransactionExpense:
		return true
	default:
		return false
	}
}

func (nk NotificationKind) IsValid() bool {
	switch nk {
	case NotificationMealReminder, NotificationWorkoutReminder, NotificationSleepReminder,
		NotificationTaskDue, NotificationBudgetAlert, NotificationGoalAchieved, NotificationStudyReminder:
		return true
	default:
		return false
	}
}

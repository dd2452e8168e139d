package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifehub/core/internal/application/store"
	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

// MessageResponse is a simple message payload
type MessageResponse struct {
	Message string `json:"message"`
}

// bindPatch binds a request body into a partial-field patch.
func bindPatch(c echo.Context) (store.Patch, error) {
	patch := store.Patch{}
	if err := c.Bind(&patch); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return patch, nil
}

// HealthDomainHandler handles meals, workouts, sleep records and health goals
type HealthDomainHandler struct {
	store  *store.Store
	logger *logger.Logger
}

// NewHealthDomainHandler creates a new health-domain handler
func NewHealthDomainHandler(s *store.Store, logger *logger.Logger) *HealthDomainHandler {
	return &HealthDomainHandler{store: s, logger: logger}
}

// CreateMealRequest is the payload for logging a meal
type CreateMealRequest struct {
	ID         string    `json:"id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Calories   float64   `json:"calories"`
	Protein    float64   `json:"protein"`
	ConsumedAt time.Time `json:"consumed_at"`
	TaskID     *string   `json:"task_id"`
}

func (h *HealthDomainHandler) ListMeals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Meals())
}

func (h *HealthDomainHandler) CreateMeal(c echo.Context) error {
	var req CreateMealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	meal := entities.Meal{
		ID:         req.ID,
		Name:       req.Name,
		Calories:   req.Calories,
		Protein:    req.Protein,
		ConsumedAt: req.ConsumedAt,
		TaskID:     req.TaskID,
		CreatedAt:  time.Now().UTC(),
	}
	h.store.AddMeal(meal)

	return c.JSON(http.StatusCreated, meal)
}

func (h *HealthDomainHandler) UpdateMeal(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateMeal(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Meal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HealthDomainHandler) DeleteMeal(c echo.Context) error {
	if !h.store.DeleteMeal(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Meal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateWorkoutRequest is the payload for logging a workout
type CreateWorkoutRequest struct {
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	CaloriesBurned  float64   `json:"calories_burned"`
	PerformedAt     time.Time `json:"performed_at"`
	TaskID          *string   `json:"task_id"`
}

func (h *HealthDomainHandler) ListWorkouts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Workouts())
}

func (h *HealthDomainHandler) CreateWorkout(c echo.Context) error {
	var req CreateWorkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	workout := entities.Workout{
		ID:              req.ID,
		Name:            req.Name,
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		PerformedAt:     req.PerformedAt,
		TaskID:          req.TaskID,
		CreatedAt:       time.Now().UTC(),
	}
	h.store.AddWorkout(workout)

	return c.JSON(http.StatusCreated, workout)
}

func (h *HealthDomainHandler) UpdateWorkout(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateWorkout(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Workout not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HealthDomainHandler) DeleteWorkout(c echo.Context) error {
	if !h.store.DeleteWorkout(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Workout not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSleepRecordRequest is the payload for logging a night of sleep
type CreateSleepRecordRequest struct {
	ID      string    `json:"id" validate:"required"`
	SleptAt time.Time `json:"slept_at"`
	WokeAt  time.Time `json:"woke_at"`
	Hours   float64   `json:"hours"`
	Quality int       `json:"quality" validate:"min=0,max=5"`
	TaskID  *string   `json:"task_id"`
}

func (h *HealthDomainHandler) ListSleepRecords(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.SleepRecords())
}

func (h *HealthDomainHandler) CreateSleepRecord(c echo.Context) error {
	var req CreateSleepRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record := entities.SleepRecord{
		ID:      req.ID,
		SleptAt: req.SleptAt,
		WokeAt:  req.WokeAt,
		Hours:   req.Hours,
		Quality: req.Quality,
		TaskID:  req.TaskID,
	}
	h.store.AddSleepRecord(record)

	return c.JSON(http.StatusCreated, record)
}

func (h *HealthDomainHandler) UpdateSleepRecord(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateSleepRecord(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Sleep record not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HealthDomainHandler) DeleteSleepRecord(c echo.Context) error {
	if !h.store.DeleteSleepRecord(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Sleep record not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateHealthGoalRequest is the payload for creating a health goal
type CreateHealthGoalRequest struct {
	ID           string  `json:"id" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	TaskID       *string `json:"task_id"`
}

func (h *HealthDomainHandler) ListHealthGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.HealthGoals())
}

func (h *HealthDomainHandler) CreateHealthGoal(c echo.Context) error {
	var req CreateHealthGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	goal := entities.HealthGoal{
		ID:           req.ID,
		Title:        req.Title,
		CurrentValue: req.CurrentValue,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
		TaskID:       req.TaskID,
	}
	h.store.AddHealthGoal(goal)

	return c.JSON(http.StatusCreated, goal)
}

func (h *HealthDomainHandler) UpdateHealthGoal(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateHealthGoal(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Health goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HealthDomainHandler) DeleteHealthGoal(c echo.Context) error {
	if !h.store.DeleteHealthGoal(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Health goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

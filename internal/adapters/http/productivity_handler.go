package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifehub/core/internal/application/store"
	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

// ProductivityHandler handles tasks, personal projects and the two
// progress-goal collections
type ProductivityHandler struct {
	store  *store.Store
	logger *logger.Logger
}

// NewProductivityHandler creates a new productivity handler
func NewProductivityHandler(s *store.Store, logger *logger.Logger) *ProductivityHandler {
	return &ProductivityHandler{store: s, logger: logger}
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	ID           string     `json:"id" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description"`
	Status       string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"due_date"`
	ParentTaskID *string    `json:"parent_task_id"`
}

// ListTasks returns every task, or only the linkable ones (status not done)
// with ?linkable=true. The linkable set is recomputed per request.
func (h *ProductivityHandler) ListTasks(c echo.Context) error {
	if c.QueryParam("linkable") == "true" {
		return c.JSON(http.StatusOK, h.store.LinkableTasks())
	}
	return c.JSON(http.StatusOK, h.store.Tasks())
}

func (h *ProductivityHandler) CreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task := entities.Task{
		ID:           req.ID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       entities.TaskStatus(req.Status),
		Priority:     entities.Priority(req.Priority),
		DueDate:      req.DueDate,
		ParentTaskID: req.ParentTaskID,
		CreatedAt:    time.Now().UTC(),
	}
	if task.Status == "" {
		task.Status = entities.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	h.store.AddTask(task)

	return c.JSON(http.StatusCreated, task)
}

// GetTask resolves a task id; a dangling reference is a plain 404.
func (h *ProductivityHandler) GetTask(c echo.Context) error {
	task, found := h.store.ResolveTask(c.Param("id"))
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return c.JSON(http.StatusOK, task)
}

func (h *ProductivityHandler) GetSubtasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.SubtasksOf(c.Param("id")))
}

func (h *ProductivityHandler) UpdateTask(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateTask(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductivityHandler) DeleteTask(c echo.Context) error {
	if !h.store.DeleteTask(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePersonalProjectRequest is the payload for creating a project
type CreatePersonalProjectRequest struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	TaskIDs     []string `json:"task_ids"`
	TaskID      *string  `json:"task_id"`
}

func (h *ProductivityHandler) ListPersonalProjects(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.PersonalProjects())
}

func (h *ProductivityHandler) CreatePersonalProject(c echo.Context) error {
	var req CreatePersonalProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project := entities.PersonalProject{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		TaskIDs:     req.TaskIDs,
		TaskID:      req.TaskID,
	}
	h.store.AddPersonalProject(project)

	return c.JSON(http.StatusCreated, project)
}

// GetProjectTasks resolves the project's grouping list; dangling ids are
// skipped, not errors.
func (h *ProductivityHandler) GetProjectTasks(c echo.Context) error {
	tasks, found := h.store.ProjectTasks(c.Param("id"))
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *ProductivityHandler) UpdatePersonalProject(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdatePersonalProject(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductivityHandler) DeletePersonalProject(c echo.Context) error {
	if !h.store.DeletePersonalProject(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateProgressGoalRequest covers productivity and attraction goals; the two
// collections share a shape and differ in unit semantics only
type CreateProgressGoalRequest struct {
	ID           string  `json:"id" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
}

func (h *ProductivityHandler) ListProductivityGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.ProductivityGoals())
}

func (h *ProductivityHandler) CreateProductivityGoal(c echo.Context) error {
	var req CreateProgressGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	goal := entities.ProductivityGoal{
		ID:           req.ID,
		Title:        req.Title,
		CurrentValue: req.CurrentValue,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
	}
	h.store.AddProductivityGoal(goal)

	return c.JSON(http.StatusCreated, goal)
}

func (h *ProductivityHandler) UpdateProductivityGoal(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateProductivityGoal(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Productivity goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductivityHandler) DeleteProductivityGoal(c echo.Context) error {
	if !h.store.DeleteProductivityGoal(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Productivity goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductivityHandler) ListAttractionGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.AttractionGoals())
}

func (h *ProductivityHandler) CreateAttractionGoal(c echo.Context) error {
	var req CreateProgressGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	goal := entities.AttractionGoal{
		ID:           req.ID,
		Title:        req.Title,
		CurrentValue: req.CurrentValue,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
	}
	h.store.AddAttractionGoal(goal)

	return c.JSON(http.StatusCreated, goal)
}

func (h *ProductivityHandler) UpdateAttractionGoal(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateAttractionGoal(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Attraction goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductivityHandler) DeleteAttractionGoal(c echo.Context) error {
	if !h.store.DeleteAttractionGoal(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Attraction goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

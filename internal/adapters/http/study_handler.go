package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifehub/core/internal/application/store"
	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

// StudyHandler handles the study hierarchy: areas, subjects, class sessions
// and pomodoros. Area ids come from the caller like every flat collection;
// subject, class and pomodoro ids are assigned by the store.
type StudyHandler struct {
	store  *store.Store
	logger *logger.Logger
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(s *store.Store, logger *logger.Logger) *StudyHandler {
	return &StudyHandler{store: s, logger: logger}
}

// CreateStudyAreaRequest is the payload for creating a study area
type CreateStudyAreaRequest struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

func (h *StudyHandler) ListStudyAreas(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.StudyAreas())
}

func (h *StudyHandler) CreateStudyArea(c echo.Context) error {
	var req CreateStudyAreaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	area := entities.StudyArea{
		ID:    req.ID,
		Name:  req.Name,
		Color: req.Color,
	}
	h.store.AddStudyArea(area)

	return c.JSON(http.StatusCreated, area)
}

func (h *StudyHandler) UpdateStudyArea(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateStudyArea(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Study area not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StudyHandler) DeleteStudyArea(c echo.Context) error {
	if !h.store.DeleteStudyArea(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Study area not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSubjectRequest is the payload for adding a subject under an area
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required"`
}

// IDResponse returns a store-assigned child id
type IDResponse struct {
	ID string `json:"id"`
}

func (h *StudyHandler) CreateSubject(c echo.Context) error {
	var req CreateSubjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, ok := h.store.AddSubject(c.Param("areaId"), entities.Subject{Name: req.Name})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Study area not found")
	}

	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *StudyHandler) UpdateSubject(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateSubject(c.Param("areaId"), c.Param("subjectId"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Subject not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StudyHandler) DeleteSubject(c echo.Context) error {
	if !h.store.DeleteSubject(c.Param("areaId"), c.Param("subjectId")) {
		return echo.NewHTTPError(http.StatusNotFound, "Subject not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateClassSessionRequest is the payload for adding a class under a subject
type CreateClassSessionRequest struct {
	Title string `json:"title" validate:"required"`
}

func (h *StudyHandler) CreateClassSession(c echo.Context) error {
	var req CreateClassSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, ok := h.store.AddClassSession(c.Param("subjectId"), entities.ClassSession{Title: req.Title})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Subject not found")
	}

	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *StudyHandler) UpdateClassSession(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateClassSession(c.Param("subjectId"), c.Param("classId"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Class not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StudyHandler) DeleteClassSession(c echo.Context) error {
	if !h.store.DeleteClassSession(c.Param("subjectId"), c.Param("classId")) {
		return echo.NewHTTPError(http.StatusNotFound, "Class not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePomodoroRequest is the payload for logging a pomodoro under a class
type CreatePomodoroRequest struct {
	DurationMinutes int        `json:"duration_minutes" validate:"required,min=1"`
	CompletedAt     *time.Time `json:"completed_at"`
}

func (h *StudyHandler) CreatePomodoro(c echo.Context) error {
	var req CreatePomodoroRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	id, ok := h.store.AddPomodoro(c.Param("classId"), entities.PomodoroSession{
		DurationMinutes: req.DurationMinutes,
		CompletedAt:     completedAt,
	})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Class not found")
	}

	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

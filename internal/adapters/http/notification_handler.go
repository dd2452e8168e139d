package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifehub/core/internal/application/store"
	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

// NotificationHandler handles the notification log
type NotificationHandler struct {
	store  *store.Store
	logger *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(s *store.Store, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{store: s, logger: logger}
}

// EmitNotificationRequest is the payload for emitting a domain-event
// notification. Message is optional; empty falls back to the catalog default
// for the kind.
type EmitNotificationRequest struct {
	Kind      string `json:"kind" validate:"required"`
	Message   string `json:"message"`
	ActionURL string `json:"action_url"`
}

// ListNotifications returns the log, or only unread entries with
// ?unread=true.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	if c.QueryParam("unread") == "true" {
		return c.JSON(http.StatusOK, h.store.UnreadNotifications())
	}
	return c.JSON(http.StatusOK, h.store.Notifications())
}

func (h *NotificationHandler) EmitNotification(c echo.Context) error {
	var req EmitNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	kind := entities.NotificationKind(req.Kind)
	if !kind.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown notification kind")
	}

	notification := h.store.EmitNotification(kind, req.Message, req.ActionURL)
	return c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if !h.store.MarkNotificationRead(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	if !h.store.DeleteNotification(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) ClearNotifications(c echo.Context) error {
	h.store.ClearNotifications()
	return c.JSON(http.StatusOK, MessageResponse{Message: "Notifications cleared"})
}

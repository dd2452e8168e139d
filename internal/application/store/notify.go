package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/ports"
)

// catalogEntry is the per-kind title and fallback message.
type catalogEntry struct {
	title          string
	defaultMessage string
}

var notificationCatalog = map[entities.NotificationKind]catalogEntry{
	entities.NotificationMealReminder:    {"Meal reminder", "Time to log your next meal."},
	entities.NotificationWorkoutReminder: {"Workout reminder", "You have a workout scheduled."},
	entities.NotificationSleepReminder:   {"Sleep reminder", "Wind down, bedtime is near."},
	entities.NotificationTaskDue:         {"Task due", "A task is due soon."},
	entities.NotificationBudgetAlert:     {"Budget alert", "Spending is above your monthly budget."},
	entities.NotificationGoalAchieved:    {"Goal achieved", "You reached one of your goals."},
	entities.NotificationStudyReminder:   {"Study reminder", "A study session is waiting."},
}

// EmitNotification appends a notification for a domain event and best-effort
// raises a platform alert. The append and its persistence are synchronous;
// the alert path never blocks them and never fails them. An empty message
// falls back to the catalog default for the kind.
func (s *Store) EmitNotification(kind entities.NotificationKind, message, actionURL string) entities.Notification {
	entry := notificationCatalog[kind]
	if message == "" {
		message = entry.defaultMessage
	}

	notification := entities.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     entry.title,
		Message:   message,
		ActionURL: actionURL,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.state.Notifications = append(s.state.Notifications, notification)
	s.logger.LogStoreMutation("notifications", "add", notification.ID, true)
	s.persistLocked()
	s.mu.Unlock()

	s.raiseAlert(notification)

	return notification
}

// AddNotification appends a caller-built notification, like every other flat
// collection. EmitNotification is the usual entry point; this one exists for
// consumers that already hold a complete entity.
func (s *Store) AddNotification(notification entities.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notifications = append(s.state.Notifications, notification)
	s.logger.LogStoreMutation("notifications", "add", notification.ID, true)
	s.persistLocked()
}

// MarkNotificationRead flips the read flag; the only structural mutation a
// notification ever sees besides deletion.
func (s *Store) MarkNotificationRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := false
	for i := range s.state.Notifications {
		if s.state.Notifications[i].ID == id {
			s.state.Notifications[i].Read = true
			ok = true
			break
		}
	}
	s.logger.LogStoreMutation("notifications", "mark_read", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteNotification(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.Notifications, ok = deleteByID(s.state.Notifications, id, func(n entities.Notification) string { return n.ID })
	s.logger.LogStoreMutation("notifications", "delete", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

// ClearNotifications empties the log.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notifications = []entities.Notification{}
	s.logger.LogStoreMutation("notifications", "clear", "", true)
	s.persistLocked()
}

func (s *Store) Notifications() []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Notification(nil), s.state.Notifications...)
}

// UnreadNotifications filters the log down to unread entries.
func (s *Store) UnreadNotifications() []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	unread := []entities.Notification{}
	for _, n := range s.state.Notifications {
		if !n.Read {
			unread = append(unread, n)
		}
	}
	return unread
}

// raiseAlert surfaces a platform-level alert if the alerter allows it. With
// permission undetermined it requests asynchronously and alerts only if
// granted. Errors are logged at debug level and dropped.
func (s *Store) raiseAlert(notification entities.Notification) {
	if s.alerter == nil {
		return
	}

	switch s.alerter.Permission() {
	case ports.AlertPermissionGranted:
		if err := s.alerter.Alert(notification.Title, notification.Message); err != nil {
			s.logger.Debugw("Platform alert failed", "error", err.Error())
		}
	case ports.AlertPermissionUndetermined:
		go func() {
			permission, err := s.alerter.RequestPermission(context.Background())
			if err != nil {
				s.logger.Debugw("Alert permission request failed", "error", err.Error())
				return
			}
			if permission != ports.AlertPermissionGranted {
				return
			}
			if err := s.alerter.Alert(notification.Title, notification.Message); err != nil {
				s.logger.Debugw("Platform alert failed", "error", err.Error())
			}
		}()
	}
}

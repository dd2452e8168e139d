package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
	"github.com/lifehub/core/internal/ports"
)

func newAlertingStore(t *testing.T, alerter ports.Alerter) *Store {
	t.Helper()
	s, err := New(newMemStorage(), alerter, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestEmitNotificationUsesCatalog(t *testing.T) {
	s, _ := newTestStore(t)

	n := s.EmitNotification(entities.NotificationTaskDue, "", "/tasks/t1")

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "Task due", n.Title)
	assert.Equal(t, "A task is due soon.", n.Message)
	assert.Equal(t, "/tasks/t1", n.ActionURL)
	assert.False(t, n.Read)
	assert.False(t, n.CreatedAt.IsZero())

	stored := s.Notifications()
	require.Len(t, stored, 1)
	assert.Equal(t, n, stored[0])
}

func TestEmitNotificationCustomMessage(t *testing.T) {
	s, _ := newTestStore(t)

	n := s.EmitNotification(entities.NotificationBudgetAlert, "Groceries 40% over budget", "")

	assert.Equal(t, "Budget alert", n.Title)
	assert.Equal(t, "Groceries 40% over budget", n.Message)
}

func TestMarkNotificationRead(t *testing.T) {
	s, _ := newTestStore(t)
	n := s.EmitNotification(entities.NotificationGoalAchieved, "", "")

	require.True(t, s.MarkNotificationRead(n.ID))
	assert.True(t, s.Notifications()[0].Read)
	assert.Empty(t, s.UnreadNotifications())

	assert.False(t, s.MarkNotificationRead("missing"))
}

func TestClearNotifications(t *testing.T) {
	s, _ := newTestStore(t)
	s.EmitNotification(entities.NotificationMealReminder, "", "")
	s.EmitNotification(entities.NotificationSleepReminder, "", "")
	require.Len(t, s.Notifications(), 2)

	s.ClearNotifications()
	assert.Empty(t, s.Notifications())
}

func TestAlertRaisedWhenPermissionGranted(t *testing.T) {
	alerter := newFakeAlerter(ports.AlertPermissionGranted, ports.AlertPermissionGranted)
	s := newAlertingStore(t, alerter)

	s.EmitNotification(entities.NotificationWorkoutReminder, "", "")

	select {
	case title := <-alerter.alerts:
		assert.Equal(t, "Workout reminder", title)
	case <-time.After(time.Second):
		t.Fatal("expected a platform alert")
	}
}

func TestAlertSkippedWhenPermissionDenied(t *testing.T) {
	alerter := newFakeAlerter(ports.AlertPermissionDenied, ports.AlertPermissionDenied)
	s := newAlertingStore(t, alerter)

	n := s.EmitNotification(entities.NotificationWorkoutReminder, "", "")

	// The entity is stored regardless of the alert outcome.
	require.Len(t, s.Notifications(), 1)
	assert.Equal(t, n.ID, s.Notifications()[0].ID)

	select {
	case <-alerter.alerts:
		t.Fatal("no alert expected with permission denied")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUndeterminedPermissionRequestsThenAlerts(t *testing.T) {
	alerter := newFakeAlerter(ports.AlertPermissionUndetermined, ports.AlertPermissionGranted)
	s := newAlertingStore(t, alerter)

	s.EmitNotification(entities.NotificationStudyReminder, "", "")

	select {
	case <-alerter.requests:
	case <-time.After(time.Second):
		t.Fatal("expected an async permission request")
	}
	select {
	case title := <-alerter.alerts:
		assert.Equal(t, "Study reminder", title)
	case <-time.After(time.Second):
		t.Fatal("expected an alert after the grant")
	}
}

func TestUndeterminedPermissionDeniedSkipsAlert(t *testing.T) {
	alerter := newFakeAlerter(ports.AlertPermissionUndetermined, ports.AlertPermissionDenied)
	s := newAlertingStore(t, alerter)

	s.EmitNotification(entities.NotificationStudyReminder, "", "")

	select {
	case <-alerter.requests:
	case <-time.After(time.Second):
		t.Fatal("expected an async permission request")
	}
	select {
	case <-alerter.alerts:
		t.Fatal("no alert expected after a denial")
	case <-time.After(50 * time.Millisecond):
	}
}

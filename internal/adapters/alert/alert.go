package alert

import (
	"context"
	"sync"

	"github.com/lifehub/core/internal/infrastructure/logger"
	"github.com/lifehub/core/internal/ports"
)

// LogAlerter surfaces platform alerts through the application log. This host
// has no native notification center to call, so the log line stands in for
// the banner; the permission flow is real so the store's alert path behaves
// the same wherever it runs. Requesting permission from an undetermined
// state grants it.
type LogAlerter struct {
	mu         sync.Mutex
	permission ports.AlertPermission
	logger     *logger.Logger
}

// New creates a log-backed alerter starting from the given permission state.
func New(initial ports.AlertPermission, appLogger *logger.Logger) *LogAlerter {
	return &LogAlerter{
		permission: initial,
		logger:     appLogger.WithComponent("alert"),
	}
}

func (a *LogAlerter) Permission() ports.AlertPermission {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.permission
}

func (a *LogAlerter) RequestPermission(ctx context.Context) (ports.AlertPermission, error) {
	if err := ctx.Err(); err != nil {
		return ports.AlertPermissionUndetermined, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.permission == ports.AlertPermissionUndetermined {
		a.permission = ports.AlertPermissionGranted
	}
	return a.permission, nil
}

func (a *LogAlerter) Alert(title, message string) error {
	a.logger.Infow("Alert", "title", title, "message", message)
	return nil
}

// Disabled is an alerter with permission permanently denied; used when alerts
// are switched off in configuration.
type Disabled struct{}

func (Disabled) Permission() ports.AlertPermission { return ports.AlertPermissionDenied }

func (Disabled) RequestPermission(ctx context.Context) (ports.AlertPermission, error) {
	return ports.AlertPermissionDenied, nil
}

func (Disabled) Alert(title, message string) error { return nil }

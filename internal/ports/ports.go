package ports

import (
	"context"

	"github.com/lifehub/core/internal/domain/entities"
)

// SnapshotStorage defines the interface for durable snapshot persistence.
// Load runs once at process start; Save runs after every store mutation and
// always receives the complete state.
type SnapshotStorage interface {
	Load() (entities.Snapshot, error)
	Save(snapshot entities.Snapshot) error
}

// AlertPermission is the platform notification-permission state.
type AlertPermission string

const (
	AlertPermissionGranted      AlertPermission = "granted"
	AlertPermissionDenied       AlertPermission = "denied"
	AlertPermissionUndetermined AlertPermission = "undetermined"
)

// Alerter defines the interface for platform-level alerts. Alerts are
// best-effort: failures and permission denials never affect the stored
// notification entity.
type Alerter interface {
	Permission() AlertPermission
	RequestPermission(ctx context.Context) (AlertPermission, error)
	Alert(title, message string) error
}

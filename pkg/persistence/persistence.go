// Package persistence provides data storage abstraction for areas and
// connections.
package persistence

import (
	"context"
	"time"

	"github.com/dukex/areion/pkg/models"
)

// AreaRepository is the durable store the sweep engine reads and
// conditionally writes. Each call is atomic on its own; no multi-call
// transaction is required across them.
type AreaRepository interface {
	// ListEnabledAreas returns every enabled area with its trigger and
	// reaction bindings. The engine calls this at the start of every sweep
	// and never caches the result as a source of truth.
	ListEnabledAreas(ctx context.Context) ([]*models.Area, error)

	// UpdateTriggerMetadata replaces the cursor metadata of one trigger
	// binding.
	UpdateTriggerMetadata(ctx context.Context, triggerBindingID string, metadata map[string]any) error

	// RecordFiring increments the area's trigger count and sets its
	// last-triggered timestamp in one atomic write.
	RecordFiring(ctx context.Context, areaID string, firedAt time.Time) error

	Areas(ctx context.Context) ([]*models.Area, error)
	AreaByID(ctx context.Context, id string) (*models.Area, error)
	SaveArea(ctx context.Context, area *models.Area) error
	DeleteArea(ctx context.Context, id string) error
}

// ConnectionRepository stores per-user service credentials.
type ConnectionRepository interface {
	ConnectionByID(ctx context.Context, id string) (*models.Connection, error)
	SaveConnection(ctx context.Context, connection *models.Connection) error
	DeleteConnection(ctx context.Context, id string) error
}

type Persistence interface {
	AreaRepository() AreaRepository
	ConnectionRepository() ConnectionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

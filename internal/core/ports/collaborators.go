package ports

import (
	"context"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
)

// Notifier is a fire-and-forget sink for user-visible messages.
type Notifier interface {
	Notify(title, message string, severity domain.Severity)
}

// Locator resolves place names to coordinates and simulates movement for the
// map view.
type Locator interface {
	Locate(name string) domain.Location
	Nudge(from domain.Location, at time.Time) domain.Location
}

// IdempotencyStore remembers which shipment a client-supplied key created.
type IdempotencyStore interface {
	// Reserve binds key to id. When the key is already bound it returns the
	// existing id and reserved=false.
	Reserve(ctx context.Context, key, id string) (existing string, reserved bool, err error)
}

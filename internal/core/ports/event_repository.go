package ports

import (
	"context"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
)

// UpdateLog stores the immutable location history of shipments.
type UpdateLog interface {
	Append(ctx context.Context, update domain.LocationUpdate) error
}

// ChangeEvent is a single notification from the change feed. Delete events
// only carry the record id.
type ChangeEvent struct {
	Type   domain.ChangeType
	Record ShipmentRecord
}

// ChangeFeed delivers shipment changes committed after subscription, in commit
// order. Run blocks until ctx is cancelled or the stream fails; it cannot be
// restarted from a past position.
type ChangeFeed interface {
	Run(ctx context.Context, handle func(ChangeEvent)) error
}

package ports

import (
	"context"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
)

// CreateShipmentInput is the data collected by the "add shipment" form.
type CreateShipmentInput struct {
	ContainerID string   `validate:"required"`
	Origin      string   `validate:"required"`
	Destination string   `validate:"required"`
	Weight      *float64 `validate:"omitempty,gt=0"`
	Dimensions  string
	Description string
	// ETA overrides the estimated arrival computed from the transit time.
	ETA *time.Time
	// IdempotencyKey suppresses duplicate submissions of the same form.
	IdempotencyKey string
}

// LocationInput is a position reported for an existing shipment.
type LocationInput struct {
	Lat       float64 `validate:"gte=-90,lte=90"`
	Lng       float64 `validate:"gte=-180,lte=180"`
	Name      string  `validate:"required"`
	Timestamp *time.Time
}

// ShipmentResult is returned by Create.
type ShipmentResult struct {
	Shipment domain.Shipment
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// BulkResult summarises a bulk operation after every request settled.
type BulkResult struct {
	Requested int
	Applied   int
}

// ShipmentService is the mutation API of the reconciliation store.
type ShipmentService interface {
	Create(ctx context.Context, input CreateShipmentInput) (*ShipmentResult, error)
	// UpdateStatus reports applied=false when the id is not in the local collection.
	UpdateStatus(ctx context.Context, id string, status domain.ShipmentStatus) (applied bool, err error)
	UpdateLocation(ctx context.Context, id string, loc LocationInput) (applied bool, err error)
	SimulateMovement(ctx context.Context, id string) (*domain.Shipment, error)
	Delete(ctx context.Context, id string)
	BulkUpdateStatus(ctx context.Context, sel *view.Selection, status domain.ShipmentStatus) (BulkResult, error)
	BulkDelete(ctx context.Context, sel *view.Selection) BulkResult
	Refresh(ctx context.Context) error

	Get(id string) (domain.Shipment, bool)
	Snapshot() []domain.Shipment
}

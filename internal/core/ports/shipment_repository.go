package ports

import (
	"context"
	"time"
)

// RawLocation is a location as stored by the persistence layer. Its shape is
// not trusted: coordinates may be missing, mistyped or out of range.
type RawLocation map[string]any

// ShipmentRecord is the untyped persistence-side view of a shipment. It never
// crosses the reconciliation store boundary; the service parses it into a
// domain.Shipment first.
type ShipmentRecord struct {
	ID              string        `bson:"_id"                   json:"id"`
	ContainerID     string        `bson:"container_id"          json:"container_id"`
	Status          string        `bson:"status"                json:"status"`
	CurrentLocation RawLocation   `bson:"current_location"      json:"current_location"`
	Route           []RawLocation `bson:"route"                 json:"route"`
	ETA             time.Time     `bson:"eta"                   json:"eta"`
	Origin          RawLocation   `bson:"origin"                json:"origin"`
	Destination     RawLocation   `bson:"destination"           json:"destination"`
	Weight          *float64      `bson:"weight,omitempty"      json:"weight,omitempty"`
	Dimensions      string        `bson:"dimensions,omitempty"  json:"dimensions,omitempty"`
	Description     string        `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt       time.Time     `bson:"created_at"            json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at"            json:"updated_at"`
}

// ShipmentPatch carries the fields of a partial update. Nil fields are left
// untouched.
type ShipmentPatch struct {
	Status          *string
	CurrentLocation RawLocation
	UpdatedAt       *time.Time
}

// ShipmentRepository is the remote source of record for shipments. Every call
// may fail independently; failures wrap domain.ErrPersistence or
// domain.ErrShipmentNotFound.
type ShipmentRepository interface {
	// FetchAll returns every shipment ordered by created_at descending.
	FetchAll(ctx context.Context) ([]ShipmentRecord, error)
	Insert(ctx context.Context, rec ShipmentRecord) (ShipmentRecord, error)
	Update(ctx context.Context, id string, patch ShipmentPatch) error
	Delete(ctx context.Context, id string) error
}

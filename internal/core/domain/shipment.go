package domain

import (
	"errors"
	"time"
)

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusInTransit ShipmentStatus = "in-transit"
	StatusDelivered ShipmentStatus = "delivered"
	StatusDelayed   ShipmentStatus = "delayed"
)

// Statuses is the fixed status domain, in display order.
var Statuses = []ShipmentStatus{StatusPending, StatusInTransit, StatusDelivered, StatusDelayed}

var ErrShipmentNotFound = errors.New("shipment not found")
var ErrPersistence = errors.New("persistence failure")
var ErrTransform = errors.New("malformed shipment record")

// Valid reports whether s belongs to the status domain. Any valid status may
// replace any other; there is no transition table.
func (s ShipmentStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// UnknownLocationName is used when a record carries no usable place name.
const UnknownLocationName = "Unknown"

// Location is a point on a shipment's route. Timestamp is set when the point
// is a live position update.
type Location struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Name      string     `json:"name"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Shipment is the tracked unit of cargo.
type Shipment struct {
	ID              string         `json:"id"`
	ContainerID     string         `json:"container_id"`
	Status          ShipmentStatus `json:"status"`
	CurrentLocation Location       `json:"current_location"`
	Route           []Location     `json:"route"`
	ETA             time.Time      `json:"eta"`
	Origin          Location       `json:"origin"`
	Destination     Location       `json:"destination"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Weight          *float64       `json:"weight,omitempty"`
	Dimensions      string         `json:"dimensions,omitempty"`
	Description     string         `json:"description,omitempty"`
}

// Clone returns a deep copy so callers never share route slices or pointer
// fields with the store.
func (s Shipment) Clone() Shipment {
	out := s
	if s.Route != nil {
		out.Route = make([]Location, len(s.Route))
		for i, l := range s.Route {
			out.Route[i] = l.clone()
		}
	}
	out.CurrentLocation = s.CurrentLocation.clone()
	out.Origin = s.Origin.clone()
	out.Destination = s.Destination.clone()
	if s.Weight != nil {
		w := *s.Weight
		out.Weight = &w
	}
	return out
}

func (l Location) clone() Location {
	if l.Timestamp != nil {
		ts := *l.Timestamp
		l.Timestamp = &ts
	}
	return l
}

// Touch advances UpdatedAt to now, never letting it precede CreatedAt.
func (s *Shipment) Touch(now time.Time) {
	if now.Before(s.CreatedAt) {
		now = s.CreatedAt
	}
	s.UpdatedAt = now
}

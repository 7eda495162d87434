package domain

import "time"

// ChangeType is the kind of change announced by the change feed.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// LocationUpdate is an immutable history entry written every time a
// shipment's current location changes.
type LocationUpdate struct {
	ID         string
	ShipmentID string
	Location   Location
	Status     ShipmentStatus
	Notes      string
	CreatedAt  time.Time
}

// Severity classifies user-visible notifications.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
)

// --- Record → domain ---

// toDomain parses an untyped persistence record. A record without an id or
// with an unknown status is rejected with domain.ErrTransform; malformed
// location fields are coerced to 0,0,"Unknown" instead.
func toDomain(rec ports.ShipmentRecord) (domain.Shipment, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return domain.Shipment{}, fmt.Errorf("%w: missing id", domain.ErrTransform)
	}
	status := domain.ShipmentStatus(rec.Status)
	if !status.Valid() {
		return domain.Shipment{}, fmt.Errorf("%w: shipment %s has unknown status %q", domain.ErrTransform, id, rec.Status)
	}

	s := domain.Shipment{
		ID:              id,
		ContainerID:     rec.ContainerID,
		Status:          status,
		CurrentLocation: parseLocation(rec.CurrentLocation),
		ETA:             rec.ETA.UTC(),
		Origin:          parseLocation(rec.Origin),
		Destination:     parseLocation(rec.Destination),
		CreatedAt:       rec.CreatedAt.UTC(),
		UpdatedAt:       rec.UpdatedAt.UTC(),
		Dimensions:      rec.Dimensions,
		Description:     rec.Description,
	}
	if rec.Weight != nil {
		w := *rec.Weight
		s.Weight = &w
	}

	for _, raw := range rec.Route {
		s.Route = append(s.Route, parseLocation(raw))
	}
	if len(s.Route) == 0 {
		s.Route = []domain.Location{s.Origin, s.Destination}
	}

	if s.UpdatedAt.Before(s.CreatedAt) {
		s.UpdatedAt = s.CreatedAt
	}
	return s, nil
}

func parseLocation(raw ports.RawLocation) domain.Location {
	loc := domain.Location{Name: domain.UnknownLocationName}
	if raw == nil {
		return loc
	}
	if lat, ok := number(raw["lat"]); ok && lat >= -90 && lat <= 90 {
		loc.Lat = lat
	}
	if lng, ok := number(raw["lng"]); ok && lng >= -180 && lng <= 180 {
		loc.Lng = lng
	}
	if name, ok := raw["name"].(string); ok && strings.TrimSpace(name) != "" {
		loc.Name = name
	}
	if ts, ok := timestamp(raw["timestamp"]); ok {
		loc.Timestamp = &ts
	}
	return loc
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func timestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case interface{ Time() time.Time }: // BSON datetime decoded into an interface
		return t.Time().UTC(), true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed.UTC(), true
	}
	return time.Time{}, false
}

// --- Domain → record ---

func toRecord(s domain.Shipment) ports.ShipmentRecord {
	rec := ports.ShipmentRecord{
		ID:              s.ID,
		ContainerID:     s.ContainerID,
		Status:          string(s.Status),
		CurrentLocation: rawLocation(s.CurrentLocation),
		ETA:             s.ETA,
		Origin:          rawLocation(s.Origin),
		Destination:     rawLocation(s.Destination),
		Weight:          s.Weight,
		Dimensions:      s.Dimensions,
		Description:     s.Description,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	rec.Route = make([]ports.RawLocation, len(s.Route))
	for i, l := range s.Route {
		rec.Route[i] = rawLocation(l)
	}
	return rec
}

func rawLocation(l domain.Location) ports.RawLocation {
	raw := ports.RawLocation{"lat": l.Lat, "lng": l.Lng, "name": l.Name}
	if l.Timestamp != nil {
		raw["timestamp"] = l.Timestamp.UTC()
	}
	return raw
}

// Package view derives filtered, sorted and paginated projections of the
// shipment collection. Every function here is pure: inputs are never mutated
// and the same inputs always produce the same output.
package view

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// SortField selects the key shipments are ordered by.
type SortField string

const (
	SortByID        SortField = "id"
	SortByStatus    SortField = "status"
	SortByETA       SortField = "eta"
	SortByCreatedAt SortField = "created_at"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Filter is the complete filter and sort state of the shipment table.
type Filter struct {
	Query  string
	Status string // StatusAll, empty, or one of domain.Statuses
	From   *time.Time
	To     *time.Time
	SortBy SortField
	Order  SortOrder
}

// DefaultFilter shows everything, newest first.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, SortBy: SortByCreatedAt, Order: Desc}
}

// Matches reports whether s passes the text, status and date-range filters.
func (f Filter) Matches(s domain.Shipment) bool {
	if q := strings.ToLower(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(s.ID), q) &&
			!strings.Contains(strings.ToLower(s.ContainerID), q) &&
			!strings.Contains(strings.ToLower(s.CurrentLocation.Name), q) {
			return false
		}
	}

	if f.Status != "" && f.Status != StatusAll && string(s.Status) != f.Status {
		return false
	}

	// Both bounds are inclusive.
	if f.From != nil && s.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && s.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// Derive returns the shipments that pass f, ordered by f.SortBy and f.Order.
// Ties keep their input order.
func Derive(items []domain.Shipment, f Filter) []domain.Shipment {
	out := make([]domain.Shipment, 0, len(items))
	for _, s := range items {
		if f.Matches(s) {
			out = append(out, s)
		}
	}

	compare := comparator(f.SortBy)
	if f.Order == Desc {
		asc := compare
		compare = func(a, b domain.Shipment) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(field SortField) func(a, b domain.Shipment) int {
	switch field {
	case SortByStatus:
		return func(a, b domain.Shipment) int { return cmp.Compare(a.Status, b.Status) }
	case SortByETA:
		return func(a, b domain.Shipment) int { return a.ETA.Compare(b.ETA) }
	case SortByCreatedAt:
		return func(a, b domain.Shipment) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(a, b domain.Shipment) int { return cmp.Compare(a.ID, b.ID) }
	}
}

// ParseSortField validates a sort key coming from the outside.
func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByID, SortByStatus, SortByETA, SortByCreatedAt:
		return f, true
	case "createdat", "created":
		return SortByCreatedAt, true
	}
	return "", false
}

// ParseSortOrder validates a sort direction coming from the outside.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, true
	}
	return "", false
}

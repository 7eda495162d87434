package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/pkg/metrics"
)

var _ ports.ShipmentService = (*ShipmentService)(nil)

// ApplyRemoteEvent folds one change-feed event into the local collection.
// Inserts of a known id and deletes of an unknown id are ignored, so both are
// idempotent. Updates replace the whole record; the last one delivered wins.
func (s *ShipmentService) ApplyRemoteEvent(_ context.Context, ev ports.ChangeEvent) error {
	var applied bool

	switch ev.Type {
	case domain.ChangeInsert, domain.ChangeUpdate:
		sh, err := toDomain(ev.Record)
		if err != nil {
			metrics.FeedEventsTotal.WithLabelValues(string(ev.Type), "malformed").Inc()
			return fmt.Errorf("apply %s event: %w", ev.Type, err)
		}
		if ev.Type == domain.ChangeInsert {
			applied = s.store.Prepend(sh)
		} else {
			applied = s.store.Put(sh)
		}

	case domain.ChangeDelete:
		id := strings.TrimSpace(ev.Record.ID)
		if id == "" {
			metrics.FeedEventsTotal.WithLabelValues(string(ev.Type), "malformed").Inc()
			return fmt.Errorf("apply delete event: %w: missing id", domain.ErrTransform)
		}
		applied = s.store.Remove(id)

	default:
		metrics.FeedEventsTotal.WithLabelValues("unknown", "malformed").Inc()
		return fmt.Errorf("apply event: %w: unknown event type %q", domain.ErrTransform, ev.Type)
	}

	result := "applied"
	if !applied {
		result = "ignored"
	}
	metrics.FeedEventsTotal.WithLabelValues(string(ev.Type), result).Inc()

	s.logger.Debug().
		Str("event_type", string(ev.Type)).
		Str("shipment_id", ev.Record.ID).
		Bool("applied", applied).
		Msg("change event applied")
	return nil
}

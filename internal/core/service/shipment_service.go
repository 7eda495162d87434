package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
	"github.com/99minutos/shipment-dashboard/internal/pkg/metrics"
	"github.com/99minutos/shipment-dashboard/internal/pkg/validation"
)

const (
	defaultTransitDays     = 14
	defaultBulkConcurrency = 8
	locationUpdateNotes    = "Location updated via tracking system"
)

// Deps are the external collaborators of the service. IdempotencyStore is
// optional.
type Deps struct {
	Repo        ports.ShipmentRepository
	UpdateLog   ports.UpdateLog
	Notifier    ports.Notifier
	Locator     ports.Locator
	Idempotency ports.IdempotencyStore
}

// Options tune construction and bulk behaviour.
type Options struct {
	TransitDays     int
	BulkConcurrency int
}

// ShipmentService applies local optimistic mutations to the Store and forwards
// them to persistence. Persistence failures are reported through the Notifier
// and never roll local state back.
type ShipmentService struct {
	store    *Store
	deps     Deps
	opts     Options
	validate *validation.Validator
	logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewShipmentService(store *Store, deps Deps, opts Options, logger zerolog.Logger) *ShipmentService {
	if opts.TransitDays <= 0 {
		opts.TransitDays = defaultTransitDays
	}
	if opts.BulkConcurrency <= 0 {
		opts.BulkConcurrency = defaultBulkConcurrency
	}
	return &ShipmentService{
		store:    store,
		deps:     deps,
		opts:     opts,
		validate: validation.New(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Create validates the form, prepends the new shipment locally and then
// inserts it remotely. The shipment is returned even when the insert fails.
func (s *ShipmentService) Create(ctx context.Context, input ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
	input.ContainerID = strings.TrimSpace(input.ContainerID)
	input.Origin = strings.TrimSpace(input.Origin)
	input.Destination = strings.TrimSpace(input.Destination)
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	id := s.newID()
	if input.IdempotencyKey != "" && s.deps.Idempotency != nil {
		existing, reserved, err := s.deps.Idempotency.Reserve(ctx, input.IdempotencyKey, id)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency check failed, creating anyway")
		case !reserved:
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("shipment_id", existing).Msg("idempotent replay")
			prev, ok := s.store.Get(existing)
			if !ok {
				return nil, fmt.Errorf("idempotent replay of %s: %w", existing, domain.ErrIdempotencyConflict)
			}
			return &ports.ShipmentResult{Shipment: prev, AlreadyExisted: true}, nil
		}
	}

	shipment := s.build(id, input)
	s.store.Prepend(shipment)

	saved, err := s.deps.Repo.Insert(ctx, toRecord(shipment))
	if err != nil {
		s.logger.Error().Err(err).Str("shipment_id", id).Msg("failed to create shipment")
		metrics.MutationsTotal.WithLabelValues("create", "failed").Inc()
		s.notify("Error", "Failed to create shipment", domain.SeverityError)
		return &ports.ShipmentResult{Shipment: shipment}, nil
	}

	// The source of record may have normalised fields; last write wins.
	if remote, err := toDomain(saved); err == nil && remote.ID == id {
		s.store.Put(remote)
		shipment = remote
	}

	metrics.MutationsTotal.WithLabelValues("create", "ok").Inc()
	s.logger.Info().Str("shipment_id", id).Str("container_id", shipment.ContainerID).Msg("shipment created")
	s.notify("Shipment Created",
		fmt.Sprintf("New shipment %s has been added successfully.", shipment.ContainerID),
		domain.SeveritySuccess)

	return &ports.ShipmentResult{Shipment: shipment}, nil
}

func (s *ShipmentService) build(id string, input ports.CreateShipmentInput) domain.Shipment {
	now := s.now()
	origin := s.deps.Locator.Locate(input.Origin)
	destination := s.deps.Locator.Locate(input.Destination)

	current := origin
	current.Timestamp = &now

	eta := estimatedArrival(now, s.opts.TransitDays)
	if input.ETA != nil {
		eta = input.ETA.UTC()
	}

	var weight *float64
	if input.Weight != nil {
		w := *input.Weight
		weight = &w
	}

	return domain.Shipment{
		ID:              id,
		ContainerID:     input.ContainerID,
		Status:          domain.StatusPending,
		CurrentLocation: current,
		Route:           []domain.Location{origin, destination},
		ETA:             eta,
		Origin:          origin,
		Destination:     destination,
		CreatedAt:       now,
		UpdatedAt:       now,
		Weight:          weight,
		Dimensions:      strings.TrimSpace(input.Dimensions),
		Description:     strings.TrimSpace(input.Description),
	}
}

// estimatedArrival is 18:00 UTC transitDays after from.
func estimatedArrival(from time.Time, transitDays int) time.Time {
	base := time.Date(from.Year(), from.Month(), from.Day(), 18, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, transitDays)
}

// UpdateStatus overwrites the status of a local shipment. Unknown ids are a
// no-op; an invalid status is a validation error.
func (s *ShipmentService) UpdateStatus(ctx context.Context, id string, status domain.ShipmentStatus) (bool, error) {
	if !status.Valid() {
		return false, &domain.ValidationError{Fields: []string{fmt.Sprintf("status must be one of: %s", statusList())}}
	}

	now := s.now()
	if _, ok := s.store.Mutate(id, func(sh *domain.Shipment) {
		sh.Status = status
		sh.Touch(now)
	}); !ok {
		metrics.MutationsTotal.WithLabelValues("update_status", "noop").Inc()
		return false, nil
	}

	st := string(status)
	if err := s.deps.Repo.Update(ctx, id, ports.ShipmentPatch{Status: &st, UpdatedAt: &now}); err != nil {
		s.logger.Error().Err(err).Str("shipment_id", id).Str("status", st).Msg("failed to update status")
		metrics.MutationsTotal.WithLabelValues("update_status", "failed").Inc()
		s.notify("Error", "Failed to update status", domain.SeverityError)
		return true, nil
	}

	metrics.MutationsTotal.WithLabelValues("update_status", "ok").Inc()
	s.notify("Status Updated", fmt.Sprintf("Shipment status changed to %s", status), domain.SeveritySuccess)
	return true, nil
}

// UpdateLocation replaces the current location of a local shipment and, once
// persisted, appends an entry to the update log.
func (s *ShipmentService) UpdateLocation(ctx context.Context, id string, in ports.LocationInput) (bool, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return false, err
	}

	now := s.now()
	loc := domain.Location{Lat: in.Lat, Lng: in.Lng, Name: in.Name, Timestamp: in.Timestamp}
	if loc.Timestamp == nil {
		loc.Timestamp = &now
	}

	updated, ok := s.store.Mutate(id, func(sh *domain.Shipment) {
		sh.CurrentLocation = loc
		sh.Touch(now)
	})
	if !ok {
		metrics.MutationsTotal.WithLabelValues("update_location", "noop").Inc()
		return false, nil
	}

	patch := ports.ShipmentPatch{CurrentLocation: rawLocation(loc), UpdatedAt: &now}
	if err := s.deps.Repo.Update(ctx, id, patch); err != nil {
		s.logger.Error().Err(err).Str("shipment_id", id).Msg("failed to update location")
		metrics.MutationsTotal.WithLabelValues("update_location", "failed").Inc()
		s.notify("Error", "Failed to update location", domain.SeverityError)
		return true, nil
	}

	entry := domain.LocationUpdate{
		ID:         s.newID(),
		ShipmentID: id,
		Location:   loc,
		Status:     updated.Status,
		Notes:      locationUpdateNotes,
		CreatedAt:  now,
	}
	if err := s.deps.UpdateLog.Append(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("shipment_id", id).Msg("failed to append location history")
	}

	metrics.MutationsTotal.WithLabelValues("update_location", "ok").Inc()
	s.notify("Location Updated", fmt.Sprintf("Shipment location has been updated to %s", loc.Name), domain.SeveritySuccess)
	return true, nil
}

// SimulateMovement nudges the shipment's current position, as the map view's
// "update location" button does, and applies it through UpdateLocation.
func (s *ShipmentService) SimulateMovement(ctx context.Context, id string) (*domain.Shipment, error) {
	current, ok := s.store.Get(id)
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	next := s.deps.Locator.Nudge(current.CurrentLocation, s.now())
	if _, err := s.UpdateLocation(ctx, id, ports.LocationInput{
		Lat: next.Lat, Lng: next.Lng, Name: next.Name, Timestamp: next.Timestamp,
	}); err != nil {
		return nil, err
	}
	updated, ok := s.store.Get(id)
	if !ok {
		// Removed by a concurrent delete or feed event.
		return nil, domain.ErrShipmentNotFound
	}
	return &updated, nil
}

// Delete removes the shipment locally and remotely. The remote delete is
// issued even when the id is not held locally; any failure, including
// ErrShipmentNotFound, is only notified.
func (s *ShipmentService) Delete(ctx context.Context, id string) {
	removed := s.store.Remove(id)

	if err := s.deps.Repo.Delete(ctx, id); err != nil {
		ev := s.logger.Error()
		if errors.Is(err, domain.ErrShipmentNotFound) {
			ev = s.logger.Warn()
		}
		ev.Err(err).Str("shipment_id", id).Bool("removed_locally", removed).Msg("failed to delete shipment")
		metrics.MutationsTotal.WithLabelValues("delete", "failed").Inc()
		s.notify("Error", "Failed to delete shipment", domain.SeverityError)
		return
	}

	metrics.MutationsTotal.WithLabelValues("delete", "ok").Inc()
	s.notify("Shipment Deleted", "Shipment has been successfully deleted", domain.SeveritySuccess)
}

// BulkUpdateStatus issues one status update per selected id, waits for all of
// them to settle and then clears the selection.
func (s *ShipmentService) BulkUpdateStatus(ctx context.Context, sel *view.Selection, status domain.ShipmentStatus) (ports.BulkResult, error) {
	if !status.Valid() {
		return ports.BulkResult{}, &domain.ValidationError{Fields: []string{fmt.Sprintf("status must be one of: %s", statusList())}}
	}
	return s.bulk(sel, func(id string) bool {
		applied, _ := s.UpdateStatus(ctx, id, status)
		return applied
	}), nil
}

// BulkDelete deletes every selected id, then clears the selection.
func (s *ShipmentService) BulkDelete(ctx context.Context, sel *view.Selection) ports.BulkResult {
	return s.bulk(sel, func(id string) bool {
		_, held := s.store.Get(id)
		s.Delete(ctx, id)
		return held
	})
}

// bulk runs op for every selected id concurrently. A failing op never stops
// the others.
func (s *ShipmentService) bulk(sel *view.Selection, op func(id string) bool) ports.BulkResult {
	ids := sel.IDs()
	var applied atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.opts.BulkConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if op(id) {
				applied.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	sel.Clear()

	return ports.BulkResult{Requested: len(ids), Applied: int(applied.Load())}
}

// Refresh replaces the local collection with the remote one. On failure the
// local collection is kept.
func (s *ShipmentService) Refresh(ctx context.Context) error {
	records, err := s.deps.Repo.FetchAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch shipments")
		s.notify("Error", "Failed to fetch shipments", domain.SeverityError)
		return fmt.Errorf("refresh: %w", err)
	}

	items := make([]domain.Shipment, 0, len(records))
	for _, rec := range records {
		sh, err := toDomain(rec)
		if err != nil {
			s.logger.Warn().Err(err).Str("shipment_id", rec.ID).Msg("skipping malformed shipment")
			continue
		}
		items = append(items, sh)
	}
	s.store.Replace(items)

	s.logger.Info().Int("count", len(items)).Int("skipped", len(records)-len(items)).Msg("shipments loaded")
	return nil
}

func (s *ShipmentService) Get(id string) (domain.Shipment, bool) {
	return s.store.Get(id)
}

func (s *ShipmentService) Snapshot() []domain.Shipment {
	return s.store.Snapshot()
}

func (s *ShipmentService) notify(title, message string, severity domain.Severity) {
	metrics.NotificationsTotal.WithLabelValues(string(severity)).Inc()
	if s.deps.Notifier != nil {
		s.deps.Notifier.Notify(title, message, severity)
	}
}

func statusList() string {
	names := make([]string, len(domain.Statuses))
	for i, st := range domain.Statuses {
		names[i] = string(st)
	}
	return strings.Join(names, " ")
}

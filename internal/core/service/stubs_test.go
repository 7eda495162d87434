package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubShipmentRepo struct {
	mu         sync.Mutex
	records    map[string]ports.ShipmentRecord
	inserted   []string
	updated    []string
	deleted    []string
	patches    map[string]ports.ShipmentPatch
	fetched    []ports.ShipmentRecord
	fetchErr   error
	insertErr  error
	updateErrs map[string]error // per shipment id
	deleteErr  error
}

func newStubShipmentRepo() *stubShipmentRepo {
	return &stubShipmentRepo{
		records:    make(map[string]ports.ShipmentRecord),
		patches:    make(map[string]ports.ShipmentPatch),
		updateErrs: make(map[string]error),
	}
}

func (r *stubShipmentRepo) FetchAll(_ context.Context) ([]ports.ShipmentRecord, error) {
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.fetched, nil
}

func (r *stubShipmentRepo) Insert(_ context.Context, rec ports.ShipmentRecord) (ports.ShipmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, rec.ID)
	if r.insertErr != nil {
		return ports.ShipmentRecord{}, r.insertErr
	}
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *stubShipmentRepo) Update(_ context.Context, id string, patch ports.ShipmentPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, id)
	if err := r.updateErrs[id]; err != nil {
		return err
	}
	r.patches[id] = patch
	return nil
}

func (r *stubShipmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, domain.ErrShipmentNotFound)
	}
	delete(r.records, id)
	return nil
}

// ---------------------------------------------------------------------------
// Other collaborators
// ---------------------------------------------------------------------------

type stubUpdateLog struct {
	mu      sync.Mutex
	entries []domain.LocationUpdate
	err     error
}

func (l *stubUpdateLog) Append(_ context.Context, u domain.LocationUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, u)
	return nil
}

type notification struct {
	Title    string
	Message  string
	Severity domain.Severity
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []notification
}

func (n *recordingNotifier) Notify(title, message string, severity domain.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, notification{Title: title, Message: message, Severity: severity})
}

func (n *recordingNotifier) count(severity domain.Severity) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, x := range n.got {
		if x.Severity == severity {
			c++
		}
	}
	return c
}

// stubLocator places every name at a fixed point and moves by a fixed step.
type stubLocator struct{}

func (stubLocator) Locate(name string) domain.Location {
	return domain.Location{Lat: 10, Lng: 20, Name: name}
}

func (stubLocator) Nudge(from domain.Location, at time.Time) domain.Location {
	return domain.Location{Lat: from.Lat + 0.01, Lng: from.Lng - 0.01, Name: "Updated Location", Timestamp: &at}
}

type stubIdempotency struct {
	keys map[string]string
	err  error
}

func (s *stubIdempotency) Reserve(_ context.Context, key, id string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	if existing, ok := s.keys[key]; ok {
		return existing, false, nil
	}
	s.keys[key] = id
	return id, true, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	fixedNow      = time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc      *ShipmentService
	store    *Store
	repo     *stubShipmentRepo
	log      *stubUpdateLog
	notifier *recordingNotifier
}

func newFixture() *fixture {
	f := &fixture{
		store:    NewStore(),
		repo:     newStubShipmentRepo(),
		log:      &stubUpdateLog{},
		notifier: &recordingNotifier{},
	}
	f.svc = NewShipmentService(f.store, Deps{
		Repo:      f.repo,
		UpdateLog: f.log,
		Notifier:  f.notifier,
		Locator:   stubLocator{},
	}, Options{TransitDays: 5}, discardLogger)
	f.svc.now = func() time.Time { return fixedNow }

	var seq int
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("SHP%03d", seq)
	}
	return f
}

// seed places shipments in the store and in the stub repository.
func (f *fixture) seed(items ...domain.Shipment) {
	f.store.Replace(items)
	for _, s := range items {
		f.repo.records[s.ID] = toRecord(s)
	}
}

func sampleShipment(id string, status domain.ShipmentStatus, createdAt time.Time) domain.Shipment {
	origin := domain.Location{Lat: 34.0522, Lng: -118.2437, Name: "Port of Los Angeles, CA"}
	dest := domain.Location{Lat: 31.2304, Lng: 121.4737, Name: "Port of Shanghai, China"}
	return domain.Shipment{
		ID:              id,
		ContainerID:     "CONT-" + id,
		Status:          status,
		CurrentLocation: origin,
		Route:           []domain.Location{origin, dest},
		ETA:             createdAt.AddDate(0, 0, 5),
		Origin:          origin,
		Destination:     dest,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func minimalInput(containerID string) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		ContainerID: containerID,
		Origin:      "Port of New York, NY",
		Destination: "Port of Hamburg, Germany",
	}
}

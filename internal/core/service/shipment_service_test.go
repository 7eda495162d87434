package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
)

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestShipmentService_Create_Success(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP900", domain.StatusDelivered, fixedNow.Add(-time.Hour)))

	result, err := f.svc.Create(context.Background(), minimalInput("CONT123456"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := result.Shipment
	if s.Status != domain.StatusPending {
		t.Errorf("expected status %q, got %q", domain.StatusPending, s.Status)
	}
	if s.ContainerID != "CONT123456" {
		t.Errorf("container id: got %q", s.ContainerID)
	}
	if len(s.Route) != 2 || s.Route[0].Name != "Port of New York, NY" || s.Route[1].Name != "Port of Hamburg, Germany" {
		t.Errorf("route must be [origin, destination], got %+v", s.Route)
	}
	if s.CurrentLocation.Name != s.Origin.Name || s.CurrentLocation.Timestamp == nil {
		t.Errorf("current location must start at the origin with a timestamp, got %+v", s.CurrentLocation)
	}
	if !s.CreatedAt.Equal(fixedNow) || s.UpdatedAt.Before(s.CreatedAt) {
		t.Errorf("timestamps wrong: created=%v updated=%v", s.CreatedAt, s.UpdatedAt)
	}
	if result.AlreadyExisted {
		t.Error("expected AlreadyExisted=false for new shipment")
	}

	snap := f.store.Snapshot()
	if len(snap) != 2 || snap[0].ID != s.ID {
		t.Fatalf("new shipment must be at the head of the collection, got %v", ids(snap))
	}
	if len(f.repo.inserted) != 1 || f.repo.inserted[0] != s.ID {
		t.Errorf("expected one insert for %s, got %v", s.ID, f.repo.inserted)
	}
	if f.notifier.count(domain.SeveritySuccess) != 1 {
		t.Errorf("expected a success notification, got %+v", f.notifier.got)
	}
}

func TestShipmentService_Create_ValidationBlocksMutation(t *testing.T) {
	cases := []ports.CreateShipmentInput{
		{Origin: "A", Destination: "B"},
		{ContainerID: "   ", Origin: "A", Destination: "B"},
		{ContainerID: "C1", Destination: "B"},
		{ContainerID: "C1", Origin: "A"},
	}

	for i, in := range cases {
		f := newFixture()
		_, err := f.svc.Create(context.Background(), in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
		if f.store.Len() != 0 {
			t.Errorf("case %d: validation failure must not touch local state", i)
		}
		if len(f.repo.inserted) != 0 {
			t.Errorf("case %d: validation failure must not reach persistence", i)
		}
	}
}

func TestShipmentService_Create_RejectsNonPositiveWeight(t *testing.T) {
	f := newFixture()
	in := minimalInput("C1")
	w := -3.0
	in.Weight = &w

	_, err := f.svc.Create(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestShipmentService_Create_RepoErrorKeepsOptimisticRow(t *testing.T) {
	f := newFixture()
	f.repo.insertErr = fmt.Errorf("insert: %w", domain.ErrPersistence)

	result, err := f.svc.Create(context.Background(), minimalInput("C1"))
	if err != nil {
		t.Fatalf("persistence failure must not be returned to the caller, got %v", err)
	}
	if result == nil || result.Shipment.ID == "" {
		t.Fatal("expected the constructed shipment to be returned")
	}
	if _, ok := f.store.Get(result.Shipment.ID); !ok {
		t.Error("optimistic row must remain after a failed insert")
	}
	if f.notifier.count(domain.SeverityError) != 1 {
		t.Errorf("expected one error notification, got %+v", f.notifier.got)
	}
}

func TestShipmentService_Create_IDsAreUnique(t *testing.T) {
	f := newFixture()
	for i := 0; i < 25; i++ {
		if _, err := f.svc.Create(context.Background(), minimalInput(fmt.Sprintf("C%d", i))); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	seen := make(map[string]bool)
	for _, s := range f.store.Snapshot() {
		if seen[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seen[s.ID] = true
		if s.Status != domain.StatusPending {
			t.Errorf("%s: expected pending, got %s", s.ID, s.Status)
		}
	}
	if len(seen) != 25 {
		t.Errorf("expected 25 shipments, got %d", len(seen))
	}
}

func TestShipmentService_Create_DefaultIDsAreUUIDs(t *testing.T) {
	store := NewStore()
	svc := NewShipmentService(store, Deps{
		Repo:     newStubShipmentRepo(),
		Locator:  stubLocator{},
		Notifier: &recordingNotifier{},
	}, Options{}, discardLogger)

	a, _ := svc.Create(context.Background(), minimalInput("C1"))
	b, _ := svc.Create(context.Background(), minimalInput("C1"))
	if a.Shipment.ID == b.Shipment.ID {
		t.Fatalf("same container id must still yield distinct shipment ids, got %s twice", a.Shipment.ID)
	}
	if len(a.Shipment.ID) != 36 {
		t.Errorf("expected a uuid, got %q", a.Shipment.ID)
	}
}

func TestShipmentService_Create_ETA(t *testing.T) {
	f := newFixture()

	result, _ := f.svc.Create(context.Background(), minimalInput("C1"))
	want := time.Date(2024, 6, 25, 18, 0, 0, 0, time.UTC)
	if !result.Shipment.ETA.Equal(want) {
		t.Errorf("default ETA: want %v, got %v", want, result.Shipment.ETA)
	}

	in := minimalInput("C2")
	override := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	in.ETA = &override
	result, _ = f.svc.Create(context.Background(), in)
	if !result.Shipment.ETA.Equal(override) {
		t.Errorf("explicit ETA: want %v, got %v", override, result.Shipment.ETA)
	}
}

func TestShipmentService_Create_IdempotencyReplay(t *testing.T) {
	f := newFixture()
	f.svc.deps.Idempotency = &stubIdempotency{keys: make(map[string]string)}

	in := minimalInput("C1")
	in.IdempotencyKey = "key-abc-123"

	first, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if second.Shipment.ID != first.Shipment.ID {
		t.Errorf("replay must return the same shipment: got %q, want %q", second.Shipment.ID, first.Shipment.ID)
	}
	if !second.AlreadyExisted {
		t.Error("replay must set AlreadyExisted=true")
	}
	if f.store.Len() != 1 || len(f.repo.inserted) != 1 {
		t.Errorf("replay must not create again: store=%d inserts=%d", f.store.Len(), len(f.repo.inserted))
	}
}

func TestShipmentService_Create_IdempotencyKeyInFlight(t *testing.T) {
	f := newFixture()
	// The key is already bound to a shipment this instance has not stored yet.
	f.svc.deps.Idempotency = &stubIdempotency{keys: map[string]string{"key-1": "pending-id"}}

	in := minimalInput("C1")
	in.IdempotencyKey = "key-1"
	_, err := f.svc.Create(context.Background(), in)

	if !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
	if errors.Is(err, domain.ErrShipmentNotFound) {
		t.Error("a duplicate create must not be reported as not found")
	}
	if f.store.Len() != 0 || len(f.repo.inserted) != 0 {
		t.Errorf("duplicate must not create: store=%d inserts=%d", f.store.Len(), len(f.repo.inserted))
	}
}

func TestShipmentService_Create_IdempotencyStoreDown(t *testing.T) {
	f := newFixture()
	f.svc.deps.Idempotency = &stubIdempotency{err: errors.New("redis down")}

	in := minimalInput("C1")
	in.IdempotencyKey = "k"
	if _, err := f.svc.Create(context.Background(), in); err != nil {
		t.Fatalf("idempotency outage must not block creation, got %v", err)
	}
	if f.store.Len() != 1 {
		t.Errorf("expected shipment to be created")
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus tests
// ---------------------------------------------------------------------------

func TestShipmentService_UpdateStatus_Applies(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusPending, fixedNow.Add(-48*time.Hour)))

	applied, err := f.svc.UpdateStatus(context.Background(), "SHP001", domain.StatusDelayed)
	if err != nil || !applied {
		t.Fatalf("expected applied update, got applied=%v err=%v", applied, err)
	}

	got, _ := f.store.Get("SHP001")
	if got.Status != domain.StatusDelayed {
		t.Errorf("expected delayed, got %s", got.Status)
	}
	if !got.UpdatedAt.Equal(fixedNow) {
		t.Errorf("updatedAt must advance on status change, got %v", got.UpdatedAt)
	}
	if got.ContainerID != "CONT-SHP001" || got.CurrentLocation.Name != "Port of Los Angeles, CA" {
		t.Errorf("other fields must be unchanged, got %+v", got)
	}

	patch := f.repo.patches["SHP001"]
	if patch.Status == nil || *patch.Status != "delayed" {
		t.Errorf("expected status patch, got %+v", patch)
	}
}

func TestShipmentService_UpdateStatus_AnyTransitionAllowed(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusDelivered, fixedNow.Add(-time.Hour)))

	for _, st := range []domain.ShipmentStatus{domain.StatusPending, domain.StatusDelayed, domain.StatusInTransit, domain.StatusDelivered} {
		if applied, err := f.svc.UpdateStatus(context.Background(), "SHP001", st); err != nil || !applied {
			t.Fatalf("transition to %s rejected: applied=%v err=%v", st, applied, err)
		}
	}
}

func TestShipmentService_UpdateStatus_UnknownIDIsNoop(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusPending, fixedNow))
	before := f.store.Snapshot()

	applied, err := f.svc.UpdateStatus(context.Background(), "NOPE", domain.StatusDelivered)
	if err != nil || applied {
		t.Fatalf("expected silent no-op, got applied=%v err=%v", applied, err)
	}
	if len(f.repo.updated) != 0 {
		t.Errorf("no-op must not reach persistence, got %v", f.repo.updated)
	}
	if got := f.store.Snapshot(); len(got) != len(before) || got[0].Status != before[0].Status {
		t.Errorf("collection changed on no-op")
	}
}

func TestShipmentService_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusPending, fixedNow))

	_, err := f.svc.UpdateStatus(context.Background(), "SHP001", "lost")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	got, _ := f.store.Get("SHP001")
	if got.Status != domain.StatusPending {
		t.Errorf("invalid status must not be applied")
	}
}

func TestShipmentService_UpdateStatus_RepoFailureIsNotRolledBack(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusPending, fixedNow))
	f.repo.updateErrs["SHP001"] = fmt.Errorf("update: %w", domain.ErrPersistence)

	applied, err := f.svc.UpdateStatus(context.Background(), "SHP001", domain.StatusInTransit)
	if err != nil || !applied {
		t.Fatalf("persistence failure must not surface, got applied=%v err=%v", applied, err)
	}
	got, _ := f.store.Get("SHP001")
	if got.Status != domain.StatusInTransit {
		t.Errorf("local state must keep the optimistic status, got %s", got.Status)
	}
	if f.notifier.count(domain.SeverityError) != 1 {
		t.Errorf("expected one error notification, got %+v", f.notifier.got)
	}
}

func TestShipmentService_UpdatedAtNeverPrecedesCreatedAt(t *testing.T) {
	f := newFixture()
	// Created "in the future" relative to the service clock.
	future := fixedNow.Add(72 * time.Hour)
	f.seed(sampleShipment("SHP001", domain.StatusPending, future))

	_, _ = f.svc.UpdateStatus(context.Background(), "SHP001", domain.StatusInTransit)
	_, _ = f.svc.UpdateLocation(context.Background(), "SHP001", ports.LocationInput{Lat: 1, Lng: 2, Name: "Somewhere"})

	got, _ := f.store.Get("SHP001")
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("updatedAt %v precedes createdAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

// ---------------------------------------------------------------------------
// UpdateLocation tests
// ---------------------------------------------------------------------------

func TestShipmentService_UpdateLocation_AppendsHistory(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusInTransit, fixedNow.Add(-time.Hour)))

	applied, err := f.svc.UpdateLocation(context.Background(), "SHP001", ports.LocationInput{
		Lat: 37.7749, Lng: -122.4194, Name: "San Francisco, CA",
	})
	if err != nil || !applied {
		t.Fatalf("expected applied update, got applied=%v err=%v", applied, err)
	}

	got, _ := f.store.Get("SHP001")
	if got.CurrentLocation.Name != "San Francisco, CA" || got.CurrentLocation.Timestamp == nil {
		t.Errorf("current location not replaced: %+v", got.CurrentLocation)
	}
	if !got.UpdatedAt.Equal(fixedNow) {
		t.Errorf("updatedAt must be bumped, got %v", got.UpdatedAt)
	}
	if got.Origin.Name != "Port of Los Angeles, CA" {
		t.Errorf("origin must be immutable, got %+v", got.Origin)
	}

	if len(f.log.entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(f.log.entries))
	}
	entry := f.log.entries[0]
	if entry.ShipmentID != "SHP001" || entry.Location.Name != "San Francisco, CA" || entry.Notes != locationUpdateNotes {
		t.Errorf("unexpected history entry: %+v", entry)
	}
}

func TestShipmentService_UpdateLocation_RepoFailureSkipsHistory(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusInTransit, fixedNow))
	f.repo.updateErrs["SHP001"] = domain.ErrPersistence

	_, _ = f.svc.UpdateLocation(context.Background(), "SHP001", ports.LocationInput{Lat: 1, Lng: 1, Name: "X"})

	if len(f.log.entries) != 0 {
		t.Errorf("history must only be written after a successful update")
	}
	got, _ := f.store.Get("SHP001")
	if got.CurrentLocation.Name != "X" {
		t.Errorf("local state must not be rolled back")
	}
}

func TestShipmentService_UpdateLocation_HistoryFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusInTransit, fixedNow))
	f.log.err = errors.New("history unavailable")

	applied, err := f.svc.UpdateLocation(context.Background(), "SHP001", ports.LocationInput{Lat: 1, Lng: 1, Name: "X"})
	if err != nil || !applied {
		t.Fatalf("expected success, got applied=%v err=%v", applied, err)
	}
	if f.notifier.count(domain.SeveritySuccess) != 1 {
		t.Errorf("expected success notification, got %+v", f.notifier.got)
	}
}

func TestShipmentService_UpdateLocation_Validation(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusInTransit, fixedNow))

	bad := []ports.LocationInput{
		{Lat: 91, Lng: 0, Name: "X"},
		{Lat: 0, Lng: -181, Name: "X"},
		{Lat: 0, Lng: 0, Name: " "},
	}
	for i, in := range bad {
		if _, err := f.svc.UpdateLocation(context.Background(), "SHP001", in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
	if len(f.repo.updated) != 0 {
		t.Errorf("invalid locations must not reach persistence")
	}
}

func TestShipmentService_SimulateMovement(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusInTransit, fixedNow))

	got, err := f.svc.SimulateMovement(context.Background(), "SHP001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CurrentLocation.Name != "Updated Location" {
		t.Errorf("expected nudged location, got %+v", got.CurrentLocation)
	}
	if len(f.log.entries) != 1 {
		t.Errorf("simulated movement must be logged like any location update")
	}

	if _, err := f.svc.SimulateMovement(context.Background(), "NOPE"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Errorf("expected ErrShipmentNotFound for unknown id, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete tests
// ---------------------------------------------------------------------------

func TestShipmentService_Delete_RemovesLocallyAndRemotely(t *testing.T) {
	f := newFixture()
	f.seed(
		sampleShipment("SHP001", domain.StatusPending, fixedNow),
		sampleShipment("SHP002", domain.StatusPending, fixedNow.Add(-time.Hour)),
	)

	f.svc.Delete(context.Background(), "SHP001")

	if _, ok := f.store.Get("SHP001"); ok {
		t.Error("shipment must be removed locally")
	}
	if f.store.Len() != 1 {
		t.Errorf("expected 1 remaining shipment, got %d", f.store.Len())
	}
	if _, ok := f.repo.records["SHP001"]; ok {
		t.Error("shipment must be removed remotely")
	}
	if f.notifier.count(domain.SeveritySuccess) != 1 {
		t.Errorf("expected a success notification, got %+v", f.notifier.got)
	}
}

func TestShipmentService_Delete_NonexistentIsNoop(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusPending, fixedNow))
	before := f.store.Snapshot()

	f.svc.Delete(context.Background(), "NOPE")

	after := f.store.Snapshot()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Fatalf("collection changed: before=%v after=%v", ids(before), ids(after))
	}
	if len(f.repo.deleted) != 1 || f.repo.deleted[0] != "NOPE" {
		t.Errorf("remote delete must still be issued, got %v", f.repo.deleted)
	}
	if f.notifier.count(domain.SeverityError) != 1 {
		t.Errorf("not-found must be surfaced to the notifier, got %+v", f.notifier.got)
	}
}

func TestShipmentService_Delete_RepoFailureDoesNotRestore(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("SHP001", domain.StatusPending, fixedNow))
	f.repo.deleteErr = domain.ErrPersistence

	f.svc.Delete(context.Background(), "SHP001")

	if _, ok := f.store.Get("SHP001"); ok {
		t.Error("failed remote delete must not restore the local row")
	}
}

// ---------------------------------------------------------------------------
// Bulk tests
// ---------------------------------------------------------------------------

func TestShipmentService_BulkUpdateStatus_PartialFailure(t *testing.T) {
	f := newFixture()
	f.seed(
		sampleShipment("SHP001", domain.StatusPending, fixedNow),
		sampleShipment("SHP002", domain.StatusPending, fixedNow),
		sampleShipment("SHP003", domain.StatusPending, fixedNow),
	)
	f.repo.updateErrs["SHP002"] = domain.ErrPersistence

	sel := view.NewSelection("SHP001", "SHP002", "SHP003")
	res, err := f.svc.BulkUpdateStatus(context.Background(), sel, domain.StatusDelivered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Requested != 3 || res.Applied != 3 {
		t.Errorf("expected 3/3, got %+v", res)
	}
	for _, s := range f.store.Snapshot() {
		if s.Status != domain.StatusDelivered {
			t.Errorf("%s: expected delivered, got %s", s.ID, s.Status)
		}
	}
	if len(f.repo.updated) != 3 {
		t.Errorf("one failure must not block other requests, got %v", f.repo.updated)
	}
	if sel.Len() != 0 {
		t.Errorf("selection must be cleared after all requests settle")
	}
	if f.notifier.count(domain.SeverityError) != 1 {
		t.Errorf("expected exactly one error notification, got %+v", f.notifier.got)
	}
}

func TestShipmentService_BulkUpdateStatus_InvalidStatusKeepsSelection(t *testing.T) {
	f := newFixture()
	sel := view.NewSelection("SHP001")

	if _, err := f.svc.BulkUpdateStatus(context.Background(), sel, "bogus"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if sel.Len() != 1 {
		t.Errorf("selection must survive a rejected bulk request")
	}
}

func TestShipmentService_BulkDelete(t *testing.T) {
	f := newFixture()
	f.seed(
		sampleShipment("SHP001", domain.StatusPending, fixedNow),
		sampleShipment("SHP002", domain.StatusPending, fixedNow),
		sampleShipment("SHP003", domain.StatusPending, fixedNow),
	)

	sel := view.NewSelection("SHP001", "SHP003", "GONE")
	res := f.svc.BulkDelete(context.Background(), sel)

	if res.Requested != 3 || res.Applied != 2 {
		t.Errorf("expected 3 requested / 2 applied, got %+v", res)
	}
	snap := f.store.Snapshot()
	if len(snap) != 1 || snap[0].ID != "SHP002" {
		t.Errorf("expected only SHP002 left, got %v", ids(snap))
	}
	if sel.Len() != 0 {
		t.Errorf("selection must be cleared")
	}
}

// ---------------------------------------------------------------------------
// Refresh tests
// ---------------------------------------------------------------------------

func TestShipmentService_Refresh_ReplacesAndOrders(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("LOCAL", domain.StatusPending, fixedNow))

	older := toRecord(sampleShipment("A", domain.StatusPending, fixedNow.Add(-48*time.Hour)))
	newer := toRecord(sampleShipment("B", domain.StatusDelivered, fixedNow.Add(-time.Hour)))
	broken := ports.ShipmentRecord{ID: "", Status: "pending"}
	f.repo.fetched = []ports.ShipmentRecord{older, broken, newer}

	if err := f.svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ids(f.store.Snapshot())
	if len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Errorf("expected [B A] (createdAt desc, malformed skipped), got %v", got)
	}
}

func TestShipmentService_Refresh_FailureKeepsLocalState(t *testing.T) {
	f := newFixture()
	f.seed(sampleShipment("LOCAL", domain.StatusPending, fixedNow))
	f.repo.fetchErr = domain.ErrPersistence

	if err := f.svc.Refresh(context.Background()); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if f.store.Len() != 1 {
		t.Errorf("local collection must be kept on fetch failure")
	}
	if f.notifier.count(domain.SeverityError) != 1 {
		t.Errorf("expected fetch failure notification")
	}
}

func ids(items []domain.Shipment) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.ID
	}
	return out
}

package handler

import (
	"context"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
	"github.com/99minutos/shipment-dashboard/internal/pkg/validation"
)

// ---------------------------------------------------------------------------
// Stub service backed by a plain slice
// ---------------------------------------------------------------------------

type stubShipmentService struct {
	mu    sync.Mutex
	items []domain.Shipment

	createFn     func(in ports.CreateShipmentInput) (*ports.ShipmentResult, error)
	refreshErr   error
	deleted      []string
	bulkSelected []string
	bulkStatus   domain.ShipmentStatus
}

func (s *stubShipmentService) Create(_ context.Context, in ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
	return s.createFn(in)
}

func (s *stubShipmentService) UpdateStatus(_ context.Context, id string, status domain.ShipmentStatus) (bool, error) {
	if !status.Valid() {
		return false, &domain.ValidationError{Fields: []string{"status must be one of: pending in-transit delivered delayed"}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (s *stubShipmentService) UpdateLocation(_ context.Context, id string, in ports.LocationInput) (bool, error) {
	if err := validation.New().Struct(in); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].CurrentLocation = domain.Location{Lat: in.Lat, Lng: in.Lng, Name: in.Name, Timestamp: in.Timestamp}
			return true, nil
		}
	}
	return false, nil
}

func (s *stubShipmentService) SimulateMovement(_ context.Context, id string) (*domain.Shipment, error) {
	sh, ok := s.Get(id)
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	sh.CurrentLocation.Name = "Updated Location 10:00:00"
	return &sh, nil
}

func (s *stubShipmentService) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	s.items = slices.DeleteFunc(s.items, func(sh domain.Shipment) bool { return sh.ID == id })
}

func (s *stubShipmentService) BulkUpdateStatus(_ context.Context, sel *view.Selection, status domain.ShipmentStatus) (ports.BulkResult, error) {
	if !status.Valid() {
		return ports.BulkResult{}, &domain.ValidationError{Fields: []string{"bad status"}}
	}
	s.bulkSelected = sel.IDs()
	s.bulkStatus = status
	sel.Clear()
	return ports.BulkResult{Requested: len(s.bulkSelected), Applied: len(s.bulkSelected)}, nil
}

func (s *stubShipmentService) BulkDelete(_ context.Context, sel *view.Selection) ports.BulkResult {
	s.bulkSelected = sel.IDs()
	sel.Clear()
	return ports.BulkResult{Requested: len(s.bulkSelected), Applied: len(s.bulkSelected)}
}

func (s *stubShipmentService) Refresh(context.Context) error {
	return s.refreshErr
}

func (s *stubShipmentService) Get(id string) (domain.Shipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range s.items {
		if sh.ID == id {
			return sh.Clone(), true
		}
	}
	return domain.Shipment{}, false
}

func (s *stubShipmentService) Snapshot() []domain.Shipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Shipment, len(s.items))
	for i, sh := range s.items {
		out[i] = sh.Clone()
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var created = time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)

func sample(id, container, location string, status domain.ShipmentStatus, day int) domain.Shipment {
	origin := domain.Location{Lat: 34.0522, Lng: -118.2437, Name: "Port of Los Angeles, CA"}
	dest := domain.Location{Lat: 31.2304, Lng: 121.4737, Name: "Port of Shanghai, China"}
	at := created.AddDate(0, 0, day)
	return domain.Shipment{
		ID:              id,
		ContainerID:     container,
		Status:          status,
		CurrentLocation: domain.Location{Lat: 20, Lng: -150, Name: location},
		Route:           []domain.Location{origin, dest},
		ETA:             at.AddDate(0, 0, 14),
		Origin:          origin,
		Destination:     dest,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

func newStubService() *stubShipmentService {
	return &stubShipmentService{items: []domain.Shipment{
		sample("SHP003", "MSCU3333333", "Pacific Ocean", domain.StatusInTransit, 2),
		sample("SHP002", "MAEU2222222", "Port of Shanghai, China", domain.StatusDelivered, 1),
		sample("SHP001", "CMAU1111111", "Suez Canal", domain.StatusDelayed, 0),
	}}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

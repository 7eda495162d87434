package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toCreateInput(req createShipmentRequest, idempotencyKey string) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		ContainerID:    req.ContainerID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Weight:         req.Weight,
		Dimensions:     req.Dimensions,
		Description:    req.Description,
		ETA:            req.ETA,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
}

func toLocationInput(req updateLocationRequest) ports.LocationInput {
	return ports.LocationInput{
		Lat:       req.Lat,
		Lng:       req.Lng,
		Name:      req.Name,
		Timestamp: req.Timestamp,
	}
}

func filterFromQuery(c echo.Context) filterRequest {
	return filterRequest{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
		From:   c.QueryParam("from"),
		To:     c.QueryParam("to"),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
	}
}

// toFilter validates the filter state. Empty fields keep the table defaults.
func toFilter(req filterRequest) (view.Filter, error) {
	f := view.DefaultFilter()
	f.Query = strings.TrimSpace(req.Query)

	if s := strings.ToLower(strings.TrimSpace(req.Status)); s != "" {
		if s != view.StatusAll && !domain.ShipmentStatus(s).Valid() {
			return f, &domain.ValidationError{Fields: []string{fmt.Sprintf("status %q is not a shipment status", req.Status)}}
		}
		f.Status = s
	}

	var errs []string
	if req.From != "" {
		from, err := parseBound(req.From, false)
		if err != nil {
			errs = append(errs, "from must be RFC3339 or YYYY-MM-DD")
		}
		f.From = &from
	}
	if req.To != "" {
		to, err := parseBound(req.To, true)
		if err != nil {
			errs = append(errs, "to must be RFC3339 or YYYY-MM-DD")
		}
		f.To = &to
	}
	if req.Sort != "" {
		field, ok := view.ParseSortField(req.Sort)
		if !ok {
			errs = append(errs, "sort must be one of: id status eta created_at")
		}
		f.SortBy = field
	}
	if req.Order != "" {
		order, ok := view.ParseSortOrder(req.Order)
		if !ok {
			errs = append(errs, "order must be one of: asc desc")
		}
		f.Order = order
	}
	if len(errs) > 0 {
		return f, &domain.ValidationError{Fields: errs}
	}
	return f, nil
}

// parseBound accepts RFC3339 or a bare date. A bare upper bound covers the
// whole day.
func parseBound(s string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return d.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return d, nil
}

// --- Domain → HTTP response ---

func toLocationResponse(l domain.Location) locationResponse {
	return locationResponse{Lat: l.Lat, Lng: l.Lng, Name: l.Name, Timestamp: l.Timestamp}
}

func toShipmentResponse(s domain.Shipment) shipmentResponse {
	route := make([]locationResponse, len(s.Route))
	for i, l := range s.Route {
		route[i] = toLocationResponse(l)
	}
	return shipmentResponse{
		ID:              s.ID,
		ContainerID:     s.ContainerID,
		Status:          string(s.Status),
		CurrentLocation: toLocationResponse(s.CurrentLocation),
		Route:           route,
		ETA:             s.ETA.UTC(),
		Origin:          toLocationResponse(s.Origin),
		Destination:     toLocationResponse(s.Destination),
		Weight:          s.Weight,
		Dimensions:      s.Dimensions,
		Description:     s.Description,
		CreatedAt:       s.CreatedAt.UTC(),
		UpdatedAt:       s.UpdatedAt.UTC(),
		Links: shipmentLinks{
			Self:     "/v1/shipments/" + s.ID,
			Location: "/v1/shipments/" + s.ID + "/location",
		},
	}
}

func toListResponse(p view.Page) listShipmentsResponse {
	items := make([]shipmentResponse, len(p.Items))
	for i, s := range p.Items {
		items[i] = toShipmentResponse(s)
	}
	return listShipmentsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}
}

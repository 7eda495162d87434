package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createShipmentRequest struct {
	ContainerID string     `json:"container_id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Weight      *float64   `json:"weight,omitempty"`
	Dimensions  string     `json:"dimensions,omitempty"`
	Description string     `json:"description,omitempty"`
	ETA         *time.Time `json:"eta,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type updateLocationRequest struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Name      string     `json:"name"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// filterRequest is the filter and sort state of the table. List and export
// read it from the query string; bulk requests carry it in the body.
type filterRequest struct {
	Query  string `json:"q"`
	Status string `json:"status"`
	From   string `json:"from"`
	To     string `json:"to"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
}

// bulkRequest selects shipments either by id or, with select_all, by every
// shipment matching filter.
type bulkRequest struct {
	IDs       []string      `json:"ids"`
	SelectAll bool          `json:"select_all"`
	Filter    filterRequest `json:"filter"`
}

type bulkStatusRequest struct {
	bulkRequest
	Status string `json:"status" validate:"required"`
}

// --- Response types ---

type locationResponse struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Name      string     `json:"name"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type shipmentLinks struct {
	Self     string `json:"self"`
	Location string `json:"location"`
}

type shipmentResponse struct {
	ID              string             `json:"id"`
	ContainerID     string             `json:"container_id"`
	Status          string             `json:"status"`
	CurrentLocation locationResponse   `json:"current_location"`
	Route           []locationResponse `json:"route"`
	ETA             time.Time          `json:"eta"`
	Origin          locationResponse   `json:"origin"`
	Destination     locationResponse   `json:"destination"`
	Weight          *float64           `json:"weight,omitempty"`
	Dimensions      string             `json:"dimensions,omitempty"`
	Description     string             `json:"description,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Links           shipmentLinks      `json:"_links"`
}

type paginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

type listShipmentsResponse struct {
	Data       []shipmentResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type bulkResponse struct {
	Requested int `json:"requested"`
	Applied   int `json:"applied"`
}

type refreshResponse struct {
	Count int `json:"count"`
}

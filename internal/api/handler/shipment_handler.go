package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// List handles GET /v1/shipments.
//
// @Summary      List shipments
// @Description  Filtered, sorted and paginated view of the shipment collection.
// @Tags         shipments
// @Produce      json
// @Param        q       query     string  false  "Case-insensitive match on id, container id or current location"
// @Param        status  query     string  false  "all, pending, in-transit, delivered or delayed"
// @Param        from    query     string  false  "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param        to      query     string  false  "Created at or before (RFC3339 or YYYY-MM-DD)"
// @Param        sort    query     string  false  "id, status, eta or created_at"  default(created_at)
// @Param        order   query     string  false  "asc or desc"                     default(desc)
// @Param        page    query     int     false  "Page number"                     default(1)
// @Param        limit   query     int     false  "Page size (max 100)"             default(20)
// @Success      200     {object}  listShipmentsResponse
// @Failure      400     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	filter, err := toFilter(filterFromQuery(c))
	if err != nil {
		return err
	}

	page, limit := 1, view.DefaultLimit
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}

	derived := view.Derive(h.service.Snapshot(), filter)
	return c.JSON(http.StatusOK, toListResponse(view.Paginate(derived, page, limit)))
}

// Get handles GET /v1/shipments/:id.
//
// @Summary      Get a shipment by id
// @Tags         shipments
// @Produce      json
// @Param        id   path      string  true  "Shipment id"
// @Success      200  {object}  shipmentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	s, ok := h.service.Get(c.Param("id"))
	if !ok {
		return domain.ErrShipmentNotFound
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}

// Create handles POST /v1/shipments.
//
// The shipment is created locally even if persisting it fails; persistence
// failures are reported on the notification channel.
//
// @Summary      Create a new shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                 false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createShipmentRequest  true   "Shipment form"
// @Success      201              {object}  shipmentResponse
// @Success      200              {object}  shipmentResponse       "Replay of an earlier request with the same Idempotency-Key"
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse        "Same Idempotency-Key still in progress"
// @Failure      422              {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Create(c.Request().Context(), toCreateInput(req, c.Request().Header.Get("Idempotency-Key")))
	if err != nil {
		return err
	}

	code := http.StatusCreated
	if result.AlreadyExisted {
		code = http.StatusOK
	}
	return c.JSON(code, toShipmentResponse(result.Shipment))
}

// UpdateStatus handles PATCH /v1/shipments/:id/status.
//
// @Summary      Change the status of a shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Shipment id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/{id}/status [patch]
func (h *ShipmentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id := c.Param("id")
	applied, err := h.service.UpdateStatus(c.Request().Context(), id, domain.ShipmentStatus(req.Status))
	if err != nil {
		return err
	}
	return h.respondCurrent(c, id, applied)
}

// UpdateLocation handles PATCH /v1/shipments/:id/location.
//
// @Summary      Report a new position for a shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Shipment id"
// @Param        body  body      updateLocationRequest  true  "New current location"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/{id}/location [patch]
func (h *ShipmentHandler) UpdateLocation(c echo.Context) error {
	var req updateLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	id := c.Param("id")
	applied, err := h.service.UpdateLocation(c.Request().Context(), id, toLocationInput(req))
	if err != nil {
		return err
	}
	return h.respondCurrent(c, id, applied)
}

// SimulateMovement handles POST /v1/shipments/:id/location/simulate.
//
// @Summary      Move a shipment by a small random step
// @Tags         shipments
// @Produce      json
// @Param        id   path      string  true  "Shipment id"
// @Success      200  {object}  shipmentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id}/location/simulate [post]
func (h *ShipmentHandler) SimulateMovement(c echo.Context) error {
	s, err := h.service.SimulateMovement(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(*s))
}

// Delete handles DELETE /v1/shipments/:id.
//
// Deleting an unknown id is not an error; the outcome of the remote delete is
// reported on the notification channel.
//
// @Summary      Delete a shipment
// @Tags         shipments
// @Param        id  path  string  true  "Shipment id"
// @Success      204
// @Router       /v1/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c echo.Context) error {
	h.service.Delete(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// Refresh handles POST /v1/shipments/refresh.
//
// @Summary      Reload the collection from the source of record
// @Tags         shipments
// @Produce      json
// @Success      200  {object}  refreshResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/shipments/refresh [post]
func (h *ShipmentHandler) Refresh(c echo.Context) error {
	if err := h.service.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Count: len(h.service.Snapshot())})
}

func (h *ShipmentHandler) respondCurrent(c echo.Context, id string, applied bool) error {
	if !applied {
		return domain.ErrShipmentNotFound
	}
	s, ok := h.service.Get(id)
	if !ok {
		return domain.ErrShipmentNotFound
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}

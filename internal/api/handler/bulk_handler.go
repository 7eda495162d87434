package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
)

// BulkHandler applies one operation to a selection of shipments.
type BulkHandler struct {
	service ports.ShipmentService
}

func NewBulkHandler(service ports.ShipmentService) *BulkHandler {
	return &BulkHandler{service: service}
}

// UpdateStatus handles POST /v1/shipments/bulk/status.
//
// @Summary      Change the status of many shipments
// @Description  One update is issued per selected id; the response is sent once all of them settled.
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        body  body      bulkStatusRequest  true  "Selection and new status"
// @Success      200   {object}  bulkResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/bulk/status [post]
func (h *BulkHandler) UpdateStatus(c echo.Context) error {
	var req bulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sel, err := h.selection(req.bulkRequest)
	if err != nil {
		return err
	}
	res, err := h.service.BulkUpdateStatus(c.Request().Context(), sel, domain.ShipmentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkResponse{Requested: res.Requested, Applied: res.Applied})
}

// Delete handles POST /v1/shipments/bulk/delete.
//
// @Summary      Delete many shipments
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        body  body      bulkRequest  true  "Selection"
// @Success      200   {object}  bulkResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/bulk/delete [post]
func (h *BulkHandler) Delete(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sel, err := h.selection(req)
	if err != nil {
		return err
	}
	res := h.service.BulkDelete(c.Request().Context(), sel)
	return c.JSON(http.StatusOK, bulkResponse{Requested: res.Requested, Applied: res.Applied})
}

// selection builds the selection a bulk request refers to. select_all picks
// exactly the shipments of the derived view; otherwise the given ids are used.
func (h *BulkHandler) selection(req bulkRequest) (*view.Selection, error) {
	if req.SelectAll {
		filter, err := toFilter(req.Filter)
		if err != nil {
			return nil, err
		}
		sel := view.NewSelection()
		sel.SelectAll(view.Derive(h.service.Snapshot(), filter))
		return sel, nil
	}

	if len(req.IDs) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "ids cannot be empty unless select_all is set")
	}
	return view.NewSelection(req.IDs...), nil
}

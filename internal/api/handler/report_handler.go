package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/shipment-dashboard/internal/core/analytics"
	"github.com/99minutos/shipment-dashboard/internal/core/export"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/view"
)

// ReportHandler serves read-only projections of the whole collection: the
// analytics panel and the CSV export.
type ReportHandler struct {
	service ports.ShipmentService
	now     func() time.Time
}

func NewReportHandler(service ports.ShipmentService) *ReportHandler {
	return &ReportHandler{service: service, now: time.Now}
}

// Analytics handles GET /v1/analytics.
//
// @Summary      Status distribution, monthly histogram and delivery rates
// @Description  Always computed over the full collection; table filters do not apply.
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  analytics.Summary
// @Router       /v1/analytics [get]
func (h *ReportHandler) Analytics(c echo.Context) error {
	return c.JSON(http.StatusOK, analytics.Summarize(h.service.Snapshot()))
}

// Export handles GET /v1/shipments/export.
//
// @Summary      Download the filtered view as CSV
// @Tags         shipments
// @Produce      text/csv
// @Param        q       query  string  false  "Case-insensitive match on id, container id or current location"
// @Param        status  query  string  false  "all, pending, in-transit, delivered or delayed"
// @Param        from    query  string  false  "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param        to      query  string  false  "Created at or before (RFC3339 or YYYY-MM-DD)"
// @Param        sort    query  string  false  "id, status, eta or created_at"
// @Param        order   query  string  false  "asc or desc"
// @Success      200     {file}  file
// @Failure      422     {object}  errorResponse
// @Router       /v1/shipments/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	filter, err := toFilter(filterFromQuery(c))
	if err != nil {
		return err
	}
	derived := view.Derive(h.service.Snapshot(), filter)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName(h.now())))
	res.WriteHeader(http.StatusOK)
	return export.WriteCSV(res, derived)
}

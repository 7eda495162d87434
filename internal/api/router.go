package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/shipment-dashboard/docs"
	"github.com/99minutos/shipment-dashboard/internal/api/handler"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/pkg/validation"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Service ports.ShipmentService
	// Checks are the readiness checks served at /health/ready, by name.
	Checks map[string]handler.Check
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	// --- Handlers ---
	shipmentHandler := handler.NewShipmentHandler(deps.Service)
	bulkHandler := handler.NewBulkHandler(deps.Service)
	reportHandler := handler.NewReportHandler(deps.Service)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	// --- Shipment routes ---
	v1 := e.Group("/v1")
	v1.GET("/shipments", shipmentHandler.List)
	v1.POST("/shipments", shipmentHandler.Create)
	v1.GET("/shipments/export", reportHandler.Export)
	v1.POST("/shipments/refresh", shipmentHandler.Refresh)
	v1.POST("/shipments/bulk/status", bulkHandler.UpdateStatus)
	v1.POST("/shipments/bulk/delete", bulkHandler.Delete)
	v1.GET("/shipments/:id", shipmentHandler.Get)
	v1.DELETE("/shipments/:id", shipmentHandler.Delete)
	v1.PATCH("/shipments/:id/status", shipmentHandler.UpdateStatus)
	v1.PATCH("/shipments/:id/location", shipmentHandler.UpdateLocation)
	v1.POST("/shipments/:id/location/simulate", shipmentHandler.SimulateMovement)
	v1.GET("/analytics", reportHandler.Analytics)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one structured line per request with the request id.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

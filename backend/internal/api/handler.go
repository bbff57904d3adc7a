package api

import (
	"log/slog"
	"net/http"

	"sensor-dashboard/backend/internal/services"
	apicommon "sensor-dashboard/backend/internal/shared/api"
	"sensor-dashboard/backend/pkg/router"
)

const (
	CoreGroup      = "Core"
	SensorsGroup   = "Sensors"
	SelectionGroup = "Selection"
)

// Handler serves the read API over engine snapshots.
type Handler struct {
	l   *slog.Logger
	svc *services.Services
}

func NewHandler(l *slog.Logger, svc *services.Services) *Handler {
	return &Handler{
		l:   l.With(slog.String("component", "api")),
		svc: svc,
	}
}

// Register mounts every route under /api.
func (h *Handler) Register(rb *router.RouteBuilder, mw *apicommon.MiddlewareHandler) {
	h.l.Info("Registering HTTP handlers...")

	rb.Route("/api", func(rb *router.RouteBuilder) {
		rb.Use(mw.RequestIDMiddleware)
		rb.Use(mw.LoggerMiddleware)
		rb.Use(mw.RecoveryMiddleware)

		h.RegisterPing("/ping", rb)
		h.RegisterHealth("/health", rb)
		h.RegisterOpenAPI("/openapi.yaml", rb)

		rb.Route("/sensors", func(rb *router.RouteBuilder) {
			h.RegisterListSensors("/", rb)
			h.RegisterGetSensor("/{sensorID}", rb)
			h.RegisterGetReadings("/{sensorID}/readings", rb)
		})

		rb.Route("/selection", func(rb *router.RouteBuilder) {
			h.RegisterGetSelection("/", rb)
			h.RegisterSelectNext("/next", rb)
		})
	})

	rb.Router().Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/openapi.yaml", http.StatusFound)
	})

	h.l.Info("HTTP handlers registered successfully")
}

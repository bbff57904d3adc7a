package api

import (
	"fmt"
	"net/http"

	apitypes "sensor-dashboard/backend/internal/api/types"
	apicommon "sensor-dashboard/backend/internal/shared/api"
	sharedtypes "sensor-dashboard/backend/internal/shared/types"
	"sensor-dashboard/backend/pkg/router"
	"sensor-dashboard/backend/pkg/utils"
)

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) error {
	apicommon.RespondJSON(w, r, http.StatusOK, sharedtypes.PingResponse{
		Message: "Pong",
		Status:  sharedtypes.StatusOK,
		Version: utils.GetVersionShort(),
	})

	return nil
}

func (h *Handler) RegisterPing(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "ping",
		Summary:     "Ping the server",
		Description: "Check if the server is alive",
		Group:       CoreGroup,
		Handler:     apicommon.ErrorHandler(h.Ping),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK: {
				Description: "Successful ping response",
				Type:        sharedtypes.PingResponse{},
				Examples: map[string]any{
					"Success": sharedtypes.PingResponse{Message: "Pong", Status: sharedtypes.StatusOK, Version: "v1.0.0"},
				},
			},
		}),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) error {
	status := h.svc.Core.Health(r.Context())

	code, summary := http.StatusOK, sharedtypes.StatusOK
	if !status.Healthy() {
		code, summary = http.StatusServiceUnavailable, sharedtypes.StatusDegraded
	}

	apicommon.RespondJSON(w, r, code, apitypes.HealthResponse{
		Status:         summary,
		MQTT:           status.MQTT,
		JournalEnabled: status.JournalEnabled,
		Journal:        status.Journal,
		Engine:         status.Engine,
	})

	return nil
}

func (h *Handler) RegisterHealth(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "health",
		Summary:     "Check server health",
		Description: "Reports the MQTT connection, the journal database and the engine counters",
		Group:       CoreGroup,
		Handler:     apicommon.ErrorHandler(h.Health),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK: {
				Description: "Healthy",
				Type:        apitypes.HealthResponse{},
				Examples: map[string]any{
					"Success": apitypes.HealthResponse{Status: sharedtypes.StatusOK, MQTT: true, Journal: true},
				},
			},
			http.StatusServiceUnavailable: {
				Description: "A dependency is unreachable",
				Type:        apitypes.HealthResponse{},
				Examples: map[string]any{
					"MQTT Unavailable":    apitypes.HealthResponse{Status: sharedtypes.StatusDegraded, MQTT: false, Journal: true},
					"Journal Unavailable": apitypes.HealthResponse{Status: sharedtypes.StatusDegraded, MQTT: true, JournalEnabled: true, Journal: false},
				},
			},
		}),
	})
}

// RegisterOpenAPI serves the document rb has collected so far.
func (h *Handler) RegisterOpenAPI(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getOpenAPI",
		Summary:     "Get the OpenAPI document",
		Description: "Returns this API's OpenAPI 3 document as YAML",
		Group:       CoreGroup,
		Handler: apicommon.ErrorHandler(func(w http.ResponseWriter, _ *http.Request) error {
			out, err := rb.SpecYAML()
			if err != nil {
				return fmt.Errorf("failed to render OpenAPI document: %w", err)
			}

			w.Header().Set("Content-Type", "application/yaml")
			w.WriteHeader(http.StatusOK)
			_, err = w.Write(out)

			return err
		}),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK: {Description: "OpenAPI document"},
		}),
	})
}

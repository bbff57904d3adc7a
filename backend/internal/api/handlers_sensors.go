package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sensor-dashboard/backend/internal/aggregate"
	apitypes "sensor-dashboard/backend/internal/api/types"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/internal/services"
	apicommon "sensor-dashboard/backend/internal/shared/api"
	sharedtypes "sensor-dashboard/backend/internal/shared/types"
	"sensor-dashboard/backend/pkg/router"
	"sensor-dashboard/backend/pkg/utils"
)

//nolint:gochecknoglobals // Example values for the OpenAPI document
var exampleSensor = aggregate.ViewModel{
	ID:          1,
	Type:        "SHT31",
	Location:    "kitchen",
	Battery:     utils.Ptr(uint32(87)),
	Temperature: 21.5,
	Humidity:    48,
	UpdatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	Extrema:     aggregate.Extrema{MinTemperature: 19.5, MaxTemperature: 23, MinHumidity: 45, MaxHumidity: 52},
	Datapoints: []aggregate.Datapoint{
		{Temperature: 20.25, Humidity: 50.5, Time: time.Date(2026, 3, 1, 11, 58, 0, 0, time.UTC)},
	},
	Pending: []aggregate.Sample{
		{Temperature: 21.5, Humidity: 48, Time: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	},
}

//nolint:gochecknoglobals // Shared by every /sensors/{sensorID} route
var sensorIDParam = map[string]router.ParameterSpec{
	"sensorID": {
		In:          router.ParameterInPath,
		Description: "ID of the sensor",
		Required:    true,
		Type:        new(uint32),
	},
}

func sensorIDFromPath(r *http.Request) (aggregate.SensorID, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "sensorID"), 10, 32)
	if err != nil || id == 0 {
		return 0, apicommon.NewError(http.StatusBadRequest, "Invalid sensor ID")
	}

	return aggregate.SensorID(id), nil
}

func notFound(message string) router.ResponseSpec {
	return router.ResponseSpec{
		Description: message,
		Type:        sharedtypes.ErrorResponse{},
		Examples: map[string]any{
			"Not Found": sharedtypes.ErrorResponse{RequestID: "00000000-0000-0000-0000-000000000000", Message: message},
		},
	}
}

func (h *Handler) ListSensors(w http.ResponseWriter, r *http.Request) error {
	apicommon.RespondJSON(w, r, http.StatusOK, apitypes.SensorListResponse{Sensors: h.svc.Sensors.List()})

	return nil
}

func (h *Handler) RegisterListSensors(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "listSensors",
		Summary:     "List sensors",
		Description: "Lists every sensor seen since startup, in registration order",
		Group:       SensorsGroup,
		Handler:     apicommon.ErrorHandler(h.ListSensors),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK: {
				Description: "Known sensors",
				Type:        apitypes.SensorListResponse{},
				Examples: map[string]any{
					"Two Sensors": apitypes.SensorListResponse{Sensors: []aggregate.SensorSummary{
						{ID: 1, SensorKey: aggregate.SensorKey{Type: "SHT31", Location: "kitchen"}},
						{ID: 2, SensorKey: aggregate.SensorKey{Type: "DHT22", Location: "cellar"}},
					}},
				},
			},
		}),
	})
}

func (h *Handler) GetSensor(w http.ResponseWriter, r *http.Request) error {
	id, err := sensorIDFromPath(r)
	if err != nil {
		return err
	}

	vm, err := h.svc.Sensors.Get(id)
	if errors.Is(err, services.ErrSensorNotFound) {
		return apicommon.NewError(http.StatusNotFound, "Sensor not found")
	}

	if err != nil {
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, vm)

	return nil
}

func (h *Handler) RegisterGetSensor(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getSensor",
		Summary:     "Get a sensor",
		Description: "Returns a snapshot of one sensor with its retained history",
		Group:       SensorsGroup,
		Handler:     apicommon.ErrorHandler(h.GetSensor),
		Parameters:  sensorIDParam,
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK: {
				Description: "Sensor snapshot",
				Type:        aggregate.ViewModel{},
				Examples:    map[string]any{"Kitchen": exampleSensor},
			},
			http.StatusBadRequest: {Description: "Invalid sensor ID", Type: sharedtypes.ErrorResponse{}},
			http.StatusNotFound:   notFound("Sensor not found"),
		}),
	})
}

func (h *Handler) GetReadings(w http.ResponseWriter, r *http.Request) error {
	id, err := sensorIDFromPath(r)
	if err != nil {
		return err
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return apicommon.NewError(http.StatusBadRequest, "Invalid limit")
		}
	}

	entries, err := h.svc.Sensors.Readings(r.Context(), id, limit)

	switch {
	case errors.Is(err, services.ErrSensorNotFound):
		return apicommon.NewError(http.StatusNotFound, "Sensor not found")
	case errors.Is(err, services.ErrInvalidLimit):
		return apicommon.NewError(http.StatusBadRequest, "Invalid limit")
	case errors.Is(err, journal.ErrDisabled):
		return apicommon.NewError(http.StatusServiceUnavailable, "Journal is disabled")
	case err != nil:
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, apitypes.ReadingsResponse{SensorID: id, Readings: entries})

	return nil
}

func (h *Handler) RegisterGetReadings(path string, rb *router.RouteBuilder) {
	params := map[string]router.ParameterSpec{
		"limit": {
			In:          router.ParameterInQuery,
			Description: "Maximum number of readings to return (1-" + strconv.Itoa(services.MaxReadingsLimit) + ")",
			Type:        new(int),
		},
	}
	for name, p := range sensorIDParam {
		params[name] = p
	}

	rb.MustGet(path, router.RouteSpec{
		OperationID: "getSensorReadings",
		Summary:     "Get raw readings",
		Description: "Returns the newest raw readings of a sensor from the journal",
		Group:       SensorsGroup,
		Handler:     apicommon.ErrorHandler(h.GetReadings),
		Parameters:  params,
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK: {
				Description: "Raw readings, newest first",
				Type:        apitypes.ReadingsResponse{},
			},
			http.StatusBadRequest:         {Description: "Invalid sensor ID or limit", Type: sharedtypes.ErrorResponse{}},
			http.StatusNotFound:           notFound("Sensor not found"),
			http.StatusServiceUnavailable: {Description: "Journal is disabled", Type: sharedtypes.ErrorResponse{}},
		}),
	})
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) error {
	vm, err := h.svc.Sensors.Selected()
	if errors.Is(err, services.ErrNoSensors) {
		return apicommon.NewError(http.StatusNotFound, "No sensors registered")
	}

	if err != nil {
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, vm)

	return nil
}

func (h *Handler) RegisterGetSelection(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getSelection",
		Summary:     "Get the selected sensor",
		Description: "Returns a snapshot of the sensor the dashboard is showing",
		Group:       SelectionGroup,
		Handler:     apicommon.ErrorHandler(h.GetSelection),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK:       {Description: "Selected sensor", Type: aggregate.ViewModel{}},
			http.StatusNotFound: notFound("No sensors registered"),
		}),
	})
}

func (h *Handler) SelectNext(w http.ResponseWriter, r *http.Request) error {
	vm, err := h.svc.Sensors.SelectNext()
	if errors.Is(err, services.ErrNoSensors) {
		return apicommon.NewError(http.StatusNotFound, "No sensors registered")
	}

	if err != nil {
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, vm)

	return nil
}

func (h *Handler) RegisterSelectNext(path string, rb *router.RouteBuilder) {
	rb.MustPost(path, router.RouteSpec{
		OperationID: "selectNextSensor",
		Summary:     "Select the next sensor",
		Description: "Advances the selection in registration order, wrapping around",
		Group:       SelectionGroup,
		Handler:     apicommon.ErrorHandler(h.SelectNext),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			http.StatusOK:       {Description: "Newly selected sensor", Type: aggregate.ViewModel{}},
			http.StatusNotFound: notFound("No sensors registered"),
		}),
	})
}

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sensor-dashboard/backend/internal/aggregate"
	apitypes "sensor-dashboard/backend/internal/api/types"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/internal/selection"
	"sensor-dashboard/backend/internal/services"
	apicommon "sensor-dashboard/backend/internal/shared/api"
	sharedtypes "sensor-dashboard/backend/internal/shared/types"
	"sensor-dashboard/backend/pkg/router"
	"sensor-dashboard/backend/pkg/utils"

	"github.com/stretchr/testify/require"
)

type fakeConn bool

func (c fakeConn) IsConnected() bool { return bool(c) }

type stubJournal struct {
	entries []journal.Entry
}

func (j *stubJournal) Append(context.Context, journal.Entry) error { return nil }

func (j *stubJournal) Recent(_ context.Context, _ aggregate.SensorKey, limit int) ([]journal.Entry, error) {
	return j.entries[:min(limit, len(j.entries))], nil
}

func (j *stubJournal) Ping(context.Context) error { return nil }
func (j *stubJournal) Close() error               { return nil }
func (j *stubJournal) Enabled() bool              { return true }

type testServer struct {
	handler http.Handler
	engine  *aggregate.Engine
	sel     *selection.Selector
}

func newTestServer(t *testing.T, j journal.Journal, conn services.ConnectionChecker) *testServer {
	t.Helper()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine, err := aggregate.New(l, aggregate.Options{CompactionWidth: 2, HistoryCapacity: 3})
	require.NoError(t, err)

	sel := selection.New(engine)

	rb, err := router.NewRouteBuilder(l, router.APIInfo{Title: "Sensor Dashboard", Version: "test"})
	require.NoError(t, err)

	NewHandler(l, services.NewServices(l, engine, sel, j, conn)).Register(rb, apicommon.NewMiddlewareHandler(l))

	return &testServer{handler: rb.Router(), engine: engine, sel: sel}
}

func (s *testServer) ingest(typ, location string, temp float32) aggregate.SensorID {
	id := s.engine.Ingest(aggregate.SensorKey{Type: typ, Location: location}, aggregate.Sample{Temperature: temp, Humidity: 50, Time: time.Now()}, nil)
	s.sel.Observe(id)

	return id
}

func (s *testServer) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	v, err := utils.FromJSON[T](rec.Body.Bytes())
	require.NoError(t, err, rec.Body.String())

	return v
}

func TestPing(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil, fakeConn(true))
	rec := s.do(t, http.MethodGet, "/api/ping")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(apicommon.RequestIDHeader))
	resp := decode[sharedtypes.PingResponse](t, rec)
	require.Equal(t, "Pong", resp.Message)
	require.Equal(t, sharedtypes.StatusOK, resp.Status)
	require.Equal(t, utils.GetVersionShort(), resp.Version)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, nil, fakeConn(true))
		s.ingest("SHT31", "kitchen", 20)

		rec := s.do(t, http.MethodGet, "/api/health")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[apitypes.HealthResponse](t, rec)
		require.Equal(t, sharedtypes.StatusOK, resp.Status)
		require.True(t, resp.MQTT)
		require.False(t, resp.JournalEnabled)
		require.Equal(t, 1, resp.Engine.Sensors)
		require.Equal(t, uint64(1), resp.Engine.SamplesIngested)
	})

	t.Run("mqtt down", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, nil, fakeConn(false))
		rec := s.do(t, http.MethodGet, "/api/health")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp := decode[apitypes.HealthResponse](t, rec)
		require.Equal(t, sharedtypes.StatusDegraded, resp.Status)
		require.False(t, resp.MQTT)
	})
}

func TestSensors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil, fakeConn(true))

	rec := s.do(t, http.MethodGet, "/api/sensors")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[apitypes.SensorListResponse](t, rec).Sensors)

	kitchen := s.ingest("SHT31", "kitchen", 20)
	s.ingest("SHT31", "kitchen", 22)
	s.ingest("SHT31", "kitchen", 30)
	cellar := s.ingest("DHT22", "cellar", 12)

	rec = s.do(t, http.MethodGet, "/api/sensors")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []aggregate.SensorSummary{
		{ID: kitchen, SensorKey: aggregate.SensorKey{Type: "SHT31", Location: "kitchen"}},
		{ID: cellar, SensorKey: aggregate.SensorKey{Type: "DHT22", Location: "cellar"}},
	}, decode[apitypes.SensorListResponse](t, rec).Sensors)

	rec = s.do(t, http.MethodGet, "/api/sensors/1")
	require.Equal(t, http.StatusOK, rec.Code)

	vm := decode[aggregate.ViewModel](t, rec)
	require.Equal(t, kitchen, vm.ID)
	require.InDelta(t, 30, vm.Temperature, 1e-6)
	require.Len(t, vm.Datapoints, 1)
	require.InDelta(t, 21, vm.Datapoints[0].Temperature, 1e-6)
	require.Len(t, vm.Pending, 1)
	require.InDelta(t, 20, vm.MinTemperature, 1e-6)
	require.InDelta(t, 30, vm.MaxTemperature, 1e-6)
}

func TestGetSensorErrors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil, fakeConn(true))
	s.ingest("SHT31", "kitchen", 20)

	tests := []struct {
		target string
		status int
		msg    string
	}{
		{target: "/api/sensors/2", status: http.StatusNotFound, msg: "Sensor not found"},
		{target: "/api/sensors/0", status: http.StatusBadRequest, msg: "Invalid sensor ID"},
		{target: "/api/sensors/abc", status: http.StatusBadRequest, msg: "Invalid sensor ID"},
		{target: "/api/sensors/99999999999", status: http.StatusBadRequest, msg: "Invalid sensor ID"},
		{target: "/api/sensors/1/readings", status: http.StatusServiceUnavailable, msg: "Journal is disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			rec := s.do(t, http.MethodGet, tt.target)
			require.Equal(t, tt.status, rec.Code)

			resp := decode[sharedtypes.ErrorResponse](t, rec)
			require.Equal(t, tt.msg, resp.Message)
			require.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestReadings(t *testing.T) {
	t.Parallel()

	j := &stubJournal{entries: []journal.Entry{
		{SensorID: 1, Type: "SHT31", Location: "kitchen", Temperature: 22},
		{SensorID: 1, Type: "SHT31", Location: "kitchen", Temperature: 21},
		{SensorID: 1, Type: "SHT31", Location: "kitchen", Temperature: 20},
	}}
	s := newTestServer(t, j, fakeConn(true))
	s.ingest("SHT31", "kitchen", 20)

	rec := s.do(t, http.MethodGet, "/api/sensors/1/readings?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[apitypes.ReadingsResponse](t, rec)
	require.Equal(t, aggregate.SensorID(1), resp.SensorID)
	require.Len(t, resp.Readings, 2)
	require.InDelta(t, 22, resp.Readings[0].Temperature, 1e-6)

	for _, target := range []string{
		"/api/sensors/1/readings?limit=0",
		"/api/sensors/1/readings?limit=x",
		"/api/sensors/1/readings?limit=100000",
	} {
		require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, target).Code, target)
	}

	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/sensors/5/readings").Code)
}

func TestSelection(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil, fakeConn(true))

	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/selection").Code)
	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/selection/next").Code)

	first := s.ingest("SHT31", "kitchen", 20)
	second := s.ingest("DHT22", "cellar", 12)

	rec := s.do(t, http.MethodGet, "/api/selection")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, first, decode[aggregate.ViewModel](t, rec).ID)

	rec = s.do(t, http.MethodPost, "/api/selection/next")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, second, decode[aggregate.ViewModel](t, rec).ID)

	rec = s.do(t, http.MethodPost, "/api/selection/next")
	require.Equal(t, first, decode[aggregate.ViewModel](t, rec).ID)

	require.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodGet, "/api/selection/next").Code)
}

func TestOpenAPIDocument(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil, fakeConn(true))

	rec := s.do(t, http.MethodGet, "/api/openapi.yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	for _, op := range []string{"ping", "health", "listSensors", "getSensor", "getSensorReadings", "getSelection", "selectNextSensor"} {
		require.True(t, strings.Contains(body, "operationId: "+op), op)
	}

	rec = s.do(t, http.MethodGet, "/")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/api/openapi.yaml", rec.Header().Get("Location"))
}

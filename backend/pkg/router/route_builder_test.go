package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type sensorResponse struct {
	ID       uint32 `json:"id"`
	Location string `json:"location"`
}

func newTestRouteBuilder(t *testing.T) *RouteBuilder {
	t.Helper()

	rb, err := NewRouteBuilder(slog.New(slog.NewTextHandler(io.Discard, nil)), APIInfo{Title: "Test", Version: "v1"})
	require.NoError(t, err)

	return rb
}

func sensorSpec(h http.HandlerFunc) RouteSpec {
	return RouteSpec{
		OperationID: "getSensor",
		Summary:     "Get a sensor",
		Description: "Returns one sensor",
		Group:       "Sensors",
		Handler:     h,
		Parameters: map[string]ParameterSpec{
			"sensorID": {In: ParameterInPath, Description: "Sensor ID", Required: true, Type: new(uint32)},
		},
		Responses: map[int]ResponseSpec{
			200: {Description: "The sensor", Type: sensorResponse{}, Examples: map[string]any{"Kitchen": sensorResponse{ID: 1, Location: "kitchen"}}},
		},
	}
}

func TestRouteBuilderServesAndDocuments(t *testing.T) {
	t.Parallel()

	rb := newTestRouteBuilder(t)

	rb.Route("/api", func(rb *RouteBuilder) {
		rb.Route("/sensors", func(rb *RouteBuilder) {
			rb.MustGet("/{sensorID}", sensorSpec(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(chi.URLParam(r, "sensorID")))
			}))
		})
	})

	rec := httptest.NewRecorder()
	rb.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sensors/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "7", rec.Body.String())

	item := rb.Spec().Paths.Find("/api/sensors/{sensorID}")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	require.Equal(t, "getSensor", item.Get.OperationID)
	require.Equal(t, []string{"Sensors"}, item.Get.Tags)
	require.Len(t, item.Get.Parameters, 1)
	require.NotNil(t, item.Get.Responses.Status(200))

	out, err := rb.SpecYAML()
	require.NoError(t, err)
	require.Contains(t, string(out), "operationId: getSensor")
	require.Contains(t, string(out), "/api/sensors/{sensorID}")
}

func TestRouteBuilderRejectsInvalidSpecs(t *testing.T) {
	t.Parallel()

	noop := func(http.ResponseWriter, *http.Request) {}

	tests := []struct {
		name    string
		path    string
		mutate  func(*RouteSpec)
		wantErr string
	}{
		{name: "missing operation id", path: "/{sensorID}", mutate: func(s *RouteSpec) { s.OperationID = "" }, wantErr: "OperationID required"},
		{name: "missing handler", path: "/{sensorID}", mutate: func(s *RouteSpec) { s.Handler = nil }, wantErr: "Handler required"},
		{name: "undocumented path parameter", path: "/{sensorID}", mutate: func(s *RouteSpec) { s.Parameters = nil }, wantErr: "path parameter sensorID not documented"},
		{name: "parameter not in path", path: "/", mutate: func(*RouteSpec) {}, wantErr: "not found in path"},
		{name: "optional path parameter", path: "/{sensorID}", mutate: func(s *RouteSpec) {
			s.Parameters["sensorID"] = ParameterSpec{In: ParameterInPath, Description: "d", Type: new(uint32)}
		}, wantErr: "must be required"},
		{name: "mismatched braces", path: "/{sensorID", mutate: func(*RouteSpec) {}, wantErr: "mismatched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rb := newTestRouteBuilder(t)
			spec := sensorSpec(noop)
			tt.mutate(&spec)

			require.ErrorContains(t, rb.Get(tt.path, spec), tt.wantErr)
		})
	}
}

func TestRouteBuilderRejectsDuplicateOperationID(t *testing.T) {
	t.Parallel()

	rb := newTestRouteBuilder(t)
	noop := func(http.ResponseWriter, *http.Request) {}

	require.NoError(t, rb.Get("/sensors/{sensorID}", sensorSpec(noop)))
	require.ErrorContains(t, rb.Get("/other/{sensorID}", sensorSpec(noop)), "duplicate operationID")
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/api/sensors", joinPath("/api", "/sensors/"))
	require.Equal(t, "/api", joinPath("/api", "/"))
	require.Equal(t, "/", joinPath("", "/"))
	require.Equal(t, "/a/b", joinPath("/a//", "//b"))
}

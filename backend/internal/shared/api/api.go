package apicommon

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"sensor-dashboard/backend/internal/shared/types"
	"sensor-dashboard/backend/pkg/router"
	"sensor-dashboard/backend/pkg/utils"
)

const (
	RequestIDHeader = "X-Request-ID"

	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 30 * time.Second
	WriteTimeout      = 30 * time.Second
	IdleTimeout       = 120 * time.Second
	ShutdownTimeout   = 30 * time.Second
)

const zeroUUID = "00000000-0000-0000-0000-000000000000"

type HTTPServer struct {
	l      *slog.Logger
	server *http.Server
}

func NewHTTPServer(l *slog.Logger, addr string, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}
	srv.SetKeepAlivesEnabled(true)

	return &HTTPServer{
		l:      l.With(slog.String("component", "http-server")),
		server: srv,
	}
}

// StartOnBackground listens on the configured address and serves in a
// goroutine. cancel is called if the server stops unexpectedly.
func (s *HTTPServer) StartOnBackground(cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		s.l.Info("http server listening", slog.String("address", ln.Addr().String()))

		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.l.Error("http server failed", utils.ErrAttr(err))
			cancel()
		}
	}()

	return nil
}

func (s *HTTPServer) ShutdownWithDefaultTimeout() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.l.Info("http server shutting down")

	return s.server.Shutdown(ctx)
}

// HandlerFunc is a HTTP handler that can return an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// NewError creates a simple error response.
func NewError(statusCode int, message string) *types.ErrorResponse {
	return &types.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ErrorHandler wraps handlers with error handling.
func ErrorHandler(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		l := GetLoggerFromContext(r.Context())
		requestID := GetRequestIDFromContext(r.Context())

		// Expected HTTP errors are returned to the client as-is
		var httpErr *types.ErrorResponse
		if errors.As(err, &httpErr) {
			httpErr.RequestID = requestID
			l.Warn("handler returned HTTP error", slog.Int("status", httpErr.StatusCode), slog.String("message", httpErr.Message))
			RespondJSON(w, r, httpErr.StatusCode, httpErr)

			return
		}

		l.Error("internal error", utils.ErrAttr(err))
		RespondJSON(w, r, http.StatusInternalServerError, &types.ErrorResponse{
			RequestID: requestID,
			Message:   "Internal Server Error",
		})
	}
}

// RespondJSON sends a JSON response with given status code.
// If data is nil, only headers are sent. Encoding errors are logged since the
// status code has already been written.
func RespondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	if err := utils.ToJSONStream(w, data); err != nil {
		GetLoggerFromContext(r.Context()).Error("failed to encode JSON response", utils.ErrAttr(err))
	}
}

// GenerateResponses adds standard error responses to the given responses map.
func GenerateResponses(responses map[int]router.ResponseSpec) map[int]router.ResponseSpec {
	if _, exists := responses[http.StatusInternalServerError]; !exists {
		responses[http.StatusInternalServerError] = router.ResponseSpec{
			Description: "Internal Server Error",
			Type:        types.ErrorResponse{},
			Examples: map[string]any{
				"Internal Server Error": types.ErrorResponse{
					RequestID: zeroUUID,
					Message:   "Internal Server Error",
				},
			},
		}
	}

	return responses
}

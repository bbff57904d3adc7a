package apicommon

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"sensor-dashboard/backend/internal/shared/types"
)

// RecoveryMiddleware turns a handler panic into a 500 response. An unknown
// sensor ID reaching aggregate.Engine.Snapshot is the panic expected here.
func (m *MiddlewareHandler) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// net/http uses this to abort a response silently.
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			l := GetLoggerFromContextOrNil(r.Context())
			if l == nil {
				l = m.l
			}

			l.Error("panic recovered",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)

			RespondJSON(w, r, http.StatusInternalServerError, &types.ErrorResponse{
				RequestID: GetRequestIDFromContext(r.Context()),
				Message:   "Internal Server Error",
			})
		}()

		next.ServeHTTP(w, r)
	})
}

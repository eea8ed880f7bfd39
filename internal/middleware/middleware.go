package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"hope-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CorrelationIDHeader carries the request's correlation id both ways.
const CorrelationIDHeader = "X-Correlation-ID"

const (
	allowedMethods = "GET, POST, OPTIONS"
	allowedHeaders = "Content-Type, " + CorrelationIDHeader
)

type correlationIDKey struct{}

// validCorrelationID limits caller-supplied ids to a safe shape.
var validCorrelationID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// CorrelationIDFromContext returns the id stored by CorrelationID.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// CorrelationID reuses a well-formed incoming X-Correlation-ID or assigns a
// new one, stores it in the request context and echoes it in the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if !validCorrelationID.MatchString(id) {
			id = uuid.NewString()
		}

		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), correlationIDKey{}, id)))
	})
}

// CORS opens both endpoints to any origin and answers preflights itself.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Expose-Headers", CorrelationIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logging writes one entry per request. Only 5xx responses log at error
// level; client errors such as failed validation log at info.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			event := logger.Info()
			if rec.statusCode >= http.StatusInternalServerError {
				event = logger.Error()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.statusCode).
				Int("bytes", rec.written).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Str("correlation_id", CorrelationIDFromContext(r.Context())).
				Msg("http request")
		})
	}
}

// Recovery turns a handler panic into a 500 with the standard error body.
// It runs outermost, so the correlation id is read back from the response
// headers rather than the request context.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}

				correlationID := w.Header().Get(CorrelationIDHeader)
				logger.Error().
					Interface("panic", rv).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("correlation_id", correlationID).
					Msg("panic recovered")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(model.ErrorResponse{
					Error:         "Internal server error.",
					CorrelationID: correlationID,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter records the status code and body size for Logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

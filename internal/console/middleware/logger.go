package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// responseWriter records the status, the body size and the extra log fields
// of one request.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
	fields     map[string]interface{}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// AddLogField attaches key to the access log line of the request served by w.
// It is a no-op outside the Logger middleware.
func AddLogField(w http.ResponseWriter, key string, value interface{}) {
	for w != nil {
		if rw, ok := w.(*responseWriter); ok {
			rw.fields[key] = value
			return
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return
		}
		w = u.Unwrap()
	}
}

// quietPaths are probed constantly and logged at debug level.
var quietPaths = map[string]bool{"/healthz": true, "/readyz": true, "/metrics": true}

// routePattern is the chi pattern that served r, e.g. /alunos/editar/{id}.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}

// Logger writes one access log line per request. Handlers add fields to it
// with AddLogField.
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				fields:         make(map[string]interface{}),
			}

			next.ServeHTTP(wrapped, r)

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      routePattern(r),
				"query":      r.URL.RawQuery,
				"status":     wrapped.statusCode,
				"duration":   time.Since(start).Milliseconds(),
				"bytes":      wrapped.written,
				"ip":         r.RemoteAddr,
				"user_agent": r.UserAgent(),
				"request_id": GetRequestID(r),
			}
			for k, v := range wrapped.fields {
				fields[k] = v
			}

			entry := log.WithFields(fields)
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				entry.Error("HTTP request")
			case quietPaths[r.URL.Path], strings.HasPrefix(r.URL.Path, "/static/"):
				entry.Debug("HTTP request")
			default:
				entry.Info("HTTP request")
			}
		})
	}
}

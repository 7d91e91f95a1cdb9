// internal/middleware/logging.go
//
// Access logging and request metrics.
//
// RequestLog wraps the response writer to capture the status and byte
// count, stores a request-scoped child logger (tagged with the chi request
// id and domain key) in the context, and emits one line per request once
// the handler returns.  5xx responses log at Error, 4xx at Warn, the rest
// at Info.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/logger"
	"github.com/yanizio/tierzero/internal/metrics"
)

// RequestLog logs every request and records Prometheus counters.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		l := zap.L().With(
			zap.String("req_id", chimw.GetReqID(r.Context())),
			zap.String("domain", DomainFrom(r.Context())),
		)
		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, statusClass(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method).Observe(dur.Seconds())

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("dur", dur),
			zap.String("remote", r.RemoteAddr),
		}
		switch {
		case status >= 500:
			l.Error("http", fields...)
		case status >= 400:
			l.Warn("http", fields...)
		default:
			l.Info("http", fields...)
		}
	})
}

// statusClass keeps label cardinality low: "2xx", "4xx", ….
func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// responseWriter обертка для ResponseWriter для логирования статуса ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush нужен стриму /events
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Logging логирует все HTTP запросы с информацией о времени выполнения
func Logging(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		entry := logger.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"remote":     r.RemoteAddr,
			"request_id": RequestIDFromContext(r.Context()),
		})
		entry.Debug("http request started")

		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		entry = entry.WithFields(log.Fields{
			"status":   ww.statusCode,
			"duration": time.Since(start),
		})
		if ww.statusCode >= http.StatusInternalServerError {
			entry.Error("http request failed")
		} else {
			entry.Info("http request completed")
		}
	})
}

package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimit ограничивает количество запросов (rate limiting)
// rps - запросов в секунду, burst - разрешает кратковременные всплески
func RateLimit(next http.Handler, rps int, burst int, logger *log.Logger) http.Handler {
	// Значения по умолчанию если не указаны
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = 10
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			logger.WithFields(log.Fields{
				"path":       r.URL.Path,
				"remote":     r.RemoteAddr,
				"request_id": RequestIDFromContext(r.Context()),
			}).Warn("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

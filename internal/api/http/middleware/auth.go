package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// Auth проверяет заголовок "Authorization: Bearer <token>".
// Пустой token отключает проверку; пути из public и OPTIONS пропускаются.
func Auth(next http.Handler, token string, public ...string) http.Handler {
	if token == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path, public) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(header, bearerPrefix)), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isPublicPath(path string, public []string) bool {
	for _, p := range public {
		if path == p {
			return true
		}
	}
	return false
}

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/grpc-websocket-proxy/wsproxy"

	"notes-backend/internal/api/http/middleware"
	"notes-backend/internal/api/swagger"
	"notes-backend/internal/config"
	"notes-backend/internal/events"
	svc "notes-backend/internal/service"
)

// Пути, доступные без токена
var publicPaths = []string{"/healthz", "/swagger.json"}

// Options зависимости HTTP API
type Options struct {
	Config    *config.ConfigGateway
	AuthToken string
	Logger    *log.Logger
}

// NewHandler собирает HTTP API: маршруты на runtime.ServeMux и цепочку middleware.
// ctx отменяется при остановке сервера и завершает открытые стримы /events.
func NewHandler(ctx context.Context, noteService svc.NoteService, subscriber events.Subscriber, opts Options) (http.Handler, error) {
	mux := runtime.NewServeMux(
		runtime.WithRoutingErrorHandler(routingErrorHandler),
	)

	h := &notesHandler{
		ctx:         ctx,
		noteService: noteService,
		subscriber:  subscriber,
		logger:      opts.Logger,
	}
	if err := h.register(mux); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	if opts.Config.SwaggerEnabled {
		if err := swagger.Register(mux); err != nil {
			return nil, fmt.Errorf("failed to register swagger: %w", err)
		}
		opts.Logger.Info("swagger JSON available at /swagger.json")
	}

	// Применение middleware (в обратном порядке выполнения):
	// 1. WebSocket Proxy (самый внешний слой, для /events)
	// 2. CORS
	// 3. Request ID
	// 4. Logging
	// 5. Rate Limiting
	// 6. Auth
	var handler http.Handler = mux
	handler = middleware.Auth(handler, opts.AuthToken, publicPaths...)
	handler = middleware.RateLimit(handler, opts.Config.RateLimitRPS, opts.Config.RateLimitBurst, opts.Logger)
	handler = middleware.Logging(handler, opts.Logger)
	handler = middleware.RequestID(handler)
	handler = setupCORS(opts.Config).Handler(handler)
	// WebSocket proxy должен быть самым внешним, чтобы корректно обрабатывать upgrade
	handler = setupWebSocketProxy(handler)

	opts.Logger.WithField("origins", opts.Config.CORSAllowedOrigins).Info("CORS enabled")

	return handler, nil
}

// routingErrorHandler отвечает на неизвестные маршруты в формате {"error": ...}
func routingErrorHandler(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, httpStatus int) {
	switch httpStatus {
	case http.StatusMethodNotAllowed:
		writeError(w, httpStatus, "Method not allowed")
	case http.StatusNotFound:
		writeError(w, httpStatus, "Not found")
	default:
		writeError(w, httpStatus, http.StatusText(httpStatus))
	}
}

// setupCORS настраивает CORS middleware используя конфигурацию
func setupCORS(cfg *config.ConfigGateway) *cors.Cors {
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Requested-With",
			middleware.RequestIDHeader,
		},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})
}

// setupWebSocketProxy превращает NDJSON стрим /events в WebSocket:
// каждая строка ответа уходит клиенту отдельным сообщением.
// Authorization и X-Request-Id пробрасываются во внутренний запрос.
func setupWebSocketProxy(handler http.Handler) http.Handler {
	return wsproxy.WebsocketProxy(handler,
		wsproxy.WithForwardedHeaders(func(header string) bool {
			switch strings.ToLower(header) {
			case "authorization", "origin", "referer", strings.ToLower(middleware.RequestIDHeader):
				return true
			}
			return false
		}),
	)
}

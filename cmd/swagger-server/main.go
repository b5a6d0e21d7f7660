package main

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"notes-backend/internal/api/swagger"
)

// Отдельный сервер документации: отдает /swagger.json без запуска API
func main() {
	logger := log.New()

	port := os.Getenv("SWAGGER_PORT")
	if port == "" {
		port = "8082"
	}
	addr := net.JoinHostPort("0.0.0.0", port)

	mux := runtime.NewServeMux()
	if err := swagger.Register(mux); err != nil {
		logger.WithError(err).Fatal("failed to register swagger route")
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           cors.AllowAll().Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("url", "http://localhost:"+port+"/swagger.json").Info("swagger server started")
	if err := server.ListenAndServe(); err != nil {
		logger.WithError(err).Fatal("swagger server stopped")
	}
}

package grpc

import (
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"notes-backend/internal/api/grpc/interceptors"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// ServerOptions параметры gRPC сервера
type ServerOptions struct {
	Logger        *log.Logger
	AuthToken     string
	UseReflection bool
}

// NewServer создает и настраивает gRPC сервер с интерцепторами.
// Возвращает также health сервер, чтобы при остановке перевести его в NOT_SERVING.
func NewServer(handler notesv1.NotesServiceServer, opts ServerOptions) (*grpc.Server, *health.Server) {
	// Порядок интерцепторов: Logger → Auth → Validate.
	// Logger видит и отклоненные запросы.
	grpcServer := grpc.NewServer(
		grpc.MaxConcurrentStreams(25),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     30 * time.Minute,
			MaxConnectionAge:      1 * time.Hour,
			MaxConnectionAgeGrace: 5 * time.Second,
			Time:                  10 * time.Minute,
			Timeout:               20 * time.Second,
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.LoggerUnaryInterceptor(opts.Logger),
			interceptors.AuthUnaryInterceptor(opts.AuthToken),
			interceptors.ValidateUnaryInterceptor,
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamInterceptor(opts.Logger),
			interceptors.AuthStreamInterceptor(opts.AuthToken),
		),
	)

	notesv1.RegisterNotesServiceServer(grpcServer, handler)
	opts.Logger.WithField("service", notesv1.ServiceName).Info("registered gRPC service")

	healthServer := health.NewServer()
	healthServer.SetServingStatus(notesv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if opts.UseReflection {
		reflection.Register(grpcServer)
		opts.Logger.Info("enabled gRPC reflection")
	}

	return grpcServer, healthServer
}

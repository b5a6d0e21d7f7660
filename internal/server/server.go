package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	"notes-backend/internal/api/gateway"
	grpcapi "notes-backend/internal/api/grpc"
	"notes-backend/internal/config"
	"notes-backend/internal/events"
	"notes-backend/internal/repository"
	"notes-backend/internal/repository/database"
	"notes-backend/internal/repository/memory"
	notesService "notes-backend/internal/service/notes"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// Server представляет сервер приложения с gRPC и HTTP API
type Server struct {
	// HTTP компоненты
	HTTPServer   *http.Server
	HTTPListener net.Listener

	// gRPC компоненты
	GRPCServer   *grpc.Server
	GRPCListener net.Listener
	Health       *health.Server

	// Контекст сервера для graceful shutdown стримов
	// Отменяется при shutdown, чтобы WatchNotes и /events завершились
	Ctx    context.Context
	Cancel context.CancelFunc

	Config *config.Config
	Logger *log.Logger

	db          *gorm.DB
	broker      *events.Broker
	redisClient *redis.Client
	relayDone   chan struct{}
}

// New создает сервер и открывает listeners для gRPC и HTTP
func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	grpcAddr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.PortGRPC))
	httpAddr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.PortHTTP))

	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		_ = grpcListener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", httpAddr, err)
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())

	logger.WithFields(log.Fields{
		"grpc": grpcListener.Addr().String(),
		"http": httpListener.Addr().String(),
	}).Info("listeners opened")

	return &Server{
		HTTPListener: httpListener,
		GRPCListener: grpcListener,
		Ctx:          serverCtx,
		Cancel:       serverCancel,
		Config:       cfg,
		Logger:       logger,
	}, nil
}

// Initialize инициализирует компоненты сервера (Repository → Service → Handlers)
func (s *Server) Initialize(ctx context.Context) error {
	noteRepo, err := s.openRepository(ctx)
	if err != nil {
		return err
	}

	bus, err := s.setupEvents(ctx)
	if err != nil {
		return err
	}

	noteSvc := notesService.NewNoteService(noteRepo, bus)
	s.Logger.Info("initialized note service")

	noteHandler := grpcapi.NewHandler(s.Ctx, noteSvc, bus)
	s.GRPCServer, s.Health = grpcapi.NewServer(noteHandler, grpcapi.ServerOptions{
		Logger:        s.Logger,
		AuthToken:     s.Config.Auth.Token,
		UseReflection: s.Config.Server.UseReflection,
	})

	httpHandler, err := gateway.NewHandler(s.Ctx, noteSvc, bus, gateway.Options{
		Config:    s.Config.Gateway,
		AuthToken: s.Config.Auth.Token,
		Logger:    s.Logger,
	})
	if err != nil {
		return err
	}

	s.HTTPServer = &http.Server{
		Handler:           httpHandler,
		ReadTimeout:       time.Duration(s.Config.Server.HTTPReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.Config.Server.HTTPWriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(s.Config.Server.HTTPIdleTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(s.Config.Server.HTTPReadHeaderTimeout) * time.Second,
	}

	if s.Config.Auth.Token == "" {
		s.Logger.Warn("auth token is empty, API is open")
	}

	return nil
}

func (s *Server) openRepository(ctx context.Context) (repository.NoteRepository, error) {
	if s.Config.Database.Driver == "memory" {
		s.Logger.Info("initialized in-memory repository")
		return memory.NewRepository(), nil
	}

	db, err := database.Open(ctx, s.Config.Database, s.Logger)
	if err != nil {
		return nil, err
	}
	s.db = db
	s.Logger.WithField("driver", s.Config.Database.Driver).Info("initialized database repository")

	return database.NewRepository(db), nil
}

// setupEvents создает локальный брокер и, если задан redis_url, ретранслятор через Redis
func (s *Server) setupEvents(ctx context.Context) (events.Bus, error) {
	s.broker = events.NewBroker(s.Config.Events.BufferSize)
	if s.Config.Events.RedisURL == "" {
		return s.broker, nil
	}

	opts, err := redis.ParseURL(s.Config.Events.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("events: parse redis url: %w", err)
	}
	s.redisClient = redis.NewClient(opts)
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		_ = s.redisClient.Close()
		return nil, fmt.Errorf("events: redis ping: %w", err)
	}

	relay := events.NewRedisBroker(s.redisClient, s.Config.Events.Channel, s.broker, s.Logger)
	s.relayDone = make(chan struct{})
	go func() {
		defer close(s.relayDone)
		relay.Run(s.Ctx)
	}()

	select {
	case <-relay.Ready():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.Logger.WithField("channel", s.Config.Events.Channel).Info("note events relayed through redis")

	return relay, nil
}

// Start запускает gRPC и HTTP серверы в горутинах
// Возвращает канал ошибок для отслеживания ошибок серверов
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 2)

	go func() {
		s.Logger.WithField("addr", s.GRPCListener.Addr().String()).Info("gRPC server listening")
		if err := s.GRPCServer.Serve(s.GRPCListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		s.Logger.WithField("addr", s.HTTPListener.Addr().String()).Info("HTTP server listening")
		if err := s.HTTPServer.Serve(s.HTTPListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	return errChan
}

// Shutdown выполняет graceful shutdown: стримы, HTTP, gRPC, события, БД
func (s *Server) Shutdown() error {
	s.Logger.Info("starting graceful shutdown")

	// Стримы слушают serverCtx, отменяем его до остановки серверов
	s.Cancel()
	if s.Health != nil {
		s.Health.SetServingStatus(notesv1.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	}

	shutdownTimeout := time.Duration(s.Config.Server.GracefulShutdownTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	if s.HTTPServer != nil {
		if err := s.HTTPServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if s.GRPCServer != nil {
		stopped := make(chan struct{})
		go func() {
			s.GRPCServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-stopped:
			s.Logger.Info("gRPC server stopped gracefully")
		case <-ctx.Done():
			s.Logger.Warn("graceful shutdown timeout, forcing stop")
			s.GRPCServer.Stop()
			errs = append(errs, ctx.Err())
		}
	}

	// Listeners уже закрыты серверами, если Start вызывался
	_ = s.HTTPListener.Close()
	_ = s.GRPCListener.Close()

	if s.relayDone != nil {
		<-s.relayDone
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.broker != nil {
		s.broker.Close()
	}
	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	s.Logger.Info("server stopped")
	return errors.Join(errs...)
}

package interceptors

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggerUnaryInterceptor логирует каждый unary запрос:
// метод, итоговый статус и время выполнения хендлера
func LoggerUnaryInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		logger.WithField("method", info.FullMethod).Debug("grpc request started")

		resp, err := handler(ctx, req)

		st := status.Convert(err)
		entry := logger.WithFields(log.Fields{
			"method":   info.FullMethod,
			"code":     st.Code().String(),
			"duration": time.Since(start),
		})

		switch st.Code() {
		case codes.OK:
			entry.Info("grpc request completed")
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
			entry.WithError(err).Error("grpc request failed")
		default:
			entry.WithField("message", st.Message()).Warn("grpc request rejected")
		}

		return resp, err
	}
}

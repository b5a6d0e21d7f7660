package interceptors

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

// wrappedServerStream оборачивает grpc.ServerStream для логирования каждого сообщения
type wrappedServerStream struct {
	grpc.ServerStream
	entry *log.Entry
}

// RecvMsg логирует входящие сообщения
func (w *wrappedServerStream) RecvMsg(m any) error {
	err := w.ServerStream.RecvMsg(m)
	switch {
	case err == nil:
		w.entry.Debugf("stream recv %T", m)
	case errors.Is(err, io.EOF):
		w.entry.Debug("stream recv EOF")
	default:
		w.entry.WithError(err).Warn("stream recv failed")
	}
	return err
}

// SendMsg логирует исходящие сообщения
func (w *wrappedServerStream) SendMsg(m any) error {
	err := w.ServerStream.SendMsg(m)
	if err != nil {
		w.entry.WithError(err).Warn("stream send failed")
	} else {
		w.entry.Debugf("stream send %T", m)
	}
	return err
}

// StreamInterceptor логирует открытие, закрытие и сообщения стрима
func StreamInterceptor(logger *log.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		entry := logger.WithField("method", info.FullMethod)
		entry.Info("stream opened")

		err := handler(srv, &wrappedServerStream{ServerStream: ss, entry: entry})
		if err != nil {
			entry.WithError(err).Warn("stream closed with error")
		} else {
			entry.Info("stream closed")
		}

		return err
	}
}

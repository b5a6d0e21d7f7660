package interceptors

import (
	"context"
	"crypto/subtle"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	// authorizationHeader - имя заголовка для авторизации в metadata
	authorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
)

// publicServices не требуют токена (health check и reflection)
var publicServices = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

func isPublic(fullMethod string) bool {
	for _, prefix := range publicServices {
		if strings.HasPrefix(fullMethod, prefix) {
			return true
		}
	}
	return false
}

// checkToken проверяет заголовок "authorization: Bearer <token>" в metadata
func checkToken(ctx context.Context, expected string) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "metadata not provided")
	}

	authHeaders := md.Get(authorizationHeader)
	if len(authHeaders) == 0 {
		return status.Error(codes.Unauthenticated, "authorization header not provided")
	}

	authHeader := authHeaders[0]
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return status.Error(codes.Unauthenticated, "invalid authorization header format")
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return status.Error(codes.Unauthenticated, "invalid token")
	}

	return nil
}

// AuthUnaryInterceptor проверяет токен авторизации в metadata запроса.
// Пустой expectedToken отключает проверку.
func AuthUnaryInterceptor(expectedToken string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if expectedToken == "" || isPublic(info.FullMethod) {
			return handler(ctx, req)
		}
		if err := checkToken(ctx, expectedToken); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// AuthStreamInterceptor то же самое для стримов
func AuthStreamInterceptor(expectedToken string) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if expectedToken == "" || isPublic(info.FullMethod) {
			return handler(srv, ss)
		}
		if err := checkToken(ss.Context(), expectedToken); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

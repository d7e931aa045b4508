package palletgrpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs every unary call with its status code and
// duration.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := codes.OK
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
			if st, ok := status.FromError(err); ok {
				code = st.Code()
			} else {
				code = codes.Unknown
			}
		}
		logger.Log(ctx, level, "grpc call",
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Duration("duration", time.Since(start)))
		return resp, err
	}
}

// RecoveryInterceptor turns a handler panic, such as a lifecycle
// ordering violation, into a FailedPrecondition status.
func RecoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc handler panic",
					slog.String("method", info.FullMethod),
					slog.String("panic", fmt.Sprint(r)))
				resp, err = nil, status.Error(codes.FailedPrecondition, fmt.Sprint(r))
			}
		}()
		return handler(ctx, req)
	}
}

package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	zap.L().Info("Received request", zap.String("method", info.FullMethod))
	resp, err := handler(ctx, req)
	if err != nil {
		zap.L().Error("Error handling request", zap.String("method", info.FullMethod), zap.Error(err))
	}
	return resp, err
}

func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Recovered from panic",
				zap.Any("panic", r),
				zap.String("method", info.FullMethod),
			)
		}
	}()
	return handler(ctx, req)
}

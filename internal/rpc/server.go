package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xtding233/wordharbor/internal/logger"
)

// NewServer returns a grpc.Server with svc registered and request logging installed.
func NewServer(svc ProgressionServer, log *logger.Logger, opts ...grpc.ServerOption) *grpc.Server {
	if log == nil {
		log = logger.Nop()
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(recoverUnary(log), logUnary(log)))
	s := grpc.NewServer(opts...)
	Register(s, svc)
	return s
}

func logUnary(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		kv := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
		switch code {
		case codes.OK:
			log.Debug("rpc", kv...)
		case codes.Internal, codes.Unknown:
			log.Error("rpc", append(kv, "error", err)...)
		default:
			log.Info("rpc", append(kv, "error", err)...)
		}
		return resp, err
	}
}

func recoverUnary(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in handler", "method", info.FullMethod, "panic", r)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

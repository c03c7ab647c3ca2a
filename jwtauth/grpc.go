package jwtauth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor returns a gRPC unary server interceptor gating
// protected services. The pipeline mirrors the HTTP middleware: extract
// from metadata, validate, attach claims, or fail closed with a generic
// Unauthenticated status carrying no error detail.
func UnaryServerInterceptor(cfg *Config) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		startTime := time.Now()
		requestID := uuid.New().String()

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			logAuthFailure(cfg, requestID, "", newAuthError(ErrMissingToken, "metadata not found", nil), time.Since(startTime))
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}

		token, err := extractTokenFromMetadata(md)
		if err != nil {
			logAuthFailure(cfg, requestID, token, err, time.Since(startTime))
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}

		claims, err := cfg.ValidateToken(token)
		if err != nil {
			logAuthFailure(cfg, requestID, token, err, time.Since(startTime))
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}

		ctx = WithClaims(ctx, claims)
		ctx = WithRequestID(ctx, requestID)

		logAuthSuccess(cfg, requestID, claims, token, time.Since(startTime))

		return handler(ctx, req)
	}
}

package interceptors

import (
	"context"
	"log"
	"strings"

	"github.com/louisbranch/dicenotation/internal/platform/id"
	"github.com/louisbranch/dicenotation/internal/platform/requestctx"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDInterceptor stores the caller's request ID in the context,
// generating one when the caller sent none, and echoes it in the response
// header.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := incomingRequestID(ctx)
		if requestID == "" {
			generated, err := id.NewID()
			if err != nil {
				log.Printf("generate request id for %s: %v", info.FullMethod, err)
				return handler(ctx, req)
			}
			requestID = generated
		}
		if err := grpc.SetHeader(ctx, metadata.Pairs(notationgrpc.RequestIDHeader, requestID)); err != nil {
			log.Printf("set request id header for %s: %v", info.FullMethod, err)
		}
		return handler(requestctx.WithRequestID(ctx, requestID), req)
	}
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, value := range md.Get(notationgrpc.RequestIDHeader) {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

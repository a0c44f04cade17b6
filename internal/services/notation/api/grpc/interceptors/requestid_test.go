package interceptors

import (
	"context"
	"testing"

	"github.com/louisbranch/dicenotation/internal/platform/requestctx"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestRequestIDInterceptorKeepsIncomingID(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: notationgrpc.NotationService_Roll_FullMethodName}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(notationgrpc.RequestIDHeader, " req-1 "))

	var got string
	_, err := interceptor(ctx, wrapperspb.String("1d6"), info, func(ctx context.Context, req any) (any, error) {
		got = requestctx.RequestIDFromContext(ctx)
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "req-1" {
		t.Fatalf("expected request id req-1, got %q", got)
	}
}

func TestRequestIDInterceptorGeneratesID(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: notationgrpc.NotationService_Roll_FullMethodName}

	var got string
	_, _ = interceptor(context.Background(), wrapperspb.String("1d6"), info, func(ctx context.Context, req any) (any, error) {
		got = requestctx.RequestIDFromContext(ctx)
		return nil, nil
	})
	if len(got) != 26 {
		t.Fatalf("expected generated 26-character id, got %q", got)
	}
}

func TestRequestIDFlowsIntoRollLog(t *testing.T) {
	store := &fakeRollEventStore{}
	chain := []grpc.UnaryServerInterceptor{RequestIDInterceptor(), RollLogInterceptor(telemetryEmitter(store))}
	info := &grpc.UnaryServerInfo{FullMethod: notationgrpc.NotationService_Roll_FullMethodName}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(notationgrpc.RequestIDHeader, "req-9"))

	final := func(ctx context.Context, req any) (any, error) {
		return wrapperspb.Int64(4), nil
	}
	inner := func(ctx context.Context, req any) (any, error) {
		return chain[1](ctx, req, info, final)
	}
	if _, err := chain[0](ctx, wrapperspb.String("1d6"), info, inner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.last.Attributes["request_id"] != "req-9" {
		t.Fatalf("expected request_id attribute, got %v", store.last.Attributes)
	}
}

package grpc

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
)

// ServerOptions returns the options every notation gRPC server starts with:
// the otelgrpc stats handler plus the given unary interceptors, in order.
func ServerOptions(interceptors ...gogrpc.UnaryServerInterceptor) []gogrpc.ServerOption {
	opts := []gogrpc.ServerOption{
		gogrpc.StatsHandler(otelgrpc.NewServerHandler()),
	}
	if len(interceptors) > 0 {
		opts = append(opts, gogrpc.ChainUnaryInterceptor(interceptors...))
	}
	return opts
}

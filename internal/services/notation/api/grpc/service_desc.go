package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "notation.v1.NotationService"

const (
	NotationService_Roll_FullMethodName    = "/" + ServiceName + "/Roll"
	NotationService_Parse_FullMethodName   = "/" + ServiceName + "/Parse"
	NotationService_Explain_FullMethodName = "/" + ServiceName + "/Explain"
	NotationService_History_FullMethodName = "/" + ServiceName + "/History"
)

// NotationServiceServer is the server API for the notation service.
//
// Messages are protobuf well-known types:
//   - Roll: expression in, total out.
//   - Parse: expression in, fully parenthesized tree out.
//   - Explain: expression in, Struct{expression, total, rolls} out. total is
//     a decimal string so 64-bit results survive the float64 Struct encoding.
//   - History: Struct{page_size, page_token, filter} in,
//     Struct{events, next_page_token} out, newest first. filter is an AIP-160
//     expression over roll log fields.
type NotationServiceServer interface {
	Roll(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
	Parse(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Explain(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// NotationServiceClient is the client API for the notation service.
type NotationServiceClient interface {
	Roll(ctx context.Context, in *wrapperspb.StringValue, opts ...gogrpc.CallOption) (*wrapperspb.Int64Value, error)
	Parse(ctx context.Context, in *wrapperspb.StringValue, opts ...gogrpc.CallOption) (*wrapperspb.StringValue, error)
	Explain(ctx context.Context, in *wrapperspb.StringValue, opts ...gogrpc.CallOption) (*structpb.Struct, error)
	History(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error)
}

type notationServiceClient struct {
	cc gogrpc.ClientConnInterface
}

// NewNotationServiceClient returns a client bound to cc.
func NewNotationServiceClient(cc gogrpc.ClientConnInterface) NotationServiceClient {
	return &notationServiceClient{cc: cc}
}

func (c *notationServiceClient) Roll(ctx context.Context, in *wrapperspb.StringValue, opts ...gogrpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, NotationService_Roll_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notationServiceClient) Parse(ctx context.Context, in *wrapperspb.StringValue, opts ...gogrpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, NotationService_Parse_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notationServiceClient) Explain(ctx context.Context, in *wrapperspb.StringValue, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, NotationService_Explain_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notationServiceClient) History(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, NotationService_History_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterNotationServiceServer registers srv on s.
func RegisterNotationServiceServer(s gogrpc.ServiceRegistrar, srv NotationServiceServer) {
	s.RegisterService(&NotationService_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](fullMethod string, newReq func() *Req, call func(NotationServiceServer, context.Context, *Req) (*Resp, error)) gogrpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NotationServiceServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NotationServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// NotationService_ServiceDesc is the grpc.ServiceDesc for the notation service.
var NotationService_ServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotationServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{
			MethodName: "Roll",
			Handler: unaryHandler(NotationService_Roll_FullMethodName, newStringValue,
				func(s NotationServiceServer, ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
					return s.Roll(ctx, in)
				}),
		},
		{
			MethodName: "Parse",
			Handler: unaryHandler(NotationService_Parse_FullMethodName, newStringValue,
				func(s NotationServiceServer, ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
					return s.Parse(ctx, in)
				}),
		},
		{
			MethodName: "Explain",
			Handler: unaryHandler(NotationService_Explain_FullMethodName, newStringValue,
				func(s NotationServiceServer, ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
					return s.Explain(ctx, in)
				}),
		},
		{
			MethodName: "History",
			Handler: unaryHandler(NotationService_History_FullMethodName, newStruct,
				func(s NotationServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
					return s.History(ctx, in)
				}),
		},
	},
	Streams: []gogrpc.StreamDesc{},
}

func newStringValue() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

func newStruct() *structpb.Struct { return new(structpb.Struct) }

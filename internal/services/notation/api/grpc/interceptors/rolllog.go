// Package interceptors holds gRPC middleware for the notation service.
package interceptors

import (
	"context"
	"log"
	"strconv"

	"github.com/louisbranch/dicenotation/internal/core/notation"
	"github.com/louisbranch/dicenotation/internal/platform/requestctx"
	"github.com/louisbranch/dicenotation/internal/platform/telemetry"
	"github.com/louisbranch/dicenotation/internal/platform/telemetry/events"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"github.com/louisbranch/dicenotation/internal/services/notation/storage"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RollLogInterceptor appends one roll log event for every expression the
// service handles. Calls that do not carry an expression are not logged.
func RollLogInterceptor(emitter *telemetry.Emitter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if emitter == nil {
			return resp, err
		}
		eventName, ok := eventForMethod(info.FullMethod)
		if !ok {
			return resp, err
		}

		severity := telemetry.SeverityInfo
		code := codes.OK
		attrs := map[string]any{}
		if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
			attrs["request_id"] = requestID
		}
		if err != nil {
			eventName = events.NotationRejected
			severity = telemetry.SeverityWarn
			if st, ok := status.FromError(err); ok {
				code = st.Code()
				if reason := errorReason(st); reason != "" {
					attrs["reason"] = reason
				}
			}
			if code != codes.InvalidArgument {
				severity = telemetry.SeverityError
			}
		}

		var traceID, spanID string
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
			spanID = sc.SpanID().String()
		}

		emitErr := emitter.Emit(ctx, storage.RollEvent{
			EventName:  eventName,
			Severity:   string(severity),
			Method:     info.FullMethod,
			Expression: expressionFromRequest(req),
			Total:      totalFromResponse(resp),
			Code:       code.String(),
			TraceID:    traceID,
			SpanID:     spanID,
			Attributes: attrs,
		})
		if emitErr != nil {
			log.Printf("roll log emit %s: %v", info.FullMethod, emitErr)
		}
		return resp, err
	}
}

func eventForMethod(fullMethod string) (string, bool) {
	switch fullMethod {
	case notationgrpc.NotationService_Roll_FullMethodName:
		return events.NotationRolled, true
	case notationgrpc.NotationService_Explain_FullMethodName:
		return events.NotationExplained, true
	case notationgrpc.NotationService_Parse_FullMethodName:
		return events.NotationParsed, true
	default:
		return "", false
	}
}

func expressionFromRequest(req any) string {
	in, ok := req.(*wrapperspb.StringValue)
	if !ok {
		return ""
	}
	return notation.Normalize(in.GetValue())
}

func totalFromResponse(resp any) *int64 {
	switch out := resp.(type) {
	case *wrapperspb.Int64Value:
		if out == nil {
			return nil
		}
		total := out.GetValue()
		return &total
	case *structpb.Struct:
		raw := out.GetFields()["total"].GetStringValue()
		if raw == "" {
			return nil
		}
		total, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		return &total
	default:
		return nil
	}
}

func errorReason(st *status.Status) string {
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}

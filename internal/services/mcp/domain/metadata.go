package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/dicenotation/internal/platform/id"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ToolCallMetadata carries the correlation identifier for a tool call.
type ToolCallMetadata struct {
	RequestID string
}

// NewOutgoingContext attaches a fresh request ID to ctx.
func NewOutgoingContext(ctx context.Context) (context.Context, ToolCallMetadata, error) {
	requestID, err := id.NewID()
	if err != nil {
		return nil, ToolCallMetadata{}, fmt.Errorf("generate request id: %w", err)
	}
	callCtx := metadata.AppendToOutgoingContext(ctx, notationgrpc.RequestIDHeader, requestID)
	return callCtx, ToolCallMetadata{RequestID: requestID}, nil
}

// MergeResponseMetadata prefers the request ID the server echoed back.
func MergeResponseMetadata(sent ToolCallMetadata, header metadata.MD) ToolCallMetadata {
	for _, value := range header.Get(notationgrpc.RequestIDHeader) {
		if value != "" {
			return ToolCallMetadata{RequestID: value}
		}
	}
	return sent
}

// CallToolResultWithMetadata builds a tool result with correlation metadata.
func CallToolResultWithMetadata(meta ToolCallMetadata) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Meta: map[string]any{
			notationgrpc.RequestIDHeader: meta.RequestID,
		},
	}
}

// toolError turns a gRPC failure into a tool error, preferring the
// server's localized message.
func toolError(action string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w", action, err)
	}
	for _, detail := range st.Details() {
		if localized, ok := detail.(*errdetails.LocalizedMessage); ok && localized.GetMessage() != "" {
			return errors.New(localized.GetMessage())
		}
	}
	return fmt.Errorf("%s: %s", action, st.Message())
}

package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/dicenotation/internal/platform/timeouts"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RollNotationInput represents the MCP tool input for rolling an expression.
type RollNotationInput struct {
	Expression string `json:"expression" jsonschema:"dice expression such as 2d6+3 or d20*2-1"`
	Explain    bool   `json:"explain,omitempty" jsonschema:"include every individual die result"`
}

// RollNotationDice represents the results for one dice term.
type RollNotationDice struct {
	Sides   int   `json:"sides" jsonschema:"number of sides for the die"`
	Results []int `json:"results" jsonschema:"individual roll results"`
	Total   int   `json:"total" jsonschema:"sum of the roll results"`
}

// RollNotationResult represents the MCP tool output for rolling an expression.
type RollNotationResult struct {
	Expression string             `json:"expression" jsonschema:"normalized expression"`
	Total      int64              `json:"total" jsonschema:"value of the expression"`
	Dice       []RollNotationDice `json:"dice,omitempty" jsonschema:"per-term dice results when explain is set"`
}

// ParseNotationInput represents the MCP tool input for parsing an expression.
type ParseNotationInput struct {
	Expression string `json:"expression" jsonschema:"dice expression to parse"`
}

// ParseNotationResult represents the MCP tool output for parsing an expression.
type ParseNotationResult struct {
	Expression string `json:"expression" jsonschema:"expression as sent"`
	Tree       string `json:"tree" jsonschema:"fully parenthesized evaluation order"`
}

// RollHistoryInput represents the MCP tool input for reading the roll log.
type RollHistoryInput struct {
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries, newest first"`
	PageToken string `json:"page_token,omitempty" jsonschema:"next_page_token from a previous call"`
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter over event_name, severity, method, expression, code, trace_id, total and ts, e.g. severity = \"WARN\""`
}

// RollHistoryEntry represents one roll log entry.
type RollHistoryEntry struct {
	Timestamp  string `json:"timestamp" jsonschema:"RFC 3339 time of the call"`
	Event      string `json:"event" jsonschema:"event name"`
	Expression string `json:"expression" jsonschema:"normalized expression"`
	Total      *int64 `json:"total,omitempty" jsonschema:"value when the expression was evaluated"`
	Code       string `json:"code" jsonschema:"gRPC status code"`
}

// RollHistoryResult represents the MCP tool output for reading the roll log.
type RollHistoryResult struct {
	Entries       []RollHistoryEntry `json:"entries" jsonschema:"roll log entries"`
	NextPageToken string             `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
}

// RollNotationTool defines the MCP tool schema for rolling an expression.
func RollNotationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_notation",
		Description: "Rolls a dice notation expression (NdS terms, integers, + - *) and returns the total",
	}
}

// ParseNotationTool defines the MCP tool schema for parsing an expression.
func ParseNotationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "parse_notation",
		Description: "Checks a dice notation expression and shows its evaluation order without rolling",
	}
}

// RollHistoryTool defines the MCP tool schema for reading the roll log.
func RollHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_history",
		Description: "Lists the most recent expressions handled by the notation server",
	}
}

// RollNotationHandler executes a roll.
func RollNotationHandler(client notationgrpc.NotationServiceClient) mcp.ToolHandlerFor[RollNotationInput, RollNotationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollNotationInput) (*mcp.CallToolResult, RollNotationResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx)
		if err != nil {
			return nil, RollNotationResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		request := wrapperspb.String(input.Expression)
		if !input.Explain {
			response, err := client.Roll(callCtx, request, grpc.Header(&header))
			if err != nil {
				return nil, RollNotationResult{}, toolError("roll notation", err)
			}
			result := RollNotationResult{
				Expression: input.Expression,
				Total:      response.GetValue(),
			}
			return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
		}

		response, err := client.Explain(callCtx, request, grpc.Header(&header))
		if err != nil {
			return nil, RollNotationResult{}, toolError("explain notation", err)
		}
		outcome, err := notationgrpc.DecodeOutcome(response)
		if err != nil {
			return nil, RollNotationResult{}, fmt.Errorf("decode explain response: %w", err)
		}
		result := RollNotationResult{
			Expression: outcome.Expression,
			Total:      int64(outcome.Total),
			Dice:       make([]RollNotationDice, 0, len(outcome.Rolls)),
		}
		for _, roll := range outcome.Rolls {
			result.Dice = append(result.Dice, RollNotationDice{
				Sides:   roll.Sides,
				Results: roll.Results,
				Total:   roll.Total,
			})
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

// ParseNotationHandler executes a parse.
func ParseNotationHandler(client notationgrpc.NotationServiceClient) mcp.ToolHandlerFor[ParseNotationInput, ParseNotationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ParseNotationInput) (*mcp.CallToolResult, ParseNotationResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx)
		if err != nil {
			return nil, ParseNotationResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		response, err := client.Parse(callCtx, wrapperspb.String(input.Expression), grpc.Header(&header))
		if err != nil {
			return nil, ParseNotationResult{}, toolError("parse notation", err)
		}
		result := ParseNotationResult{
			Expression: input.Expression,
			Tree:       response.GetValue(),
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

// RollHistoryHandler reads the roll log.
func RollHistoryHandler(client notationgrpc.NotationServiceClient) mcp.ToolHandlerFor[RollHistoryInput, RollHistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollHistoryInput) (*mcp.CallToolResult, RollHistoryResult, error) {
		if input.Limit < 0 {
			return nil, RollHistoryResult{}, fmt.Errorf("limit must not be negative")
		}
		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx)
		if err != nil {
			return nil, RollHistoryResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		response, err := client.History(callCtx, notationgrpc.EncodeHistoryRequest(notationgrpc.HistoryRequest{
			PageSize:  int32(min(input.Limit, 1<<15)),
			PageToken: input.PageToken,
			Filter:    input.Filter,
		}), grpc.Header(&header))
		if err != nil {
			return nil, RollHistoryResult{}, toolError("roll history", err)
		}
		page, err := notationgrpc.DecodeHistory(response)
		if err != nil {
			return nil, RollHistoryResult{}, fmt.Errorf("decode history response: %w", err)
		}
		result := RollHistoryResult{
			Entries:       make([]RollHistoryEntry, 0, len(page.Events)),
			NextPageToken: page.NextPageToken,
		}
		for _, evt := range page.Events {
			result.Entries = append(result.Entries, RollHistoryEntry{
				Timestamp:  evt.Timestamp.Format(time.RFC3339Nano),
				Event:      evt.EventName,
				Expression: evt.Expression,
				Total:      evt.Total,
				Code:       evt.Code,
			})
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

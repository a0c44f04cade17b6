package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/dicenotation/internal/core/dice"
	"github.com/louisbranch/dicenotation/internal/core/notation"
	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"github.com/louisbranch/dicenotation/internal/services/notation/storage"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type fakeNotationClient struct {
	rollResp    *wrapperspb.Int64Value
	parseResp   *wrapperspb.StringValue
	explainResp *structpb.Struct
	historyResp *structpb.Struct
	err         error

	lastExpression string
	lastHistory    notationgrpc.HistoryRequest
	lastRequestID  string
}

func (f *fakeNotationClient) record(ctx context.Context) {
	md, _ := metadata.FromOutgoingContext(ctx)
	if values := md.Get(notationgrpc.RequestIDHeader); len(values) > 0 {
		f.lastRequestID = values[0]
	}
}

func (f *fakeNotationClient) Roll(ctx context.Context, in *wrapperspb.StringValue, _ ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	f.record(ctx)
	f.lastExpression = in.GetValue()
	return f.rollResp, f.err
}

func (f *fakeNotationClient) Parse(ctx context.Context, in *wrapperspb.StringValue, _ ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	f.record(ctx)
	f.lastExpression = in.GetValue()
	return f.parseResp, f.err
}

func (f *fakeNotationClient) Explain(ctx context.Context, in *wrapperspb.StringValue, _ ...grpc.CallOption) (*structpb.Struct, error) {
	f.record(ctx)
	f.lastExpression = in.GetValue()
	return f.explainResp, f.err
}

func (f *fakeNotationClient) History(ctx context.Context, in *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	f.record(ctx)
	req, err := notationgrpc.DecodeHistoryRequest(in)
	if err != nil {
		return nil, err
	}
	f.lastHistory = req
	return f.historyResp, f.err
}

func TestRollNotationHandler(t *testing.T) {
	t.Run("total", func(t *testing.T) {
		client := &fakeNotationClient{rollResp: wrapperspb.Int64(11)}
		handler := RollNotationHandler(client)
		toolResult, result, err := handler(context.Background(), nil, RollNotationInput{Expression: "2d6+1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolResult == nil {
			t.Fatal("expected non-nil tool result")
		}
		if result.Total != 11 || result.Expression != "2d6+1" {
			t.Errorf("unexpected result %+v", result)
		}
		if len(result.Dice) != 0 {
			t.Errorf("expected no dice without explain, got %d", len(result.Dice))
		}
		if client.lastExpression != "2d6+1" {
			t.Errorf("expected expression forwarded verbatim, got %q", client.lastExpression)
		}
		if client.lastRequestID == "" {
			t.Error("expected request id metadata")
		}
		if toolResult.Meta[notationgrpc.RequestIDHeader] != client.lastRequestID {
			t.Errorf("expected tool meta to carry request id %q, got %v", client.lastRequestID, toolResult.Meta)
		}
	})

	t.Run("explain", func(t *testing.T) {
		explained, err := notationgrpc.EncodeOutcome(notation.Outcome{
			Expression: "2d6+1",
			Total:      8,
			Rolls:      []dice.Roll{{Sides: 6, Results: []int{3, 4}, Total: 7}},
		})
		if err != nil {
			t.Fatalf("encode outcome: %v", err)
		}
		client := &fakeNotationClient{explainResp: explained}
		handler := RollNotationHandler(client)
		_, result, err := handler(context.Background(), nil, RollNotationInput{Expression: "2D6 + 1", Explain: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 8 || result.Expression != "2d6+1" {
			t.Errorf("unexpected result %+v", result)
		}
		if len(result.Dice) != 1 || result.Dice[0].Sides != 6 || result.Dice[0].Total != 7 {
			t.Errorf("unexpected dice %+v", result.Dice)
		}
	})

	t.Run("localized server error", func(t *testing.T) {
		rejected := apperrors.HandleError(apperrors.Wrap(apperrors.CodeNotationInvalid, errors.New("tokenize"), map[string]string{"Expression": "3x"}), "")
		client := &fakeNotationClient{err: rejected}
		handler := RollNotationHandler(client)
		_, _, err := handler(context.Background(), nil, RollNotationInput{Expression: "3x"})
		if err == nil {
			t.Fatal("expected error")
		}
		if err.Error() != "3x is not valid dice notation." {
			t.Errorf("expected localized message, got %q", err.Error())
		}
	})

	t.Run("transport error", func(t *testing.T) {
		client := &fakeNotationClient{err: fmt.Errorf("connection refused")}
		handler := RollNotationHandler(client)
		_, _, err := handler(context.Background(), nil, RollNotationInput{Expression: "1d6"})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseNotationHandler(t *testing.T) {
	client := &fakeNotationClient{parseResp: wrapperspb.String("((2*3)+4)")}
	handler := ParseNotationHandler(client)
	_, result, err := handler(context.Background(), nil, ParseNotationInput{Expression: "2*3+4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tree != "((2*3)+4)" {
		t.Errorf("expected tree ((2*3)+4), got %q", result.Tree)
	}
}

func TestRollHistoryHandler(t *testing.T) {
	t.Run("entries", func(t *testing.T) {
		total := int64(5)
		history, err := notationgrpc.EncodeHistory(notationgrpc.HistoryPage{
			Events: []storage.RollEvent{{
				ID:         1,
				Timestamp:  time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
				EventName:  "notation.rolled",
				Expression: "1d6",
				Total:      &total,
				Code:       "OK",
			}},
			NextPageToken: "next",
		})
		if err != nil {
			t.Fatalf("encode history: %v", err)
		}
		client := &fakeNotationClient{historyResp: history}
		handler := RollHistoryHandler(client)
		_, result, err := handler(context.Background(), nil, RollHistoryInput{
			Limit:     3,
			PageToken: "prev",
			Filter:    `code = "OK"`,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := notationgrpc.HistoryRequest{PageSize: 3, PageToken: "prev", Filter: `code = "OK"`}
		if client.lastHistory != want {
			t.Errorf("history request = %+v, want %+v", client.lastHistory, want)
		}
		if result.NextPageToken != "next" {
			t.Errorf("expected next page token, got %q", result.NextPageToken)
		}
		if len(result.Entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(result.Entries))
		}
		entry := result.Entries[0]
		if entry.Timestamp != "2026-03-04T05:06:07Z" || entry.Total == nil || *entry.Total != 5 {
			t.Errorf("unexpected entry %+v", entry)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		handler := RollHistoryHandler(&fakeNotationClient{})
		if _, _, err := handler(context.Background(), nil, RollHistoryInput{Limit: -1}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestMergeResponseMetadata(t *testing.T) {
	sent := ToolCallMetadata{RequestID: "sent"}
	if got := MergeResponseMetadata(sent, nil); got.RequestID != "sent" {
		t.Fatalf("expected sent id, got %q", got.RequestID)
	}
	header := metadata.Pairs(notationgrpc.RequestIDHeader, "echoed")
	if got := MergeResponseMetadata(sent, header); got.RequestID != "echoed" {
		t.Fatalf("expected echoed id, got %q", got.RequestID)
	}
}

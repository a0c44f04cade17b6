package grpc

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/louisbranch/dicenotation/internal/core/dice"
	"github.com/louisbranch/dicenotation/internal/core/notation"
	"github.com/louisbranch/dicenotation/internal/services/notation/storage"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeOutcome converts an explained roll into its wire form.
func EncodeOutcome(outcome notation.Outcome) (*structpb.Struct, error) {
	rolls := make([]any, 0, len(outcome.Rolls))
	for _, roll := range outcome.Rolls {
		results := make([]any, 0, len(roll.Results))
		for _, result := range roll.Results {
			results = append(results, result)
		}
		rolls = append(rolls, map[string]any{
			"sides":   roll.Sides,
			"results": results,
			"total":   roll.Total,
		})
	}
	return structpb.NewStruct(map[string]any{
		"expression": outcome.Expression,
		"total":      strconv.Itoa(outcome.Total),
		"rolls":      rolls,
	})
}

// DecodeOutcome reads an explained roll from its wire form.
func DecodeOutcome(msg *structpb.Struct) (notation.Outcome, error) {
	fields := msg.GetFields()
	total, err := strconv.Atoi(fields["total"].GetStringValue())
	if err != nil {
		return notation.Outcome{}, fmt.Errorf("decode total: %w", err)
	}
	outcome := notation.Outcome{
		Expression: fields["expression"].GetStringValue(),
		Total:      total,
	}
	for i, value := range fields["rolls"].GetListValue().GetValues() {
		entry := value.GetStructValue()
		if entry == nil {
			return notation.Outcome{}, fmt.Errorf("decode roll %d: not an object", i)
		}
		rollFields := entry.GetFields()
		roll := dice.Roll{
			Sides: int(rollFields["sides"].GetNumberValue()),
			Total: int(rollFields["total"].GetNumberValue()),
		}
		for _, result := range rollFields["results"].GetListValue().GetValues() {
			roll.Results = append(roll.Results, int(result.GetNumberValue()))
		}
		outcome.Rolls = append(outcome.Rolls, roll)
	}
	return outcome, nil
}

// HistoryRequest selects one page of the roll log.
type HistoryRequest struct {
	PageSize  int32
	PageToken string
	Filter    string
}

// HistoryPage is one page of roll log entries, newest first.
type HistoryPage struct {
	Events        []storage.RollEvent
	NextPageToken string
}

// EncodeHistoryRequest converts a history request into its wire form.
func EncodeHistoryRequest(req HistoryRequest) *structpb.Struct {
	fields := map[string]*structpb.Value{}
	if req.PageSize != 0 {
		fields["page_size"] = structpb.NewNumberValue(float64(req.PageSize))
	}
	if req.PageToken != "" {
		fields["page_token"] = structpb.NewStringValue(req.PageToken)
	}
	if req.Filter != "" {
		fields["filter"] = structpb.NewStringValue(req.Filter)
	}
	return &structpb.Struct{Fields: fields}
}

// DecodeHistoryRequest reads a history request from its wire form. A nil
// message is the zero request.
func DecodeHistoryRequest(msg *structpb.Struct) (HistoryRequest, error) {
	fields := msg.GetFields()
	var req HistoryRequest
	if raw, ok := fields["page_size"]; ok {
		size := raw.GetNumberValue()
		if size != math.Trunc(size) || size < math.MinInt32 || size > math.MaxInt32 {
			return HistoryRequest{}, fmt.Errorf("page_size must be a 32-bit integer")
		}
		req.PageSize = int32(size)
	}
	req.PageToken = fields["page_token"].GetStringValue()
	req.Filter = fields["filter"].GetStringValue()
	return req, nil
}

// EncodeHistory converts a page of roll log entries into its wire form.
func EncodeHistory(page HistoryPage) (*structpb.Struct, error) {
	items := make([]any, 0, len(page.Events))
	for _, evt := range page.Events {
		item := map[string]any{
			"id":         strconv.FormatInt(evt.ID, 10),
			"timestamp":  evt.Timestamp.UTC().Format(time.RFC3339Nano),
			"event_name": evt.EventName,
			"severity":   evt.Severity,
			"method":     evt.Method,
			"expression": evt.Expression,
			"code":       evt.Code,
		}
		if evt.Total != nil {
			item["total"] = strconv.FormatInt(*evt.Total, 10)
		}
		if evt.TraceID != "" {
			item["trace_id"] = evt.TraceID
		}
		items = append(items, item)
	}
	out := map[string]any{"events": items}
	if page.NextPageToken != "" {
		out["next_page_token"] = page.NextPageToken
	}
	return structpb.NewStruct(out)
}

// DecodeHistory reads a page of roll log entries from its wire form.
func DecodeHistory(msg *structpb.Struct) (HistoryPage, error) {
	values := msg.GetFields()["events"].GetListValue().GetValues()
	evts := make([]storage.RollEvent, 0, len(values))
	for i, value := range values {
		fields := value.GetStructValue().GetFields()
		if fields == nil {
			return HistoryPage{}, fmt.Errorf("decode event %d: not an object", i)
		}
		id, err := strconv.ParseInt(fields["id"].GetStringValue(), 10, 64)
		if err != nil {
			return HistoryPage{}, fmt.Errorf("decode event %d id: %w", i, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, fields["timestamp"].GetStringValue())
		if err != nil {
			return HistoryPage{}, fmt.Errorf("decode event %d timestamp: %w", i, err)
		}
		evt := storage.RollEvent{
			ID:         id,
			Timestamp:  ts,
			EventName:  fields["event_name"].GetStringValue(),
			Severity:   fields["severity"].GetStringValue(),
			Method:     fields["method"].GetStringValue(),
			Expression: fields["expression"].GetStringValue(),
			Code:       fields["code"].GetStringValue(),
			TraceID:    fields["trace_id"].GetStringValue(),
		}
		if raw, ok := fields["total"]; ok {
			total, err := strconv.ParseInt(raw.GetStringValue(), 10, 64)
			if err != nil {
				return HistoryPage{}, fmt.Errorf("decode event %d total: %w", i, err)
			}
			evt.Total = &total
		}
		evts = append(evts, evt)
	}
	return HistoryPage{
		Events:        evts,
		NextPageToken: msg.GetFields()["next_page_token"].GetStringValue(),
	}, nil
}

package grpc

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/louisbranch/dicenotation/internal/core/notation"
	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
	"github.com/louisbranch/dicenotation/internal/platform/grpc/pagination"
	"github.com/louisbranch/dicenotation/internal/platform/otel"
	"github.com/louisbranch/dicenotation/internal/services/notation/storage"
	"github.com/louisbranch/dicenotation/internal/services/notation/storage/filter"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// LocaleHeader selects the language of user-facing error messages.
	LocaleHeader = "x-dicenotation-locale"
	// RequestIDHeader correlates a call with its roll log entry.
	RequestIDHeader = "x-dicenotation-request-id"
)

var historyPageSize = pagination.PageSizeConfig{Default: 20, Max: 200}

// Service implements the notation gRPC service over a notation engine.
type Service struct {
	engine  *notation.Engine
	history storage.RollEventStore
}

var _ NotationServiceServer = (*Service)(nil)

// NewService creates a notation service. history may be nil, in which case
// History returns an empty list.
func NewService(engine *notation.Engine, history storage.RollEventStore) *Service {
	return &Service{engine: engine, history: history}
}

// Roll evaluates an expression once.
func (s *Service) Roll(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	ctx, span := otel.Tracer().Start(ctx, "notation.Roll")
	defer span.End()

	compiled, err := s.parse(ctx, span, in.GetValue())
	if err != nil {
		return nil, err
	}
	total := compiled.Eval()
	span.SetAttributes(attribute.Int("notation.total", total))
	return wrapperspb.Int64(int64(total)), nil
}

// Parse compiles an expression and returns its grouped tree.
func (s *Service) Parse(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	ctx, span := otel.Tracer().Start(ctx, "notation.Parse")
	defer span.End()

	compiled, err := s.parse(ctx, span, in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(compiled.String()), nil
}

// Explain evaluates an expression once and returns every die result.
func (s *Service) Explain(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	ctx, span := otel.Tracer().Start(ctx, "notation.Explain")
	defer span.End()

	compiled, err := s.parse(ctx, span, in.GetValue())
	if err != nil {
		return nil, err
	}
	outcome := compiled.Explain()
	span.SetAttributes(
		attribute.Int("notation.total", outcome.Total),
		attribute.Int("notation.dice_terms", len(outcome.Rolls)),
	)
	resp, err := EncodeOutcome(outcome)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "encode outcome")
		return nil, status.Errorf(codes.Internal, "encode outcome: %v", err)
	}
	return resp, nil
}

// History lists roll log entries newest first, one page at a time.
func (s *Service) History(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx, span := otel.Tracer().Start(ctx, "notation.History")
	defer span.End()

	req, err := DecodeHistoryRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.PageSize < 0 {
		return nil, status.Error(codes.InvalidArgument, "page_size must not be negative")
	}
	limit := pagination.ClampPageSize(req.PageSize, historyPageSize)
	cond, err := filter.Parse(req.Filter)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	checksum := pagination.QueryChecksum(strings.TrimSpace(req.Filter))
	cursor, err := pagination.DecodeCursor(req.PageToken, checksum)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	span.SetAttributes(attribute.Int("notation.page_size", limit))

	var page HistoryPage
	if s.history != nil {
		evts, err := s.history.ListRollEvents(ctx, storage.RollEventQuery{
			Limit:    limit + 1,
			BeforeID: cursor.BeforeID,
			Filter:   cond,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, "list roll events")
			return nil, status.Errorf(codes.Internal, "list roll events: %v", err)
		}
		if len(evts) > limit {
			evts = evts[:limit]
			page.NextPageToken = pagination.EncodeCursor(pagination.Cursor{
				BeforeID: evts[limit-1].ID,
				Checksum: checksum,
			})
		}
		page.Events = evts
	}
	resp, err := EncodeHistory(page)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode history: %v", err)
	}
	return resp, nil
}

func (s *Service) parse(ctx context.Context, span trace.Span, expr string) (*notation.Expression, error) {
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "notation engine is not configured")
	}
	span.SetAttributes(attribute.String("notation.expression", notation.Normalize(expr)))
	compiled, err := s.engine.Parse(expr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "parse expression")
		return nil, apperrors.HandleError(notationError(expr, err), localeFromContext(ctx))
	}
	return compiled, nil
}

// notationError classifies an engine failure into a domain error.
func notationError(expr string, err error) error {
	key := notation.Normalize(expr)
	code := apperrors.CodeNotationInvalid
	switch {
	case key == "":
		code = apperrors.CodeNotationEmpty
	case errors.Is(err, notation.ErrInvalidDice):
		code = apperrors.CodeNotationInvalidDice
	case errors.Is(err, notation.ErrOutOfRange):
		code = apperrors.CodeNotationOutOfRange
	case errors.Is(err, notation.ErrStructure):
		code = apperrors.CodeNotationMalformed
	case errors.Is(err, notation.ErrLex):
		code = apperrors.CodeNotationInvalid
	default:
		return err
	}
	meta := map[string]string{"Expression": key}
	var syntaxErr *notation.SyntaxError
	if errors.As(err, &syntaxErr) {
		meta["Position"] = strconv.Itoa(syntaxErr.Pos)
		meta["Stage"] = string(syntaxErr.Stage)
	}
	return apperrors.Wrap(code, err, meta)
}

func localeFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, value := range md.Get(LocaleHeader) {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

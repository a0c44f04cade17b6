// Package filter translates AIP-160 filter expressions over roll log fields
// into SQL conditions.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ErrInvalidFilter wraps every parse or translation failure.
var ErrInvalidFilter = errors.New("invalid filter")

// Condition is a SQL WHERE fragment with positional parameters.
type Condition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition filters nothing.
func (c Condition) Empty() bool {
	return strings.TrimSpace(c.Clause) == ""
}

type column struct {
	name      string
	timestamp bool
}

var columns = map[string]column{
	"event_name": {name: "event_name"},
	"severity":   {name: "severity"},
	"method":     {name: "method"},
	"expression": {name: "expression"},
	"code":       {name: "code"},
	"trace_id":   {name: "trace_id"},
	"total":      {name: "total"},
	"ts":         {name: "timestamp", timestamp: true},
}

// Declarations returns the identifiers a roll log filter may reference.
func Declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("event_name", filtering.TypeString),
		filtering.DeclareIdent("severity", filtering.TypeString),
		filtering.DeclareIdent("method", filtering.TypeString),
		filtering.DeclareIdent("expression", filtering.TypeString),
		filtering.DeclareIdent("code", filtering.TypeString),
		filtering.DeclareIdent("trace_id", filtering.TypeString),
		filtering.DeclareIdent("total", filtering.TypeInt),
		filtering.DeclareIdent("ts", filtering.TypeTimestamp),
	)
}

// Parse parses a filter string. A blank filter yields an empty condition.
func Parse(raw string) (Condition, error) {
	if strings.TrimSpace(raw) == "" {
		return Condition{}, nil
	}
	decls, err := Declarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(raw, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	cond, err := translate(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return Condition{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return cond, nil
}

func translate(e *expr.Expr) (Condition, error) {
	call := e.GetCallExpr()
	if call == nil {
		return Condition{}, fmt.Errorf("unsupported expression %T", e.GetExprKind())
	}
	switch call.GetFunction() {
	case "AND":
		return join(call.GetArgs(), "AND")
	case "OR":
		return join(call.GetArgs(), "OR")
	case "NOT":
		if len(call.GetArgs()) != 1 {
			return Condition{}, errors.New("NOT takes one argument")
		}
		inner, err := translate(call.GetArgs()[0])
		if err != nil {
			return Condition{}, err
		}
		return Condition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	case "=":
		return compare(call.GetArgs(), "=")
	case "!=":
		return compare(call.GetArgs(), "!=")
	case "<":
		return compare(call.GetArgs(), "<")
	case "<=":
		return compare(call.GetArgs(), "<=")
	case ">":
		return compare(call.GetArgs(), ">")
	case ">=":
		return compare(call.GetArgs(), ">=")
	default:
		return Condition{}, fmt.Errorf("unsupported function %s", call.GetFunction())
	}
}

func join(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s takes two arguments", op)
	}
	left, err := translate(args[0])
	if err != nil {
		return Condition{}, err
	}
	right, err := translate(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func compare(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, errors.New("comparison takes two arguments")
	}
	ident := args[0].GetIdentExpr()
	if ident == nil {
		return Condition{}, errors.New("left side of a comparison must be a field")
	}
	col, ok := columns[ident.GetName()]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field %s", ident.GetName())
	}
	value, err := literal(args[1], col.timestamp)
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("%s %s ?", col.name, op),
		Params: []any{value},
	}, nil
}

func literal(e *expr.Expr, timestamp bool) (any, error) {
	if timestamp {
		call := e.GetCallExpr()
		if call == nil || call.GetFunction() != "timestamp" || len(call.GetArgs()) != 1 {
			return nil, errors.New("ts must be compared with timestamp(\"...\")")
		}
		raw := call.GetArgs()[0].GetConstExpr().GetStringValue()
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q", raw)
		}
		// roll_events.timestamp stores unix millis.
		return ts.UTC().UnixMilli(), nil
	}
	c := e.GetConstExpr()
	if c == nil {
		return nil, errors.New("right side of a comparison must be a literal")
	}
	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	default:
		return nil, fmt.Errorf("unsupported literal %T", kind)
	}
}

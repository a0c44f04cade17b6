// Package storage defines persistence contracts for the notation service.
package storage

import (
	"context"
	"time"

	"github.com/louisbranch/dicenotation/internal/services/notation/storage/filter"
)

// RollEvent records one request handled by the notation service.
type RollEvent struct {
	ID         int64
	Timestamp  time.Time
	EventName  string
	Severity   string
	Method     string
	Expression string
	// Total is set only for requests that evaluated the expression.
	Total      *int64
	Code       string
	TraceID    string
	SpanID     string
	Attributes map[string]any
}

// RollEventQuery selects a page of the roll log.
type RollEventQuery struct {
	Limit int
	// BeforeID restricts the page to events older than this id when positive.
	BeforeID int64
	Filter   filter.Condition
}

// RollEventStore persists the roll log.
type RollEventStore interface {
	AppendRollEvent(ctx context.Context, evt RollEvent) error
	// ListRollEvents returns matching events newest first.
	ListRollEvents(ctx context.Context, query RollEventQuery) ([]RollEvent, error)
}

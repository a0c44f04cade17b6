package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/dicenotation/internal/services/notation/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records roll events.
type Emitter struct {
	store storage.RollEventStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.RollEventStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a roll event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.RollEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	if evt.Severity == "" {
		evt.Severity = string(SeverityInfo)
	}
	return e.store.AppendRollEvent(ctx, evt)
}

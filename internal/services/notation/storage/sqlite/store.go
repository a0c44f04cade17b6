// Package sqlite provides a SQLite-backed roll log.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/dicenotation/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/dicenotation/internal/services/notation/storage"
	"github.com/louisbranch/dicenotation/internal/services/notation/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

// Store persists roll events in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.RollEventStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite roll log and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendRollEvent inserts one roll event.
func (s *Store) AppendRollEvent(ctx context.Context, evt storage.RollEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	eventName := strings.TrimSpace(evt.EventName)
	if eventName == "" {
		return fmt.Errorf("event name is required")
	}
	severity := strings.TrimSpace(evt.Severity)
	if severity == "" {
		return fmt.Errorf("severity is required")
	}
	timestamp := evt.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	attributes := evt.Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}
	attributesJSON, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}

	var total sql.NullInt64
	if evt.Total != nil {
		total = sql.NullInt64{Int64: *evt.Total, Valid: true}
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO roll_events (
		   timestamp,
		   event_name,
		   severity,
		   method,
		   expression,
		   total,
		   code,
		   trace_id,
		   span_id,
		   attributes_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toMillis(timestamp),
		eventName,
		severity,
		strings.TrimSpace(evt.Method),
		evt.Expression,
		total,
		strings.TrimSpace(evt.Code),
		strings.TrimSpace(evt.TraceID),
		strings.TrimSpace(evt.SpanID),
		string(attributesJSON),
	)
	if err != nil {
		return fmt.Errorf("insert roll event: %w", err)
	}
	return nil
}

// ListRollEvents returns up to query.Limit matching events, newest first.
// A non-positive limit uses the default page size.
func (s *Store) ListRollEvents(ctx context.Context, query storage.RollEventQuery) ([]storage.RollEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		where []string
		args  []any
	)
	if query.BeforeID > 0 {
		where = append(where, "id < ?")
		args = append(args, query.BeforeID)
	}
	if !query.Filter.Empty() {
		where = append(where, query.Filter.Clause)
		args = append(args, query.Filter.Params...)
	}
	stmt := `SELECT id, timestamp, event_name, severity, method, expression, total, code, trace_id, span_id, attributes_json
		 FROM roll_events`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.sqlDB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list roll events: %w", err)
	}
	defer rows.Close()

	events := make([]storage.RollEvent, 0, limit)
	for rows.Next() {
		var (
			evt            storage.RollEvent
			timestamp      int64
			total          sql.NullInt64
			attributesJSON string
		)
		if err := rows.Scan(
			&evt.ID,
			&timestamp,
			&evt.EventName,
			&evt.Severity,
			&evt.Method,
			&evt.Expression,
			&total,
			&evt.Code,
			&evt.TraceID,
			&evt.SpanID,
			&attributesJSON,
		); err != nil {
			return nil, fmt.Errorf("scan roll event: %w", err)
		}
		evt.Timestamp = fromMillis(timestamp)
		if total.Valid {
			value := total.Int64
			evt.Total = &value
		}
		if attributesJSON != "" {
			if err := json.Unmarshal([]byte(attributesJSON), &evt.Attributes); err != nil {
				return nil, fmt.Errorf("decode attributes for event %d: %w", evt.ID, err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roll events: %w", err)
	}
	return events, nil
}

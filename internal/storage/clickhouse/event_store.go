package clickhouse

import (
	"context"
	"fmt"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// EventStore implements storage.EventStore using ClickHouse.
//
// The protocol event archive is append-only, which maps directly onto
// MergeTree inserts. No duplicate detection is attempted.
type EventStore struct {
	conn *Conn
}

// NewEventStore creates a new EventStore.
func NewEventStore(conn *Conn) *EventStore {
	return &EventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// InsertBulk appends events to the archive.
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.ProtocolEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO protocol_events (
			event_type, subject, payload, emitted_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		err = batch.Append(e.EventType, e.Subject, e.Payload, e.EmittedAt)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByType retrieves all events of a type, ordered by emitted_at ASC.
func (s *EventStore) GetByType(ctx context.Context, eventType string) ([]*domain.ProtocolEvent, error) {
	query := `
		SELECT event_type, subject, payload, emitted_at
		FROM protocol_events
		WHERE event_type = ?
		ORDER BY emitted_at ASC
	`

	rows, err := s.conn.Query(ctx, query, eventType)
	if err != nil {
		return nil, fmt.Errorf("query by event type: %w", err)
	}
	defer rows.Close()

	return scanProtocolEvents(rows)
}

// GetByTimeRange retrieves events emitted within [start, end] (inclusive),
// ordered by emitted_at ASC.
func (s *EventStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.ProtocolEvent, error) {
	query := `
		SELECT event_type, subject, payload, emitted_at
		FROM protocol_events
		WHERE emitted_at >= ? AND emitted_at <= ?
		ORDER BY emitted_at ASC, event_type ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanProtocolEvents(rows)
}

// chRows is the row interface shared by scan helpers.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanProtocolEvents scans multiple rows into a slice.
func scanProtocolEvents(rows chRows) ([]*domain.ProtocolEvent, error) {
	var events []*domain.ProtocolEvent

	for rows.Next() {
		var e domain.ProtocolEvent
		err := rows.Scan(&e.EventType, &e.Subject, &e.Payload, &e.EmittedAt)
		if err != nil {
			return nil, fmt.Errorf("scan protocol event row: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate protocol event rows: %w", err)
	}

	return events, nil
}

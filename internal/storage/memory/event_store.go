package memory

import (
	"context"
	"sort"
	"sync"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu   sync.RWMutex
	data []*domain.ProtocolEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// InsertBulk appends events. The archive is append-only.
func (s *EventStore) InsertBulk(_ context.Context, events []*domain.ProtocolEvent) error {
	for _, e := range events {
		if e == nil || e.EventType == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		eventCopy := *e
		s.data = append(s.data, &eventCopy)
	}
	return nil
}

// GetByType retrieves all events of a type, ordered by emitted_at ASC.
func (s *EventStore) GetByType(_ context.Context, eventType string) ([]*domain.ProtocolEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ProtocolEvent
	for _, e := range s.data {
		if e.EventType == eventType {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sortEvents(result)
	return result, nil
}

// GetByTimeRange retrieves events emitted within [start, end] (inclusive).
func (s *EventStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.ProtocolEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ProtocolEvent
	for _, e := range s.data {
		if e.EmittedAt >= start && e.EmittedAt <= end {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sortEvents(result)
	return result, nil
}

func sortEvents(events []*domain.ProtocolEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EmittedAt < events[j].EmittedAt
	})
}

// Verify interface compliance at compile time.
var _ storage.EventStore = (*EventStore)(nil)

package event

import (
	"context"
	"encoding/json"
	"fmt"

	"diamondpad/internal/domain"
	"diamondpad/internal/storage"
)

// Archiver appends every event to the append-only event archive.
type Archiver struct {
	store storage.EventStore
}

// NewArchiver creates an Archiver on top of an EventStore.
func NewArchiver(store storage.EventStore) *Archiver {
	return &Archiver{store: store}
}

var _ Notifier = (*Archiver)(nil)

func (a *Archiver) Notify(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	rec := &domain.ProtocolEvent{
		EventType: e.Type,
		Subject:   e.Subject,
		Payload:   string(payload),
		EmittedAt: e.EmittedAt,
	}

	if err := a.store.InsertBulk(ctx, []*domain.ProtocolEvent{rec}); err != nil {
		return fmt.Errorf("archive event: %w", err)
	}
	return nil
}
